// Package multiplex implements the multiplexing adaptor (§4.6): it merges
// several sources' session id spaces into one global id space keyed by
// (source_ip, instance_id, app_name) taken from each bundle's frame.
package multiplex

import (
	"errors"
	"sort"

	"github.com/banshee-data/velocity.report/internal/tuio/bundle"
	"github.com/banshee-data/velocity.report/internal/tuio/graph"
	"github.com/banshee-data/velocity.report/internal/tuio/model"
	"github.com/banshee-data/velocity.report/internal/tuio/transport"
	"github.com/banshee-data/velocity.report/internal/tuio/tuiolog"
)

// ErrNoEnvelope is the non-fatal warning returned when a bundle has no
// frame: the adaptor forwards it unchanged and does not advance its
// source key.
var ErrNoEnvelope = errors.New("multiplex: bundle has no frame envelope")

type sourceKey struct {
	ip       string
	instance model.InstanceID
	app      string
}

// source holds one emitter's local->global id map and the local ids it
// most recently reported alive, so a later bundle's alive delta can be
// computed and globally-mapped ids freed when the source drops them.
type source struct {
	localToGlobal map[model.SessionID]model.SessionID
	aliveLocal    map[model.SessionID]struct{}
	assocAliveLocal map[model.SessionID]struct{}
}

func newSource() *source {
	return &source{
		localToGlobal:   make(map[model.SessionID]model.SessionID),
		aliveLocal:      make(map[model.SessionID]struct{}),
		assocAliveLocal: make(map[model.SessionID]struct{}),
	}
}

// Adaptor is a Listener that also broadcasts downstream (§4.5 pipeline
// chaining): registering it as a Client's listener makes it a client to
// its own listeners.
type Adaptor struct {
	transport.Broadcaster

	sources    map[sourceKey]*source
	order      []sourceKey
	nextGlobal model.SessionID
}

// New constructs an empty multiplexing adaptor.
func New() *Adaptor {
	return &Adaptor{sources: make(map[sourceKey]*source)}
}

// OnBundle implements transport.Listener: it processes h and forwards the
// result downstream, logging (rather than surfacing) the no-envelope
// warning since Listener has no error return.
func (a *Adaptor) OnBundle(h *bundle.Handle) {
	out, err := a.Process(h)
	if err != nil {
		tuiolog.Ops("multiplex: %v", err)
	}
	a.Notify(out)
}

// Process applies the multiplexing rewrite to h and returns the rewritten
// bundle. If h has no frame, Process returns h unchanged and ErrNoEnvelope.
func (a *Adaptor) Process(h *bundle.Handle) (*bundle.Handle, error) {
	frame, ok := h.Frame()
	if !ok {
		return h, ErrNoEnvelope
	}

	key := sourceKey{ip: frame.IP.String(), instance: frame.Instance, app: frame.Source}
	src, ok := a.sources[key]
	if !ok {
		src = newSource()
		a.sources[key] = src
		a.order = append(a.order, key)
	}

	out := bundle.NewHandle()
	var newLocalAlive map[model.SessionID]struct{}
	var newLocalAssocAlive map[model.SessionID]struct{}
	sawAlive, sawAssocAlive := false, false

	for i := 0; i < h.Len(); i++ {
		m := h.At(i)
		switch msg := m.(type) {
		case *model.Alive:
			sawAlive = true
			newLocalAlive = make(map[model.SessionID]struct{}, len(msg.SessionIDs))
			for _, lid := range msg.SessionIDs {
				newLocalAlive[lid] = struct{}{}
				a.globalFor(src, lid)
			}
		case *model.AliveAssociations:
			sawAssocAlive = true
			newLocalAssocAlive = make(map[model.SessionID]struct{}, len(msg.SessionIDs))
			for _, lid := range msg.SessionIDs {
				newLocalAssocAlive[lid] = struct{}{}
				a.globalFor(src, lid)
			}
		default:
			clone := m.Clone()
			a.remap(src, clone)
			out.Append(clone)
		}
	}

	a.retireDropped(src, newLocalAlive, &src.aliveLocal)
	a.retireDropped(src, newLocalAssocAlive, &src.assocAliveLocal)

	if sawAlive {
		out.Append(&model.Alive{SessionIDs: a.unionAlive(func(s *source) map[model.SessionID]struct{} { return s.aliveLocal })})
	}
	if sawAssocAlive {
		out.Append(&model.AliveAssociations{SessionIDs: a.unionAlive(func(s *source) map[model.SessionID]struct{} { return s.assocAliveLocal })})
	}
	return out, nil
}

// globalFor returns src's global id for local id lid, allocating the next
// monotonic global id if this is the first time lid has been seen from
// src. Allocation order within one bundle is insertion order into the
// alive list, matching the spec's tie-break rule.
func (a *Adaptor) globalFor(src *source, lid model.SessionID) model.SessionID {
	if gid, ok := src.localToGlobal[lid]; ok {
		return gid
	}
	gid := a.nextGlobal
	a.nextGlobal++
	src.localToGlobal[lid] = gid
	return gid
}

// retireDropped frees the global mapping for any local id that was
// present in *cur but absent from next, once the remap for this bundle is
// complete, then installs next as the new current set (or leaves cur
// untouched if this bundle carried no corresponding alive message).
func (a *Adaptor) retireDropped(src *source, next map[model.SessionID]struct{}, cur *map[model.SessionID]struct{}) {
	if next == nil {
		return
	}
	for lid := range *cur {
		if _, stillAlive := next[lid]; !stillAlive {
			delete(src.localToGlobal, lid)
		}
	}
	*cur = next
}

// unionAlive computes the union, across all sources in insertion order, of
// each source's currently-alive local ids translated through its map.
func (a *Adaptor) unionAlive(pick func(*source) map[model.SessionID]struct{}) []model.SessionID {
	var out []model.SessionID
	for _, key := range a.order {
		src := a.sources[key]
		for lid := range pick(src) {
			if gid, ok := src.localToGlobal[lid]; ok {
				out = append(out, gid)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// remap rewrites every session id embedded in m (directly or through an
// association's graph/slot list) through src's local->global map.
func (a *Adaptor) remap(src *source, m model.Message) {
	if carrier, ok := m.(model.SessionCarrier); ok {
		carrier.SetSessionID(a.globalFor(src, carrier.SessionID()))
	}
	switch msg := m.(type) {
	case *model.ContainerAssociation:
		for i, lid := range msg.Contained {
			msg.Contained[i] = a.globalFor(src, lid)
		}
	case *model.LinkAssociation:
		a.remapGraphNodes(src, msg.Graph)
	case *model.LinkedListAssociation:
		a.remapGraphNodes(src, msg.Graph)
	case *model.LinkedTreeAssociation:
		a.remapGraphNodes(src, msg.Graph)
	}
}

func (a *Adaptor) remapGraphNodes(src *source, g *graph.Graph[model.SessionID, model.LinkPorts]) {
	for _, h := range g.Nodes() {
		v, ok := g.Node(h)
		if !ok {
			continue
		}
		g.SetNode(h, a.globalFor(src, v))
	}
}
