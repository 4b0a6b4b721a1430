// Package touch implements the primitive-touch adaptor (§4.8): it stitches
// short-lived local session ids that likely refer to one physical touch
// back into a single stable mapped id, bridging brief contact-tracking
// gaps a sensor's own pipeline introduces.
package touch

import (
	"errors"

	"github.com/banshee-data/velocity.report/internal/tuio/bundle"
	"github.com/banshee-data/velocity.report/internal/tuio/model"
	"github.com/banshee-data/velocity.report/internal/tuio/transport"
	"github.com/banshee-data/velocity.report/internal/tuio/tuiolog"
)

// ErrNoEnvelope is the non-fatal warning returned when a bundle has no
// frame: the adaptor forwards it unchanged.
var ErrNoEnvelope = errors.New("touch: bundle has no frame envelope")

type sourceKey struct {
	ip       string
	instance model.InstanceID
	app      string
}

// source tracks one emitter's local->mapped map and the local ids it most
// recently reported alive.
type source struct {
	localToMapped map[model.SessionID]model.SessionID
	aliveLocal    map[model.SessionID]struct{}
}

func newSource() *source {
	return &source{
		localToMapped: make(map[model.SessionID]model.SessionID),
		aliveLocal:    make(map[model.SessionID]struct{}),
	}
}

// pooled is a recently-dropped mapped entry waiting to be reclaimed by a
// nearby, temporally-close new local id (§4.8 avail_to_join).
type pooled struct {
	mapped       model.SessionID
	lastPos      model.Point3D
	since        model.Timetag
	waitingSince model.Timetag
}

// Adaptor is a Listener/Broadcaster pipeline stage implementing §4.8.
type Adaptor struct {
	transport.Broadcaster

	joinThreshold2 float64
	deltaTime      float64 // seconds

	sources map[sourceKey]*source
	lastPos map[model.SessionID]model.Point3D
	nextID  model.SessionID
	avail   []pooled
}

// New constructs an adaptor with the given join distance (in distance
// units, squared internally) and delta_time window (seconds).
func New(joinThreshold, deltaTime float64) *Adaptor {
	return &Adaptor{
		joinThreshold2: joinThreshold * joinThreshold,
		deltaTime:      deltaTime,
		sources:        make(map[sourceKey]*source),
		lastPos:        make(map[model.SessionID]model.Point3D),
	}
}

// OnBundle implements transport.Listener.
func (a *Adaptor) OnBundle(h *bundle.Handle) {
	out, err := a.Process(h)
	if err != nil {
		tuiolog.Ops("touch: %v", err)
	}
	a.Notify(out)
}

// Process applies the session-id stitching rewrite to h (§4.8).
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
	}

	out := bundle.NewHandle()
	var newLocalAlive map[model.SessionID]struct{}
	sawAlive := false

	for i := 0; i < h.Len(); i++ {
		switch msg := h.At(i).Clone().(type) {
		case *model.Pointer:
			mapped := a.resolve(src, msg.Session, msg.Pos, frame.Time)
			msg.Session = mapped
			a.lastPos[mapped] = msg.Pos
			out.Append(msg)
		case *model.Alive:
			sawAlive = true
			newLocalAlive = make(map[model.SessionID]struct{}, len(msg.SessionIDs))
			for _, lid := range msg.SessionIDs {
				newLocalAlive[lid] = struct{}{}
			}
		default:
			out.Append(msg)
		}
	}

	if sawAlive {
		a.retireDropped(src, newLocalAlive, frame.Time)
	}
	a.gc(frame.Time)
	if sawAlive {
		out.Append(&model.Alive{SessionIDs: a.aliveUnion()})
	}

	return out, nil
}

// resolve returns local's mapped id: a reused current mapping, a reclaimed
// pool entry within join_threshold and delta_time, or a fresh id.
func (a *Adaptor) resolve(src *source, local model.SessionID, pos model.Point3D, frameTime model.Timetag) model.SessionID {
	if mapped, ok := src.localToMapped[local]; ok {
		return mapped
	}

	for i, cand := range a.avail {
		if cand.lastPos.DistanceSquared(pos) <= a.joinThreshold2 &&
			absF64(frameTime.Sub(cand.since)) < a.deltaTime {
			a.avail = append(a.avail[:i], a.avail[i+1:]...)
			src.localToMapped[local] = cand.mapped
			return cand.mapped
		}
	}

	mapped := a.nextID
	a.nextID++
	src.localToMapped[local] = mapped
	return mapped
}

// retireDropped moves every mapped entry whose local id vanished from this
// bundle's alive delta into the pool, stamped with now, then installs next
// as src's current alive set.
func (a *Adaptor) retireDropped(src *source, next map[model.SessionID]struct{}, now model.Timetag) {
	for lid := range src.aliveLocal {
		if _, stillAlive := next[lid]; stillAlive {
			continue
		}
		mapped, ok := src.localToMapped[lid]
		if !ok {
			continue
		}
		a.avail = append(a.avail, pooled{
			mapped:       mapped,
			lastPos:      a.lastPos[mapped],
			since:        now,
			waitingSince: now,
		})
		delete(src.localToMapped, lid)
		delete(a.lastPos, mapped)
	}
	src.aliveLocal = next
}

// aliveUnion returns every mapped id still tracked by any source plus every
// id currently sitting in the pool (§4.8's outgoing alive rewrite).
func (a *Adaptor) aliveUnion() []model.SessionID {
	var out []model.SessionID
	for _, src := range a.sources {
		for _, mapped := range src.localToMapped {
			out = append(out, mapped)
		}
	}
	for _, p := range a.avail {
		out = append(out, p.mapped)
	}
	return out
}

// gc drops pool entries that have waited longer than 2*delta_time,
// performed on load completion in the terminology of §4.8; since this
// adaptor sees one bundle per Process call, it runs after every bundle.
func (a *Adaptor) gc(now model.Timetag) {
	kept := a.avail[:0]
	for _, p := range a.avail {
		if now.Sub(p.waitingSince) <= 2*a.deltaTime {
			kept = append(kept, p)
		}
	}
	a.avail = kept
}

func absF64(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
