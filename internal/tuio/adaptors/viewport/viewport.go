// Package viewport implements the viewport projector (§4.9): it clips and
// remaps every positional helper passing through into a target viewport's
// local frame, either a fixed viewport or one tracked adaptively from
// incoming viewport messages.
package viewport

import (
	"math"

	"github.com/banshee-data/velocity.report/internal/tuio/bundle"
	"github.com/banshee-data/velocity.report/internal/tuio/model"
	"github.com/banshee-data/velocity.report/internal/tuio/transport"
)

// rotatablePositioned is the subset of helpers the projector can clip and
// remap: a 3D position plus axis rotations. Every contact type (pointer,
// token, bounds) satisfies it.
type rotatablePositioned interface {
	model.Positioned3D
	model.RotatableCS3D
}

// Adaptor is a Listener/Broadcaster pipeline stage implementing §4.9.
type Adaptor struct {
	transport.Broadcaster

	adaptive bool
	target   model.UUID // model.NilUUID in wildcard mode
	strip    bool

	fixed    *model.Viewport
	received map[model.UUID]*model.Viewport
	match    *model.Viewport
}

// NewAdaptive constructs a projector that tracks target's viewport
// messages as they arrive; target may be model.NilUUID for wildcard mode
// (bounding box of every received viewport).
func NewAdaptive(target model.UUID, strip bool) *Adaptor {
	return &Adaptor{
		adaptive: true,
		target:   target,
		strip:    strip,
		received: make(map[model.UUID]*model.Viewport),
	}
}

// NewFixed constructs a projector with a static, externally supplied
// viewport.
func NewFixed(vp model.Viewport, strip bool) *Adaptor {
	clone := vp
	return &Adaptor{fixed: &clone, strip: strip}
}

// OnBundle implements transport.Listener.
func (a *Adaptor) OnBundle(h *bundle.Handle) {
	a.Notify(a.Process(h))
}

// Process applies the viewport clip/remap rewrite to h (§4.9).
func (a *Adaptor) Process(h *bundle.Handle) *bundle.Handle {
	for i := 0; i < h.Len(); i++ {
		if vp, ok := h.At(i).(*model.Viewport); ok {
			a.observe(vp)
		}
	}

	match := a.currentMatch()
	if match == nil {
		// Adaptive wildcard mode with nothing received yet (or a target
		// never seen): forward unchanged.
		return h
	}

	out := bundle.NewHandle()
	emittedNormalized := false
	for i := 0; i < h.Len(); i++ {
		msg := h.At(i).Clone()
		switch msg.(type) {
		case *model.Frame, *model.Alive:
			out.Append(msg)
			continue
		case *model.Viewport:
			if !a.strip {
				out.Append(msg)
			}
			continue
		}

		if !emittedNormalized {
			out.Append(normalize(match))
			emittedNormalized = true
		}

		if rp, ok := msg.(rotatablePositioned); ok {
			if !a.clipAndRemap(rp, match) {
				continue
			}
		}
		out.Append(msg)
	}
	return out
}

// observe records a malformed-free viewport sighting. A zero or negative
// width or height is ignored as malformed (§4.9 failure modes); depth is
// not checked.
func (a *Adaptor) observe(vp *model.Viewport) {
	if !a.adaptive || vp.Width <= 0 || vp.Height <= 0 {
		return
	}
	clone := *vp
	a.received[vp.ID] = &clone
}

// currentMatch resolves the viewport to project against for this bundle.
func (a *Adaptor) currentMatch() *model.Viewport {
	if !a.adaptive {
		return a.fixed
	}
	if a.target != model.NilUUID {
		return a.received[a.target]
	}
	if len(a.received) == 0 {
		return nil
	}
	return boundingBox(a.received)
}

func boundingBox(vps map[model.UUID]*model.Viewport) *model.Viewport {
	min := model.Point3D{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	max := model.Point3D{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for _, vp := range vps {
		half := vp.HalfExtents()
		lo := vp.Center.Sub(half)
		hi := vp.Center.Add(half)
		min = model.Point3D{X: minf(min.X, lo.X), Y: minf(min.Y, lo.Y), Z: minf(min.Z, lo.Z)}
		max = model.Point3D{X: maxf(max.X, hi.X), Y: maxf(max.Y, hi.Y), Z: maxf(max.Z, hi.Z)}
	}
	extents := max.Sub(min)
	return &model.Viewport{
		Center: min.Add(max).Scale(0.5),
		Width:  extents.X,
		Height: extents.Y,
		Depth:  extents.Z,
		State:  model.ViewportComputed,
	}
}

// normalize returns the per-bundle reference viewport emitted before the
// first non-envelope message: rotations zeroed, centered on its own
// half-extents (§4.9 step 2).
func normalize(match *model.Viewport) *model.Viewport {
	return &model.Viewport{
		ID:     match.ID,
		Center: match.HalfExtents(),
		Width:  match.Width,
		Height: match.Height,
		Depth:  match.Depth,
		State:  model.ViewportComputed,
	}
}

// clipAndRemap inverse-rotates msg's position around match's center, then
// translates it so the center maps to match's half-extents point. Reports
// whether the result still lies within match's box.
func (a *Adaptor) clipAndRemap(msg rotatablePositioned, match *model.Viewport) bool {
	msg.RotateYaw(-match.Angle.Yaw, match.Center)
	msg.RotatePitch(-match.Angle.Pitch, match.Center)
	msg.RotateRoll(-match.Angle.Roll, match.Center)

	local := msg.Position3D().Sub(match.Center).Add(match.HalfExtents())
	if !match.Contains(local) {
		return false
	}
	msg.SetPosition3D(local)
	return true
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
