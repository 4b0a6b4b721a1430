// Package scale implements the scaling adaptor (§4.11): it rescales every
// scalable helper passing through by explicit factors, or derives those
// factors from a frame's sensor dimensions against a fixed target axis
// length.
package scale

import (
	"github.com/banshee-data/velocity.report/internal/tuio/bundle"
	"github.com/banshee-data/velocity.report/internal/tuio/model"
	"github.com/banshee-data/velocity.report/internal/tuio/transport"
	"github.com/banshee-data/velocity.report/internal/tuio/tuioerr"
)

// Adaptor is a Listener/Broadcaster pipeline stage implementing §4.11.
// ScaleX/ScaleY/ScaleZ on a helper already fold in the velocity/
// acceleration rescaling and own-point-scaling rules of §4.1, so the
// adaptor's per-message work is just invoking them with the current
// factors.
type Adaptor struct {
	transport.Broadcaster

	autoconfig               bool
	targetAxisX, targetAxisY float64
	sx, sy, sz               float64
}

// New constructs a scaling adaptor with explicit, fixed factors.
func New(sx, sy, sz float64) *Adaptor {
	return &Adaptor{sx: sx, sy: sy, sz: sz}
}

// NewAutoconfig constructs a scaling adaptor that derives (sx, sy) from
// each frame's sensor dimensions against the given target axis lengths.
// Only meaningful for client-side pipelines; use NewServerAutoconfig for a
// server, which always refuses (§4.11: "the server-side variant rejects
// autoconfig mode").
func NewAutoconfig(targetAxisX, targetAxisY float64) *Adaptor {
	return &Adaptor{autoconfig: true, targetAxisX: targetAxisX, targetAxisY: targetAxisY, sx: 1, sy: 1, sz: 1}
}

// NewServerAutoconfig always returns an error: a server-side scale stage
// cannot adopt dimensions it hasn't yet decided on (§4.11).
func NewServerAutoconfig(float64, float64) (*Adaptor, error) {
	return nil, tuioerr.New(tuioerr.KindConfig, "scale", "autoconfig mode is not supported for a server-side scaling adaptor")
}

// OnBundle implements transport.Listener.
func (a *Adaptor) OnBundle(h *bundle.Handle) {
	a.Notify(a.Process(h))
}

// Process rescales every scalable helper in h (§4.11).
func (a *Adaptor) Process(h *bundle.Handle) *bundle.Handle {
	out := bundle.NewHandle()
	for i := 0; i < h.Len(); i++ {
		msg := h.At(i)
		if frame, ok := msg.(*model.Frame); ok {
			a.updateFromFrame(frame)
			out.Append(msg)
			continue
		}
		a.scale(msg)
		out.Append(msg)
	}
	return out
}

func (a *Adaptor) updateFromFrame(frame *model.Frame) {
	if !a.autoconfig {
		return
	}
	w := float64(frame.Dimensions.Width())
	h := float64(frame.Dimensions.Height())
	if w > 0 {
		a.sx = a.targetAxisX / w
	}
	if h > 0 {
		a.sy = a.targetAxisY / h
	}
	frame.Dimensions = model.PackDimensions(uint32(a.targetAxisX), uint32(a.targetAxisY))
}

func (a *Adaptor) scale(msg model.Message) {
	if s3, ok := msg.(model.ScalableIndependent3D); ok {
		s3.ScaleX(a.sx)
		s3.ScaleY(a.sy)
		s3.ScaleZ(a.sz)
		return
	}
	if s2, ok := msg.(model.ScalableIndependent); ok {
		s2.ScaleX(a.sx)
		s2.ScaleY(a.sy)
	}
}
