package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/velocity.report/internal/tuio/bundle"
	"github.com/banshee-data/velocity.report/internal/tuio/model"
)

func TestFixedModeTranslatesIntoLocalFrame(t *testing.T) {
	t.Parallel()
	a := NewFixed(model.Viewport{Center: model.Point3D{X: 100, Y: 100}, Width: 200, Height: 200}, false)

	h := bundle.NewHandle()
	h.Append(&model.Frame{Source: "s"})
	h.Append(&model.Pointer{Session: 1, Pos: model.Point3D{X: 100, Y: 100}})
	h.Append(&model.Alive{SessionIDs: []model.SessionID{1}})

	out := a.Process(h)
	ptrs := bundle.GetMessageOfType[*model.Pointer](out)
	require.Len(t, ptrs, 1)
	// center (100,100) maps onto the half-extents point (100,100) for a
	// 200x200 box, so an already-centered pointer doesn't move.
	assert.InDelta(t, 100, ptrs[0].Pos.X, 1e-9)
	assert.InDelta(t, 100, ptrs[0].Pos.Y, 1e-9)

	vps := bundle.GetMessageOfType[*model.Viewport](out)
	require.Len(t, vps, 1)
	assert.Equal(t, model.Point3D{X: 100, Y: 100}, vps[0].Center)
}

func TestOutOfBoundsPointerIsDropped(t *testing.T) {
	t.Parallel()
	a := NewFixed(model.Viewport{Center: model.Point3D{X: 0, Y: 0}, Width: 100, Height: 100}, false)

	h := bundle.NewHandle()
	h.Append(&model.Frame{Source: "s"})
	h.Append(&model.Pointer{Session: 1, Pos: model.Point3D{X: 9999, Y: 9999}})

	out := a.Process(h)
	ptrs := bundle.GetMessageOfType[*model.Pointer](out)
	assert.Empty(t, ptrs)
}

func TestAdaptiveWildcardForwardsUnchangedWhenEmpty(t *testing.T) {
	t.Parallel()
	a := NewAdaptive(model.NilUUID, false)

	h := bundle.NewHandle()
	h.Append(&model.Frame{Source: "s"})
	h.Append(&model.Pointer{Session: 1, Pos: model.Point3D{X: 5, Y: 5}})

	out := a.Process(h)
	assert.Same(t, h, out)
}

func TestAdaptiveWildcardUsesBoundingBoxOfReceivedViewports(t *testing.T) {
	t.Parallel()
	a := NewAdaptive(model.NilUUID, false)

	var id1, id2 model.UUID
	id1[15] = 1
	id2[15] = 2

	h := bundle.NewHandle()
	h.Append(&model.Frame{Source: "s"})
	h.Append(&model.Viewport{ID: id1, Center: model.Point3D{X: 0, Y: 0}, Width: 100, Height: 100})
	h.Append(&model.Viewport{ID: id2, Center: model.Point3D{X: 200, Y: 0}, Width: 100, Height: 100})
	h.Append(&model.Pointer{Session: 1, Pos: model.Point3D{X: 100, Y: 0}})

	out := a.Process(h)
	vps := bundle.GetMessageOfType[*model.Viewport](out)
	var normalized *model.Viewport
	for _, vp := range vps {
		if vp.ID == model.NilUUID {
			normalized = vp
		}
	}
	require.NotNil(t, normalized)
	assert.InDelta(t, 300, normalized.Width, 1e-9)
}
