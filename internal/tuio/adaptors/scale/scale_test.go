package scale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/velocity.report/internal/tuio/bundle"
	"github.com/banshee-data/velocity.report/internal/tuio/model"
)

func TestExplicitFactorsScalePosition(t *testing.T) {
	t.Parallel()
	a := New(2, 3, 1)

	h := bundle.NewHandle()
	h.Append(&model.Pointer{Session: 1, Pos: model.Point3D{X: 10, Y: 10}})

	out := a.Process(h)
	ptrs := bundle.GetMessageOfType[*model.Pointer](out)
	require.Len(t, ptrs, 1)
	assert.InDelta(t, 20, ptrs[0].Pos.X, 1e-9)
	assert.InDelta(t, 30, ptrs[0].Pos.Y, 1e-9)
}

func TestAutoconfigDerivesFactorsFromFrameDimensions(t *testing.T) {
	t.Parallel()
	a := NewAutoconfig(1000, 500)

	h := bundle.NewHandle()
	h.Append(&model.Frame{Dimensions: model.PackDimensions(100, 100)})
	h.Append(&model.Pointer{Session: 1, Pos: model.Point3D{X: 10, Y: 10}})

	out := a.Process(h)
	ptrs := bundle.GetMessageOfType[*model.Pointer](out)
	require.Len(t, ptrs, 1)
	assert.InDelta(t, 100, ptrs[0].Pos.X, 1e-9) // sx = 1000/100 = 10
	assert.InDelta(t, 50, ptrs[0].Pos.Y, 1e-9)  // sy = 500/100 = 5

	frames := bundle.GetMessageOfType[*model.Frame](out)
	require.Len(t, frames, 1)
	assert.Equal(t, uint32(1000), frames[0].Dimensions.Width())
	assert.Equal(t, uint32(500), frames[0].Dimensions.Height())
}

func TestServerAutoconfigRejected(t *testing.T) {
	t.Parallel()
	_, err := NewServerAutoconfig(1000, 500)
	require.Error(t, err)
}
