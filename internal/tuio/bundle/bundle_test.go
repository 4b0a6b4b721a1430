package bundle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/velocity.report/internal/tuio/model"
)

func TestHandleAppendAndClone(t *testing.T) {
	t.Parallel()
	h := NewHandle()
	h.Append(&model.Frame{ID: 1, Source: "s"})
	h.Append(&model.Alive{SessionIDs: []model.SessionID{1, 2}})
	h.Append(&model.Pointer{Mode: model.OutputMode2D, Session: 1})
	require.Equal(t, 3, h.Len())

	frame, ok := h.Frame()
	require.True(t, ok)
	assert.Equal(t, model.FrameID(1), frame.ID)

	alive, ok := h.Alive()
	require.True(t, ok)
	assert.Equal(t, []model.SessionID{1, 2}, alive.SessionIDs)

	pointers := GetMessageOfType[*model.Pointer](h)
	require.Len(t, pointers, 1)
	assert.Equal(t, model.SessionID(1), pointers[0].Session)

	clone := h.Clone()
	clone.At(0).(*model.Frame).Source = "mutated"
	assert.Equal(t, "s", h.At(0).(*model.Frame).Source)
}

func TestHandleMissingEnvelope(t *testing.T) {
	t.Parallel()
	h := NewHandle()
	h.Append(&model.Pointer{Mode: model.OutputMode2D, Session: 1})
	_, ok := h.Frame()
	assert.False(t, ok)
	_, ok = h.Alive()
	assert.False(t, ok)
}

func TestStackFIFOAndIndices(t *testing.T) {
	t.Parallel()
	s := NewStack()
	require.Error(t, s.Append(NewHandle()))

	h1, h2, h3 := NewHandle(), NewHandle(), NewHandle()
	h1.Append(&model.Frame{ID: 1})
	h2.Append(&model.Frame{ID: 2})
	h3.Append(&model.Frame{ID: 3})

	require.NoError(t, s.Append(h1))
	require.NoError(t, s.Append(h2))
	require.NoError(t, s.Append(h3))
	require.Equal(t, 3, s.Length())

	got, err := s.GetUpdate(Oldest)
	require.NoError(t, err)
	f, _ := got.Frame()
	assert.Equal(t, model.FrameID(1), f.ID)
	assert.Equal(t, 2, s.Length())

	got, err = s.GetUpdate(Newest)
	require.NoError(t, err)
	f, _ = got.Frame()
	assert.Equal(t, model.FrameID(3), f.ID)
	assert.Equal(t, 1, s.Length())

	got, err = s.GetUpdate(0)
	require.NoError(t, err)
	f, _ = got.Frame()
	assert.Equal(t, model.FrameID(2), f.ID)
	assert.Equal(t, 0, s.Length())

	_, err = s.GetUpdate(Oldest)
	assert.Error(t, err)
}

func TestStackClear(t *testing.T) {
	t.Parallel()
	s := NewStack()
	h := NewHandle()
	h.Append(&model.Frame{ID: 1})
	require.NoError(t, s.Append(h))
	require.Equal(t, 1, s.Length())
	s.Clear()
	assert.Equal(t, 0, s.Length())
}
