package recognize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/velocity.report/internal/tuio/bundle"
	"github.com/banshee-data/velocity.report/internal/tuio/model"
)

type fakeMatcher struct {
	calls [][]Stroke
}

func (f *fakeMatcher) Name() string { return "fake" }
func (f *fakeMatcher) Recognize(strokes []Stroke) []float64 {
	f.calls = append(f.calls, strokes)
	return []float64{1, 0}
}

func bundleWith(seconds uint32, pointers []*model.Pointer, alive []model.SessionID, haveAlive bool) *bundle.Handle {
	h := bundle.NewHandle()
	h.Append(&model.Frame{Time: model.Timetag{Seconds: seconds}})
	for _, p := range pointers {
		h.Append(p)
	}
	if haveAlive {
		h.Append(&model.Alive{SessionIDs: alive})
	}
	return h
}

func TestUnistrokeRecognizesOnDrop(t *testing.T) {
	t.Parallel()
	m := &fakeMatcher{}
	u := NewUnistroke(m)

	h1 := bundleWith(0, []*model.Pointer{{Session: 1, Pos: model.Point3D{X: 0, Y: 0}}}, []model.SessionID{1}, true)
	u.Process(h1)

	h2 := bundleWith(1, []*model.Pointer{{Session: 1, Pos: model.Point3D{X: 1, Y: 0}}}, []model.SessionID{1}, true)
	u.Process(h2)

	h3 := bundleWith(2, nil, []model.SessionID{}, true)
	out := u.Process(h3)

	gestures := bundle.GetMessageOfType[*model.GestureIdentification](out)
	require.Len(t, gestures, 1)
	assert.Equal(t, []model.SessionID{1}, gestures[0].SessionIDs)
	require.Len(t, m.calls, 1)
	require.Len(t, m.calls[0], 1)
	assert.Len(t, m.calls[0][0], 2) // both samples captured
}

func TestMultistrokeClustersNearbyContactsAndFlushesOnTimeout(t *testing.T) {
	t.Parallel()
	m := &fakeMatcher{}
	ms := NewMultistroke(m, 10, 1)

	h1 := bundleWith(0, []*model.Pointer{
		{Session: 1, Pos: model.Point3D{X: 0, Y: 0}},
		{Session: 2, Pos: model.Point3D{X: 5, Y: 0}},
	}, nil, false)
	ms.Process(h1)

	// far beyond timeout: both strokes flush together as one component.
	h2 := bundleWith(5, nil, nil, false)
	out := ms.Process(h2)

	gestures := bundle.GetMessageOfType[*model.GestureIdentification](out)
	require.Len(t, gestures, 1)
	assert.ElementsMatch(t, []model.SessionID{1, 2}, gestures[0].SessionIDs)
}

func TestMultistrokeSeparatesDistantContacts(t *testing.T) {
	t.Parallel()
	m := &fakeMatcher{}
	ms := NewMultistroke(m, 10, 1)

	h1 := bundleWith(0, []*model.Pointer{
		{Session: 1, Pos: model.Point3D{X: 0, Y: 0}},
		{Session: 2, Pos: model.Point3D{X: 9999, Y: 0}},
	}, nil, false)
	ms.Process(h1)

	h2 := bundleWith(5, nil, nil, false)
	out := ms.Process(h2)

	gestures := bundle.GetMessageOfType[*model.GestureIdentification](out)
	require.Len(t, gestures, 2)
}
