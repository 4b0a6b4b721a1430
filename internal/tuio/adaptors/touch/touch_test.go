package touch

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/velocity.report/internal/tuio/bundle"
	"github.com/banshee-data/velocity.report/internal/tuio/model"
)

func frameAt(seconds uint32) *model.Frame {
	return &model.Frame{Source: "a", IP: net.ParseIP("10.0.0.1"), Time: model.Timetag{Seconds: seconds}}
}

func TestStableLocalIDKeepsSameMapping(t *testing.T) {
	t.Parallel()
	a := New(5, 1)

	h1 := bundle.NewHandle()
	h1.Append(frameAt(0))
	h1.Append(&model.Pointer{Session: 1, Pos: model.Point3D{X: 10, Y: 10}})
	h1.Append(&model.Alive{SessionIDs: []model.SessionID{1}})
	out1, err := a.Process(h1)
	require.NoError(t, err)

	h2 := bundle.NewHandle()
	h2.Append(frameAt(1))
	h2.Append(&model.Pointer{Session: 1, Pos: model.Point3D{X: 11, Y: 10}})
	h2.Append(&model.Alive{SessionIDs: []model.SessionID{1}})
	out2, err := a.Process(h2)
	require.NoError(t, err)

	p1 := bundle.GetMessageOfType[*model.Pointer](out1)[0]
	p2 := bundle.GetMessageOfType[*model.Pointer](out2)[0]
	assert.Equal(t, p1.Session, p2.Session)
}

// A dropped local id that reappears nearby and soon enough claims its old
// mapped id back instead of being allocated a fresh one.
func TestNearbyReappearanceClaimsPooledID(t *testing.T) {
	t.Parallel()
	a := New(5, 2)

	h1 := bundle.NewHandle()
	h1.Append(frameAt(0))
	h1.Append(&model.Pointer{Session: 1, Pos: model.Point3D{X: 100, Y: 100}})
	h1.Append(&model.Alive{SessionIDs: []model.SessionID{1}})
	out1, err := a.Process(h1)
	require.NoError(t, err)
	mapped := bundle.GetMessageOfType[*model.Pointer](out1)[0].Session

	// id 1 drops out this frame.
	h2 := bundle.NewHandle()
	h2.Append(frameAt(1))
	h2.Append(&model.Alive{SessionIDs: []model.SessionID{}})
	_, err = a.Process(h2)
	require.NoError(t, err)

	// a new local id 2 appears close by, shortly after.
	h3 := bundle.NewHandle()
	h3.Append(frameAt(1))
	h3.Append(&model.Pointer{Session: 2, Pos: model.Point3D{X: 101, Y: 100}})
	h3.Append(&model.Alive{SessionIDs: []model.SessionID{2}})
	out3, err := a.Process(h3)
	require.NoError(t, err)

	p3 := bundle.GetMessageOfType[*model.Pointer](out3)[0]
	assert.Equal(t, mapped, p3.Session)
}

func TestFarReappearanceGetsFreshID(t *testing.T) {
	t.Parallel()
	a := New(5, 2)

	h1 := bundle.NewHandle()
	h1.Append(frameAt(0))
	h1.Append(&model.Pointer{Session: 1, Pos: model.Point3D{X: 0, Y: 0}})
	h1.Append(&model.Alive{SessionIDs: []model.SessionID{1}})
	out1, err := a.Process(h1)
	require.NoError(t, err)
	mapped := bundle.GetMessageOfType[*model.Pointer](out1)[0].Session

	h2 := bundle.NewHandle()
	h2.Append(frameAt(1))
	h2.Append(&model.Alive{SessionIDs: []model.SessionID{}})
	_, err = a.Process(h2)
	require.NoError(t, err)

	h3 := bundle.NewHandle()
	h3.Append(frameAt(1))
	h3.Append(&model.Pointer{Session: 2, Pos: model.Point3D{X: 9999, Y: 9999}})
	h3.Append(&model.Alive{SessionIDs: []model.SessionID{2}})
	out3, err := a.Process(h3)
	require.NoError(t, err)

	p3 := bundle.GetMessageOfType[*model.Pointer](out3)[0]
	assert.NotEqual(t, mapped, p3.Session)
}

func TestPoolEntryExpiresAfterGC(t *testing.T) {
	t.Parallel()
	a := New(5, 1)

	h1 := bundle.NewHandle()
	h1.Append(frameAt(0))
	h1.Append(&model.Pointer{Session: 1, Pos: model.Point3D{X: 0, Y: 0}})
	h1.Append(&model.Alive{SessionIDs: []model.SessionID{1}})
	_, err := a.Process(h1)
	require.NoError(t, err)

	// drop id 1, then let enough time pass (> 2*delta_time) with no claim.
	h2 := bundle.NewHandle()
	h2.Append(frameAt(1))
	h2.Append(&model.Alive{SessionIDs: []model.SessionID{}})
	out2, err := a.Process(h2)
	require.NoError(t, err)
	alv2, ok := out2.Alive()
	require.True(t, ok)
	assert.Len(t, alv2.SessionIDs, 1) // still pooled

	h3 := bundle.NewHandle()
	h3.Append(frameAt(10))
	h3.Append(&model.Alive{SessionIDs: []model.SessionID{}})
	out3, err := a.Process(h3)
	require.NoError(t, err)
	alv3, ok := out3.Alive()
	require.True(t, ok)
	assert.Len(t, alv3.SessionIDs, 0)
}

func TestNoFrameForwardsUnchangedWithWarning(t *testing.T) {
	t.Parallel()
	a := New(5, 1)
	h := bundle.NewHandle()
	h.Append(&model.Pointer{Session: 1})

	out, err := a.Process(h)
	require.ErrorIs(t, err, ErrNoEnvelope)
	assert.Same(t, h, out)
}
