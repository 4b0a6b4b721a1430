package multiplex

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/velocity.report/internal/tuio/bundle"
	"github.com/banshee-data/velocity.report/internal/tuio/model"
)

func frameFrom(ip string, instance model.InstanceID, app string) *model.Frame {
	return &model.Frame{Source: app, IP: net.ParseIP(ip), Instance: instance}
}

func TestDisjointSourcesGetDistinctGlobalIDs(t *testing.T) {
	t.Parallel()
	a := New()

	h1 := bundle.NewHandle()
	h1.Append(frameFrom("10.0.0.1", 0, "a"))
	h1.Append(&model.Pointer{Session: 17})
	h1.Append(&model.Alive{SessionIDs: []model.SessionID{17}})

	h2 := bundle.NewHandle()
	h2.Append(frameFrom("10.0.0.2", 0, "a"))
	h2.Append(&model.Pointer{Session: 17})
	h2.Append(&model.Alive{SessionIDs: []model.SessionID{17}})

	out1, err := a.Process(h1)
	require.NoError(t, err)
	out2, err := a.Process(h2)
	require.NoError(t, err)

	pointers1 := bundle.GetMessageOfType[*model.Pointer](out1)
	pointers2 := bundle.GetMessageOfType[*model.Pointer](out2)
	require.Len(t, pointers1, 1)
	require.Len(t, pointers2, 1)
	assert.NotEqual(t, pointers1[0].Session, pointers2[0].Session)

	alv1, ok := out1.Alive()
	require.True(t, ok)
	alv2, ok := out2.Alive()
	require.True(t, ok)
	assert.Contains(t, alv2.SessionIDs, alv1.SessionIDs[0])
	assert.Contains(t, alv2.SessionIDs, pointers2[0].Session)
}

func TestOverlappingLifeAllocatesAndFreesMonotonically(t *testing.T) {
	t.Parallel()
	a := New()
	const ip, inst, app = "10.0.0.1", model.InstanceID(0), "a"

	steps := [][]model.SessionID{
		{17},
		{17, 18},
		{18, 19},
		{20},
		{},
	}

	var globals []model.SessionID
	for _, locals := range steps {
		h := bundle.NewHandle()
		h.Append(frameFrom(ip, inst, app))
		for _, lid := range locals {
			h.Append(&model.Pointer{Session: lid})
		}
		h.Append(&model.Alive{SessionIDs: locals})

		out, err := a.Process(h)
		require.NoError(t, err)
		alv, ok := out.Alive()
		require.True(t, ok)
		globals = append(globals, alv.SessionIDs...)
	}

	// Four distinct local ids were ever seen (17,18,19,20); exactly four
	// global ids should ever have been allocated and each bundle's alive
	// set should be a subset of that pool, monotonically increasing.
	seen := map[model.SessionID]bool{}
	for _, g := range globals {
		seen[g] = true
	}
	assert.Len(t, seen, 4)
}

func TestNoFrameForwardsUnchangedWithWarning(t *testing.T) {
	t.Parallel()
	a := New()
	h := bundle.NewHandle()
	h.Append(&model.Pointer{Session: 1})

	out, err := a.Process(h)
	require.ErrorIs(t, err, ErrNoEnvelope)
	assert.Same(t, h, out)
}
