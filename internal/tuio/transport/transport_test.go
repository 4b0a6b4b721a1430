package transport

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/velocity.report/internal/tuio/bundle"
	"github.com/banshee-data/velocity.report/internal/tuio/model"
	"github.com/banshee-data/velocity.report/internal/tuio/osc"
)

func encodeBundleFor(t *testing.T, c *osc.Codec, msgs ...model.Message) []byte {
	t.Helper()
	var oscMsgs []osc.Msg
	for _, m := range msgs {
		require.NoError(t, c.Imprint(&oscMsgs, m))
	}
	data, err := osc.EncodeBundle(osc.Bundle{Seconds: 0, Fraction: 1, Messages: oscMsgs})
	require.NoError(t, err)
	return data
}

func TestClientLoadDecodesAndNotifies(t *testing.T) {
	t.Parallel()
	c := osc.NewCodec(false, osc.LTALenient)

	pkt1 := encodeBundleFor(t, c,
		&model.Frame{ID: 1, Source: "a"},
		&model.Pointer{Mode: model.OutputMode2D, Session: 7},
		&model.Alive{SessionIDs: []model.SessionID{7}},
	)
	pkt2 := encodeBundleFor(t, c,
		&model.Frame{ID: 2, Source: "a"},
		&model.Alive{SessionIDs: nil},
	)

	sock := NewMockSocket([]MockPacket{{Data: pkt1}, {Data: pkt2}})
	client := NewClient(sock, c)

	var seen []*bundle.Handle
	client.AddListener(ListenerFunc(func(h *bundle.Handle) {
		seen = append(seen, h)
	}))

	loaded, err := client.Load(2, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded)
	require.Len(t, seen, 2)

	frame, ok := seen[0].Frame()
	require.True(t, ok)
	assert.Equal(t, model.FrameID(1), frame.ID)

	pointers := bundle.GetMessageOfType[*model.Pointer](seen[0])
	require.Len(t, pointers, 1)
	assert.Equal(t, model.SessionID(7), pointers[0].Session)

	assert.Equal(t, 2, client.Stack().Length())
}

func TestClientLoadStopsAtTimeoutWhenStarved(t *testing.T) {
	t.Parallel()
	c := osc.NewCodec(false, osc.LTALenient)
	sock := NewMockSocket(nil)
	client := NewClient(sock, c)

	loaded, err := client.Load(5, 150*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded)
}

func TestClientLoadSkipsMalformedBundle(t *testing.T) {
	t.Parallel()
	c := osc.NewCodec(false, osc.LTALenient)
	good := encodeBundleFor(t, c, &model.Frame{ID: 9, Source: "a"})

	sock := NewMockSocket([]MockPacket{
		{Data: []byte("not an osc bundle")},
		{Data: good},
	})
	client := NewClient(sock, c)

	loaded, err := client.Load(1, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded)

	h, err := client.Stack().GetUpdate(bundle.Oldest)
	require.NoError(t, err)
	frame, ok := h.Frame()
	require.True(t, ok)
	assert.Equal(t, model.FrameID(9), frame.ID)
}

func TestServerAppendSendRoundTrip(t *testing.T) {
	t.Parallel()
	c := osc.NewCodec(false, osc.LTALenient)
	sock := NewMockSocket(nil)
	remote := &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 3333}
	srv := NewServer(sock, remote, c, ServerConfig{Source: "srv", Instance: 1})

	sid := srv.RegisterSessionID()
	assert.Equal(t, model.SessionID(0), sid)
	srv.Append(&model.Pointer{Mode: model.OutputMode2D, Session: sid})

	require.NoError(t, srv.Send())
	require.Len(t, sock.Written, 1)

	raw, err := osc.DecodeBundle(sock.Written[0].Data)
	require.NoError(t, err)
	msgs := c.DecodeBundle(raw)

	h := bundle.NewHandle()
	for _, m := range msgs {
		h.Append(m)
	}
	frame, ok := h.Frame()
	require.True(t, ok)
	assert.Equal(t, model.FrameID(0), frame.ID)

	alv, ok := h.Alive()
	require.True(t, ok)
	assert.Equal(t, []model.SessionID{0}, alv.SessionIDs)

	pointers := bundle.GetMessageOfType[*model.Pointer](h)
	require.Len(t, pointers, 1)
	assert.Equal(t, sid, pointers[0].Session)

	srv.UnregisterSessionID(sid)
	require.NoError(t, srv.Send())
	require.Len(t, sock.Written, 2)

	raw2, err := osc.DecodeBundle(sock.Written[1].Data)
	require.NoError(t, err)
	msgs2 := c.DecodeBundle(raw2)
	h2 := bundle.NewHandle()
	for _, m := range msgs2 {
		h2.Append(m)
	}
	alv2, ok := h2.Alive()
	require.True(t, ok)
	assert.Empty(t, alv2.SessionIDs)

	frame2, ok := h2.Frame()
	require.True(t, ok)
	assert.Equal(t, model.FrameID(1), frame2.ID)
}
