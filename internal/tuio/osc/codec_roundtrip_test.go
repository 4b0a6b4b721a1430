package osc

import (
	"net"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/velocity.report/internal/tuio/model"
)

// roundTrip imprints msg, pushes it through the wire encoder/decoder, then
// decodes it back through the codec, returning the reconstructed message.
func roundTrip(t *testing.T, c *Codec, msg model.Message) model.Message {
	t.Helper()
	var wireMsgs []Msg
	require.NoError(t, c.Imprint(&wireMsgs, msg))
	require.Len(t, wireMsgs, 1)

	encoded, err := EncodeMessage(wireMsgs[0])
	require.NoError(t, err)

	decodedWire, err := DecodeMessage(encoded)
	require.NoError(t, err)

	decoded, err := c.Decode(decodedWire)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	return decoded[0]
}

func TestRoundTripEnvelope(t *testing.T) {
	t.Parallel()
	c := NewCodec(false, LTALenient)

	frame := &model.Frame{
		ID:         42,
		Time:       model.Timetag{Seconds: 100, Fraction: 7},
		Source:     "src1",
		IP:         net.IPv4(192, 168, 1, 10),
		Instance:   1,
		Dimensions: model.PackDimensions(1920, 1080),
	}
	got := roundTrip(t, c, frame)
	gotFrame, ok := got.(*model.Frame)
	require.True(t, ok)
	assert.Equal(t, frame.ID, gotFrame.ID)
	assert.Equal(t, frame.Time, gotFrame.Time)
	assert.Equal(t, frame.Source, gotFrame.Source)
	assert.True(t, frame.IP.Equal(gotFrame.IP))
	assert.Equal(t, frame.Instance, gotFrame.Instance)
	assert.Equal(t, frame.Dimensions, gotFrame.Dimensions)

	alive := &model.Alive{SessionIDs: []model.SessionID{1, 2, 3}}
	got = roundTrip(t, c, alive)
	gotAlive, ok := got.(*model.Alive)
	require.True(t, ok)
	if diff := cmp.Diff(alive.SessionIDs, gotAlive.SessionIDs); diff != "" {
		t.Errorf("alive session ids mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundTripContacts(t *testing.T) {
	t.Parallel()
	c := NewCodec(false, LTALenient)

	t.Run("pointer2d", func(t *testing.T) {
		p := &model.Pointer{
			Mode: model.OutputMode2D, Session: 7, Tu: model.PackTuID(1, 2), Component: 3,
			Pos: model.Point3D{X: 0.5, Y: 0.25}, Width: 0.1, Pressure: 0.9,
			Vel: model.Velocity3D{X: 0.01, Y: -0.02}, Accel: 0.003,
		}
		got := roundTrip(t, c, p)
		gotP, ok := got.(*model.Pointer)
		require.True(t, ok)
		assertFloatClose(t, p.Pos.X, gotP.Pos.X)
		assertFloatClose(t, p.Pos.Y, gotP.Pos.Y)
		assertFloatClose(t, p.Width, gotP.Width)
		assertFloatClose(t, p.Pressure, gotP.Pressure)
		assertFloatClose(t, p.Vel.X, gotP.Vel.X)
		assertFloatClose(t, p.Accel, gotP.Accel)
		assert.Equal(t, p.Session, gotP.Session)
		assert.Equal(t, p.Tu, gotP.Tu)
		assert.Equal(t, p.Component, gotP.Component)
	})

	t.Run("token3d", func(t *testing.T) {
		tk := &model.Token{
			Mode: model.OutputMode3D, Session: 9, Tu: model.PackTuID(4, 5), Component: 1,
			Pos:   model.Point3D{X: 1, Y: 2, Z: 3},
			Angle: model.Angle3D{Yaw: 0.1, Pitch: 0.2, Roll: 0.3},
			Vel:   model.Velocity3D{X: 0.1, Y: 0.2, Z: 0.3}, RotVel: model.RotationVelocity3D{Yaw: 0.01, Pitch: 0.02, Roll: 0.03},
			Accel: 0.5, RotAccel: 0.25,
		}
		got := roundTrip(t, c, tk)
		gotTk, ok := got.(*model.Token)
		require.True(t, ok)
		assertFloatClose(t, tk.Pos.Z, gotTk.Pos.Z)
		assertFloatClose(t, tk.Angle.Roll, gotTk.Angle.Roll)
		assertFloatClose(t, tk.RotVel.Pitch, gotTk.RotVel.Pitch)
		assertFloatClose(t, tk.RotAccel, gotTk.RotAccel)
	})

	t.Run("bounds2d_no_velocity", func(t *testing.T) {
		b := &model.Bounds{
			Mode: model.OutputMode2D, Session: 3, Pos: model.Point3D{X: 1, Y: 1},
			Angle: model.Angle3D{Yaw: 0.5}, Width: 2, Height: 3, AreaVol: 6,
		}
		got := roundTrip(t, c, b)
		gotB, ok := got.(*model.Bounds)
		require.True(t, ok)
		assertFloatClose(t, b.Width, gotB.Width)
		assertFloatClose(t, b.AreaVol, gotB.AreaVol)
		assertFloatClose(t, gotB.Vel.X, 0)
	})

	t.Run("bounds3d_with_velocity", func(t *testing.T) {
		b := &model.Bounds{
			Mode: model.OutputMode3D, Session: 3, Pos: model.Point3D{X: 1, Y: 1, Z: 1},
			Angle: model.Angle3D{Yaw: 0.1, Pitch: 0.2, Roll: 0.3},
			Width: 2, Height: 3, Depth: 4, AreaVol: 24,
			Vel: model.Velocity3D{X: 0.1, Y: 0.1, Z: 0.1}, RotVel: model.RotationVelocity3D{Yaw: 0.01, Pitch: 0.01, Roll: 0.01},
			Accel: 0.2, RotAccel: 0.1,
		}
		got := roundTrip(t, c, b)
		gotB, ok := got.(*model.Bounds)
		require.True(t, ok)
		assertFloatClose(t, b.Depth, gotB.Depth)
		assertFloatClose(t, b.RotAccel, gotB.RotAccel)
	})
}

func TestRoundTripSignal(t *testing.T) {
	t.Parallel()
	c := NewCodec(false, LTALenient)

	ctl := &model.Control{Session: 1, Values: []float64{0.1, 0.2, 0.3}}
	got := roundTrip(t, c, ctl)
	gotCtl, ok := got.(*model.Control)
	require.True(t, ok)
	require.Len(t, gotCtl.Values, 3)
	assertFloatClose(t, ctl.Values[1], gotCtl.Values[1])

	data := &model.Data{Session: 2, MIME: "text/plain", Text: "hello"}
	got = roundTrip(t, c, data)
	gotData, ok := got.(*model.Data)
	require.True(t, ok)
	assert.Equal(t, data.MIME, gotData.MIME)
	assert.Equal(t, data.Text, gotData.Text)
	assert.False(t, gotData.IsBlob)

	blobData := &model.Data{Session: 3, MIME: "application/octet-stream", Blob: []byte{1, 2, 3, 4}, IsBlob: true}
	got = roundTrip(t, c, blobData)
	gotBlob, ok := got.(*model.Data)
	require.True(t, ok)
	assert.Equal(t, blobData.Blob, gotBlob.Blob)
	assert.True(t, gotBlob.IsBlob)

	sig := &model.Signal{EventID: 99, Targets: []model.SessionID{1, 2, 3}}
	got = roundTrip(t, c, sig)
	gotSig, ok := got.(*model.Signal)
	require.True(t, ok)
	assert.Equal(t, sig.EventID, gotSig.EventID)
	if diff := cmp.Diff(sig.Targets, gotSig.Targets); diff != "" {
		t.Errorf("signal targets mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundTripGeometry(t *testing.T) {
	t.Parallel()
	c := NewCodec(false, LTALenient)

	hull := &model.ConvexHull{Session: 1, Points: []model.Point2D{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}}
	got := roundTrip(t, c, hull)
	gotHull, ok := got.(*model.ConvexHull)
	require.True(t, ok)
	require.Len(t, gotHull.Points, 3)
	assertFloatClose(t, hull.Points[2].Y, gotHull.Points[2].Y)

	outer := model.NewOuterContour(5, [][]model.Point2D{
		{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}},
		{{X: 5, Y: 5}, {X: 6, Y: 5}},
	})
	got = roundTrip(t, c, outer)
	gotOuter, ok := got.(*model.OuterContour)
	require.True(t, ok)
	require.Len(t, gotOuter.Rings, 2)
	assert.Len(t, gotOuter.Rings[0], 3)
	assert.Len(t, gotOuter.Rings[1], 2)

	skel := &model.Skeleton{
		Mode: model.OutputMode2D, Session: 6,
		Nodes: []model.SkeletonNode{
			{Pos2D: model.Point2D{X: 0, Y: 0}},
			{Pos2D: model.Point2D{X: 1, Y: 0}},
			{Rollback: 1},
			{Pos2D: model.Point2D{X: 0, Y: 1}},
		},
	}
	got = roundTrip(t, c, skel)
	gotSkel, ok := got.(*model.Skeleton)
	require.True(t, ok)
	require.Len(t, gotSkel.Nodes, 4)
	assert.Equal(t, 1, gotSkel.Nodes[2].Rollback)
	assertFloatClose(t, skel.Nodes[3].Pos2D.Y, gotSkel.Nodes[3].Pos2D.Y)

	skel3d := &model.Skeleton{
		Mode: model.OutputMode3D, Session: 7,
		Nodes: []model.SkeletonNode{
			{Is3D: true, Pos3D: model.Point3D{X: 0, Y: 0, Z: 0}},
			{Is3D: true, Pos3D: model.Point3D{X: 1, Y: 1, Z: 1}},
		},
	}
	got = roundTrip(t, c, skel3d)
	gotSkel3d, ok := got.(*model.Skeleton)
	require.True(t, ok)
	require.Len(t, gotSkel3d.Nodes, 2)
	assertFloatClose(t, skel3d.Nodes[1].Pos3D.Z, gotSkel3d.Nodes[1].Pos3D.Z)

	vol := &model.SkeletonVolume{Session: 8, Radii: []float64{0.1, 0.2, 0.3}}
	got = roundTrip(t, c, vol)
	gotVol, ok := got.(*model.SkeletonVolume)
	require.True(t, ok)
	require.Len(t, gotVol.Radii, 3)
	assertFloatClose(t, vol.Radii[2], gotVol.Radii[2])

	area := &model.Area{Session: 9, Spans: []model.AreaSpan{{Channel: 0, Start: 0.1, End: 0.4}, {Channel: 1, Start: 0.5, End: 0.9}}}
	got = roundTrip(t, c, area)
	gotArea, ok := got.(*model.Area)
	require.True(t, ok)
	require.Len(t, gotArea.Spans, 2)
	assert.Equal(t, area.Spans[1].Channel, gotArea.Spans[1].Channel)
	assertFloatClose(t, area.Spans[1].End, gotArea.Spans[1].End)

	raw := &model.Raw{Session: 10, Bytes: []byte{0xde, 0xad, 0xbe, 0xef}}
	got = roundTrip(t, c, raw)
	gotRaw, ok := got.(*model.Raw)
	require.True(t, ok)
	assert.Equal(t, raw.Bytes, gotRaw.Bytes)
}

func TestRoundTripAssociations(t *testing.T) {
	t.Parallel()
	c := NewCodec(false, LTALenient)

	alive := &model.AliveAssociations{SessionIDs: []model.SessionID{1, 2, 3}}
	got := roundTrip(t, c, alive)
	gotAlive, ok := got.(*model.AliveAssociations)
	require.True(t, ok)
	assert.Equal(t, alive.SessionIDs, gotAlive.SessionIDs)

	container := &model.ContainerAssociation{Session: 1, Slot: 2, Contained: []model.SessionID{10, 20}}
	got = roundTrip(t, c, container)
	gotContainer, ok := got.(*model.ContainerAssociation)
	require.True(t, ok)
	assert.Equal(t, container.Slot, gotContainer.Slot)
	if diff := cmp.Diff(container.Contained, gotContainer.Contained); diff != "" {
		t.Errorf("contained session ids mismatch (-want +got):\n%s", diff)
	}

	link := model.NewLinkAssociation(5)
	h1 := link.Graph.CreateNode(100)
	h2 := link.Graph.CreateNode(200)
	link.Graph.CreateEdge(h1, h2, model.PackLinkPorts(1, 2))
	got = roundTrip(t, c, link)
	gotLink, ok := got.(*model.LinkAssociation)
	require.True(t, ok)
	assert.Len(t, gotLink.Graph.Nodes(), 2)
	assert.Len(t, gotLink.Graph.Edges(), 1)

	lla := model.NewLinkedListAssociation(6, true)
	n1 := lla.Graph.CreateNode(11)
	n2 := lla.Graph.CreateNode(12)
	n3 := lla.Graph.CreateNode(13)
	lla.Graph.CreateEdge(n1, n2, 0)
	lla.Graph.CreateEdge(n2, n3, 0)
	got = roundTrip(t, c, lla)
	gotLLA, ok := got.(*model.LinkedListAssociation)
	require.True(t, ok)
	assert.True(t, gotLLA.Physical)
	assert.True(t, gotLLA.Graph.IsLinearOriented())

	lta := model.NewLinkedTreeAssociation(7, false)
	root := lta.Graph.CreateNode(1)
	c1 := lta.Graph.CreateNode(2)
	c2 := lta.Graph.CreateNode(3)
	gc1 := lta.Graph.CreateNode(4)
	lta.Graph.CreateEdge(root, c1, 0)
	lta.Graph.CreateEdge(c1, gc1, 0)
	lta.Graph.CreateEdge(root, c2, 0)
	got = roundTrip(t, c, lta)
	gotLTA, ok := got.(*model.LinkedTreeAssociation)
	require.True(t, ok)
	assert.True(t, gotLTA.Graph.IsTrunkTree())
	assert.Len(t, gotLTA.Graph.Nodes(), 4)
	assert.Len(t, gotLTA.Graph.Edges(), 3)
}

func TestRoundTripLinkedTreeAssociationStrictModeRejects(t *testing.T) {
	t.Parallel()
	c := NewCodec(false, LTAStrict)
	lta := model.NewLinkedTreeAssociation(1, false)
	root := lta.Graph.CreateNode(1)
	child := lta.Graph.CreateNode(2)
	lta.Graph.CreateEdge(root, child, 0)

	var wireMsgs []Msg
	err := c.Imprint(&wireMsgs, lta)
	require.Error(t, err)
}

func TestRoundTripDTUIO(t *testing.T) {
	t.Parallel()
	c := NewCodec(false, LTALenient)

	sensor := uuid.New()
	sp := &model.SensorProperties{Sensor: sensor, Setup: model.SetupTranslateOnce, Purpose: "floor sensor"}
	got := roundTrip(t, c, sp)
	gotSP, ok := got.(*model.SensorProperties)
	require.True(t, ok)
	assert.Equal(t, sensor, gotSP.Sensor)
	assert.Equal(t, sp.Setup, gotSP.Setup)
	assert.Equal(t, sp.Purpose, gotSP.Purpose)

	vp := &model.Viewport{
		ID:     uuid.New(),
		Center: model.Point3D{X: 1, Y: 2, Z: 3},
		Angle:  model.Angle3D{Yaw: 0.1, Pitch: 0.2, Roll: 0.3},
		Width:  100, Height: 200, Depth: 0,
		State: model.ViewportComputed,
	}
	got = roundTrip(t, c, vp)
	gotVP, ok := got.(*model.Viewport)
	require.True(t, ok)
	assert.Equal(t, vp.ID, gotVP.ID)
	assertFloatClose(t, vp.Width, gotVP.Width)
	assert.Equal(t, vp.State, gotVP.State)

	gm := &model.GroupMember{Group: uuid.New(), Member: uuid.New()}
	got = roundTrip(t, c, gm)
	gotGM, ok := got.(*model.GroupMember)
	require.True(t, ok)
	assert.Equal(t, gm.Group, gotGM.Group)
	assert.Equal(t, gm.Member, gotGM.Member)

	nb := &model.Neighbour{From: uuid.New(), To: uuid.New(), Azimuth: 0.5, Altitude: -0.5, Distance: 12.5}
	got = roundTrip(t, c, nb)
	gotNB, ok := got.(*model.Neighbour)
	require.True(t, ok)
	assertFloatClose(t, nb.Distance, gotNB.Distance)

	ges := &model.GestureIdentification{
		User: 3, SessionIDs: []model.SessionID{1, 2}, Recognizer: "swipe", Scores: []float64{0.9, 0.1},
	}
	got = roundTrip(t, c, ges)
	gotGes, ok := got.(*model.GestureIdentification)
	require.True(t, ok)
	assert.Equal(t, ges.User, gotGes.User)
	assert.Equal(t, ges.SessionIDs, gotGes.SessionIDs)
	assert.Equal(t, ges.Recognizer, gotGes.Recognizer)
	require.Len(t, gotGes.Scores, 2)
	assertFloatClose(t, ges.Scores[0], gotGes.Scores[0])
}

func TestCodecAcceptUnknown(t *testing.T) {
	t.Parallel()

	unknown := Msg{Path: "/tuio2/xyz", Tags: "is", Args: []interface{}{int32(1), "hi"}}

	strictCodec := NewCodec(false, LTALenient)
	msgs, err := strictCodec.Decode(unknown)
	require.NoError(t, err)
	assert.Nil(t, msgs)

	lenientCodec := NewCodec(true, LTALenient)
	msgs, err = lenientCodec.Decode(unknown)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	opaque, ok := msgs[0].(*model.Opaque)
	require.True(t, ok)
	assert.Equal(t, unknown.Path, opaque.Path)
}

func TestDecodeBundleSkipsUnparseableMessages(t *testing.T) {
	t.Parallel()
	c := NewCodec(false, LTALenient)

	good := Msg{Path: model.PathAlive, Tags: "ii", Args: []interface{}{int32(1), int32(2)}}
	bad := Msg{Path: model.PathFrame, Tags: "s", Args: []interface{}{"nonsense"}}

	out := c.DecodeBundle(Bundle{Messages: []Msg{good, bad}})
	require.Len(t, out, 1)
	_, ok := out[0].(*model.Alive)
	assert.True(t, ok)
}

func assertFloatClose(t *testing.T, want, got float64) {
	t.Helper()
	const eps = 1e-4
	diff := want - got
	if diff < 0 {
		diff = -diff
	}
	assert.LessOrEqualf(t, diff, eps, "want %v, got %v", want, got)
}
