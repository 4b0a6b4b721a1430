package mirror

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/velocity.report/internal/tuio/bundle"
	"github.com/banshee-data/velocity.report/internal/tuio/model"
	"github.com/banshee-data/velocity.report/internal/tuio/transport"
)

func newTestDaemon() (*Daemon, *transport.MockSocketFactory) {
	factory := transport.NewMockSocketFactory()
	d := NewDaemon("/tmp/unused.ctl", transport.ServerConfig{Source: "mirror"}, factory)
	return d, factory
}

func TestTokenizeHandlesQuotesAndEscapes(t *testing.T) {
	t.Parallel()
	got := tokenize(`add "127.0.0.1:3334" 'localhost:3335' escaped\ space`)
	assert.Equal(t, []string{"add", "127.0.0.1:3334", "localhost:3335", "escaped space"}, got)
}

func TestNormalizeURIFillsDefaultPort(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "osc.udp://127.0.0.1:3333", normalizeURI("127.0.0.1"))
	assert.Equal(t, "osc.udp://127.0.0.1:4000", normalizeURI("udp://127.0.0.1:4000"))
	assert.Equal(t, "osc.udp://127.0.0.1:4000", normalizeURI("osc.udp://127.0.0.1:4000"))
	assert.Equal(t, "", normalizeURI(""))
}

func TestAddShowDelRoundTrip(t *testing.T) {
	t.Parallel()
	d, _ := newTestDaemon()

	reply, stop := d.handle("add 127.0.0.1:4100 127.0.0.1:4101")
	require.False(t, stop)
	assert.Contains(t, reply, "Added osc.udp://127.0.0.1:4100")
	assert.Contains(t, reply, "Added osc.udp://127.0.0.1:4101")

	reply, _ = d.handle("show")
	assert.Contains(t, reply, "osc.udp://127.0.0.1:4100")
	assert.Contains(t, reply, "osc.udp://127.0.0.1:4101")

	reply, _ = d.handle("del 127.0.0.1:4100")
	assert.Contains(t, reply, "successfully disabled")

	reply, _ = d.handle("show")
	assert.NotContains(t, reply, "4100")
	assert.Contains(t, reply, "4101")
}

func TestDelUnknownTargetReportsError(t *testing.T) {
	t.Parallel()
	d, _ := newTestDaemon()
	reply, _ := d.handle("del 127.0.0.1:9999")
	assert.Contains(t, reply, "Unknown target")
}

func TestStopAndQuitSignalShutdown(t *testing.T) {
	t.Parallel()
	d, _ := newTestDaemon()
	_, stop := d.handle("stop")
	assert.True(t, stop)
	_, stop = d.handle("quit")
	assert.True(t, stop)
}

func TestConfigReplacesSinkSet(t *testing.T) {
	t.Parallel()
	d, _ := newTestDaemon()
	d.handle("add 127.0.0.1:4100")

	reply, _ := d.handle(`config {"sinks":["127.0.0.1:4200","127.0.0.1:4201"]}`)
	assert.Contains(t, reply, "4200")
	assert.Contains(t, reply, "4201")

	shown, _ := d.handle("show")
	assert.NotContains(t, shown, "4100")
	assert.Contains(t, shown, "4200")
	assert.Contains(t, shown, "4201")
}

func TestOnBundleFansOutToEverySink(t *testing.T) {
	t.Parallel()
	d, factory := newTestDaemon()
	d.handle("add 127.0.0.1:4300 127.0.0.1:4301")

	h := bundle.NewHandle()
	h.Append(&model.Frame{Source: "test"})
	h.Append(&model.Pointer{Session: 1, Pos: model.Point3D{X: 1, Y: 2}})
	h.Append(&model.Alive{SessionIDs: []model.SessionID{1}})

	d.OnBundle(h)

	require.Len(t, factory.Created, 2)
	for _, sock := range factory.Created {
		require.Len(t, sock.Written, 1, "each sink should have sent exactly one outgoing bundle")
	}
}

func TestUnrecognizedCommandReportsError(t *testing.T) {
	t.Parallel()
	d, _ := newTestDaemon()
	reply, stop := d.handle("bogus")
	assert.False(t, stop)
	assert.True(t, strings.HasPrefix(reply, "ERROR:"))
}
