package transport

import (
	"errors"
	"net"
	"time"

	"github.com/banshee-data/velocity.report/internal/tuio/bundle"
	"github.com/banshee-data/velocity.report/internal/tuio/osc"
	"github.com/banshee-data/velocity.report/internal/tuio/tuioerr"
	"github.com/banshee-data/velocity.report/internal/tuio/tuiolog"
)

// pollInterval bounds how long a single ReadFromUDP blocks before Load
// re-checks its overall deadline, mirroring the 100ms poll the teacher's
// UDP listener uses to stay responsive to cancellation.
const pollInterval = 100 * time.Millisecond

// maxDatagram is large enough for any TUIO 2.0 bundle; OSC over UDP never
// fragments, so one read is always exactly one bundle.
const maxDatagram = 65536

// Client drives input (§4.5): each complete bundle read from the socket is
// decoded, appended to the internal stack, and fanned out to listeners.
type Client struct {
	Broadcaster

	socket Socket
	codec  *osc.Codec
	stack  *bundle.Stack
	buf    []byte
}

// NewClient constructs a Client reading OSC bundles off socket through codec.
func NewClient(socket Socket, codec *osc.Codec) *Client {
	return &Client{
		socket: socket,
		codec:  codec,
		stack:  bundle.NewStack(),
		buf:    make([]byte, maxDatagram),
	}
}

// Stack exposes the client's internal bundle stack.
func (c *Client) Stack() *bundle.Stack { return c.stack }

// Load reads up to count complete bundles, or until timeout elapses,
// whichever comes first. Every completed bundle is appended to the
// internal stack and passed to Notify. Load is the only blocking method on
// Client; it blocks for at most timeout. Malformed bundles are logged and
// skipped rather than aborting the read loop (§4.5, §7 propagation
// policy). A closed socket ends Load without an error; other socket errors
// than a read timeout surface as a *tuioerr.Error with KindNet.
func (c *Client) Load(count int, timeout time.Duration) (int, error) {
	if count <= 0 {
		return 0, nil
	}
	deadline := time.Now().Add(timeout)
	loaded := 0
	for loaded < count {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}
		slice := remaining
		if slice > pollInterval {
			slice = pollInterval
		}
		if err := c.socket.SetReadDeadline(time.Now().Add(slice)); err != nil {
			return loaded, tuioerr.Wrap(tuioerr.KindNet, "transport", "setting read deadline", err)
		}

		n, _, err := c.socket.ReadFromUDP(c.buf)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			if errors.Is(err, net.ErrClosed) {
				return loaded, nil
			}
			return loaded, tuioerr.Wrap(tuioerr.KindNet, "transport", "reading bundle", err)
		}

		h, ok := c.decode(c.buf[:n])
		if !ok {
			continue
		}
		if err := c.stack.Append(h); err != nil {
			continue
		}
		tuiolog.Trace("transport: loaded bundle with %d messages", h.Len())
		c.Notify(h)
		loaded++
	}
	return loaded, nil
}

// decode turns one wire datagram into a bundle handle. Parse failures are
// logged and the datagram dropped; a bundle that decodes to zero messages
// (e.g. an empty or unparseable-but-well-framed bundle) is also dropped.
func (c *Client) decode(data []byte) (*bundle.Handle, bool) {
	raw, err := osc.DecodeBundle(data)
	if err != nil {
		tuiolog.Ops("transport: dropping malformed bundle: %v", err)
		return nil, false
	}
	msgs := c.codec.DecodeBundle(raw)
	if len(msgs) == 0 {
		return nil, false
	}
	h := bundle.NewHandle()
	for _, m := range msgs {
		h.Append(m)
	}
	return h, true
}

// Close releases the underlying socket.
func (c *Client) Close() error { return c.socket.Close() }
