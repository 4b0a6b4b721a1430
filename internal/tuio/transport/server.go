package transport

import (
	"net"
	"time"

	"github.com/banshee-data/velocity.report/internal/tuio/bundle"
	"github.com/banshee-data/velocity.report/internal/tuio/model"
	"github.com/banshee-data/velocity.report/internal/tuio/osc"
	"github.com/banshee-data/velocity.report/internal/tuio/tuioerr"
)

// ntpEpochOffset is the number of seconds between the NTP epoch
// (1900-01-01) and the Unix epoch (1970-01-01), used to stamp outgoing
// frame envelopes with an OSC timetag.
const ntpEpochOffset = 2208988800

func nowTimetag() model.Timetag {
	now := time.Now()
	secs := uint32(now.Unix() + ntpEpochOffset)
	frac := uint32(float64(now.Nanosecond()) / 1e9 * 4294967296.0)
	return model.Timetag{Seconds: secs, Fraction: frac}
}

// ServerConfig names the envelope fields a Server stamps on every frame it
// sends (§3, §6).
type ServerConfig struct {
	Source     string
	IP         net.IP
	Instance   model.InstanceID
	Dimensions model.Dimensions
}

// Server has the symmetric contract to Client (§4.5): Append stages a
// message clone, Send wraps the staging handle in a fresh frame/alive
// envelope and transmits it. Session ids are allocated monotonically from
// a pool; RegisterSessionID/UnregisterSessionID manage membership. All
// methods are non-blocking.
type Server struct {
	socket Socket
	remote *net.UDPAddr
	codec  *osc.Codec
	cfg    ServerConfig

	staging *bundle.Handle
	nextFrame  model.FrameID
	nextSessID model.SessionID
	alive      map[model.SessionID]struct{}
}

// NewServer constructs a Server that sends to remote over socket.
func NewServer(socket Socket, remote *net.UDPAddr, codec *osc.Codec, cfg ServerConfig) *Server {
	return &Server{
		socket:  socket,
		remote:  remote,
		codec:   codec,
		cfg:     cfg,
		staging: bundle.NewHandle(),
		alive:   make(map[model.SessionID]struct{}),
	}
}

// Append clones msg into the staging handle.
func (s *Server) Append(msg model.Message) {
	s.staging.Append(msg)
}

// RegisterSessionID allocates the next id from the monotonic pool and adds
// it to the alive set, returning the new id.
func (s *Server) RegisterSessionID() model.SessionID {
	id := s.nextSessID
	s.nextSessID++
	s.alive[id] = struct{}{}
	return id
}

// UnregisterSessionID removes id from the alive set. Unregistering an
// unknown id is a no-op.
func (s *Server) UnregisterSessionID(id model.SessionID) {
	delete(s.alive, id)
}

// SetAliveSessionIDs overwrites the alive set directly with ids, bypassing
// the monotonic allocator. Used by passthrough senders (e.g. a mirror
// daemon) that forward session ids assigned upstream rather than
// allocating their own.
func (s *Server) SetAliveSessionIDs(ids []model.SessionID) {
	s.alive = make(map[model.SessionID]struct{}, len(ids))
	for _, id := range ids {
		s.alive[id] = struct{}{}
	}
}

// AliveSessionIDs returns the currently registered session ids in
// ascending order.
func (s *Server) AliveSessionIDs() []model.SessionID {
	ids := make([]model.SessionID, 0, len(s.alive))
	for id := range s.alive {
		ids = append(ids, id)
	}
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
	return ids
}

// Send wraps the staging handle in a fresh frame (auto-allocated id) and
// alive (synthesized from registered session ids) envelope, encodes it to
// an OSC bundle and transmits it. The staging handle is cleared on
// success. Transient write failures are retried once; if the retry also
// fails, Send returns a *tuioerr.Error with KindNet and the staging handle
// is left intact for a later retry.
func (s *Server) Send() error {
	frame := &model.Frame{
		ID:         s.nextFrame,
		Time:       nowTimetag(),
		Source:     s.cfg.Source,
		IP:         s.cfg.IP,
		Instance:   s.cfg.Instance,
		Dimensions: s.cfg.Dimensions,
	}
	alv := &model.Alive{SessionIDs: s.AliveSessionIDs()}

	out := bundle.NewHandle()
	out.Append(frame)
	for _, m := range s.staging.Messages() {
		out.Append(m)
	}
	out.Append(alv)

	var oscMsgs []osc.Msg
	for i := 0; i < out.Len(); i++ {
		if err := s.codec.Imprint(&oscMsgs, out.At(i)); err != nil {
			return tuioerr.Wrap(tuioerr.KindParse, "transport", "imprinting outgoing bundle", err)
		}
	}
	wire, err := osc.EncodeBundle(osc.Bundle{Seconds: frame.Time.Seconds, Fraction: frame.Time.Fraction, Messages: oscMsgs})
	if err != nil {
		return tuioerr.Wrap(tuioerr.KindParse, "transport", "encoding outgoing bundle", err)
	}

	if _, err := s.socket.WriteToUDP(wire, s.remote); err != nil {
		if _, err2 := s.socket.WriteToUDP(wire, s.remote); err2 != nil {
			return tuioerr.Wrap(tuioerr.KindNet, "transport", "sending bundle", err2)
		}
	}

	s.nextFrame++
	s.staging = bundle.NewHandle()
	return nil
}

// Close releases the underlying socket.
func (s *Server) Close() error { return s.socket.Close() }
