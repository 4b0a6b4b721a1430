package mirror

import (
	"fmt"
	"net"
	"strings"

	"github.com/banshee-data/velocity.report/internal/tuio/model"
	"github.com/banshee-data/velocity.report/internal/tuio/osc"
	"github.com/banshee-data/velocity.report/internal/tuio/transport"
)

// defaultPort is substituted when a sink URI names no port, mirroring
// make_loaddress_uri's ":3333" fallback.
const defaultPort = 3333

// normalizeURI accepts "host:port", "udp://host:port" or
// "osc.udp://host:port" and returns a canonical "osc.udp://host:port"
// form, filling in defaultPort when absent. An empty return means the
// input could not be parsed as a host/port pair.
func normalizeURI(raw string) string {
	uri := strings.TrimSpace(raw)
	uri = strings.TrimPrefix(uri, "osc.")
	uri = strings.TrimPrefix(uri, "udp://")

	host, port, err := net.SplitHostPort(uri)
	if err != nil {
		// No port present at all.
		host = uri
		port = fmt.Sprintf("%d", defaultPort)
	}
	if host == "" {
		return ""
	}
	return fmt.Sprintf("osc.udp://%s:%s", host, port)
}

// sink is one outbound target: an OSC/UDP server bound to an ephemeral
// local port, forwarding every bundle the daemon receives.
type sink struct {
	uri    string
	server *transport.Server
}

func newSink(uri string, cfg transport.ServerConfig, factory transport.SocketFactory) (*sink, error) {
	canonical := normalizeURI(uri)
	if canonical == "" {
		return nil, fmt.Errorf("mirror: %q does not look like a valid host[:port] target", uri)
	}

	hostport := strings.TrimPrefix(canonical, "osc.udp://")
	remote, err := net.ResolveUDPAddr("udp", hostport)
	if err != nil {
		return nil, fmt.Errorf("mirror: resolving %q: %w", canonical, err)
	}

	socket, err := factory.ListenUDP("udp", &net.UDPAddr{})
	if err != nil {
		return nil, fmt.Errorf("mirror: opening outbound socket for %q: %w", canonical, err)
	}

	codec := osc.NewCodec(true, osc.LTALenient)
	return &sink{
		uri:    canonical,
		server: transport.NewServer(socket, remote, codec, cfg),
	}, nil
}

func (s *sink) close() error { return s.server.Close() }

// syncAlive mirrors the incoming alive envelope verbatim, or clears the
// outgoing alive set entirely if the bundle carried none.
func (s *sink) syncAlive(alive *model.Alive) {
	if alive == nil {
		s.server.SetAliveSessionIDs(nil)
		return
	}
	s.server.SetAliveSessionIDs(alive.SessionIDs)
}
