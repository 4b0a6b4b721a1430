// Package mirror implements the control-socket daemon of §4.12: a TUIO
// bundle is received once, then mirrored out to every registered sink.
// Sinks are managed at runtime over a UNIX-domain control socket speaking
// the shell-escaped command language of
// original_source/utils/mirror/{mirror,common}.cpp: add/del/show/config/
// stop/quit. No state persists across restarts (§1 non-goal).
package mirror

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/velocity.report/internal/tuio/bundle"
	"github.com/banshee-data/velocity.report/internal/tuio/model"
	"github.com/banshee-data/velocity.report/internal/tuio/transport"
	"github.com/banshee-data/velocity.report/internal/tuio/tuiolog"
)

// ChainConfig is the JSON declarative chain description loaded by the
// "config" command — this rewrite's substitute for the original's XML/MUSE
// module-chain loader (out of scope per §1; some declarative description
// is still required for "config" to do anything useful). It currently
// only replaces the sink set; a swappable mid-chain processor beyond the
// adaptors already wired upstream of the daemon is future work.
type ChainConfig struct {
	Sinks []string `json:"sinks"`
}

// Daemon owns the sink registry and the control socket. It also satisfies
// transport.Listener, so it can be registered directly on a Client or any
// upstream adaptor's Broadcaster.
type Daemon struct {
	socketPath string
	serverCfg  transport.ServerConfig
	factory    transport.SocketFactory

	mu    sync.Mutex
	sinks map[string]*sink

	listener *net.UnixListener
}

// NewDaemon constructs a Daemon that will listen on socketPath and build
// each sink's outbound Server using serverCfg/factory.
func NewDaemon(socketPath string, serverCfg transport.ServerConfig, factory transport.SocketFactory) *Daemon {
	return &Daemon{
		socketPath: socketPath,
		serverCfg:  serverCfg,
		factory:    factory,
		sinks:      make(map[string]*sink),
	}
}

// OnBundle implements transport.Listener: every non-envelope message in h
// is appended to every sink, and all sinks flush concurrently. Each
// sink's own Server.Send synthesizes its own frame/alive envelope, so the
// incoming Frame/Alive messages are not re-staged as payload. The first
// send error is returned by the errgroup but does not block the other
// sinks' delivery (§5: independent per-sink resource ownership).
func (d *Daemon) OnBundle(h *bundle.Handle) {
	d.mu.Lock()
	sinks := make([]*sink, 0, len(d.sinks))
	for _, s := range d.sinks {
		sinks = append(sinks, s)
	}
	d.mu.Unlock()

	if len(sinks) == 0 {
		return
	}

	payload := make([]model.Message, 0, h.Len())
	var alive *model.Alive
	for i := 0; i < h.Len(); i++ {
		switch m := h.At(i).(type) {
		case *model.Frame:
			continue
		case *model.Alive:
			alive = m
		default:
			payload = append(payload, m)
		}
	}

	var g errgroup.Group
	for _, s := range sinks {
		s := s
		g.Go(func() error {
			s.syncAlive(alive)
			for _, m := range payload {
				s.server.Append(m)
			}
			return s.server.Send()
		})
	}
	if err := g.Wait(); err != nil {
		tuiolog.Ops("mirror: sink delivery error: %v", err)
	}
}

// ListenAndServe opens the control socket and accepts commands until ctx
// is cancelled or a "stop"/"quit" command is received. The socket file is
// removed before listening (stale file from an unclean exit) and again on
// return.
func (d *Daemon) ListenAndServe(ctx context.Context) error {
	_ = os.Remove(d.socketPath)

	addr, err := net.ResolveUnixAddr("unix", d.socketPath)
	if err != nil {
		return fmt.Errorf("mirror: resolving control socket path: %w", err)
	}
	ln, err := net.ListenUnix("unix", addr)
	if err != nil {
		return fmt.Errorf("mirror: listening on control socket: %w", err)
	}
	d.listener = ln
	defer func() {
		ln.Close()
		os.Remove(d.socketPath)
	}()

	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			ln.Close()
		case <-stop:
		}
	}()

	for {
		conn, err := ln.AcceptUnix()
		if err != nil {
			select {
			case <-ctx.Done():
				close(stop)
				return nil
			default:
			}
			return fmt.Errorf("mirror: accepting control connection: %w", err)
		}

		shouldStop := d.serveConn(conn)
		if shouldStop {
			close(stop)
			return nil
		}
	}
}

// serveConn handles exactly one command line on conn and reports whether
// the daemon should shut down afterward.
func (d *Daemon) serveConn(conn *net.UnixConn) bool {
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	if !scanner.Scan() {
		return false
	}
	line := scanner.Text()

	reply, shouldStop := d.handle(line)
	if reply != "" {
		fmt.Fprint(conn, reply)
	}
	return shouldStop
}

// HandleCommand runs one command line through the same dispatch used by
// the control socket, for startup-time target registration (the original
// daemon's command-line positional arguments).
func (d *Daemon) HandleCommand(line string) (string, bool) {
	return d.handle(line)
}

// handle dispatches one tokenized command line and returns the textual
// reply and whether the daemon should stop.
func (d *Daemon) handle(line string) (string, bool) {
	args := tokenize(line)
	if len(args) == 0 {
		return "", false
	}

	cmd := args[0]
	rest := args[1:]

	switch cmd {
	case "stop", "quit":
		return "Stopping...\n", true
	case "show":
		return d.handleShow(), false
	case "add":
		return d.handleAdd(rest), false
	case "del":
		return d.handleDel(rest), false
	case "config":
		return d.handleConfig(rest), false
	default:
		return fmt.Sprintf("ERROR: unrecognized command %q\n", cmd), false
	}
}

func (d *Daemon) handleShow() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.sinks) == 0 {
		return "No targets set!\n"
	}
	uris := make([]string, 0, len(d.sinks))
	for uri := range d.sinks {
		uris = append(uris, uri)
	}
	sort.Strings(uris)

	var b strings.Builder
	for _, uri := range uris {
		fmt.Fprintf(&b, "Target: %s\n", uri)
	}
	return b.String()
}

func (d *Daemon) handleAdd(uris []string) string {
	var b strings.Builder
	for _, raw := range uris {
		if err := d.addSink(raw); err != nil {
			fmt.Fprintf(&b, "ERROR: %v\n", err)
			continue
		}
		fmt.Fprintf(&b, "Added %s\n", normalizeURI(raw))
	}
	return b.String()
}

func (d *Daemon) addSink(raw string) error {
	s, err := newSink(raw, d.serverCfg, d.factory)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if old, exists := d.sinks[s.uri]; exists {
		old.close()
	}
	d.sinks[s.uri] = s
	tuiolog.Diag("mirror: added sink %s", s.uri)
	return nil
}

func (d *Daemon) handleDel(uris []string) string {
	var b strings.Builder
	for _, raw := range uris {
		canonical := normalizeURI(raw)
		if canonical == "" {
			fmt.Fprintf(&b, "ERROR: %q does not look like a valid target\n", raw)
			continue
		}

		d.mu.Lock()
		s, ok := d.sinks[canonical]
		if ok {
			delete(d.sinks, canonical)
		}
		d.mu.Unlock()

		if !ok {
			fmt.Fprintf(&b, "Unknown target %s!\n", canonical)
			continue
		}
		s.close()
		fmt.Fprintf(&b, "Target %s successfully disabled.\n", canonical)
	}
	return b.String()
}

func (d *Daemon) handleConfig(args []string) string {
	if len(args) == 0 {
		return "ERROR: config command lacks argument\n"
	}
	arg := args[0]

	var raw []byte
	if strings.HasPrefix(arg, "{") {
		raw = []byte(arg)
	} else {
		data, err := os.ReadFile(arg)
		if err != nil {
			return fmt.Sprintf("ERROR: unable to load config file %q: %v\n", arg, err)
		}
		raw = data
	}

	var cfg ChainConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return fmt.Sprintf("ERROR: unable to parse config: %v\n", err)
	}

	d.mu.Lock()
	for _, s := range d.sinks {
		s.close()
	}
	d.sinks = make(map[string]*sink)
	d.mu.Unlock()

	var b strings.Builder
	for _, uri := range cfg.Sinks {
		if err := d.addSink(uri); err != nil {
			fmt.Fprintf(&b, "ERROR: %v\n", err)
			continue
		}
		fmt.Fprintf(&b, "Added %s\n", normalizeURI(uri))
	}
	return b.String()
}

// Close releases every sink's socket without touching the control socket
// (ListenAndServe owns that).
func (d *Daemon) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, s := range d.sinks {
		s.close()
	}
	d.sinks = make(map[string]*sink)
	return nil
}
