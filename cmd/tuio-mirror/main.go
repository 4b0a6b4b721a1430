// Command tuio-mirror runs the TUIO 2.0 mirror daemon: it listens for an
// incoming OSC/UDP TUIO stream and re-sends every bundle to a runtime-
// configurable set of sinks, managed over a UNIX control socket.
//
// Usage:
//
//	go run ./cmd/tuio-mirror [flags] [<host>[:port]]...
//
// Flags:
//
//	-port   Port to listen for the incoming TUIO stream on (default 3333)
//	-source Source name stamped on outgoing frame envelopes
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/banshee-data/velocity.report/internal/tuio/mirror"
	"github.com/banshee-data/velocity.report/internal/tuio/osc"
	"github.com/banshee-data/velocity.report/internal/tuio/transport"
	"github.com/banshee-data/velocity.report/internal/tuio/tuioconfig"
	"github.com/banshee-data/velocity.report/internal/version"
)

// pollTimeout bounds each Client.Load call so the receive loop stays
// responsive to context cancellation.
const pollTimeout = 200 * time.Millisecond


func main() {
	port := flag.Int("port", 3333, "port to listen for the incoming TUIO stream on")
	source := flag.String("source", "muse mirror", "source name stamped on outgoing frame envelopes")
	configPath := flag.String("config", "", "optional tuioconfig JSON file")
	versionFlag := flag.Bool("version", false, "print version information and exit")
	versionShort := flag.Bool("v", false, "print version information and exit (shorthand)")
	flag.Parse()

	if *versionFlag || *versionShort {
		fmt.Printf("tuio-mirror v%s (git SHA: %s)\n", version.Version, version.GitSHA)
		return
	}

	cfg := tuioconfig.Empty()
	if *configPath != "" {
		loaded, err := tuioconfig.Load(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		cfg = loaded
	}

	laddr := &net.UDPAddr{Port: *port}
	socket, err := transport.NewRealSocketFactory().ListenUDP("udp", laddr)
	if err != nil {
		log.Fatalf("failed to listen on port %d: %v", *port, err)
	}

	codec := osc.NewCodec(true, osc.LTALenient)
	client := transport.NewClient(socket, codec)

	serverCfg := transport.ServerConfig{Source: *source}
	socketPath := cfg.GetMirrorSocketPath(*port)
	daemon := mirror.NewDaemon(socketPath, serverCfg, transport.NewRealSocketFactory())
	client.AddListener(daemon)

	for _, uri := range flag.Args() {
		if reply, stop := daemon.HandleCommand(fmt.Sprintf("add %s", uri)); stop {
			log.Fatal("unexpected stop during startup target registration")
		} else if strings.Contains(reply, "ERROR") {
			log.Printf("%s", strings.TrimSpace(reply))
		} else {
			fmt.Print(reply)
		}
	}

	ctx, stopSignal := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignal()

	log.Printf("tuio-mirror listening on :%d, control socket %s", *port, socketPath)

	done := make(chan error, 1)
	go func() { done <- daemon.ListenAndServe(ctx) }()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}
			if _, err := client.Load(1, pollTimeout); err != nil {
				log.Printf("tuio-mirror: load error: %v", err)
			}
		}
	}()

	if err := <-done; err != nil {
		log.Fatalf("mirror daemon exited: %v", err)
	}

	daemon.Close()
	client.Close()
	_ = os.Remove(socketPath)
	log.Print("tuio-mirror shut down")
}
