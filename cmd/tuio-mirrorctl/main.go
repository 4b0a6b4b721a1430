// Command tuio-mirrorctl sends one command to a running tuio-mirror
// daemon's control socket and prints the reply, the Go counterpart of
// original_source/utils/mirror/mirrorctl.cpp.
//
// Usage:
//
//	go run ./cmd/tuio-mirrorctl -port 3333 add 127.0.0.1:3334
//	go run ./cmd/tuio-mirrorctl -port 3333 show
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"strings"
	"time"

	"github.com/banshee-data/velocity.report/internal/tuio/tuioconfig"
	"github.com/banshee-data/velocity.report/internal/version"
)

const replyTimeout = 10 * time.Second

func main() {
	port := flag.Int("port", 3333, "port the target tuio-mirror daemon is listening the TUIO stream on")
	socketPath := flag.String("socket", "", "control socket path (default: derived from -port)")
	versionFlag := flag.Bool("version", false, "print version information and exit")
	versionShort := flag.Bool("v", false, "print version information and exit (shorthand)")
	flag.Parse()

	if *versionFlag || *versionShort {
		fmt.Printf("tuio-mirrorctl v%s (git SHA: %s)\n", version.Version, version.GitSHA)
		return
	}

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: tuio-mirrorctl [-port N] <command> [args...]")
		os.Exit(1)
	}

	path := *socketPath
	if path == "" {
		path = tuioconfig.Empty().GetMirrorSocketPath(*port)
	}

	conn, err := net.DialTimeout("unix", path, replyTimeout)
	if err != nil {
		log.Fatalf("failed to connect to control socket %s: %v", path, err)
	}
	defer conn.Close()

	line := strings.Join(flag.Args(), " ") + "\n"
	if _, err := conn.Write([]byte(line)); err != nil {
		log.Fatalf("failed to send command: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(replyTimeout))
	reply, err := io.ReadAll(conn)
	if err != nil && len(reply) == 0 {
		log.Fatalf("failed to read reply: %v", err)
	}
	fmt.Print(string(reply))
}
