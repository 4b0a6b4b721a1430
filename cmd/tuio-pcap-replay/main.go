// Command tuio-pcap-replay replays a .pcap capture of TUIO 2.0 OSC/UDP
// traffic through the transport pipeline, for offline testing of an
// adaptor chain against recorded input instead of a live sensor.
//
// Usage:
//
//	go run -tags pcap ./cmd/tuio-pcap-replay -pcap capture.pcap -port 3333
//
// The actual pcap decoding lives behind the "pcap" build tag in
// internal/tuio/replay, mirroring internal/lidar/network/pcap.go: libpcap
// is a cgo dependency not every build of this module needs to pay for.
// Without that tag this command still builds, but fails at runtime with
// a message to rebuild with -tags=pcap.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/banshee-data/velocity.report/internal/tuio/bundle"
	"github.com/banshee-data/velocity.report/internal/tuio/replay"
	"github.com/banshee-data/velocity.report/internal/version"
)

func main() {
	pcapFile := flag.String("pcap", "", "path to a .pcap capture of TUIO OSC/UDP traffic (required)")
	udpPort := flag.Int("port", 3333, "UDP port the capture's TUIO traffic was sent to")
	versionFlag := flag.Bool("version", false, "print version information and exit")
	versionShort := flag.Bool("v", false, "print version information and exit (shorthand)")
	flag.Parse()

	if *versionFlag || *versionShort {
		fmt.Printf("tuio-pcap-replay v%s (git SHA: %s)\n", version.Version, version.GitSHA)
		return
	}

	if *pcapFile == "" {
		log.Fatal("-pcap is required")
	}

	count, err := replay.ReplayPCAP(*pcapFile, *udpPort, func(h *bundle.Handle) {
		log.Printf("replayed bundle with %d messages", h.Len())
	})
	if err != nil {
		log.Fatalf("replay failed: %v", err)
	}
	log.Printf("replayed %d bundles from %s", count, *pcapFile)
}
