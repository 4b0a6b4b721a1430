//go:build !pcap
// +build !pcap

package replay

import (
	"fmt"

	"github.com/banshee-data/velocity.report/internal/tuio/bundle"
)

// ReplayPCAP is a stub implementation when PCAP support is disabled.
// Build with -tags=pcap to enable PCAP file replay.
func ReplayPCAP(pcapFile string, udpPort int, onBundle func(*bundle.Handle)) (int, error) {
	return 0, fmt.Errorf("PCAP support not enabled: rebuild with -tags=pcap to enable PCAP file replay")
}
