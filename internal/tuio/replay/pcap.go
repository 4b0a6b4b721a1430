//go:build pcap
// +build pcap

// Package replay drives a bundle.Handle stream from a recorded .pcap
// capture instead of a live socket, for offline adaptor-chain testing.
// Grounded on internal/lidar/network/pcap.go's gopacket read loop, ported
// from a polar-point parser to the OSC/UDP TUIO codec.
package replay

import (
	"fmt"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"

	"github.com/banshee-data/velocity.report/internal/tuio/bundle"
	"github.com/banshee-data/velocity.report/internal/tuio/osc"
	"github.com/banshee-data/velocity.report/internal/tuio/tuiolog"
)

// ReplayPCAP reads every UDP packet addressed to udpPort in pcapFile,
// decodes it as an OSC-framed TUIO bundle, and calls onBundle for each one
// that decodes to at least one message. Malformed or empty datagrams are
// logged and skipped, matching Client.Load's propagation policy (§7). It
// returns the number of bundles replayed.
func ReplayPCAP(pcapFile string, udpPort int, onBundle func(*bundle.Handle)) (int, error) {
	handle, err := pcap.OpenOffline(pcapFile)
	if err != nil {
		return 0, fmt.Errorf("failed to open pcap file %s: %w", pcapFile, err)
	}
	defer handle.Close()

	filter := fmt.Sprintf("udp port %d", udpPort)
	if err := handle.SetBPFFilter(filter); err != nil {
		return 0, fmt.Errorf("failed to set BPF filter %q: %w", filter, err)
	}

	codec := osc.NewCodec(true, osc.LTALenient)
	source := gopacket.NewPacketSource(handle, handle.LinkType())

	replayed := 0
	for packet := range source.Packets() {
		udpLayer := packet.Layer(layers.LayerTypeUDP)
		if udpLayer == nil {
			continue
		}
		udp, ok := udpLayer.(*layers.UDP)
		if !ok || len(udp.Payload) == 0 {
			continue
		}

		h, ok := decodeBundle(codec, udp.Payload)
		if !ok {
			continue
		}
		onBundle(h)
		replayed++
	}
	return replayed, nil
}

func decodeBundle(codec *osc.Codec, data []byte) (*bundle.Handle, bool) {
	raw, err := osc.DecodeBundle(data)
	if err != nil {
		tuiolog.Ops("replay: dropping malformed datagram: %v", err)
		return nil, false
	}
	msgs := codec.DecodeBundle(raw)
	if len(msgs) == 0 {
		return nil, false
	}
	h := bundle.NewHandle()
	for _, m := range msgs {
		h.Append(m)
	}
	return h, true
}
