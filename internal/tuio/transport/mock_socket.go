package transport

import (
	"net"
	"time"
)

// MockPacket is one packet a MockSocket will hand back from ReadFromUDP.
type MockPacket struct {
	Data []byte
	Addr *net.UDPAddr
}

// MockSocket is a Socket implementation for tests, grounded on
// internal/lidar/network's MockUDPSocket: a canned packet queue plus
// recorded writes, with no real network I/O.
type MockSocket struct {
	Packets   []MockPacket
	ReadIndex int
	Closed    bool
	ReadBufferSize int
	ReadDeadline   time.Time
	LocalAddress   *net.UDPAddr
	ReadError      error

	// Written records every WriteToUDP call, in order.
	Written []MockPacket
}

// NewMockSocket returns a MockSocket that will yield packets in order.
func NewMockSocket(packets []MockPacket) *MockSocket {
	return &MockSocket{
		Packets:      packets,
		LocalAddress: &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 3333},
	}
}

func (m *MockSocket) ReadFromUDP(b []byte) (int, *net.UDPAddr, error) {
	if m.Closed {
		return 0, nil, net.ErrClosed
	}
	if m.ReadError != nil {
		err := m.ReadError
		m.ReadError = nil
		return 0, nil, err
	}
	if m.ReadIndex >= len(m.Packets) {
		return 0, nil, &net.OpError{Op: "read", Net: "udp", Err: &mockTimeoutError{}}
	}
	pkt := m.Packets[m.ReadIndex]
	m.ReadIndex++
	n := copy(b, pkt.Data)
	return n, pkt.Addr, nil
}

func (m *MockSocket) WriteToUDP(b []byte, addr *net.UDPAddr) (int, error) {
	cp := append([]byte(nil), b...)
	m.Written = append(m.Written, MockPacket{Data: cp, Addr: addr})
	return len(b), nil
}

func (m *MockSocket) SetReadBuffer(bytes int) error     { m.ReadBufferSize = bytes; return nil }
func (m *MockSocket) SetReadDeadline(t time.Time) error { m.ReadDeadline = t; return nil }
func (m *MockSocket) Close() error                      { m.Closed = true; return nil }
func (m *MockSocket) LocalAddr() net.Addr               { return m.LocalAddress }

// mockTimeoutError implements net.Error for simulating a read timeout when
// the canned packet queue is drained.
type mockTimeoutError struct{}

func (e *mockTimeoutError) Error() string   { return "i/o timeout" }
func (e *mockTimeoutError) Timeout() bool   { return true }
func (e *mockTimeoutError) Temporary() bool { return true }

// MockSocketFactory hands out a fresh empty MockSocket per ListenUDP call,
// recording every socket it created so a test can inspect what each one
// wrote.
type MockSocketFactory struct {
	Created []*MockSocket
}

// NewMockSocketFactory returns an empty MockSocketFactory.
func NewMockSocketFactory() *MockSocketFactory { return &MockSocketFactory{} }

func (f *MockSocketFactory) ListenUDP(network string, laddr *net.UDPAddr) (Socket, error) {
	s := NewMockSocket(nil)
	f.Created = append(f.Created, s)
	return s, nil
}
