package transport

import (
	"context"
	"fmt"
	"net"

	"golang.org/x/net/ipv4"

	"github.com/hnsresolve/resolver/internal/errors"
)

// UDPv4Transport is a unicast UDP/IPv4 authoritative DNS socket.
//
// An authoritative resolver has no multicast group to join — it binds
// like any ordinary unicast DNS server — so construction here uses
// net.ListenConfig with a platform-specific Control hook for socket
// options, and wraps the result in an ipv4.PacketConn with the
// destination-address control message enabled. Receive reads through
// the plain connection and does not report which local address a
// query arrived on.
type UDPv4Transport struct {
	conn net.PacketConn
	pc   *ipv4.PacketConn
}

// NewUDPv4Transport binds a unicast UDP/IPv4 socket at addr (for
// example ":53" or "127.0.0.1:8053"). SO_REUSEADDR/SO_REUSEPORT are
// set via the platform-specific Control hook so a second process can
// share the port during a restart.
func NewUDPv4Transport(addr string) (*UDPv4Transport, error) {
	lc := net.ListenConfig{Control: platformControl}

	conn, err := lc.ListenPacket(context.Background(), "udp4", addr)
	if err != nil {
		return nil, &errors.NetworkError{
			Operation: "create socket",
			Err:       err,
			Details:   fmt.Sprintf("failed to bind %s", addr),
		}
	}

	if err := conn.(*net.UDPConn).SetReadBuffer(65536); err != nil {
		_ = conn.Close()
		return nil, &errors.NetworkError{
			Operation: "configure socket",
			Err:       err,
			Details:   "failed to set read buffer size",
		}
	}

	pc := ipv4.NewPacketConn(conn)
	if err := pc.SetControlMessage(ipv4.FlagDst, true); err != nil {
		// Not fatal: some kernels/containers restrict this, and
		// Send/Receive do not use the wrapper.
		pc = nil
	}

	return &UDPv4Transport{conn: conn, pc: pc}, nil
}

// Send transmits a packet to dest.
func (t *UDPv4Transport) Send(ctx context.Context, packet []byte, dest net.Addr) error {
	select {
	case <-ctx.Done():
		return &errors.NetworkError{
			Operation: "send response",
			Err:       ctx.Err(),
			Details:   "context canceled before send",
		}
	default:
	}

	n, err := t.conn.WriteTo(packet, dest)
	if err != nil {
		return &errors.NetworkError{
			Operation: "send response",
			Err:       err,
			Details:   fmt.Sprintf("failed to send %d bytes to %s", len(packet), dest),
		}
	}
	if n != len(packet) {
		return &errors.NetworkError{
			Operation: "send response",
			Err:       fmt.Errorf("partial write: %d/%d bytes", n, len(packet)),
			Details:   "incomplete transmission",
		}
	}
	return nil
}

// Receive waits for an incoming packet, respecting context
// cancellation/deadline.
func (t *UDPv4Transport) Receive(ctx context.Context) ([]byte, net.Addr, error) {
	select {
	case <-ctx.Done():
		return nil, nil, &errors.NetworkError{
			Operation: "receive query",
			Err:       ctx.Err(),
			Details:   "context canceled before receive",
		}
	default:
	}

	if deadline, ok := ctx.Deadline(); ok {
		if err := t.conn.SetReadDeadline(deadline); err != nil {
			return nil, nil, &errors.NetworkError{
				Operation: "set read timeout",
				Err:       err,
				Details:   fmt.Sprintf("failed to set deadline %v", deadline),
			}
		}
	}

	bufPtr := GetBuffer()
	defer PutBuffer(bufPtr)
	buffer := *bufPtr

	n, srcAddr, err := t.conn.ReadFrom(buffer)
	if err != nil {
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			return nil, nil, &errors.NetworkError{
				Operation: "receive query",
				Err:       err,
				Details:   "timeout",
			}
		}
		return nil, nil, &errors.NetworkError{
			Operation: "receive query",
			Err:       err,
			Details:   "failed to read from socket",
		}
	}

	result := make([]byte, n)
	copy(result, buffer[:n])
	return result, srcAddr, nil
}

// LocalAddr returns the socket's bound address, useful for logging the
// actual port chosen when NewUDPv4Transport was given port 0.
func (t *UDPv4Transport) LocalAddr() net.Addr {
	return t.conn.LocalAddr()
}

// Close releases the socket.
func (t *UDPv4Transport) Close() error {
	if t.conn == nil {
		return nil
	}
	if err := t.conn.Close(); err != nil {
		return &errors.NetworkError{
			Operation: "close socket",
			Err:       err,
			Details:   "failed to close UDP connection",
		}
	}
	return nil
}

// Compile-time verification that UDPv4Transport implements Transport.
var _ Transport = (*UDPv4Transport)(nil)
