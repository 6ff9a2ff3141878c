// Package transport is the ambient UDP listener that sits in
// front of the translation core: it accepts wire queries on an
// authoritative DNS socket, hands the raw bytes to whatever decides
// what to answer, and writes the response back. The translation core
// itself stays a pure function of (resource bytes, query); this
// package is the runnable-server scaffolding around it.
package transport

import (
	"context"
	"net"
)

// DefaultPort is the standard authoritative DNS port. Production
// deployments typically need CAP_NET_BIND_SERVICE (or equivalent) to
// bind it directly; the address passed to NewUDPv4Transport or
// NewUDPv6Transport can name an unprivileged port for local testing
// instead.
const DefaultPort = 53

// Transport abstracts the datagram socket a listener runs on, so the
// server loop can run against a real UDP socket or a MockTransport
// without change.
type Transport interface {
	Send(ctx context.Context, packet []byte, dest net.Addr) error
	Receive(ctx context.Context) ([]byte, net.Addr, error)
	Close() error
}
