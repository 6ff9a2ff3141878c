package main

import (
	"context"
	"net"
	"time"

	"github.com/miekg/dns"

	"github.com/hnsresolve/resolver/internal/security"
	"github.com/hnsresolve/resolver/internal/transport"
	"github.com/hnsresolve/resolver/resolver"
)

// The defaultRate* constants cap a single source IP to 100 queries/second with
// a 30s cooldown once exceeded, tracking at most 100,000 sources.
const (
	defaultRateThreshold  = 100
	defaultRateCooldown   = 30 * time.Second
	defaultRateMaxEntries = 100_000
)

// server pairs a Transport with a resolver.Core. Its run loop:
// receive with context, handle, keep going on a transient error, stop
// on ctx.Done.
// Every datagram passes through the bogon source filter and the
// per-source rate limiter before it ever reaches the core.
type server struct {
	tr      transport.Transport
	core    *resolver.Core
	filter  *security.SourceFilter
	limiter *security.RateLimiter
}

func newServer(addr string, core *resolver.Core) (*server, error) {
	tr, err := transport.NewUDPv4Transport(addr)
	if err != nil {
		return nil, err
	}
	return &server{
		tr:      tr,
		core:    core,
		filter:  security.NewSourceFilter(),
		limiter: security.NewRateLimiter(defaultRateThreshold, defaultRateCooldown, defaultRateMaxEntries),
	}, nil
}

func (s *server) Close() error {
	return s.tr.Close()
}

// Run blocks, answering queries until ctx is canceled.
func (s *server) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		packet, from, err := s.tr.Receive(ctx)
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
				continue
			}
		}

		go s.handleQuery(ctx, packet, from)
	}
}

// handleQuery parses one wire query, resolves it through the core,
// and writes back whatever response (or SERVFAIL/NOTIMP) results.
// Parse failures are dropped silently, matching the core's own
// "malformed input produces no partial output" discipline.
func (s *server) handleQuery(ctx context.Context, packet []byte, from net.Addr) {
	srcIP := addrIP(from)
	if !s.filter.IsValid(srcIP) {
		return
	}
	if !s.limiter.Allow(srcIP.String()) {
		return
	}

	req := new(dns.Msg)
	if err := req.Unpack(packet); err != nil {
		return
	}
	if req.Response || len(req.Question) != 1 {
		return
	}

	q := req.Question[0]

	var resp *dns.Msg
	if q.Qclass != dns.ClassINET {
		resp = s.core.NotImp()
	} else if dns.CountLabel(q.Name) == 0 {
		m, err := s.core.Root(q.Qtype)
		if err != nil {
			resp = s.core.ServFail()
		} else {
			resp = m
		}
	} else {
		m, err := s.core.Resolve(ctx, q.Name, q.Qtype)
		if err != nil {
			resp = s.core.ServFail()
		} else {
			resp = m
		}
	}

	rcode := resp.Rcode
	authoritative := resp.Authoritative
	resp.SetReply(req)
	resp.Rcode = rcode
	resp.Authoritative = authoritative

	out, err := resp.Pack()
	if err != nil {
		return
	}
	_ = s.tr.Send(ctx, out, from)
}

// addrIP extracts the IP from whatever concrete net.Addr the
// transport handed back.
func addrIP(addr net.Addr) net.IP {
	if udpAddr, ok := addr.(*net.UDPAddr); ok {
		return udpAddr.IP
	}
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return nil
	}
	return net.ParseIP(host)
}
