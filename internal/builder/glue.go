package builder

import (
	"net"

	"github.com/miekg/dns"

	"github.com/hnsresolve/resolver/internal/protocol"
	"github.com/hnsresolve/resolver/internal/resource"
	"github.com/hnsresolve/resolver/internal/target"
)

// Glue appends the additional-section A/AAAA RRs for every
// host-bearing record of the given tag whose target is inline GLUE:
// CANONICAL↔CNAME, DELEGATE↔DNAME, NS↔NS. The owner name is the
// glue's own stored FQDN, not the record's parent owner — a resolver
// reaches the glue hostname directly.
func Glue(res *resource.Resource, tag protocol.Tag) []dns.RR {
	var out []dns.RR
	for _, rec := range res.Records {
		host, ok := rec.(resource.HostRecord)
		if !ok || host.TagValue != tag || host.Target.Kind != target.KindGlue {
			continue
		}
		out = append(out, glueRRs(host.Target, res.TTL)...)
	}
	return out
}

// ServiceGlue is Glue's SERVICE-record counterpart: it scans SERVICE
// records matching (service, protocol) — SRV, or MX's "smtp."/"tcp."
// filter — and emits inline glue the same way.
func ServiceGlue(res *resource.Resource, service, proto string) []dns.RR {
	var out []dns.RR
	for _, svc := range serviceRecords(res, service, proto) {
		if svc.Target.Kind != target.KindGlue {
			continue
		}
		out = append(out, glueRRs(svc.Target, res.TTL)...)
	}
	return out
}

func glueRRs(t target.Target, ttl uint32) []dns.RR {
	var out []dns.RR
	if v4 := t.Inet4.To4(); v4 != nil && !v4.Equal(net.IPv4zero) {
		out = append(out, &dns.A{
			Hdr: dns.RR_Header{Name: t.Name, Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: ttl},
			A:   v4,
		})
	}
	if v6 := t.Inet6.To16(); len(t.Inet6) == 16 && v6 != nil && !v6.Equal(net.IPv6zero) {
		out = append(out, &dns.AAAA{
			Hdr:  dns.RR_Header{Name: t.Name, Rrtype: dns.TypeAAAA, Class: dns.ClassINET, Ttl: ttl},
			AAAA: v6,
		})
	}
	return out
}
