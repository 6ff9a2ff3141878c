// Package builder implements the per-RRtype section builders: each
// function scans a decoded resource and appends the RRs one RRtype
// family is responsible for. Every builder owns exactly the fields
// §4.5 assigns it; malformed input never reaches here (decode already
// rejected it), so a builder only ever skips semantically, never
// errors.
package builder

import (
	"github.com/miekg/dns"

	"github.com/hnsresolve/resolver/internal/protocol"
	"github.com/hnsresolve/resolver/internal/resource"
	"github.com/hnsresolve/resolver/internal/target"
)

// A appends one A RR per INET4 record.
func A(res *resource.Resource, owner string) []dns.RR {
	var out []dns.RR
	for _, rec := range res.Records {
		host, ok := rec.(resource.HostRecord)
		if !ok || host.TagValue != protocol.TagINET4 {
			continue
		}
		out = append(out, &dns.A{
			Hdr: dns.RR_Header{Name: owner, Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: res.TTL},
			A:   host.Target.Inet4,
		})
	}
	return out
}

// AAAA appends one AAAA RR per INET6 record.
func AAAA(res *resource.Resource, owner string) []dns.RR {
	var out []dns.RR
	for _, rec := range res.Records {
		host, ok := rec.(resource.HostRecord)
		if !ok || host.TagValue != protocol.TagINET6 {
			continue
		}
		out = append(out, &dns.AAAA{
			Hdr:  dns.RR_Header{Name: owner, Rrtype: dns.TypeAAAA, Class: dns.ClassINET, Ttl: res.TTL},
			AAAA: host.Target.Inet6,
		})
	}
	return out
}

// NSIP appends one A/AAAA RR per NS record whose target is a raw
// INET4/INET6 address, owned by the synthetic pointer hostname §4.4
// derives for it — the additional-section glue that lets resolvers
// reach a nameserver that has no real name.
func NSIP(res *resource.Resource, queryName string) []dns.RR {
	var out []dns.RR
	for _, rec := range res.Records {
		host, ok := rec.(resource.HostRecord)
		if !ok || host.TagValue != protocol.TagNS {
			continue
		}
		if host.Target.Kind != target.KindInet4 && host.Target.Kind != target.KindInet6 {
			continue
		}
		host2, ok := target.ToHost(host.Target, queryName)
		if !ok {
			continue
		}
		if host.Target.Kind == target.KindInet4 {
			out = append(out, &dns.A{
				Hdr: dns.RR_Header{Name: host2, Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: res.TTL},
				A:   host.Target.Inet4,
			})
		} else {
			out = append(out, &dns.AAAA{
				Hdr:  dns.RR_Header{Name: host2, Rrtype: dns.TypeAAAA, Class: dns.ClassINET, Ttl: res.TTL},
				AAAA: host.Target.Inet6,
			})
		}
	}
	return out
}
