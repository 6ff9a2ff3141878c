package builder

import (
	"github.com/miekg/dns"

	"github.com/hnsresolve/resolver/internal/pointer"
	"github.com/hnsresolve/resolver/internal/protocol"
	"github.com/hnsresolve/resolver/internal/resource"
	"github.com/hnsresolve/resolver/internal/target"
)

// NS appends one NS RR per NS-tagged record. A target of kind NAME or
// GLUE uses its stored FQDN directly; a target of kind INET4/INET6
// (the "synthetic" case — no real hostname on chain) gets its NS name
// computed on the fly as `_<b32>._synth.`, a magic pseudo-TLD the
// upstream resolver knows to decode without a further lookup.
func NS(res *resource.Resource, owner string) []dns.RR {
	var out []dns.RR
	for _, rec := range res.Records {
		host, ok := rec.(resource.HostRecord)
		if !ok || host.TagValue != protocol.TagNS {
			continue
		}

		nsname, ok := synthOrStoredName(host.Target)
		if !ok {
			continue
		}

		out = append(out, &dns.NS{
			Hdr: dns.RR_Header{Name: owner, Rrtype: dns.TypeNS, Class: dns.ClassINET, Ttl: res.TTL},
			Ns:  nsname,
		})
	}
	return out
}

func synthOrStoredName(t target.Target) (string, bool) {
	switch t.Kind {
	case target.KindName, target.KindGlue:
		return t.Name, true
	case target.KindInet4:
		b32, err := pointer.EncodeV4(t.Inet4)
		if err != nil {
			return "", false
		}
		return b32 + "._synth.", true
	case target.KindInet6:
		b32, err := pointer.EncodeV6(t.Inet6)
		if err != nil {
			return "", false
		}
		return b32 + "._synth.", true
	default:
		return "", false
	}
}
