package builder

import (
	"github.com/miekg/dns"

	"github.com/hnsresolve/resolver/internal/protocol"
	"github.com/hnsresolve/resolver/internal/resource"
	"github.com/hnsresolve/resolver/internal/target"
)

// CNAME appends one CNAME RR per CANONICAL record whose target
// resolves to a name (NAME or GLUE kind). Any other target kind is
// skipped silently — §7's semantic-skip case.
func CNAME(res *resource.Resource, owner, queryName string) []dns.RR {
	return aliasBuilder(res, owner, queryName, protocol.TagCANONICAL, dns.TypeCNAME)
}

// DNAME appends one DNAME RR per DELEGATE record, same rules as CNAME.
func DNAME(res *resource.Resource, owner, queryName string) []dns.RR {
	return aliasBuilder(res, owner, queryName, protocol.TagDELEGATE, dns.TypeDNAME)
}

func aliasBuilder(res *resource.Resource, owner, queryName string, tag protocol.Tag, rrtype uint16) []dns.RR {
	var out []dns.RR
	for _, rec := range res.Records {
		host, ok := rec.(resource.HostRecord)
		if !ok || host.TagValue != tag {
			continue
		}
		if host.Target.Kind != target.KindName && host.Target.Kind != target.KindGlue {
			continue
		}
		name, ok := target.ToHost(host.Target, queryName)
		if !ok {
			continue
		}
		hdr := dns.RR_Header{Name: owner, Rrtype: rrtype, Class: dns.ClassINET, Ttl: res.TTL}
		switch rrtype {
		case dns.TypeCNAME:
			out = append(out, &dns.CNAME{Hdr: hdr, Target: name})
		case dns.TypeDNAME:
			out = append(out, &dns.DNAME{Hdr: hdr, Target: name})
		}
	}
	return out
}
