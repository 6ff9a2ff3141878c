package builder

import (
	"github.com/miekg/dns"

	"github.com/hnsresolve/resolver/internal/protocol"
	"github.com/hnsresolve/resolver/internal/resource"
)

// TXT appends one TXT RR per TEXT record. The RDATA is a single
// character-string of at most 255 bytes — readText already enforced
// that cap at decode time, so every TEXT record here fits.
func TXT(res *resource.Resource, owner string) []dns.RR {
	var out []dns.RR
	for _, rec := range res.Records {
		text, ok := rec.(resource.TextRecord)
		if !ok || text.TagValue != protocol.TagTEXT {
			continue
		}
		out = append(out, &dns.TXT{
			Hdr: dns.RR_Header{Name: owner, Rrtype: dns.TypeTXT, Class: dns.ClassINET, Ttl: res.TTL},
			Txt: []string{text.Text},
		})
	}
	return out
}
