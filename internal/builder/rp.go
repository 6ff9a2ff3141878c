package builder

import (
	"github.com/miekg/dns"

	"github.com/hnsresolve/resolver/internal/protocol"
	"github.com/hnsresolve/resolver/internal/resource"
)

// maxRPMailboxLength is the §4.5 cap on an EMAIL record's text before
// it can be rendered as an RP mailbox; longer texts are skipped even
// when "<text>." would be a valid multi-label name.
const maxRPMailboxLength = 63

// RP appends one RP RR per EMAIL record whose text is a valid
// mailbox: at most 63 bytes, and "<text>." passes DNS name
// verification. Records that fail either check are skipped silently.
func RP(res *resource.Resource, owner string) []dns.RR {
	var out []dns.RR
	for _, rec := range res.Records {
		text, ok := rec.(resource.TextRecord)
		if !ok || text.TagValue != protocol.TagEMAIL {
			continue
		}
		if len(text.Text) > maxRPMailboxLength {
			continue
		}
		mbox := text.Text + "."
		if _, ok := dns.IsDomainName(mbox); !ok {
			continue
		}
		out = append(out, &dns.RP{
			Hdr:  dns.RR_Header{Name: owner, Rrtype: dns.TypeRP, Class: dns.ClassINET, Ttl: res.TTL},
			Mbox: mbox,
			Txt:  ".",
		})
	}
	return out
}
