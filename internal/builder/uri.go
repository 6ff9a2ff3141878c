package builder

import (
	"encoding/hex"
	"fmt"

	"github.com/miekg/dns"

	"github.com/hnsresolve/resolver/internal/protocol"
	"github.com/hnsresolve/resolver/internal/resource"
)

// maxURILength is the DNS character-string cap the §4.5 URI builder
// enforces on every rendered string, whether it came straight from a
// URL record or was assembled from a MAGNET or ADDR record: anything
// that doesn't fit is skipped silently, never an error.
const maxURILength = 255

// URI appends one URI RR per URL record, one per MAGNET record that
// renders to a magnet: string within the length cap, and one per
// qualifying ADDR record — in that order, matching §4.5.
func URI(res *resource.Resource, owner string) []dns.RR {
	var out []dns.RR

	for _, rec := range res.Records {
		text, ok := rec.(resource.TextRecord)
		if !ok || text.TagValue != protocol.TagURL {
			continue
		}
		out = append(out, uriRR(owner, res.TTL, text.Text))
	}

	for _, rec := range res.Records {
		magnet, ok := rec.(resource.MagnetRecord)
		if !ok {
			continue
		}
		s := fmt.Sprintf("magnet:?xt=urn:%s:%s", magnet.NID, hex.EncodeToString(magnet.NIN))
		if len(s) > maxURILength {
			continue
		}
		out = append(out, uriRR(owner, res.TTL, s))
	}

	for _, rec := range res.Records {
		addr, ok := rec.(resource.AddrRecord)
		if !ok {
			continue
		}
		s, ok := renderAddr(addr)
		if !ok || len(s) > maxURILength {
			continue
		}
		out = append(out, uriRR(owner, res.TTL, s))
	}

	return out
}

// renderAddr renders an ADDR record's "<currency>:<addr>" string for
// the two ctype encodings §4.5 names: ctype 0 uses the stored address
// string directly, ctype 3 renders the hash as a 0x-prefixed hex
// string. Any other ctype is not representable as a URI and is
// skipped.
func renderAddr(addr resource.AddrRecord) (string, bool) {
	switch addr.CType {
	case 0:
		return addr.Currency + ":" + addr.Address, true
	case 3:
		return addr.Currency + ":0x" + hex.EncodeToString(addr.Hash), true
	default:
		return "", false
	}
}

func uriRR(owner string, ttl uint32, target string) dns.RR {
	return &dns.URI{
		Hdr:      dns.RR_Header{Name: owner, Rrtype: dns.TypeURI, Class: dns.ClassINET, Ttl: ttl},
		Priority: 0,
		Weight:   0,
		Target:   target,
	}
}
