package security

import "net"

// bogonRanges are the reserved/non-routable address blocks a packet's
// source IP should never legitimately carry when it reaches a public
// authoritative server: loopback, link-local, documentation ranges,
// and RFC1918/ULA private space. A query claiming one of these as its
// source is either misconfigured or the reflected leg of a spoofed
// amplification attempt, neither of which gets an answer.
var bogonRanges = mustParseCIDRs(
	"0.0.0.0/8",
	"10.0.0.0/8",
	"100.64.0.0/10",
	"127.0.0.0/8",
	"169.254.0.0/16",
	"172.16.0.0/12",
	"192.0.2.0/24",
	"192.168.0.0/16",
	"198.18.0.0/15",
	"198.51.100.0/24",
	"203.0.113.0/24",
	"224.0.0.0/4",
	"240.0.0.0/4",
	"::1/128",
	"fe80::/10",
	"fc00::/7",
	"2001:db8::/32",
	"ff00::/8",
)

func mustParseCIDRs(cidrs ...string) []*net.IPNet {
	nets := make([]*net.IPNet, 0, len(cidrs))
	for _, c := range cidrs {
		_, ipnet, err := net.ParseCIDR(c)
		if err != nil {
			panic("security: invalid bogon CIDR literal " + c)
		}
		nets = append(nets, ipnet)
	}
	return nets
}

// SourceFilter rejects queries whose claimed source address is a
// bogon: reserved, private, or otherwise not a real routable host
// that could have sent this query. It is stateless and safe for
// concurrent use.
type SourceFilter struct{}

// NewSourceFilter builds a SourceFilter. It takes no arguments because
// the bogon table is fixed data, not interface-local configuration —
// unlike the multicast responder this is adapted from, an
// authoritative server has no "receiving interface" whose subnet
// defines validity.
func NewSourceFilter() *SourceFilter {
	return &SourceFilter{}
}

// IsValid reports whether srcIP is an acceptable query source: not
// unspecified, not in any bogon range.
func (sf *SourceFilter) IsValid(srcIP net.IP) bool {
	if srcIP == nil || srcIP.IsUnspecified() {
		return false
	}
	for _, bogon := range bogonRanges {
		if bogon.Contains(srcIP) {
			return false
		}
	}
	return true
}
