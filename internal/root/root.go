// Package root implements the resolver's own answers for the root
// zone (§4.7): NS/SOA/DNSKEY/DS for queries against ".", the fixed
// root NSEC denial used for any other qtype, and the three canned
// negative responses (NXDOMAIN, SERVFAIL, NOTIMP).
package root

import (
	"net"

	"github.com/miekg/dns"

	"github.com/hnsresolve/resolver/internal/dispatch"
	"github.com/hnsresolve/resolver/internal/dnssec"
	"github.com/hnsresolve/resolver/internal/netaddr"
	"github.com/hnsresolve/resolver/internal/protocol"
)

// ToDNS synthesizes the root zone's own response to qtype, without
// any resource — the root has no on-chain record set. serverAddr, if
// non-nil, is the resolver's own address, offered as additional-
// section glue for NS/ANY queries.
func ToDNS(signer *dnssec.Signer, qtype uint16, serverAddr net.IP) (*dns.Msg, error) {
	switch qtype {
	case dns.TypeNS, dns.TypeANY:
		return rootNS(signer, serverAddr)
	case dns.TypeSOA:
		return rootSOAResponse(signer)
	case dns.TypeDNSKEY:
		return rootDNSKEY(signer)
	case dns.TypeDS:
		return rootDS(signer)
	default:
		return rootDenial(signer)
	}
}

func rootNS(signer *dnssec.Signer, serverAddr net.IP) (*dns.Msg, error) {
	msg := &dns.Msg{}
	msg.Answer = append(msg.Answer, &dns.NS{
		Hdr: dns.RR_Header{Name: ".", Rrtype: dns.TypeNS, Class: dns.ClassINET, Ttl: protocol.RootTTLApex},
		Ns:  ".",
	})
	msg.Extra = append(msg.Extra, serverAddrRRs(serverAddr)...)

	if err := signer.SignZSK(&msg.Answer, dns.TypeNS); err != nil {
		return nil, err
	}
	return msg, nil
}

func rootSOAResponse(signer *dnssec.Signer) (*dns.Msg, error) {
	msg := &dns.Msg{}
	msg.Answer = append(msg.Answer, dispatch.RootSOA(signer.Now()))
	msg.Ns = append(msg.Ns, &dns.NS{
		Hdr: dns.RR_Header{Name: ".", Rrtype: dns.TypeNS, Class: dns.ClassINET, Ttl: protocol.RootTTLApex},
		Ns:  ".",
	})

	if err := signer.SignZSK(&msg.Answer, dns.TypeSOA); err != nil {
		return nil, err
	}
	if err := signer.SignZSK(&msg.Ns, dns.TypeNS); err != nil {
		return nil, err
	}
	return msg, nil
}

func rootDNSKEY(signer *dnssec.Signer) (*dns.Msg, error) {
	msg := &dns.Msg{}
	ksk, zsk := *signer.KSK(), *signer.ZSK()
	ksk.Hdr.Ttl = protocol.RootTTLSecurity
	zsk.Hdr.Ttl = protocol.RootTTLSecurity
	msg.Answer = append(msg.Answer, &ksk, &zsk)

	if err := signer.SignKSK(&msg.Answer, dns.TypeDNSKEY); err != nil {
		return nil, err
	}
	return msg, nil
}

func rootDS(signer *dnssec.Signer) (*dns.Msg, error) {
	msg := &dns.Msg{}
	msg.Answer = append(msg.Answer, signer.DS())

	if err := signer.SignZSK(&msg.Answer, dns.TypeDS); err != nil {
		return nil, err
	}
	return msg, nil
}

// rootDenial is the §4.7 catch-all: two NSEC RRs for the root (one
// per RFC 4035-style ownership convention — the root's own record and
// the wraparound to itself, since "." is the only name in this zone)
// plus the signed root SOA.
func rootDenial(signer *dnssec.Signer) (*dns.Msg, error) {
	msg := &dns.Msg{}
	bitmap := rootTypeBitmap()
	for i := 0; i < 2; i++ {
		msg.Ns = append(msg.Ns, &dns.NSEC{
			Hdr:        dns.RR_Header{Name: ".", Rrtype: dns.TypeNSEC, Class: dns.ClassINET, Ttl: protocol.RootTTLSecurity},
			NextDomain: ".",
			TypeBitMap: bitmap,
		})
	}
	msg.Ns = append(msg.Ns, dispatch.RootSOA(signer.Now()))

	if err := signer.SignZSK(&msg.Ns, dns.TypeNSEC); err != nil {
		return nil, err
	}
	if err := signer.SignZSK(&msg.Ns, dns.TypeSOA); err != nil {
		return nil, err
	}
	return msg, nil
}

// rootTypeBitmap is the canonical {SOA, NS, RRSIG, NSEC, DNSKEY}
// bitmap protocol.RootNSECBitmap fixes as data; this expands it to
// the type-code list miekg/dns's NSEC RR expects, rather than
// re-deriving the windowed wire bytes by hand.
func rootTypeBitmap() []uint16 {
	return []uint16{dns.TypeNS, dns.TypeSOA, dns.TypeRRSIG, dns.TypeNSEC, dns.TypeDNSKEY}
}

func serverAddrRRs(addr net.IP) []dns.RR {
	if addr == nil {
		return nil
	}
	var out []dns.RR
	if netaddr.IsIP4(addr) {
		out = append(out, &dns.A{
			Hdr: dns.RR_Header{Name: ".", Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: protocol.RootTTLApex},
			A:   addr.To4(),
		})
	} else if netaddr.IsIP6(addr) {
		out = append(out, &dns.AAAA{
			Hdr:  dns.RR_Header{Name: ".", Rrtype: dns.TypeAAAA, Class: dns.ClassINET, Ttl: protocol.RootTTLApex},
			AAAA: addr.To16(),
		})
	}
	return out
}

// NX returns the canned NXDOMAIN response: AA set, authority holding
// two root NSECs plus the signed root SOA — the same denial the
// resolver emits for any root qtype it doesn't special-case, reused
// here because a name outside the chain's own zone is exactly that
// kind of absence.
func NX(signer *dnssec.Signer) (*dns.Msg, error) {
	msg, err := rootDenial(signer)
	if err != nil {
		return nil, err
	}
	msg.Rcode = dns.RcodeNameError
	msg.Authoritative = true
	return msg, nil
}

// ServFail returns the canned SERVFAIL response: no records, just the
// rcode — used when the resource itself failed to decode or a
// section builder hit an allocation/signing failure.
func ServFail() *dns.Msg {
	msg := &dns.Msg{}
	msg.Rcode = dns.RcodeServerFailure
	return msg
}

// NotImp returns the canned NOTIMP response for a request class or
// opcode this resolver doesn't support.
func NotImp() *dns.Msg {
	msg := &dns.Msg{}
	msg.Rcode = dns.RcodeNotImplemented
	return msg
}
