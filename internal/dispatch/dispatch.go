// Package dispatch implements the resource-to-DNS-message decision
// tree (§4.6): given a decoded resource, the queried FQDN, and the
// queried RRtype, it decides referral vs authoritative vs
// empty-proof, orchestrates the §4.5 section builders, sets the AA
// flag, and signs every section it populates.
package dispatch

import (
	"time"

	"github.com/miekg/dns"

	"github.com/hnsresolve/resolver/internal/builder"
	"github.com/hnsresolve/resolver/internal/dnssec"
	"github.com/hnsresolve/resolver/internal/protocol"
	"github.com/hnsresolve/resolver/internal/resource"
)

// ToDNS implements §4.6 in full: it requires fqdn to already be an
// FQDN (a contract violation otherwise — §7 traps, it does not
// return an error) and returns the synthesized, signed message.
func ToDNS(signer *dnssec.Signer, res *resource.Resource, fqdn string, qtype uint16) (*dns.Msg, error) {
	if !dns.IsFqdn(fqdn) {
		panic("dispatch: ToDNS called with a non-FQDN name")
	}

	labels, ok := dns.IsDomainName(fqdn)
	if !ok {
		panic("dispatch: ToDNS called with an unparseable name")
	}
	if labels == 0 {
		return nil, nil
	}

	tld := lastLabel(fqdn)
	msg := &dns.Msg{}

	if labels > 1 {
		return referral(signer, res, fqdn, tld, msg)
	}
	return authoritative(signer, res, tld, qtype, msg)
}

// referral implements §4.6 point 2: the response for a name strictly
// below the resource's own apex. The DNAME branch owns the RR with
// the full queried name, not its TLD, so a DNAME synthesized for
// sub.alice. is owned by sub.alice. rather than alice.; the NS-like
// and empty-proof branches use tld, same as the authoritative path's
// fallback tail.
func referral(signer *dnssec.Signer, res *resource.Resource, fqdn, tld string, msg *dns.Msg) (*dns.Msg, error) {
	switch {
	case res.HasNSLike():
		return buildDelegation(signer, res, tld, msg)
	case res.Has(protocol.TagDELEGATE):
		return buildDNAME(signer, res, fqdn, msg)
	default:
		return buildEmptyProof(signer, tld, msg)
	}
}

// authoritative implements §4.6 point 3 and the point-4 AA/empty-
// answer tail, for a query that lands exactly on the resource's apex.
func authoritative(signer *dnssec.Signer, res *resource.Resource, tld string, qtype uint16, msg *dns.Msg) (*dns.Msg, error) {
	if err := dispatchQtype(signer, res, tld, qtype, msg); err != nil {
		return nil, err
	}

	if len(msg.Answer) > 0 {
		msg.Authoritative = true
		return msg, nil
	}
	if len(msg.Ns) > 0 {
		return msg, nil
	}

	switch {
	case res.Has(protocol.TagCANONICAL):
		msg.Authoritative = true
		msg.Answer = append(msg.Answer, builder.CNAME(res, tld, tld)...)
		msg.Extra = append(msg.Extra, builder.Glue(res, protocol.TagCANONICAL)...)
		if err := signer.SignZSK(&msg.Answer, dns.TypeCNAME); err != nil {
			return nil, err
		}
		if err := signGlueIfNonEmpty(signer, &msg.Extra); err != nil {
			return nil, err
		}
		return msg, nil
	case res.HasNSLike():
		return buildDelegation(signer, res, tld, msg)
	default:
		return buildEmptyProof(signer, tld, msg)
	}
}

// dispatchQtype maps the RRtypes §4.6 point 3 names to their
// section-builder calls. NS is the one entry that writes to
// authority instead of answer; every other entry writes to answer.
func dispatchQtype(signer *dnssec.Signer, res *resource.Resource, owner string, qtype uint16, msg *dns.Msg) error {
	switch qtype {
	case dns.TypeA:
		msg.Answer = append(msg.Answer, builder.A(res, owner)...)
		return signIfNonEmpty(signer, &msg.Answer, dns.TypeA)

	case dns.TypeAAAA:
		msg.Answer = append(msg.Answer, builder.AAAA(res, owner)...)
		return signIfNonEmpty(signer, &msg.Answer, dns.TypeAAAA)

	case dns.TypeCNAME:
		msg.Answer = append(msg.Answer, builder.CNAME(res, owner, owner)...)
		msg.Extra = append(msg.Extra, builder.Glue(res, protocol.TagCANONICAL)...)
		if err := signIfNonEmpty(signer, &msg.Answer, dns.TypeCNAME); err != nil {
			return err
		}
		return signGlueIfNonEmpty(signer, &msg.Extra)

	case dns.TypeDNAME:
		msg.Answer = append(msg.Answer, builder.DNAME(res, owner, owner)...)
		msg.Extra = append(msg.Extra, builder.Glue(res, protocol.TagDELEGATE)...)
		if err := signIfNonEmpty(signer, &msg.Answer, dns.TypeDNAME); err != nil {
			return err
		}
		return signGlueIfNonEmpty(signer, &msg.Extra)

	case dns.TypeNS:
		msg.Ns = append(msg.Ns, builder.NS(res, owner)...)
		msg.Extra = append(msg.Extra, builder.NSIP(res, owner)...)
		msg.Extra = append(msg.Extra, builder.Glue(res, protocol.TagNS)...)
		if err := signIfNonEmpty(signer, &msg.Ns, dns.TypeNS); err != nil {
			return err
		}
		return signGlueIfNonEmpty(signer, &msg.Extra)

	case dns.TypeMX:
		msg.Answer = append(msg.Answer, builder.MX(res, owner, owner)...)
		msg.Extra = append(msg.Extra, builder.ServiceGlue(res, "smtp.", "tcp.")...)
		if err := signIfNonEmpty(signer, &msg.Answer, dns.TypeMX); err != nil {
			return err
		}
		return signGlueIfNonEmpty(signer, &msg.Extra)

	case dns.TypeTXT:
		msg.Answer = append(msg.Answer, builder.TXT(res, owner)...)
		return signIfNonEmpty(signer, &msg.Answer, dns.TypeTXT)

	case dns.TypeLOC:
		msg.Answer = append(msg.Answer, builder.LOC(res, owner)...)
		return signIfNonEmpty(signer, &msg.Answer, dns.TypeLOC)

	case dns.TypeDS:
		msg.Answer = append(msg.Answer, builder.DS(res, owner)...)
		return signIfNonEmpty(signer, &msg.Answer, dns.TypeDS)

	case dns.TypeSSHFP:
		msg.Answer = append(msg.Answer, builder.SSHFP(res, owner)...)
		return signIfNonEmpty(signer, &msg.Answer, dns.TypeSSHFP)

	case dns.TypeURI:
		msg.Answer = append(msg.Answer, builder.URI(res, owner)...)
		return signIfNonEmpty(signer, &msg.Answer, dns.TypeURI)

	case dns.TypeRP:
		msg.Answer = append(msg.Answer, builder.RP(res, owner)...)
		return signIfNonEmpty(signer, &msg.Answer, dns.TypeRP)

	default:
		// Any other qtype: answer stays empty, fall through to the
		// AA/empty-answer tail in authoritative().
		return nil
	}
}

// buildDelegation implements the NS-like referral branch, shared
// between the referral path and the authoritative path's fallback
// tail (§4.6 points 2 and 4): NS + DS into authority, NSIP + NS-glue
// into additional, signed over NS unless a DS is present.
func buildDelegation(signer *dnssec.Signer, res *resource.Resource, owner string, msg *dns.Msg) (*dns.Msg, error) {
	msg.Ns = append(msg.Ns, builder.NS(res, owner)...)
	msg.Ns = append(msg.Ns, builder.DS(res, owner)...)
	msg.Extra = append(msg.Extra, builder.NSIP(res, owner)...)
	msg.Extra = append(msg.Extra, builder.Glue(res, protocol.TagNS)...)

	covered := uint16(dns.TypeNS)
	if res.Has(protocol.TagDS) {
		covered = dns.TypeDS
	}
	if err := signIfNonEmpty(signer, &msg.Ns, covered); err != nil {
		return nil, err
	}
	if err := signGlueIfNonEmpty(signer, &msg.Extra); err != nil {
		return nil, err
	}
	return msg, nil
}

// buildDNAME implements the DELEGATE referral branch (§4.6 point 2):
// DNAME into answer, its inline glue into additional.
func buildDNAME(signer *dnssec.Signer, res *resource.Resource, owner string, msg *dns.Msg) (*dns.Msg, error) {
	msg.Answer = append(msg.Answer, builder.DNAME(res, owner, owner)...)
	msg.Extra = append(msg.Extra, builder.Glue(res, protocol.TagDELEGATE)...)

	if err := signIfNonEmpty(signer, &msg.Answer, dns.TypeDNAME); err != nil {
		return nil, err
	}
	if err := signGlueIfNonEmpty(signer, &msg.Extra); err != nil {
		return nil, err
	}
	return msg, nil
}

// buildEmptyProof implements the empty-proof branch shared by §4.6
// points 2 and 4: an NSEC denying any record at owner, plus the
// synthetic root SOA, both signed with the ZSK.
func buildEmptyProof(signer *dnssec.Signer, owner string, msg *dns.Msg) (*dns.Msg, error) {
	msg.Ns = append(msg.Ns, &dns.NSEC{
		Hdr:        dns.RR_Header{Name: owner, Rrtype: dns.TypeNSEC, Class: dns.ClassINET, Ttl: protocol.RootTTLSecurity},
		NextDomain: ".",
		TypeBitMap: nil,
	})
	msg.Ns = append(msg.Ns, RootSOA(signer.Now()))

	if err := signer.SignZSK(&msg.Ns, dns.TypeNSEC); err != nil {
		return nil, err
	}
	if err := signer.SignZSK(&msg.Ns, dns.TypeSOA); err != nil {
		return nil, err
	}
	return msg, nil
}

// RootSOA synthesizes the root zone's own SOA RR for clock now — used
// both as the empty-proof companion record here and directly by the
// root package for SOA queries against ".".
func RootSOA(now time.Time) *dns.SOA {
	return &dns.SOA{
		Hdr:     dns.RR_Header{Name: ".", Rrtype: dns.TypeSOA, Class: dns.ClassINET, Ttl: protocol.RootTTLSecurity},
		Ns:      ".",
		Mbox:    ".",
		Refresh: protocol.RootSOARefresh,
		Retry:   protocol.RootSOARetry,
		Expire:  protocol.RootSOAExpire,
		Minttl:  protocol.RootSOAMinTTL,
		Serial:  protocol.SOASerial(now),
	}
}

func signIfNonEmpty(signer *dnssec.Signer, section *[]dns.RR, covered uint16) error {
	if len(*section) == 0 {
		return nil
	}
	return signer.SignZSK(section, covered)
}

// signGlueIfNonEmpty signs an additional section that may hold a mix
// of A and AAAA glue: each RRSIG covers only the RRtype actually
// present, so a section with only A glue gets one RRSIG, not two.
func signGlueIfNonEmpty(signer *dnssec.Signer, section *[]dns.RR) error {
	if err := signIfNonEmpty(signer, section, dns.TypeA); err != nil {
		return err
	}
	return signIfNonEmpty(signer, section, dns.TypeAAAA)
}

func lastLabel(fqdn string) string {
	labels := dns.SplitDomainName(fqdn)
	if len(labels) == 0 {
		return "."
	}
	return labels[len(labels)-1] + "."
}
