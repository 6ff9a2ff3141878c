package dispatch

import (
	"net"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/miekg/dns"

	"github.com/hnsresolve/resolver/internal/dnssec"
	"github.com/hnsresolve/resolver/internal/pointer"
	"github.com/hnsresolve/resolver/internal/protocol"
	"github.com/hnsresolve/resolver/internal/resource"
	"github.com/hnsresolve/resolver/internal/target"
)

// fixedSigner returns a signer whose clock is pinned, so RRSIG
// validity times and any SOA serial are the same on every call, per
// property P3.
func fixedSigner(t *testing.T) *dnssec.Signer {
	t.Helper()
	signer, err := dnssec.NewSigner(".")
	if err != nil {
		t.Fatalf("dnssec.NewSigner() error = %v", err)
	}
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	signer.Now = func() time.Time { return fixed }
	return signer
}

func rrsigsCovering(rrs []dns.RR, covered uint16) int {
	n := 0
	for _, rr := range rrs {
		if sig, ok := rr.(*dns.RRSIG); ok && sig.TypeCovered == covered {
			n++
		}
	}
	return n
}

// Scenario 1: empty resource, query A against alice.
func TestScenario_EmptyResourceYieldsEmptyProof(t *testing.T) {
	res := &resource.Resource{TTL: protocol.DefaultTTL}
	msg, err := ToDNS(fixedSigner(t), res, "alice.", dns.TypeA)
	if err != nil {
		t.Fatalf("ToDNS() error = %v", err)
	}
	if msg.Authoritative {
		t.Error("AA = true, want false for an empty proof")
	}
	if len(msg.Answer) != 0 {
		t.Errorf("Answer = %v, want empty", msg.Answer)
	}
	if rrsigsCovering(msg.Ns, dns.TypeNSEC) != 1 || rrsigsCovering(msg.Ns, dns.TypeSOA) != 1 {
		t.Errorf("Ns = %v, want one RRSIG over NSEC and one over SOA", msg.Ns)
	}
}

// Scenario 2: A record, exact match.
func TestScenario_ExactMatchA(t *testing.T) {
	res := &resource.Resource{
		TTL: protocol.DefaultTTL,
		Records: []resource.Record{
			resource.HostRecord{TagValue: protocol.TagINET4, Target: target.Target{Kind: target.KindInet4, Inet4: net.IPv4(192, 0, 2, 1)}},
		},
	}
	msg, err := ToDNS(fixedSigner(t), res, "alice.", dns.TypeA)
	if err != nil {
		t.Fatalf("ToDNS() error = %v", err)
	}
	if !msg.Authoritative {
		t.Error("AA = false, want true")
	}
	if len(msg.Answer) != 2 {
		t.Fatalf("Answer = %v, want one A + one RRSIG", msg.Answer)
	}
	a, ok := msg.Answer[0].(*dns.A)
	if !ok || a.Hdr.Name != "alice." || a.Hdr.Ttl != protocol.DefaultTTL || !a.A.Equal(net.IPv4(192, 0, 2, 1)) {
		t.Errorf("Answer[0] = %+v, unexpected", msg.Answer[0])
	}
}

// Scenario 3: referral with NS + DS.
func TestScenario_ReferralWithNSAndDS(t *testing.T) {
	res := &resource.Resource{
		TTL: protocol.DefaultTTL,
		Records: []resource.Record{
			resource.HostRecord{TagValue: protocol.TagNS, Target: target.Target{Kind: target.KindName, Name: "ns1.example."}},
			resource.DSRecord{KeyTag: 12345, Algorithm: 13, DigestType: 2, Digest: make([]byte, 32)},
		},
	}
	msg, err := ToDNS(fixedSigner(t), res, "sub.alice.", dns.TypeNS)
	if err != nil {
		t.Fatalf("ToDNS() error = %v", err)
	}
	if msg.Authoritative {
		t.Error("AA = true, want false for a referral")
	}
	if len(msg.Answer) != 0 {
		t.Errorf("Answer = %v, want empty", msg.Answer)
	}
	if !hasType(msg.Ns, dns.TypeNS) || !hasType(msg.Ns, dns.TypeDS) {
		t.Errorf("Ns = %v, want NS and DS", msg.Ns)
	}
	if rrsigsCovering(msg.Ns, dns.TypeDS) != 1 {
		t.Error("Ns missing RRSIG over DS (DS present takes priority over NS for the covered type)")
	}
}

// Scenario 4: synthetic glue via a raw-address NS target.
func TestScenario_SyntheticGlue(t *testing.T) {
	addr := net.IPv4(198, 51, 100, 7)
	res := &resource.Resource{
		TTL: protocol.DefaultTTL,
		Records: []resource.Record{
			resource.HostRecord{TagValue: protocol.TagNS, Target: target.Target{Kind: target.KindInet4, Inet4: addr}},
		},
	}
	msg, err := ToDNS(fixedSigner(t), res, "sub.alice.", dns.TypeA)
	if err != nil {
		t.Fatalf("ToDNS() error = %v", err)
	}
	var ns *dns.NS
	for _, rr := range msg.Ns {
		if n, ok := rr.(*dns.NS); ok {
			ns = n
		}
	}
	if ns == nil {
		t.Fatal("Ns missing NS RR")
	}
	const suffix = "._synth."
	if !strings.HasSuffix(ns.Ns, suffix) {
		t.Fatalf("NS name = %q, want suffix %q", ns.Ns, suffix)
	}

	b32, err := pointer.EncodeV4(addr)
	if err != nil {
		t.Fatalf("EncodeV4() error = %v", err)
	}
	if ns.Ns != b32+suffix {
		t.Errorf("NS name = %q, want %q", ns.Ns, b32+suffix)
	}

	decoded, isV4, err := pointer.Decode(b32)
	if err != nil || !isV4 || !decoded.Equal(addr) {
		t.Errorf("pointer.Decode(%q) = (%v, %v, %v), want (%v, true, nil)", b32, decoded, isV4, err, addr)
	}
}

// Scenario 5: MX filter keeps only the smtp./tcp. SERVICE record.
func TestScenario_MXFilter(t *testing.T) {
	res := &resource.Resource{
		TTL: protocol.DefaultTTL,
		Records: []resource.Record{
			resource.ServiceRecord{Service: "smtp.", Protocol: "tcp.", Priority: 10, Target: target.Target{Kind: target.KindName, Name: "mail.alice."}},
			resource.ServiceRecord{Service: "http.", Protocol: "tcp.", Priority: 5, Target: target.Target{Kind: target.KindName, Name: "web.alice."}},
		},
	}
	msg, err := ToDNS(fixedSigner(t), res, "alice.", dns.TypeMX)
	if err != nil {
		t.Fatalf("ToDNS() error = %v", err)
	}
	if len(msg.Answer) != 2 {
		t.Fatalf("Answer = %v, want one MX + one RRSIG", msg.Answer)
	}
	mx, ok := msg.Answer[0].(*dns.MX)
	if !ok || mx.Preference != 10 || mx.Mx != "mail.alice." {
		t.Errorf("Answer[0] = %+v, want MX 10 mail.alice.", msg.Answer[0])
	}
}

// Scenario 6: URI rendered from a MAGNET record.
func TestScenario_URIFromMagnet(t *testing.T) {
	nin := make([]byte, 20)
	for i := range nin {
		nin[i] = 0x01
	}
	res := &resource.Resource{
		TTL: protocol.DefaultTTL,
		Records: []resource.Record{
			resource.MagnetRecord{NID: "btih", NIN: nin},
		},
	}
	msg, err := ToDNS(fixedSigner(t), res, "alice.", dns.TypeURI)
	if err != nil {
		t.Fatalf("ToDNS() error = %v", err)
	}
	if len(msg.Answer) != 2 {
		t.Fatalf("Answer = %v, want one URI + one RRSIG", msg.Answer)
	}
	uri, ok := msg.Answer[0].(*dns.URI)
	const want = "magnet:?xt=urn:btih:0101010101010101010101010101010101010101"
	if !ok || uri.Target != want {
		t.Errorf("Answer[0].Target = %+v, want %q", msg.Answer[0], want)
	}
}

// Property P3: calling ToDNS twice with a fixed clock yields equal
// RR-sets (the SOA serial is the only clock-dependent field, and with
// Now pinned it cannot vary either).
func TestProperty_P3_Immutability(t *testing.T) {
	signer := fixedSigner(t)
	res := &resource.Resource{
		TTL: protocol.DefaultTTL,
		Records: []resource.Record{
			resource.HostRecord{TagValue: protocol.TagINET4, Target: target.Target{Kind: target.KindInet4, Inet4: net.IPv4(192, 0, 2, 1)}},
		},
	}

	first, err := ToDNS(signer, res, "alice.", dns.TypeA)
	if err != nil {
		t.Fatalf("ToDNS() error = %v", err)
	}
	second, err := ToDNS(signer, res, "alice.", dns.TypeA)
	if err != nil {
		t.Fatalf("ToDNS() error = %v", err)
	}
	if !reflect.DeepEqual(first.Answer, second.Answer) {
		t.Errorf("two ToDNS() calls produced different Answer sections:\n%v\n%v", first.Answer, second.Answer)
	}
}

// Property P4: AA invariant.
func TestProperty_P4_AAInvariant(t *testing.T) {
	signer := fixedSigner(t)

	authoritative := &resource.Resource{
		TTL: protocol.DefaultTTL,
		Records: []resource.Record{
			resource.HostRecord{TagValue: protocol.TagINET4, Target: target.Target{Kind: target.KindInet4, Inet4: net.IPv4(192, 0, 2, 1)}},
		},
	}
	msg, err := ToDNS(signer, authoritative, "alice.", dns.TypeA)
	if err != nil {
		t.Fatalf("ToDNS() error = %v", err)
	}
	if len(msg.Answer) == 0 || !msg.Authoritative {
		t.Error("non-empty answer must imply AA = 1")
	}

	referral := &resource.Resource{
		TTL: protocol.DefaultTTL,
		Records: []resource.Record{
			resource.HostRecord{TagValue: protocol.TagNS, Target: target.Target{Kind: target.KindName, Name: "ns1.alice."}},
		},
	}
	msg, err = ToDNS(signer, referral, "sub.alice.", dns.TypeA)
	if err != nil {
		t.Fatalf("ToDNS() error = %v", err)
	}
	if len(msg.Answer) != 0 || len(msg.Ns) == 0 || msg.Authoritative {
		t.Error("empty answer with non-empty authority must imply AA = 0")
	}
}

// Property P5: every signed section carries an RRSIG matching the
// RRtype just built.
func TestProperty_P5_SigningCoverage(t *testing.T) {
	signer := fixedSigner(t)
	res := &resource.Resource{
		TTL: protocol.DefaultTTL,
		Records: []resource.Record{
			resource.TextRecord{TagValue: protocol.TagTEXT, Text: "hello"},
		},
	}
	msg, err := ToDNS(signer, res, "alice.", dns.TypeTXT)
	if err != nil {
		t.Fatalf("ToDNS() error = %v", err)
	}
	if !hasType(msg.Answer, dns.TypeTXT) {
		t.Fatal("Answer missing TXT")
	}
	if rrsigsCovering(msg.Answer, dns.TypeTXT) == 0 {
		t.Error("Answer has no RRSIG covering TXT")
	}
}

// Property P6: referral trigger.
func TestProperty_P6_ReferralTrigger(t *testing.T) {
	res := &resource.Resource{
		TTL: protocol.DefaultTTL,
		Records: []resource.Record{
			resource.HostRecord{TagValue: protocol.TagNS, Target: target.Target{Kind: target.KindName, Name: "ns1.alice."}},
		},
	}
	msg, err := ToDNS(fixedSigner(t), res, "deep.sub.alice.", dns.TypeA)
	if err != nil {
		t.Fatalf("ToDNS() error = %v", err)
	}
	if len(msg.Answer) != 0 {
		t.Errorf("Answer = %v, want empty for a referral", msg.Answer)
	}
	if !hasType(msg.Ns, dns.TypeNS) {
		t.Error("Ns missing NS RR for a referral")
	}
}
