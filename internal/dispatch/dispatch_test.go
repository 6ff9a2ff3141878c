package dispatch

import (
	"net"
	"testing"

	"github.com/miekg/dns"

	"github.com/hnsresolve/resolver/internal/dnssec"
	"github.com/hnsresolve/resolver/internal/protocol"
	"github.com/hnsresolve/resolver/internal/resource"
	"github.com/hnsresolve/resolver/internal/target"
)

func testSigner(t *testing.T) *dnssec.Signer {
	t.Helper()
	signer, err := dnssec.NewSigner(".")
	if err != nil {
		t.Fatalf("dnssec.NewSigner() error = %v", err)
	}
	return signer
}

func hasType(rrs []dns.RR, rrtype uint16) bool {
	for _, rr := range rrs {
		if rr.Header().Rrtype == rrtype {
			return true
		}
	}
	return false
}

func TestToDNS_PanicsOnNonFQDN(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("ToDNS() with non-FQDN name did not panic")
		}
	}()
	_, _ = ToDNS(testSigner(t), &resource.Resource{}, "alice", dns.TypeA)
}

func TestToDNS_AuthoritativeA(t *testing.T) {
	res := &resource.Resource{
		TTL: 21600,
		Records: []resource.Record{
			resource.HostRecord{TagValue: protocol.TagINET4, Target: target.Target{Kind: target.KindInet4, Inet4: net.IPv4(192, 0, 2, 1)}},
		},
	}

	msg, err := ToDNS(testSigner(t), res, "alice.", dns.TypeA)
	if err != nil {
		t.Fatalf("ToDNS() error = %v", err)
	}
	if !msg.Authoritative {
		t.Error("ToDNS() Authoritative = false, want true")
	}
	if !hasType(msg.Answer, dns.TypeA) {
		t.Error("ToDNS() Answer missing A record")
	}
	if !hasType(msg.Answer, dns.TypeRRSIG) {
		t.Error("ToDNS() Answer missing RRSIG")
	}
}

func TestToDNS_ReferralDelegatesToChildNS(t *testing.T) {
	res := &resource.Resource{
		TTL: 21600,
		Records: []resource.Record{
			resource.HostRecord{TagValue: protocol.TagNS, Target: target.Target{Kind: target.KindName, Name: "ns1.alice."}},
		},
	}

	msg, err := ToDNS(testSigner(t), res, "sub.alice.", dns.TypeA)
	if err != nil {
		t.Fatalf("ToDNS() error = %v", err)
	}
	if msg.Authoritative {
		t.Error("ToDNS() Authoritative = true for a referral, want false")
	}
	if !hasType(msg.Ns, dns.TypeNS) {
		t.Error("ToDNS() Ns missing NS record")
	}
	if len(msg.Answer) != 0 {
		t.Errorf("ToDNS() Answer = %v, want empty for a referral", msg.Answer)
	}
}

func TestToDNS_ReferralViaDNAME(t *testing.T) {
	res := &resource.Resource{
		TTL: 21600,
		Records: []resource.Record{
			resource.HostRecord{TagValue: protocol.TagDELEGATE, Target: target.Target{Kind: target.KindName, Name: "mirror.example."}},
		},
	}

	msg, err := ToDNS(testSigner(t), res, "sub.alice.", dns.TypeA)
	if err != nil {
		t.Fatalf("ToDNS() error = %v", err)
	}
	if !hasType(msg.Answer, dns.TypeDNAME) {
		t.Error("ToDNS() Answer missing DNAME record")
	}
	for _, rr := range msg.Answer {
		if dname, ok := rr.(*dns.DNAME); ok && dname.Hdr.Name != "sub.alice." {
			t.Errorf("DNAME owner = %q, want %q (full queried name, not the TLD)", dname.Hdr.Name, "sub.alice.")
		}
	}
}

func TestToDNS_ReferralEmptyProofWhenNoNSOrDelegate(t *testing.T) {
	res := &resource.Resource{
		TTL: 21600,
		Records: []resource.Record{
			resource.HostRecord{TagValue: protocol.TagINET4, Target: target.Target{Kind: target.KindInet4, Inet4: net.IPv4(192, 0, 2, 1)}},
		},
	}

	msg, err := ToDNS(testSigner(t), res, "sub.alice.", dns.TypeA)
	if err != nil {
		t.Fatalf("ToDNS() error = %v", err)
	}
	if !hasType(msg.Ns, dns.TypeNSEC) || !hasType(msg.Ns, dns.TypeSOA) {
		t.Errorf("ToDNS() Ns = %v, want NSEC+SOA empty proof", msg.Ns)
	}
	if msg.Authoritative {
		t.Error("ToDNS() Authoritative = true for an empty proof, want false")
	}
}

func TestToDNS_AuthoritativeFallsBackToDelegationWhenQtypeUnmatched(t *testing.T) {
	res := &resource.Resource{
		TTL: 21600,
		Records: []resource.Record{
			resource.HostRecord{TagValue: protocol.TagNS, Target: target.Target{Kind: target.KindName, Name: "ns1.alice."}},
		},
	}

	msg, err := ToDNS(testSigner(t), res, "alice.", dns.TypeAAAA)
	if err != nil {
		t.Fatalf("ToDNS() error = %v", err)
	}
	if !hasType(msg.Ns, dns.TypeNS) {
		t.Error("ToDNS() Ns missing NS record for the apex delegation fallback")
	}
}

func TestToDNS_AuthoritativeFallsBackToEmptyProof(t *testing.T) {
	res := &resource.Resource{
		TTL: 21600,
		Records: []resource.Record{
			resource.HostRecord{TagValue: protocol.TagINET4, Target: target.Target{Kind: target.KindInet4, Inet4: net.IPv4(192, 0, 2, 1)}},
		},
	}

	msg, err := ToDNS(testSigner(t), res, "alice.", dns.TypeAAAA)
	if err != nil {
		t.Fatalf("ToDNS() error = %v", err)
	}
	if !hasType(msg.Ns, dns.TypeNSEC) {
		t.Error("ToDNS() Ns missing NSEC for an empty-answer authoritative query")
	}
}

func TestToDNS_AuthoritativeFallsBackToCNAMEWhenPresent(t *testing.T) {
	res := &resource.Resource{
		TTL: 21600,
		Records: []resource.Record{
			resource.HostRecord{TagValue: protocol.TagCANONICAL, Target: target.Target{Kind: target.KindName, Name: "www.alice."}},
		},
	}

	msg, err := ToDNS(testSigner(t), res, "alice.", dns.TypeAAAA)
	if err != nil {
		t.Fatalf("ToDNS() error = %v", err)
	}
	if !msg.Authoritative {
		t.Error("ToDNS() Authoritative = false, want true for CNAME fallback")
	}
	if !hasType(msg.Answer, dns.TypeCNAME) {
		t.Error("ToDNS() Answer missing CNAME record")
	}
}

func TestToDNS_RootLevelNameReturnsNil(t *testing.T) {
	msg, err := ToDNS(testSigner(t), &resource.Resource{}, ".", dns.TypeNS)
	if err != nil {
		t.Fatalf("ToDNS() error = %v", err)
	}
	if msg != nil {
		t.Errorf("ToDNS(\".\") = %v, want nil", msg)
	}
}

func TestRootSOA_FieldsAreFixed(t *testing.T) {
	signer := testSigner(t)
	soa := RootSOA(signer.Now())
	if soa.Hdr.Name != "." || soa.Ns != "." || soa.Mbox != "." {
		t.Errorf("RootSOA() = %+v, unexpected naming", soa)
	}
	if soa.Refresh != protocol.RootSOARefresh || soa.Retry != protocol.RootSOARetry ||
		soa.Expire != protocol.RootSOAExpire || soa.Minttl != protocol.RootSOAMinTTL {
		t.Errorf("RootSOA() timers = %+v, unexpected", soa)
	}
}
