// Package dnssec implements the signer the translation core treats as
// an external collaborator (§6): a fixed KSK/ZSK pair generated once at
// process start, and the sign_zsk/sign_ksk operations that append an
// RRSIG to a section for every RR of a given covered type.
package dnssec

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/miekg/dns"

	hnserrors "github.com/hnsresolve/resolver/internal/errors"
)

var errNilDS = errors.New("ToDS produced no DS record")

// inceptionSkew and validFor set how long a freshly minted RRSIG
// remains valid.
// Matches the pack's own DNSSEC reference (skydns2's sign()): a
// multi-hour inception skew to tolerate clock drift, a week-long
// expiration so responses don't need re-signing on every query.
const (
	inceptionSkew = 3 * time.Hour
	validFor      = 7 * 24 * time.Hour
)

// Signer holds the process-wide immutable key material: a key-signing
// key that signs DNSKEY RRsets, and a zone-signing key that signs
// everything else. Construct once at process start; safe for
// concurrent read-only use thereafter (§5).
type Signer struct {
	apex string

	kskPriv ed25519.PrivateKey
	zskPriv ed25519.PrivateKey

	ksk *dns.DNSKEY
	zsk *dns.DNSKEY
	ds  *dns.DS

	// Now supplies the signing clock. Defaults to time.Now; tests that
	// need deterministic RRSIGs inject a fixed function.
	Now func() time.Time
}

// NewSigner generates a fresh ed25519 KSK/ZSK pair for apex (normally
// the root, ".") and derives the DS record the KSK's digest produces.
func NewSigner(apex string) (*Signer, error) {
	kskPub, kskPriv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, &hnserrors.SignError{Section: "keygen", Covered: dns.TypeDNSKEY, Err: err}
	}
	zskPub, zskPriv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, &hnserrors.SignError{Section: "keygen", Covered: dns.TypeDNSKEY, Err: err}
	}

	ksk := newDNSKEY(apex, kskPub, true)
	zsk := newDNSKEY(apex, zskPub, false)

	ds := ksk.ToDS(dns.SHA256)
	if ds == nil {
		return nil, &hnserrors.SignError{Section: "keygen", Covered: dns.TypeDS, Err: errNilDS}
	}

	return &Signer{
		apex:    apex,
		kskPriv: kskPriv,
		zskPriv: zskPriv,
		ksk:     ksk,
		zsk:     zsk,
		ds:      ds,
		Now:     time.Now,
	}, nil
}

func newDNSKEY(apex string, pub ed25519.PublicKey, isKSK bool) *dns.DNSKEY {
	k := &dns.DNSKEY{
		Hdr: dns.RR_Header{
			Name:   apex,
			Rrtype: dns.TypeDNSKEY,
			Class:  dns.ClassINET,
		},
		Algorithm: dns.ED25519,
		Protocol:  3,
		Flags:     dns.ZONE,
	}
	if isKSK {
		k.Flags |= 1 // SEP bit
	}
	k.PublicKey = base64.StdEncoding.EncodeToString(pub)
	return k
}

// KSK returns the key-signing key RR.
func (s *Signer) KSK() *dns.DNSKEY { return s.ksk }

// ZSK returns the zone-signing key RR.
func (s *Signer) ZSK() *dns.DNSKEY { return s.zsk }

// DS returns the DS record for the KSK.
func (s *Signer) DS() *dns.DS { return s.ds }

// SignZSK signs every RR in section whose type equals covered with the
// zone-signing key, appending the resulting RRSIG to section. A
// section with no RR of that type is left untouched.
func (s *Signer) SignZSK(section *[]dns.RR, covered uint16) error {
	return s.sign(section, covered, s.zsk, s.zskPriv, "answer/authority/additional")
}

// SignKSK signs every RR in section whose type equals covered with the
// key-signing key — used only for DNSKEY RRsets.
func (s *Signer) SignKSK(section *[]dns.RR, covered uint16) error {
	return s.sign(section, covered, s.ksk, s.kskPriv, "dnskey")
}

func (s *Signer) sign(section *[]dns.RR, covered uint16, key *dns.DNSKEY, priv ed25519.PrivateKey, label string) error {
	rrset := matching(*section, covered)
	if len(rrset) == 0 {
		return nil
	}

	now := s.Now().UTC()
	sig := &dns.RRSIG{
		Hdr: dns.RR_Header{
			Name:   rrset[0].Header().Name,
			Rrtype: dns.TypeRRSIG,
			Class:  dns.ClassINET,
			Ttl:    rrset[0].Header().Ttl,
		},
		TypeCovered: covered,
		Algorithm:   key.Algorithm,
		OrigTtl:     rrset[0].Header().Ttl,
		Expiration:  uint32(now.Add(validFor).Unix()),
		Inception:   uint32(now.Add(-inceptionSkew).Unix()),
		KeyTag:      key.KeyTag(),
		SignerName:  key.Hdr.Name,
		Labels:      uint8(dns.CountLabel(rrset[0].Header().Name)),
	}

	if err := sig.Sign(priv, rrset); err != nil {
		return &hnserrors.SignError{Section: label, Covered: covered, Err: err}
	}

	*section = append(*section, sig)
	return nil
}

func matching(section []dns.RR, covered uint16) []dns.RR {
	var out []dns.RR
	for _, rr := range section {
		if rr.Header().Rrtype == covered {
			out = append(out, rr)
		}
	}
	return out
}
