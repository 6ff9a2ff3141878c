// Package resource implements the decoded Resource container and its
// record variants: the tagged-variant record set a top-level label's
// on-chain data commits to, and the decoder that turns raw bytes into
// it.
package resource

import (
	"github.com/hnsresolve/resolver/internal/protocol"
	"github.com/hnsresolve/resolver/internal/target"
)

// Record is any of the twenty tagged variants a Resource can hold.
// The type byte is the variant discriminant; Tag reports it back so
// builders can filter records without a type switch on every call
// site.
type Record interface {
	Tag() protocol.Tag
}

// HostRecord covers every record whose entire payload is (or wraps) a
// single target value: INET4, INET6, ONION, ONIONNG, NAME, GLUE carry
// the target directly (the outer tag fixes the kind); CANONICAL,
// DELEGATE, and NS carry a target whose kind is read from a selector
// byte, since those may point at a name, glue, or raw address.
type HostRecord struct {
	TagValue protocol.Tag
	Target   target.Target
}

func (r HostRecord) Tag() protocol.Tag { return r.TagValue }

// ServiceRecord is a SERVICE record: a labeled (service, protocol)
// pair plus priority/weight/port and a target, the source for both
// the MX and generic SRV builders.
type ServiceRecord struct {
	Service  string
	Protocol string
	Priority uint8
	Weight   uint8
	Target   target.Target
	Port     uint16
}

func (ServiceRecord) Tag() protocol.Tag { return protocol.TagSERVICE }

// TextRecord covers URL, EMAIL, and TEXT — each is a single printable
// character-string, distinguished only by which builder consumes it.
type TextRecord struct {
	TagValue protocol.Tag
	Text     string
}

func (r TextRecord) Tag() protocol.Tag { return r.TagValue }

// LocationRecord is a LOCATION record, mapped directly to an LOC RR.
type LocationRecord struct {
	Version   uint8
	Size      uint8
	HorizPre  uint8
	VertPre   uint8
	Latitude  uint32
	Longitude uint32
	Altitude  uint32
}

func (LocationRecord) Tag() protocol.Tag { return protocol.TagLOCATION }

// MagnetRecord is a MAGNET record: an info-hash namespace label plus
// its raw bytes, rendered into a magnet: URI by the URI builder.
type MagnetRecord struct {
	NID string
	NIN []byte
}

func (MagnetRecord) Tag() protocol.Tag { return protocol.TagMAGNET }

// DSRecord is a DS record, mapped directly to a DS RR.
type DSRecord struct {
	KeyTag     uint16
	Algorithm  uint8
	DigestType uint8
	Digest     []byte
}

func (DSRecord) Tag() protocol.Tag { return protocol.TagDS }

// TLSRecord is a TLS record (TLSA-shaped data). No builder in this
// implementation emits a TLSA RR from it, but decode
// still accepts and preserves it, since a resource containing one
// must still decode successfully.
type TLSRecord struct {
	Protocol    string
	Port        uint16
	Usage       uint8
	Selector    uint8
	MatchType   uint8
	Certificate []byte
}

func (TLSRecord) Tag() protocol.Tag { return protocol.TagTLS }

// SSHRecord covers both SSH and PGP records — identical shape, an
// algorithm-tagged fingerprint. SSH feeds the SSHFP builder; PGP has
// no corresponding RRtype in this implementation's builder set.
type SSHRecord struct {
	TagValue    protocol.Tag
	Algorithm   uint8
	KeyType     uint8
	Fingerprint []byte
}

func (r SSHRecord) Tag() protocol.Tag { return r.TagValue }

// AddrRecord is an ADDR record: an on-chain cryptocurrency address,
// contributing a URI RR for two of its ctype encodings (§4.5 URI).
type AddrRecord struct {
	Currency string
	Address  string
	CType    uint8
	Testnet  bool
	Version  uint8
	Hash     []byte
}

func (AddrRecord) Tag() protocol.Tag { return protocol.TagADDR }

// ExtraRecord is an EXTRA record: opaque data tagged with its own
// sub-type, outside this format's own taxonomy. No builder uses it.
type ExtraRecord struct {
	RType uint8
	Data  []byte
}

func (ExtraRecord) Tag() protocol.Tag { return protocol.TagEXTRA }

// Resource is the decoded form of the record set committed for a
// single top-level label: a version, a fixed TTL, and an ordered list
// of records (insertion order preserved — builders walk it in order).
type Resource struct {
	Version uint8
	TTL     uint32
	Records []Record
}

// Has reports whether the resource holds at least one record of tag.
func (r *Resource) Has(tag protocol.Tag) bool {
	return r.Get(tag) != nil
}

// Get returns the first record matching tag, or nil.
func (r *Resource) Get(tag protocol.Tag) Record {
	for _, rec := range r.Records {
		if rec.Tag() == tag {
			return rec
		}
	}
	return nil
}

// HasNSLike reports whether the resource carries any record capable
// of producing an NS RR: an NS-tagged record whose target resolves to
// a name, inline glue, or a raw address (the "GLUE4/GLUE6/SYNTH4/
// SYNTH6" cases collapse into this one tag under the canonical table
// this implementation adopted).
func (r *Resource) HasNSLike() bool {
	for _, rec := range r.Records {
		if rec.Tag() == protocol.TagNS {
			return true
		}
	}
	return false
}
