// Package protocol defines the on-chain resource tag table and the
// fixed constants the translation core treats as data, not config:
// record type tags, root-zone TTLs, and the canonical root NSEC type
// bitmap.
package protocol

import "time"

// Tag identifies the variant of a decoded Record by its wire byte.
// These values are part of the on-chain consensus format and MUST NOT
// be renumbered.
type Tag uint8

// Record tags, in wire-byte order. SYNTH4/SYNTH6/GLUE4/GLUE6 are not
// separate tags: GLUE (6) carries inline v4/v6 glue, and the
// synthetic-pointer NS case is a target-kind distinction under NS (9),
// not a tag of its own — see the target package's Kind values.
const (
	TagINET4     Tag = 1
	TagINET6     Tag = 2
	TagONION     Tag = 3
	TagONIONNG   Tag = 4
	TagNAME      Tag = 5
	TagGLUE      Tag = 6
	TagCANONICAL Tag = 7
	TagDELEGATE  Tag = 8
	TagNS        Tag = 9
	TagSERVICE   Tag = 10
	TagURL       Tag = 11
	TagEMAIL     Tag = 12
	TagTEXT      Tag = 13
	TagLOCATION  Tag = 14
	TagMAGNET    Tag = 15
	TagDS        Tag = 16
	TagTLS       Tag = 17
	TagSSH       Tag = 18
	TagPGP       Tag = 19
	TagADDR      Tag = 20
	TagEXTRA     Tag = 255
)

// String returns the tag's name, for error messages and test output.
func (t Tag) String() string {
	switch t {
	case TagINET4:
		return "INET4"
	case TagINET6:
		return "INET6"
	case TagONION:
		return "ONION"
	case TagONIONNG:
		return "ONIONNG"
	case TagNAME:
		return "NAME"
	case TagGLUE:
		return "GLUE"
	case TagCANONICAL:
		return "CANONICAL"
	case TagDELEGATE:
		return "DELEGATE"
	case TagNS:
		return "NS"
	case TagSERVICE:
		return "SERVICE"
	case TagURL:
		return "URL"
	case TagEMAIL:
		return "EMAIL"
	case TagTEXT:
		return "TEXT"
	case TagLOCATION:
		return "LOCATION"
	case TagMAGNET:
		return "MAGNET"
	case TagDS:
		return "DS"
	case TagTLS:
		return "TLS"
	case TagSSH:
		return "SSH"
	case TagPGP:
		return "PGP"
	case TagADDR:
		return "ADDR"
	case TagEXTRA:
		return "EXTRA"
	default:
		return "UNKNOWN"
	}
}

// IsKnown reports whether the tag is part of the canonical table.
// Anything else aborts decode of the whole resource.
func (t Tag) IsKnown() bool {
	switch t {
	case TagINET4, TagINET6, TagONION, TagONIONNG, TagNAME, TagGLUE,
		TagCANONICAL, TagDELEGATE, TagNS, TagSERVICE, TagURL, TagEMAIL,
		TagTEXT, TagLOCATION, TagMAGNET, TagDS, TagTLS, TagSSH, TagPGP,
		TagADDR, TagEXTRA:
		return true
	default:
		return false
	}
}

// Structural caps on variable-length fields, enforced by the record
// decoder (§3 invariants: no field may overread, every length is
// honored exactly once).
const (
	MaxRecords       = 255
	MaxFQDNLength    = 255
	MaxLabelField    = 33 // service/protocol/nid labels
	MaxTextLength    = 255
	MaxOnionLength   = 33
	MaxDigestLength  = 64
	MaxMagnetNin     = 64
	MaxHashLength    = 64
	MaxCertLength    = 64
	MaxExtraDataLen  = 255
	ResourceVersion0 = 0
)

// DefaultTTL is the fixed TTL every record decoded from a resource
// carries, regardless of the tree interval that committed it.
const DefaultTTL uint32 = 21600

// Root-zone TTLs. Fixed constants, not derived from a resource (the
// root zone has no resource; these apply to the NS/A/AAAA/SOA/NSEC/
// DNSKEY/DS the core synthesizes for queries against ".").
const (
	RootTTLApex     uint32 = 518400 // root NS/A/AAAA
	RootTTLSecurity uint32 = 86400  // root SOA/NSEC/DNSKEY/DS
)

// SOA timers for the synthesized root SOA.
const (
	RootSOARefresh uint32 = 1800
	RootSOARetry   uint32 = 900
	RootSOAExpire  uint32 = 604800
	RootSOAMinTTL  uint32 = 86400
)

// SOASerialFormat is the layout of the root SOA serial: YYYYMMDDHH
// read from the UTC clock. The clock read is the core's only
// non-deterministic input.
const SOASerialFormat = "2006010215"

// SOASerial computes the root SOA serial for t, formatted YYYYMMDDHH.
func SOASerial(t time.Time) uint32 {
	s := t.UTC().Format(SOASerialFormat)
	var n uint32
	for _, c := range s {
		n = n*10 + uint32(c-'0')
	}
	return n
}

// RootNSECBitmap is the canonical type bitmap carried by every NSEC
// emitted for the root zone and for empty proofs. It covers exactly
// {NS, SOA, RRSIG, NSEC, DNSKEY} and is treated as fixed data, not a
// computed value, per the design note this is grounded on.
var RootNSECBitmap = []byte{0x00, 0x07, 0x22, 0x00, 0x00, 0x00, 0x00, 0x03, 0x80}

// MaxPointerHops bounds the number of compression-pointer jumps a
// name reader will follow before rejecting the message as cyclic.
const MaxPointerHops = 128

// CompressionMask identifies a two-byte compression pointer label: the
// high two bits of the length byte are both set.
const CompressionMask byte = 0xC0
