// Package pointer implements the reversible mapping between an IP
// address and a synthetic DNS label of the form `_<base32hex>`. It is
// how the resolver names glue records that have no real hostname: the
// label itself carries the address.
//
// The codec always works over the IPv4-mapped IPv6 form internally
// (::ffff:a.b.c.d for v4 addresses) and compresses the longest run of
// zero bytes before base32hex-encoding the result — the same
// "pack, then base32" idiom the pack's own DNSSEC reference code uses
// for compact identifiers (base32 HexEncoding, unpadded).
package pointer

import (
	"bytes"
	"encoding/base32"
	"net"
	"strings"

	"github.com/hnsresolve/resolver/internal/errors"
)

var hexEncoding = base32.HexEncoding.WithPadding(base32.NoPadding)

var v4Prefix = [12]byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0xff, 0xff}

// EncodeV4 maps a 4-byte IPv4 address to its synthetic pointer label,
// e.g. "_<b32>" for 192.0.2.1. The family is supplied by the caller
// (the calling Target.Kind), never inferred from the slice length —
// see the design note on ip_to_b32's family-detection bug.
func EncodeV4(ip net.IP) (string, error) {
	v4 := ip.To4()
	if v4 == nil {
		return "", &errors.ValidationError{Field: "ip", Value: ip.String(), Message: "not a valid IPv4 address"}
	}
	var mapped [16]byte
	copy(mapped[:12], v4Prefix[:])
	copy(mapped[12:], v4)
	return encode(mapped)
}

// EncodeV6 maps a 16-byte IPv6 address to its synthetic pointer label.
func EncodeV6(ip net.IP) (string, error) {
	v6 := ip.To16()
	if v6 == nil {
		return "", &errors.ValidationError{Field: "ip", Value: ip.String(), Message: "not a valid IPv6 address"}
	}
	var mapped [16]byte
	copy(mapped[:], v6)
	return encode(mapped)
}

func encode(mapped [16]byte) (string, error) {
	start, length := zeroRun(mapped)
	packed := pack(mapped, start, length)

	b32 := strings.ToLower(hexEncoding.EncodeToString(packed))
	label := "_" + b32
	if len(label) > 29 {
		return "", &errors.ValidationError{Field: "label", Value: label, Message: "synthetic pointer label exceeds 29 bytes"}
	}
	return label, nil
}

// Decode reverses EncodeV4/EncodeV6: label must be the bare synthetic
// label (including its leading underscore, no trailing dot or parent
// labels). It reports the recovered address and whether it was
// originally IPv4 (as opposed to IPv6).
func Decode(label string) (ip net.IP, isV4 bool, err error) {
	if len(label) < 2 || len(label) > 29 || label[0] != '_' {
		return nil, false, &errors.ValidationError{Field: "label", Value: label, Message: "not a synthetic pointer label"}
	}

	packed, decErr := hexEncoding.DecodeString(strings.ToUpper(label[1:]))
	if decErr != nil || len(packed) == 0 || len(packed) > 17 {
		return nil, false, &errors.ValidationError{Field: "label", Value: label, Message: "invalid base32hex payload"}
	}

	mapped, err := unpack(packed)
	if err != nil {
		return nil, false, err
	}

	if bytes.Equal(mapped[:12], v4Prefix[:]) {
		v4 := make(net.IP, 4)
		copy(v4, mapped[12:])
		return v4, true, nil
	}

	v6 := make(net.IP, 16)
	copy(v6, mapped[:])
	return v6, false, nil
}

// IsPointer reports whether name's first label is a well-formed
// synthetic pointer label — the glossary's "synthetic pointer" test.
func IsPointer(firstLabel string) bool {
	_, _, err := Decode(firstLabel)
	return err == nil
}

// zeroRun finds the longest run of zero bytes in ip, returning its
// start and length. Ties keep the earliest run (matching a linear
// scan that only replaces on strictly-greater length). An all-zero
// address canonically encodes as start=0, len=0 (a run length of 16
// does not fit the header byte's 4-bit length field).
func zeroRun(ip [16]byte) (start, length int) {
	bestStart, bestLen := 0, 0
	runStart, inRun := 0, false

	flush := func(end int) {
		if inRun && end-runStart > bestLen {
			bestStart, bestLen = runStart, end-runStart
		}
	}

	for i := 0; i < 16; i++ {
		if ip[i] == 0 {
			if !inRun {
				runStart = i
				inRun = true
			}
		} else {
			flush(i)
			inRun = false
		}
	}
	flush(16)

	if bestLen == 16 {
		bestStart, bestLen = 0, 0
	}
	return bestStart, bestLen
}

// pack emits the header byte (start<<4)|len followed by the bytes
// before and after the compressed zero run.
func pack(ip [16]byte, start, length int) []byte {
	left := 16 - (start + length)
	out := make([]byte, 1+start+left)
	out[0] = byte(start<<4) | byte(length)
	copy(out[1:1+start], ip[:start])
	copy(out[1+start:], ip[start+length:])
	return out
}

// unpack reverses pack: splits the header byte and splices the zero
// run back into place.
func unpack(data []byte) ([16]byte, error) {
	var out [16]byte

	field := data[0]
	start := int(field >> 4)
	length := int(field & 0x0f)

	if start+length > 16 {
		return out, &errors.ValidationError{Field: "packed address", Message: "start+len exceeds 16 bytes"}
	}
	left := 16 - (start + length)
	if len(data) != 1+start+left {
		return out, &errors.ValidationError{Field: "packed address", Message: "payload length does not match header"}
	}

	copy(out[:start], data[1:1+start])
	// out[start:start+length] stays zero — the compressed run.
	copy(out[start+length:], data[1+start:])
	return out, nil
}
