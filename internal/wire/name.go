package wire

import (
	"strings"

	"github.com/hnsresolve/resolver/internal/errors"
	"github.com/hnsresolve/resolver/internal/protocol"
)

// ReadName reads a DNS wire-encoded name starting at the cursor,
// following compression pointers against the Reader's own base. The
// main cursor advances past the encoded name as it appears in the
// local stream: a literal label sequence advances past every label
// plus the terminating zero byte; a pointer advances past the
// two-byte pointer only; a label sequence that ends in a pointer
// advances past the labels and the two pointer bytes, never touching
// whatever the pointer points at.
//
// The returned name is fully qualified (trailing dot), letter case
// left exactly as stored — this package does not case-fold, matching
// the wire bytes byte for byte.
func (r *Reader) ReadName() (string, error) {
	var labels []string
	hops := 0
	cursor := r.off
	next := -1 // where the main cursor lands on success; set at the first pointer

	for {
		if cursor >= len(r.base) {
			return "", &errors.WireFormatError{
				Operation: "read name",
				Offset:    cursor,
				Message:   "unexpected end of resource",
			}
		}

		length := r.base[cursor]

		switch {
		case length == 0:
			cursor++
			if next < 0 {
				next = cursor
			}
			r.off = next
			return finishName(labels), nil

		case length&protocol.CompressionMask == protocol.CompressionMask:
			if cursor+1 >= len(r.base) {
				return "", &errors.WireFormatError{
					Operation: "read name",
					Offset:    cursor,
					Message:   "truncated compression pointer",
				}
			}
			ptr := int(length&^protocol.CompressionMask)<<8 | int(r.base[cursor+1])

			if next < 0 {
				next = cursor + 2
			}

			hops++
			if hops > protocol.MaxPointerHops {
				return "", &errors.WireFormatError{
					Operation: "read name",
					Offset:    cursor,
					Message:   "too many compression jumps (possible loop)",
				}
			}
			if ptr >= cursor {
				return "", &errors.WireFormatError{
					Operation: "read name",
					Offset:    cursor,
					Message:   "compression pointer does not point backward",
				}
			}
			cursor = ptr

		case length >= 64:
			return "", &errors.WireFormatError{
				Operation: "read name",
				Offset:    cursor,
				Message:   "label length byte is neither a valid length nor a pointer",
			}

		default:
			start := cursor + 1
			end := start + int(length)
			if end > len(r.base) {
				return "", &errors.WireFormatError{
					Operation: "read name",
					Offset:    cursor,
					Message:   "label overruns resource",
				}
			}
			labels = append(labels, string(r.base[start:end]))
			cursor = end
		}

		if total := nameWireLength(labels); total > protocol.MaxFQDNLength {
			return "", &errors.WireFormatError{
				Operation: "read name",
				Offset:    cursor,
				Message:   "name exceeds maximum length",
			}
		}
	}
}

func nameWireLength(labels []string) int {
	n := 1 // terminating zero
	for _, l := range labels {
		n += 1 + len(l)
	}
	return n
}

func finishName(labels []string) string {
	if len(labels) == 0 {
		return "."
	}
	return strings.Join(labels, ".") + "."
}
