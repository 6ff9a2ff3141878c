// Package wire implements the length-checked binary cursor the
// resource decoder reads every field through, plus the DNS
// compressed-name reader that resolves pointer labels against the
// resource's own byte base.
//
// Every primitive here returns an error instead of advancing on
// failure — a short read never partially consumes the cursor, so a
// caller can always tell "nothing happened" from "something was
// consumed".
package wire

import (
	"github.com/hnsresolve/resolver/internal/errors"
)

// Reader is an advancing cursor over a fixed byte slice. Name reads
// use the same underlying slice as their decompression base — on the
// wire format this package serves, pointers are always relative to
// the start of the resource bytes, not to some outer message.
type Reader struct {
	base []byte
	off  int
}

// NewReader wraps data for sequential, bounds-checked reads.
func NewReader(data []byte) *Reader {
	return &Reader{base: data}
}

// Offset returns the current read position, for error reporting.
func (r *Reader) Offset() int {
	return r.off
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.base) - r.off
}

// Done reports whether every byte has been consumed.
func (r *Reader) Done() bool {
	return r.Remaining() <= 0
}

// ReadU8 reads one byte and advances the cursor.
func (r *Reader) ReadU8() (uint8, error) {
	if r.Remaining() < 1 {
		return 0, &errors.WireFormatError{
			Operation: "read u8",
			Offset:    r.off,
			Message:   "unexpected end of resource",
		}
	}
	v := r.base[r.off]
	r.off++
	return v, nil
}

// ReadU16BE reads a big-endian uint16 and advances the cursor.
func (r *Reader) ReadU16BE() (uint16, error) {
	if r.Remaining() < 2 {
		return 0, &errors.WireFormatError{
			Operation: "read u16",
			Offset:    r.off,
			Message:   "unexpected end of resource",
		}
	}
	v := uint16(r.base[r.off])<<8 | uint16(r.base[r.off+1])
	r.off += 2
	return v, nil
}

// ReadU32BE reads a big-endian uint32 and advances the cursor.
func (r *Reader) ReadU32BE() (uint32, error) {
	if r.Remaining() < 4 {
		return 0, &errors.WireFormatError{
			Operation: "read u32",
			Offset:    r.off,
			Message:   "unexpected end of resource",
		}
	}
	v := uint32(r.base[r.off])<<24 | uint32(r.base[r.off+1])<<16 |
		uint32(r.base[r.off+2])<<8 | uint32(r.base[r.off+3])
	r.off += 4
	return v, nil
}

// ReadBytes reads exactly n bytes and advances the cursor. The
// returned slice is a copy; the caller may retain it independent of
// the Reader's lifetime.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || r.Remaining() < n {
		return nil, &errors.WireFormatError{
			Operation: "read bytes",
			Offset:    r.off,
			Message:   "unexpected end of resource",
		}
	}
	out := make([]byte, n)
	copy(out, r.base[r.off:r.off+n])
	r.off += n
	return out, nil
}

// ReadSized reads a one-byte length prefix followed by that many
// bytes, per the size-prefixed string/blob encoding §3 uses for
// TEXT/URL/EMAIL and similar fields.
func (r *Reader) ReadSized(cap int) ([]byte, error) {
	start := r.off
	size, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	if int(size) > cap {
		r.off = start
		return nil, &errors.WireFormatError{
			Operation: "read sized field",
			Offset:    start + 1,
			Message:   "length exceeds field cap",
		}
	}
	b, err := r.ReadBytes(int(size))
	if err != nil {
		r.off = start
		return nil, err
	}
	return b, nil
}
