// Package target implements the polymorphic Target value embedded in
// CANONICAL, DELEGATE, NS, and SERVICE records (§3): a target is
// either a stored FQDN (NAME), an FQDN with inline A/AAAA glue
// (GLUE), a raw address (INET4/INET6), or an onion address (ONION/
// ONIONNG). Read decodes one from the wire; ToHost resolves one to
// the FQDN a DNS RDATA field needs (§4.4).
package target

import (
	"net"

	"github.com/miekg/dns"

	"github.com/hnsresolve/resolver/internal/errors"
	"github.com/hnsresolve/resolver/internal/pointer"
	"github.com/hnsresolve/resolver/internal/protocol"
	"github.com/hnsresolve/resolver/internal/wire"
)

// Kind discriminates which fields of a Target are populated. The
// values are this package's own numbering, not the wire selector
// bytes; Read maps each selector byte to its Kind.
type Kind uint8

const (
	KindName Kind = iota
	KindGlue
	KindInet4
	KindInet6
	KindOnion
	KindOnionNG
)

// Target is the decoded form of the embedded target selector. Kind
// chooses the meaningful fields: Name for NAME, Inet4 or Inet6 for
// INET4/INET6, Onion for ONION/ONIONNG, and Name, Inet4 and Inet6
// together for GLUE.
type Target struct {
	Kind  Kind
	Name  string
	Inet4 net.IP
	Inet6 net.IP
	Onion [33]byte
}

// Read decodes one target value: a selector byte (the same wire
// values as the outer record tags it shares a namespace with —
// INET4=1, INET6=2, ONION=3, ONIONNG=4, NAME=5, GLUE=6) followed by
// that kind's payload.
func Read(r *wire.Reader) (Target, error) {
	selector, err := r.ReadU8()
	if err != nil {
		return Target{}, err
	}

	switch protocol.Tag(selector) {
	case protocol.TagINET4:
		b, err := r.ReadBytes(4)
		if err != nil {
			return Target{}, err
		}
		return Target{Kind: KindInet4, Inet4: net.IP(b)}, nil

	case protocol.TagINET6:
		b, err := r.ReadBytes(16)
		if err != nil {
			return Target{}, err
		}
		return Target{Kind: KindInet6, Inet6: net.IP(b)}, nil

	case protocol.TagONION, protocol.TagONIONNG:
		b, err := r.ReadBytes(protocol.MaxOnionLength)
		if err != nil {
			return Target{}, err
		}
		var onion [33]byte
		copy(onion[:], b)
		kind := KindOnion
		if protocol.Tag(selector) == protocol.TagONIONNG {
			kind = KindOnionNG
		}
		return Target{Kind: kind, Onion: onion}, nil

	case protocol.TagNAME:
		name, err := r.ReadName()
		if err != nil {
			return Target{}, err
		}
		return Target{Kind: KindName, Name: name}, nil

	case protocol.TagGLUE:
		name, err := r.ReadName()
		if err != nil {
			return Target{}, err
		}
		v4, err := r.ReadBytes(4)
		if err != nil {
			return Target{}, err
		}
		v6, err := r.ReadBytes(16)
		if err != nil {
			return Target{}, err
		}
		return Target{Kind: KindGlue, Name: name, Inet4: net.IP(v4), Inet6: net.IP(v6)}, nil

	default:
		return Target{}, &errors.WireFormatError{
			Operation: "read target",
			Offset:    r.Offset(),
			Message:   "unknown target kind",
		}
	}
}

// ToHost implements §4.4's target_to_host: NAME and GLUE carry their
// FQDN directly; INET4 and INET6 have no hostname on chain, so one is
// synthesized as `_<b32>.<tld>.` from queryName's own TLD via
// internal/pointer. Onion kinds and anything else fail — the caller
// treats a false ok as a semantic skip, never an error.
func ToHost(t Target, queryName string) (string, bool) {
	switch t.Kind {
	case KindName, KindGlue:
		return t.Name, true
	case KindInet4:
		label, err := pointer.EncodeV4(t.Inet4)
		if err != nil {
			return "", false
		}
		return label + "." + lastLabel(queryName), true
	case KindInet6:
		label, err := pointer.EncodeV6(t.Inet6)
		if err != nil {
			return "", false
		}
		return label + "." + lastLabel(queryName), true
	default:
		return "", false
	}
}

// lastLabel returns queryName's own TLD, fully qualified — the
// "read last label of query_name as tld" step §4.4 names.
func lastLabel(queryName string) string {
	labels := dns.SplitDomainName(queryName)
	if len(labels) == 0 {
		return "."
	}
	return labels[len(labels)-1] + "."
}
