// Package resolver is the thin public surface the translation core
// exposes (§6): decode a resource, inspect it, and synthesize signed
// DNS messages for a query against it, the root zone, or a negative
// case. Everything underneath — wire parsing, section building,
// dispatch, signing — lives in internal/ and is reached only through
// this package's methods.
package resolver

import (
	"context"
	"net"

	"github.com/miekg/dns"

	"github.com/hnsresolve/resolver/internal/dispatch"
	"github.com/hnsresolve/resolver/internal/dnssec"
	hnserrors "github.com/hnsresolve/resolver/internal/errors"
	"github.com/hnsresolve/resolver/internal/pointer"
	"github.com/hnsresolve/resolver/internal/protocol"
	"github.com/hnsresolve/resolver/internal/resource"
	"github.com/hnsresolve/resolver/internal/root"
)

// TreeReader is the injectable collaborator that fetches a resource's
// raw bytes from the blockchain tree — the one external dependency
// named in §1 this module does not implement itself.
type TreeReader interface {
	GetResource(ctx context.Context, name string) ([]byte, error)
}

// Core is the resolver's query surface: a signer (the process-wide
// immutable DNSSEC key material, §5/§9) plus whatever configuration
// Options applied. Construct with New; a Core is safe for concurrent
// use once built, since nothing it holds is mutated after New
// returns.
type Core struct {
	signer *dnssec.Signer
	addr   net.IP
	tree   TreeReader
}

// New builds a Core, generating a fresh KSK/ZSK pair unless options
// supply one, and applies every Option in order.
func New(opts ...Option) (*Core, error) {
	c := &Core{}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.signer == nil {
		s, err := dnssec.NewSigner(".")
		if err != nil {
			return nil, err
		}
		c.signer = s
	}
	return c, nil
}

// Decode turns raw resource bytes into a Resource, or rejects the
// whole value — §4.2/§7's all-or-nothing decode.
func (c *Core) Decode(data []byte) (*resource.Resource, error) {
	return resource.Decode(data)
}

// Has reports whether res holds at least one record of tag.
func (c *Core) Has(res *resource.Resource, tag protocol.Tag) bool {
	return res.Has(tag)
}

// Get returns the first record of tag in res, or nil.
func (c *Core) Get(res *resource.Resource, tag protocol.Tag) resource.Record {
	return res.Get(tag)
}

// ToDNS synthesizes the signed response for (res, fqdn, qtype) per
// §4.6. fqdn must already be fully qualified — a contract violation
// otherwise, per §7.
func (c *Core) ToDNS(res *resource.Resource, fqdn string, qtype uint16) (*dns.Msg, error) {
	return dispatch.ToDNS(c.signer, res, fqdn, qtype)
}

// Root synthesizes the resolver's own answer for a query against the
// root zone itself (§4.7).
func (c *Core) Root(qtype uint16) (*dns.Msg, error) {
	return root.ToDNS(c.signer, qtype, c.addr)
}

// NX returns the canned NXDOMAIN message.
func (c *Core) NX() (*dns.Msg, error) {
	return root.NX(c.signer)
}

// ServFail returns the canned SERVFAIL message.
func (c *Core) ServFail() *dns.Msg {
	return root.ServFail()
}

// NotImp returns the canned NOTIMP message.
func (c *Core) NotImp() *dns.Msg {
	return root.NotImp()
}

// IsPtr reports whether name's first label is a synthetic address
// pointer (§4.3's glossary entry) — a hostname that carries a packed
// IP rather than pointing at one through a resource.
func IsPtr(name string) bool {
	labels := dns.SplitDomainName(name)
	if len(labels) == 0 {
		return false
	}
	return pointer.IsPointer(labels[0])
}

// Resolve is the convenience entrypoint a transport layer calls per
// query: fetch the resource bytes for name's apex through the
// configured TreeReader, decode, and dispatch. Decode or signing
// failure becomes a SERVFAIL, exactly as §7's propagation policy
// describes; an empty lookup becomes NXDOMAIN.
func (c *Core) Resolve(ctx context.Context, name string, qtype uint16) (*dns.Msg, error) {
	if c.tree == nil {
		return nil, &hnserrors.ValidationError{Field: "tree", Message: "Resolve called with no TreeReader configured"}
	}

	apex := apexLabel(name)
	data, err := c.tree.GetResource(ctx, apex)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return c.NX()
	}

	res, err := c.Decode(data)
	if err != nil {
		return c.ServFail(), nil
	}

	msg, err := c.ToDNS(res, name, qtype)
	if err != nil {
		return c.ServFail(), nil
	}
	if msg == nil {
		return c.ServFail(), nil
	}
	return msg, nil
}

func apexLabel(fqdn string) string {
	labels := dns.SplitDomainName(fqdn)
	if len(labels) == 0 {
		return ""
	}
	return labels[len(labels)-1]
}
