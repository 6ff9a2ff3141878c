package resolver

import (
	"fmt"
	"net"

	"github.com/hnsresolve/resolver/internal/dnssec"
)

// Option configures a Core at construction time, following the same
// functional-options shape the rest of this codebase's lineage uses
// for its server types: a closure that mutates the built value and
// can fail validation.
type Option func(*Core) error

// WithAddr sets the resolver's own address, offered as glue in NS/ANY
// answers against the root zone (§4.7). addr must parse as an IP.
func WithAddr(addr string) Option {
	return func(c *Core) error {
		ip := net.ParseIP(addr)
		if ip == nil {
			return fmt.Errorf("resolver: WithAddr: %q is not a valid IP address", addr)
		}
		c.addr = ip
		return nil
	}
}

// WithTreeReader supplies the collaborator Resolve uses to fetch a
// name's resource bytes.
func WithTreeReader(tree TreeReader) Option {
	return func(c *Core) error {
		c.tree = tree
		return nil
	}
}

// WithSigner installs a pre-built signer instead of letting New
// generate a fresh KSK/ZSK pair — for tests that need a deterministic
// clock, or a process that persists its keys across restarts.
func WithSigner(signer *dnssec.Signer) Option {
	return func(c *Core) error {
		c.signer = signer
		return nil
	}
}
