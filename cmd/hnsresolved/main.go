// Command hnsresolved is a minimal authoritative server around the
// resolver core: it binds a UDP socket, reads each incoming wire
// query, asks an in-memory tree for the queried name's resource, and
// writes back whatever the core decided to answer.
//
// It exists to exercise resolver.Core end to end; a production
// deployment would swap memtree.Tree for a real blockchain-backed
// resolver.TreeReader and likely add a TCP listener alongside it.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"flag"

	"github.com/hnsresolve/resolver/resolver"
	"github.com/hnsresolve/resolver/resolver/memtree"
)

func main() {
	addr := flag.String("addr", ":5300", "UDP address to listen on (use :53 for a real authoritative deployment)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tree := memtree.New()

	core, err := resolver.New(resolver.WithAddr("127.0.0.1"), resolver.WithTreeReader(tree))
	if err != nil {
		fmt.Fprintf(os.Stderr, "hnsresolved: failed to build resolver core: %v\n", err)
		os.Exit(1)
	}

	srv, err := newServer(*addr, core)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hnsresolved: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = srv.Close() }()

	fmt.Fprintf(os.Stderr, "hnsresolved: listening on %s\n", *addr)
	srv.Run(ctx)
}
