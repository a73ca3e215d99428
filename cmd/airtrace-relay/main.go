// Command airtrace-relay runs the optional gRPC fanout collaborator that
// streams FederationEventFrame values to subscribers (SPEC_FULL.md §0.6).
package main

import (
	"flag"
	"log"

	"github.com/airtrace/core/internal/diag"
	"github.com/airtrace/core/internal/federation/relay"
)

func main() {
	addr := flag.String("listen", relay.DefaultConfig().ListenAddr, "relay gRPC listen address")
	maxSubs := flag.Int("max-subscribers", relay.DefaultConfig().MaxSubscribers, "maximum concurrent subscribers")
	flag.Parse()

	cfg := relay.Config{ListenAddr: *addr, MaxSubscribers: *maxSubs}
	srv := relay.NewServer(cfg)
	if err := srv.Start(); err != nil {
		log.Fatalf("airtrace-relay: %v", err)
	}
	diag.Logf("airtrace-relay: listening on %s", cfg.ListenAddr)

	select {}
}
