package main

import (
	"flag"
	"log"

	"github.com/pevans/catalogsnap/snapshots"
)

func handleServe(dsn string, args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", "localhost:8080", "Listen address")
	fs.Parse(args)

	store, err := snapshots.NewStore(dsn)
	if err != nil {
		log.Fatalf("Failed to open snapshot store: %v", err)
	}
	defer store.Close()

	server := snapshots.NewAPIServer(store)
	router := server.SetupRouter()

	log.Printf("Starting snapshot API server on http://%s/api/v1/snapshots", *addr)

	if err := router.Run(*addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
