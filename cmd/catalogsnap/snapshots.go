package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/pevans/catalogsnap/snapshots"
)

// openStore opens the snapshot database or exits.
func openStore(dsn string) *snapshots.Store {
	store, err := snapshots.NewStore(dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open snapshot store: %v\n", err)
		os.Exit(1)
	}
	return store
}

// parseSnapshotID reads the snapshot ID positional argument or exits.
func parseSnapshotID(args []string, usage string) uuid.UUID {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Error: snapshot ID is required\n")
		fmt.Fprintf(os.Stderr, "Usage: %s\n", usage)
		os.Exit(1)
	}

	id, err := uuid.Parse(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid snapshot ID: %v\n", err)
		os.Exit(1)
	}
	return id
}

func handleHistory(dsn string, args []string) {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	fs.Parse(args)

	store := openStore(dsn)
	defer store.Close()

	list, err := store.List()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to list snapshots: %v\n", err)
		os.Exit(1)
	}

	printHistoryTable(list)
}

func handleShow(dsn string, args []string) {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	format := fs.String("format", "table", "Output format (table or json)")
	fs.Parse(args)

	if *format != "table" && *format != "json" {
		fmt.Fprintf(os.Stderr, "Error: --format must be 'table' or 'json'\n")
		os.Exit(1)
	}

	id := parseSnapshotID(fs.Args(), "catalogsnap show <snapshot-id> [--format table|json]")

	store := openStore(dsn)
	defer store.Close()

	snapshot, err := store.Get(id)
	if errors.Is(err, snapshots.ErrSnapshotNotFound) {
		fmt.Fprintf(os.Stderr, "Error: snapshot not found: %s\n", id)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to get snapshot: %v\n", err)
		os.Exit(1)
	}

	if *format == "json" {
		printSnapshotJSON(snapshot)
		return
	}
	printSnapshotTable(snapshot)
}

func handleDelete(dsn string, args []string) {
	id := parseSnapshotID(args, "catalogsnap delete <snapshot-id>")

	store := openStore(dsn)
	defer store.Close()

	if err := store.Delete(id); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to delete snapshot: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Deleted snapshot: %s\n", id)
}
