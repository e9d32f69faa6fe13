package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pevans/catalogsnap/config"
	"github.com/pevans/catalogsnap/snapshots"
)

func handleInit(args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	force := fs.Bool("force", false, "Overwrite an existing config file")
	fs.Parse(args)

	fmt.Println("Initializing catalogsnap...")
	fmt.Println()

	configPath, err := config.ConfigFilePath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "  ✗ %v\n", err)
		os.Exit(1)
	}

	created, err := config.WriteDefaultConfigFile(configPath, *force)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  ✗ Failed to create config file: %v\n", err)
		os.Exit(1)
	}
	if created {
		fmt.Printf("  ✓ Config file: %s\n", configPath)
	} else {
		fmt.Printf("  Config file: %s (already exists)\n", configPath)
	}

	// Re-resolve so the database lands where the (possibly new) config says
	settings := loadSettings()

	store, err := snapshots.NewStore(settings.SnapshotDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  ✗ Failed to initialize snapshot database: %v\n", err)
		os.Exit(1)
	}
	store.Close()
	fmt.Printf("  ✓ Snapshot database: %s\n", settings.SnapshotDSN)

	fmt.Println()
	fmt.Println("✓ Initialized successfully")
	fmt.Println()
	fmt.Println("You can now:")
	fmt.Println("  - Take a snapshot with 'catalogsnap run'")
	fmt.Println("  - Browse snapshots with 'catalogsnap history'")
}
