package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/pevans/catalogsnap"
	"github.com/pevans/catalogsnap/config"
	"github.com/pevans/catalogsnap/snapshots"
)

func handleRun(settings *config.Settings, args []string) {
	pipelineConfig := settings.Pipeline

	// Parse flags for run command
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	fs.IntVar(&pipelineConfig.NumPages, "pages", pipelineConfig.NumPages, "Number of pages to fetch")
	fs.StringVar(&pipelineConfig.BaseURL, "url", pipelineConfig.BaseURL, "Catalog listing URL")
	fs.StringVar(&pipelineConfig.OutputPath, "output", pipelineConfig.OutputPath, "Output table path")
	fs.StringVar(&pipelineConfig.Source, "source", pipelineConfig.Source, "Page format (html or feed)")
	noOpen := fs.Bool("no-open", false, "Do not open the table when done")
	noArchive := fs.Bool("no-archive", false, "Do not save the run to the snapshot database")
	fs.Parse(args)

	if *noOpen {
		pipelineConfig.OpenOutput = false
	}

	if err := pipelineConfig.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts := []catalogsnap.Option{
		catalogsnap.WithLogger(log.New(os.Stderr, "", log.LstdFlags)),
	}

	if !*noArchive {
		store, err := snapshots.NewStore(settings.SnapshotDSN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to open snapshot store: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
		opts = append(opts, catalogsnap.WithArchive(store))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	pipeline := catalogsnap.New(&pipelineConfig, opts...)
	result, err := pipeline.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: run failed: %v\n", err)
		os.Exit(1)
	}

	// Display results
	fmt.Println()
	fmt.Println("Run completed:")
	fmt.Printf("  Pages fetched: %d\n", result.PagesFetched)
	fmt.Printf("  Pages failed: %d\n", result.PagesFailed)
	fmt.Printf("  Records written: %d\n", len(result.Records))
	fmt.Printf("  Duplicate titles skipped: %d\n", result.Duplicates)
	fmt.Printf("  Output: %s\n", result.OutputPath)
	if result.SnapshotID != uuid.Nil {
		fmt.Printf("  Snapshot: %s\n", result.SnapshotID)
	}
	fmt.Printf("  Duration: %s\n", result.Duration.Round(time.Millisecond))
}
