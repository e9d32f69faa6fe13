package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pevans/catalogsnap/snapshots"
)

// printHistoryTable prints archived snapshots, newest first
func printHistoryTable(list []snapshots.Snapshot) {
	if len(list) == 0 {
		fmt.Println("No snapshots archived.")
		return
	}

	fmt.Printf("%-36s %-19s %-8s %s\n", "ID", "CREATED", "RECORDS", "SOURCE")
	fmt.Println("----------------------------------------------------------------------------------------------------")

	for _, snapshot := range list {
		fmt.Printf("%-36s %-19s %-8d %s\n",
			snapshot.SnapshotID.String(),
			snapshot.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			snapshot.RecordCount,
			truncate(snapshot.SourceURL, 50),
		)
	}
}

// printSnapshotTable prints one snapshot with its records
func printSnapshotTable(snapshot *snapshots.Snapshot) {
	fmt.Printf("Snapshot: %s\n", snapshot.SnapshotID)
	fmt.Printf("Source:   %s\n", snapshot.SourceURL)
	fmt.Printf("Created:  %s\n", snapshot.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("Records:  %d\n", snapshot.RecordCount)
	fmt.Println()

	if len(snapshot.Records) == 0 {
		fmt.Println("No records to display.")
		return
	}

	fmt.Printf("%-50s %-25s %-15s %-10s %s\n", "TITLE", "AUTHOR", "ADDED", "VIEWS", "DURATION")
	for _, r := range snapshot.Records {
		fmt.Printf("%-50s %-25s %-15s %-10s %s\n",
			truncate(r.Title, 50),
			truncate(r.Author, 25),
			truncate(r.AddedDate, 15),
			truncate(r.ViewCount, 10),
			r.Duration,
		)
	}
}

// printSnapshotJSON prints one snapshot in JSON format
func printSnapshotJSON(snapshot *snapshots.Snapshot) {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to marshal JSON: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(string(data))
}
