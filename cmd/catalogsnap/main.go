package main

import (
	"fmt"
	"os"

	"github.com/pevans/catalogsnap/config"
)

// settingsMode says how a command resolves its settings.
type settingsMode int

const (
	// The command reads no settings
	settingsNone settingsMode = iota
	// Bad values are reported and skipped
	settingsLenient
	// Bad values stop the command
	settingsStrict
)

type command struct {
	settings settingsMode
	handle   func(settings *config.Settings, args []string)
}

var commands = map[string]command{
	"run":     {settingsStrict, handleRun},
	"history": {settingsLenient, func(s *config.Settings, args []string) { handleHistory(s.SnapshotDSN, args) }},
	"show":    {settingsLenient, func(s *config.Settings, args []string) { handleShow(s.SnapshotDSN, args) }},
	"delete":  {settingsLenient, func(s *config.Settings, args []string) { handleDelete(s.SnapshotDSN, args) }},
	"serve":   {settingsLenient, func(s *config.Settings, args []string) { handleServe(s.SnapshotDSN, args) }},
	"init":    {settingsNone, func(_ *config.Settings, args []string) { handleInit(args) }},
	"help":    {settingsNone, func(*config.Settings, []string) { printUsage() }},
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Get subcommand
	subcommand := os.Args[1]
	if subcommand == "--help" || subcommand == "-h" {
		subcommand = "help"
	}

	cmd, ok := commands[subcommand]
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown command: %s\n\n", subcommand)
		printUsage()
		os.Exit(1)
	}

	var settings *config.Settings
	switch cmd.settings {
	case settingsLenient:
		settings = loadSettings()
	case settingsStrict:
		settings = loadRunSettings()
	}

	cmd.handle(settings, os.Args[2:])
}

// loadSettings resolves defaults, the config file, .env and the environment.
// Bad values are reported and the remaining settings are used.
func loadSettings() *config.Settings {
	settings, err := config.LoadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		fmt.Fprintf(os.Stderr, "Continuing without the invalid settings...\n\n")
	}
	return settings
}

// loadRunSettings is loadSettings for commands that write files: a bad value
// stops the command instead of silently running with a fallback.
func loadRunSettings() *config.Settings {
	settings, err := config.LoadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid settings: %v\n", err)
		os.Exit(1)
	}
	return settings
}

func printUsage() {
	fmt.Println("catalogsnap - Video catalog snapshot tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  catalogsnap <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  run        Scrape the catalog and write the table")
	fmt.Println("  history    List archived snapshots")
	fmt.Println("  show       Show one archived snapshot")
	fmt.Println("  delete     Delete an archived snapshot")
	fmt.Println("  serve      Serve archived snapshots over HTTP")
	fmt.Println("  init       Write the default config file")
	fmt.Println("  help       Show this help message")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Printf("  %-26s Catalog listing URL (default: https://rutube.ru/feeds/top/)\n", config.EnvBaseURL)
	fmt.Printf("  %-26s Number of pages to fetch (default: 3)\n", config.EnvPages)
	fmt.Printf("  %-26s Output table path, .xlsx or .csv (default: films_data.xlsx)\n", config.EnvOutput)
	fmt.Printf("  %-26s Page format, html or feed (default: html)\n", config.EnvSource)
	fmt.Printf("  %-26s Set to true to skip opening the table\n", config.EnvNoOpen)
	fmt.Printf("  %-26s Path to snapshot database (default: %s)\n", config.EnvSnapshotDSN, config.DefaultSnapshotDSN)
}
