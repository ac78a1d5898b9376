// Package main is the entry point for the weekplan application.
// It loads configuration, initializes storage, and starts the TUI.
package main

import (
	"flag"
	"fmt"
	"os"

	"weekplan/internal/config"
	"weekplan/internal/storage"
	"weekplan/internal/ui"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const helpText = `weekplan - A weekly task planner for your terminal

USAGE:
    weekplan [OPTIONS]
    weekplan <command> [ARGS]

COMMANDS:
    backup           Create a backup of your planner data
    backup --list    List available backups
    restore NAME     Restore from a specific backup
    restore --latest Restore from the most recent backup
    export           Generate a report for the current week (Markdown)
    export 2026-23   Generate a report for a specific ISO week
    export -f json   Output report as JSON

OPTIONS:
    -h, --help       Show this help message
    -v, --version    Show version information

DESCRIPTION:
    weekplan is a terminal-based weekly planner. Each week carries a
    recurring task template per weekday; checking tasks off day by day
    builds a daily streak. Past and future weeks can be browsed but only
    the current week's plan can be edited.

KEYBINDINGS:
    Global:
        ?            Show help overlay
        q            Quit

    Navigation:
        h / l        Previous/next day
        H / L        Previous/next week
        t            Jump back to today
        j / k        Move cursor

    Tasks:
        a            Add task
        e            Edit task
        d / Space    Toggle done
        x            Delete task
        K / J        Reorder up/down
        s            Suggest subtasks (needs an API key)

DATA STORAGE:
    All data is stored in ~/.weekplan/ as a plain JSON file:
        planner.json - Weekly templates, completions, and streak

CONFIGURATION:
    Optional config file: ~/.config/weekplan/config.yaml
    See documentation for configuration options.

EXAMPLES:
    # Start the app
    weekplan

    # Create a backup
    weekplan backup

    # Restore from a backup
    weekplan restore --latest

    # Report for the current week
    weekplan export

    # Report for week 23 of 2026, as JSON
    weekplan export --format json 2026-23

    # Show version
    weekplan --version
`

func main() {
	// Check for subcommands first (before flag parsing)
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "backup":
			runBackup(os.Args[2:])
			return
		case "restore":
			runRestore(os.Args[2:])
			return
		case "export":
			runExport(os.Args[2:])
			return
		}
	}

	// Define flags
	showVersion := flag.Bool("version", false, "show version information")
	flag.BoolVar(showVersion, "v", false, "show version information (shorthand)")

	showHelp := flag.Bool("help", false, "show help message")
	flag.BoolVar(showHelp, "h", false, "show help message (shorthand)")

	// Custom usage message
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, helpText)
	}

	flag.Parse()

	// Handle version flag
	if *showVersion {
		fmt.Printf("weekplan version %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
		os.Exit(0)
	}

	// Handle help flag
	if *showHelp {
		fmt.Print(helpText)
		os.Exit(0)
	}

	// Reject unknown arguments
	if flag.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Error: unknown arguments: %v\n\n", flag.Args())
		flag.Usage()
		os.Exit(1)
	}

	// Load configuration (from ~/.config/weekplan/config.yaml or defaults)
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Initialize storage with configured data directory
	store, err := storage.New(cfg.GetDataDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing storage: %v\n", err)
		os.Exit(1)
	}

	// Run the TUI
	if err := ui.NewApp(cfg, store).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", err)
		os.Exit(1)
	}
}
