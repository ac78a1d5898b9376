// Package main is the entry point for the weekplan application.
// This file contains the export subcommand handler.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"weekplan/internal/calendar"
	"weekplan/internal/config"
	"weekplan/internal/fsutil"
	"weekplan/internal/planner"
	"weekplan/internal/reports"
	"weekplan/internal/storage"
)

// exportHelpText is the help message for the export subcommand.
const exportHelpText = `weekplan export - Generate weekly reports

USAGE:
    weekplan export [OPTIONS] [WEEK]

OPTIONS:
    -f, --format FMT   Output format: markdown (default) or json
    -o, --output FILE  Write to file instead of stdout
    -h, --help         Show this help message

ARGUMENTS:
    WEEK               ISO week to report on (YYYY-WW, e.g., 2026-23).
                       Defaults to the current week.

DESCRIPTION:
    Generates a report summarizing one week of the planner: every day's
    tasks, what was completed, the overall completion rate, and the
    current streak. Reports can be output as Markdown (human-readable)
    or JSON (machine-readable).

EXAMPLES:
    # Current week in Markdown
    weekplan export

    # A specific week
    weekplan export 2026-23

    # JSON format
    weekplan export --format json

    # Save to file
    weekplan export --output report.md
`

// runExport handles the "weekplan export" subcommand.
func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)

	formatFlag := fs.String("format", "markdown", "output format: markdown or json")
	fs.StringVar(formatFlag, "f", "markdown", "output format (shorthand)")

	outputFlag := fs.String("output", "", "write to file instead of stdout")
	fs.StringVar(outputFlag, "o", "", "write to file (shorthand)")

	helpFlag := fs.Bool("help", false, "show help message")
	fs.BoolVar(helpFlag, "h", false, "show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprint(os.Stderr, exportHelpText)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *helpFlag {
		fmt.Print(exportHelpText)
		os.Exit(0)
	}

	// Validate format
	format := *formatFlag
	if format != "markdown" && format != "json" && format != "md" {
		fmt.Fprintf(os.Stderr, "Error: invalid format %q. Use 'markdown' or 'json'.\n", format)
		os.Exit(1)
	}
	if format == "md" {
		format = "markdown"
	}

	// Load config and storage
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.New(cfg.GetDataDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing storage: %v\n", err)
		os.Exit(1)
	}

	snapshot, err := store.LoadState()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	// Roll the snapshot forward so the report sees the current week.
	engine := planner.New()
	state := engine.Initialize(snapshot)

	// Parse the week argument, defaulting to the active week
	weekID := state.ActiveWeekID
	if fs.NArg() > 0 {
		weekID = calendar.WeekID(fs.Arg(0))
		if _, _, err := calendar.ParseWeekID(weekID); err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid week %q. Use YYYY-WW format.\n", fs.Arg(0))
			os.Exit(1)
		}
	}

	report, err := reports.NewGenerator().Generate(state, weekID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
		os.Exit(1)
	}

	var output string
	if format == "json" {
		data, err := reports.FormatJSON(report)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error formatting JSON: %v\n", err)
			os.Exit(1)
		}
		output = string(data)
	} else {
		output = reports.FormatMarkdown(report)
	}

	// Write output
	if *outputFlag != "" {
		if err := os.MkdirAll(filepath.Dir(*outputFlag), 0700); err != nil && filepath.Dir(*outputFlag) != "." {
			fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
			os.Exit(1)
		}
		if err := fsutil.WriteFileAtomic(*outputFlag, []byte(output), 0600); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing to file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Report written to %s\n", *outputFlag)
	} else {
		fmt.Print(output)
	}
}
