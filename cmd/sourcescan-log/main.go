// Command sourcescan-log is a tool for viewing and analyzing discovery log
// files.
//
// Log files are created by sourcescan-daemon when an event log is configured
// or passed with the -event-log flag.
//
// Usage:
//
//	sourcescan-log <command> [flags] <file.dlog>
//
// Commands:
//
//	view     View log file in human-readable format
//	export   Export log file to JSON or CSV format
//	filter   Filter log file and write to new file
//	stats    Show statistics about the log file
//
// Examples:
//
//	# View all events
//	sourcescan-log view discovery.dlog
//
//	# View only describe outcomes
//	sourcescan-log view --category describe discovery.dlog
//
//	# Export to JSONL
//	sourcescan-log export --format jsonl discovery.dlog
//
//	# Keep one service's events in a new file
//	sourcescan-log filter --service "Stage Box 1" -o stagebox.dlog discovery.dlog
//
//	# Show statistics
//	sourcescan-log stats discovery.dlog
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/aoip-tools/sourcescan-go/cmd/sourcescan-log/commands"
	"github.com/aoip-tools/sourcescan-go/pkg/log"
)

const usage = `sourcescan-log - Discovery Log Analyzer

Usage:
  sourcescan-log <command> [flags] <file.dlog>

Commands:
  view     View log file in human-readable format
  export   Export log file to JSON or CSV format
  filter   Filter log file and write to new file
  stats    Show statistics about the log file

Use "sourcescan-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `sourcescan-log view - View log file in human-readable format

Usage:
  sourcescan-log view [flags] <file.dlog>

Flags:
`)
		fs.PrintDefaults()
	}

	service := fs.String("service", "", "Filter by service instance name")
	domain := fs.String("domain", "", "Filter by domain")
	category := fs.String("category", "", "Filter by category (browse, resolve, describe, state, error)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)

	filter := log.Filter{
		Service: *service,
		Domain:  *domain,
	}
	if *category != "" {
		c, err := commands.ParseCategoryFlag(*category)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		filter.Category = &c
	}

	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `sourcescan-log export - Export log file to JSON or CSV format

Usage:
  sourcescan-log export [flags] <file.dlog>

Flags:
`)
		fs.PrintDefaults()
	}

	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)

	if err := commands.RunExport(path, *format, *output); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runFilter(args []string) {
	fs := flag.NewFlagSet("filter", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `sourcescan-log filter - Filter log file and write to new file

Usage:
  sourcescan-log filter [flags] <file.dlog>

Flags:
`)
		fs.PrintDefaults()
	}

	output := fs.String("o", "", "Output file (required)")
	service := fs.String("service", "", "Filter by service instance name")
	domain := fs.String("domain", "", "Filter by domain")
	category := fs.String("category", "", "Filter by category (browse, resolve, describe, state, error)")
	timeStart := fs.String("time-start", "", "Filter by start time (RFC3339)")
	timeEnd := fs.String("time-end", "", "Filter by end time (RFC3339)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)

	opts := commands.FilterOptions{
		Output:    *output,
		Service:   *service,
		Domain:    *domain,
		Category:  *category,
		TimeStart: *timeStart,
		TimeEnd:   *timeEnd,
	}

	if err := commands.RunFilter(path, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `sourcescan-log stats - Show statistics about the log file

Usage:
  sourcescan-log stats <file.dlog>

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
