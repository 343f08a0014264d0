// Package commands implements the sourcescan-log CLI commands.
package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aoip-tools/sourcescan-go/pkg/log"
)

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp CATEGORY service (domain)
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")

	if event.Service != "" {
		fmt.Fprintf(w, "%s %-8s %s (%s)\n", ts, event.Category, event.Service, event.Domain)
	} else {
		fmt.Fprintf(w, "%s %-8s\n", ts, event.Category)
	}

	switch {
	case event.Browse != nil:
		formatBrowseDetails(w, event.Browse)
	case event.Resolve != nil:
		formatResolveDetails(w, event.Resolve)
	case event.Describe != nil:
		formatDescribeDetails(w, event.Describe)
	case event.StateChange != nil:
		formatStateChangeDetails(w, event.StateChange)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w) // Blank line between events
}

func formatBrowseDetails(w io.Writer, b *log.BrowseEventData) {
	fmt.Fprintf(w, "  Event: %s\n", b.Event)
	if b.ServiceType != "" {
		fmt.Fprintf(w, "  Type:  %s\n", b.ServiceType)
	}
}

func formatResolveDetails(w io.Writer, r *log.ResolveEventData) {
	if r.HostName != "" {
		fmt.Fprintf(w, "  Host: %s\n", r.HostName)
	}
	if r.Address != "" {
		fmt.Fprintf(w, "  Endpoint: %s:%d", r.Address, r.Port)
		if !r.Eligible {
			fmt.Fprintf(w, " (skipped)")
		}
		fmt.Fprintln(w)
	}
	if r.Flags != "" {
		fmt.Fprintf(w, "  Flags: %s\n", r.Flags)
	}
}

func formatDescribeDetails(w io.Writer, d *log.DescribeEventData) {
	fmt.Fprintf(w, "  Path: %s\n", d.Path)
	if d.Address != "" {
		fmt.Fprintf(w, "  Endpoint: %s:%s\n", d.Address, d.Port)
	}
	if d.OK {
		fmt.Fprintf(w, "  Result: ok (%d bytes)\n", d.Size)
	} else {
		fmt.Fprintln(w, "  Result: failed")
	}
}

func formatStateChangeDetails(w io.Writer, sc *log.StateChangeEvent) {
	if sc.OldState != "" {
		fmt.Fprintf(w, "  %s -> %s\n", sc.OldState, sc.NewState)
	} else {
		fmt.Fprintf(w, "  -> %s\n", sc.NewState)
	}
	if sc.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
	}
}

func formatErrorDetails(w io.Writer, err *log.ErrorEventData) {
	fmt.Fprintf(w, "  Message: %s\n", err.Message)
	if err.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", err.Context)
	}
}

// ParseCategoryFlag parses a category string from a command-line flag
// (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "browse":
		return log.CategoryBrowse, nil
	case "resolve":
		return log.CategoryResolve, nil
	case "describe":
		return log.CategoryDescribe, nil
	case "state":
		return log.CategoryState, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be browse, resolve, describe, state, or error)", s)
	}
}

// ParseTimeFlag parses an RFC3339 timestamp from a command-line flag.
func ParseTimeFlag(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: expected RFC3339", s)
	}
	return t, nil
}

// RunView executes the view command.
func RunView(path string, filter log.Filter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event)
	}

	return nil
}
