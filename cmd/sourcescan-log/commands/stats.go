package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/aoip-tools/sourcescan-go/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents      int
	EventsByCategory map[log.Category]int
	Services         map[string]*ServiceStats
	Errors           int
	TimeRange        struct {
		Start time.Time
		End   time.Time
	}
}

// ServiceStats holds statistics for a single service instance.
type ServiceStats struct {
	FirstSeen     time.Time
	LastSeen      time.Time
	Events        int
	Describes     int
	DescribeFails int
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByCategory: make(map[log.Category]int),
		Services:         make(map[string]*ServiceStats),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByCategory[event.Category]++

		// Track time range
		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		if event.Error != nil {
			stats.Errors++
		}

		if event.Service == "" {
			continue
		}

		svc, ok := stats.Services[event.Service]
		if !ok {
			svc = &ServiceStats{FirstSeen: event.Timestamp, LastSeen: event.Timestamp}
			stats.Services[event.Service] = svc
		}
		svc.Events++
		if event.Timestamp.After(svc.LastSeen) {
			svc.LastSeen = event.Timestamp
		}
		if event.Describe != nil {
			svc.Describes++
			if !event.Describe.OK {
				svc.DescribeFails++
			}
		}
	}

	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Discovery Log Statistics ===")
	fmt.Fprintln(w)

	// Time range
	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	// Events by category
	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryBrowse, log.CategoryResolve, log.CategoryDescribe, log.CategoryState, log.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-10s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	// Services
	fmt.Fprintf(w, "Services: %d\n", len(stats.Services))
	if len(stats.Services) > 0 {
		type svcInfo struct {
			name  string
			stats *ServiceStats
		}
		svcs := make([]svcInfo, 0, len(stats.Services))
		for name, ss := range stats.Services {
			svcs = append(svcs, svcInfo{name, ss})
		}
		sort.Slice(svcs, func(i, j int) bool {
			return svcs[i].stats.FirstSeen.Before(svcs[j].stats.FirstSeen)
		})

		fmt.Fprintln(w, "")
		for _, s := range svcs {
			span := s.stats.LastSeen.Sub(s.stats.FirstSeen).Round(time.Millisecond)
			fmt.Fprintf(w, "  %s: %d events, span %s\n", s.name, s.stats.Events, span)
			if s.stats.Describes > 0 {
				fmt.Fprintf(w, "    Describes: %d (%d failed)\n", s.stats.Describes, s.stats.DescribeFails)
			}
		}
	}

	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}
