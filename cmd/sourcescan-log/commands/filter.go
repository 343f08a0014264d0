package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/aoip-tools/sourcescan-go/pkg/log"
)

// FilterOptions specifies the filter criteria and the output file.
type FilterOptions struct {
	Output    string
	Service   string
	Domain    string
	Category  string
	TimeStart string
	TimeEnd   string
}

// buildFilter converts the string options into a log.Filter.
func buildFilter(opts FilterOptions) (log.Filter, error) {
	filter := log.Filter{
		Service: opts.Service,
		Domain:  opts.Domain,
	}

	if opts.Category != "" {
		cat, err := ParseCategoryFlag(opts.Category)
		if err != nil {
			return log.Filter{}, err
		}
		filter.Category = &cat
	}
	if opts.TimeStart != "" {
		t, err := ParseTimeFlag(opts.TimeStart)
		if err != nil {
			return log.Filter{}, err
		}
		filter.TimeStart = &t
	}
	if opts.TimeEnd != "" {
		t, err := ParseTimeFlag(opts.TimeEnd)
		if err != nil {
			return log.Filter{}, err
		}
		filter.TimeEnd = &t
	}

	return filter, nil
}

// RunFilter reads the log file, keeps only matching events and writes them
// to a new log file.
func RunFilter(path string, opts FilterOptions) error {
	filter, err := buildFilter(opts)
	if err != nil {
		return err
	}

	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	out, err := os.Create(opts.Output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	encoder := log.NewEncoder(out)
	count := 0

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(event); err != nil {
			return fmt.Errorf("failed to write event: %w", err)
		}
		count++
	}

	fmt.Printf("Wrote %d event(s) to %s\n", count, opts.Output)
	return nil
}
