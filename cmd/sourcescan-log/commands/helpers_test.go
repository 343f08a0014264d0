package commands

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/aoip-tools/sourcescan-go/pkg/log"
)

// writeLog writes the events to a temporary .dlog file and returns its path.
func writeLog(t *testing.T, events []log.Event) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.dlog")
	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create log file: %v", err)
	}
	for _, event := range events {
		logger.Log(event)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("failed to close log file: %v", err)
	}
	return path
}

// sampleEvents returns a small discovery trace: state change, browse,
// resolve, describe and one error.
func sampleEvents() []log.Event {
	base := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	return []log.Event{
		{
			Timestamp:   base,
			Category:    log.CategoryState,
			StateChange: &log.StateChangeEvent{NewState: "RUNNING"},
		},
		{
			Timestamp: base.Add(100 * time.Millisecond),
			Service:   "Stage Box 1",
			Domain:    "local",
			Category:  log.CategoryBrowse,
			Browse:    &log.BrowseEventData{Event: "NEW", ServiceType: "_rtsp._tcp"},
		},
		{
			Timestamp: base.Add(200 * time.Millisecond),
			Service:   "Stage Box 1",
			Domain:    "local",
			Category:  log.CategoryResolve,
			Resolve: &log.ResolveEventData{
				HostName: "stagebox.local.",
				Address:  "192.168.1.20",
				Port:     554,
				Eligible: true,
			},
		},
		{
			Timestamp: base.Add(300 * time.Millisecond),
			Service:   "Stage Box 1",
			Domain:    "local",
			Category:  log.CategoryDescribe,
			Describe: &log.DescribeEventData{
				Path:    "/by-name/Stage Box 1",
				Address: "192.168.1.20",
				Port:    "554",
				OK:      true,
				Size:    128,
			},
		},
		{
			Timestamp: base.Add(400 * time.Millisecond),
			Category:  log.CategoryError,
			Error:     &log.ErrorEventData{Message: "browse failed", Context: "browser"},
		},
	}
}
