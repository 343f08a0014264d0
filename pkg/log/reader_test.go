package log

import (
	"io"
	"path/filepath"
	"testing"
	"time"
)

func createTestLogFile(t *testing.T, events []Event) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.dlog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create test log: %v", err)
	}

	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

func TestReaderIteratesEvents(t *testing.T) {
	events := []Event{
		{Timestamp: time.Now(), Service: "cam1", Domain: "local", Category: CategoryBrowse},
		{Timestamp: time.Now(), Service: "cam2", Domain: "local", Category: CategoryResolve},
		{Timestamp: time.Now(), Service: "cam3", Domain: "local", Category: CategoryDescribe},
	}

	path := createTestLogFile(t, events)

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	var read []Event
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		read = append(read, event)
	}

	if len(read) != 3 {
		t.Fatalf("got %d events, want 3", len(read))
	}

	// Verify order
	if read[0].Service != "cam1" {
		t.Errorf("first event Service = %q, want %q", read[0].Service, "cam1")
	}
	if read[2].Service != "cam3" {
		t.Errorf("last event Service = %q, want %q", read[2].Service, "cam3")
	}
}

func TestReaderHandlesEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.dlog")

	// Create empty file
	logger, _ := NewFileLogger(path)
	logger.Close()

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	event, err := reader.Next()
	if err != io.EOF {
		t.Errorf("expected io.EOF, got err=%v, event=%+v", err, event)
	}
}

func TestReaderHandlesTruncatedFile(t *testing.T) {
	events := []Event{
		{Timestamp: time.Now(), Service: "cam1", Domain: "local", Category: CategoryBrowse},
	}

	path := createTestLogFile(t, events)

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	// Read first event
	_, err = reader.Next()
	if err != nil {
		t.Fatalf("first Next failed: %v", err)
	}

	// Second read should return EOF
	_, err = reader.Next()
	if err != io.EOF {
		t.Errorf("expected io.EOF after all events, got %v", err)
	}
}

func TestReaderFilterByService(t *testing.T) {
	events := []Event{
		{Timestamp: time.Now(), Service: "cam-A", Domain: "local", Category: CategoryBrowse},
		{Timestamp: time.Now(), Service: "cam-B", Domain: "local", Category: CategoryResolve},
		{Timestamp: time.Now(), Service: "cam-A", Domain: "local", Category: CategoryDescribe},
		{Timestamp: time.Now(), Service: "cam-C", Domain: "local", Category: CategoryBrowse},
	}

	path := createTestLogFile(t, events)

	filter := Filter{Service: "cam-A"}
	reader, err := NewFilteredReader(path, filter)
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer reader.Close()

	var read []Event
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		read = append(read, event)
	}

	if len(read) != 2 {
		t.Fatalf("got %d events, want 2", len(read))
	}

	for _, e := range read {
		if e.Service != "cam-A" {
			t.Errorf("event has Service=%q, want %q", e.Service, "cam-A")
		}
	}
}

func TestReaderFilterByCategory(t *testing.T) {
	events := []Event{
		{Timestamp: time.Now(), Service: "cam1", Domain: "local", Category: CategoryBrowse},
		{Timestamp: time.Now(), Service: "cam2", Domain: "local", Category: CategoryResolve},
		{Timestamp: time.Now(), Service: "cam3", Domain: "local", Category: CategoryResolve},
		{Timestamp: time.Now(), Service: "cam4", Domain: "local", Category: CategoryDescribe},
	}

	path := createTestLogFile(t, events)

	cat := CategoryResolve
	filter := Filter{Category: &cat}
	reader, err := NewFilteredReader(path, filter)
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer reader.Close()

	var read []Event
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		read = append(read, event)
	}

	if len(read) != 2 {
		t.Fatalf("got %d events, want 2", len(read))
	}

	for _, e := range read {
		if e.Category != CategoryResolve {
			t.Errorf("event has Category=%v, want %v", e.Category, CategoryResolve)
		}
	}
}

func TestReaderFilterByTimeRange(t *testing.T) {
	baseTime := time.Date(2026, 8, 10, 10, 0, 0, 0, time.UTC)

	events := []Event{
		{Timestamp: baseTime.Add(-1 * time.Hour), Service: "cam1", Domain: "local", Category: CategoryBrowse},
		{Timestamp: baseTime, Service: "cam2", Domain: "local", Category: CategoryResolve},
		{Timestamp: baseTime.Add(30 * time.Minute), Service: "cam3", Domain: "local", Category: CategoryDescribe},
		{Timestamp: baseTime.Add(2 * time.Hour), Service: "cam4", Domain: "local", Category: CategoryBrowse},
	}

	path := createTestLogFile(t, events)

	start := baseTime.Add(-5 * time.Minute)
	end := baseTime.Add(1 * time.Hour)
	filter := Filter{
		TimeStart: &start,
		TimeEnd:   &end,
	}
	reader, err := NewFilteredReader(path, filter)
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer reader.Close()

	var read []Event
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		read = append(read, event)
	}

	if len(read) != 2 {
		t.Fatalf("got %d events, want 2 (events within time range)", len(read))
	}

	// Verify it's the middle two events
	if read[0].Service != "cam2" {
		t.Errorf("first event Service = %q, want %q", read[0].Service, "cam2")
	}
	if read[1].Service != "cam3" {
		t.Errorf("second event Service = %q, want %q", read[1].Service, "cam3")
	}
}

func TestReaderCombinedFilters(t *testing.T) {
	events := []Event{
		{Timestamp: time.Now(), Service: "cam-A", Domain: "local", Category: CategoryBrowse},
		{Timestamp: time.Now(), Service: "cam-A", Domain: "local", Category: CategoryResolve},
		{Timestamp: time.Now(), Service: "cam-B", Domain: "local", Category: CategoryResolve},
		{Timestamp: time.Now(), Service: "cam-A", Domain: "lan", Category: CategoryResolve},
	}

	path := createTestLogFile(t, events)

	cat := CategoryResolve
	filter := Filter{
		Service:  "cam-A",
		Domain:   "local",
		Category: &cat,
	}
	reader, err := NewFilteredReader(path, filter)
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer reader.Close()

	var read []Event
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		read = append(read, event)
	}

	// Only the second event matches all criteria
	if len(read) != 1 {
		t.Fatalf("got %d events, want 1", len(read))
	}

	if read[0].Service != "cam-A" || read[0].Domain != "local" || read[0].Category != CategoryResolve {
		t.Error("event doesn't match all filter criteria")
	}
}
