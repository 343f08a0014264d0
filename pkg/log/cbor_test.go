package log

import (
	"testing"
	"time"
)

func TestEventCBORRoundTrip(t *testing.T) {
	ts := time.Date(2026, 8, 10, 10, 15, 32, 123456789, time.UTC)
	original := Event{
		Timestamp: ts,
		Service:   "Stage Box 1",
		Domain:    "local",
		Category:  CategoryResolve,
	}

	data, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	// Compare fields
	if !decoded.Timestamp.Equal(original.Timestamp) {
		t.Errorf("Timestamp: got %v, want %v", decoded.Timestamp, original.Timestamp)
	}
	if decoded.Service != original.Service {
		t.Errorf("Service: got %q, want %q", decoded.Service, original.Service)
	}
	if decoded.Domain != original.Domain {
		t.Errorf("Domain: got %q, want %q", decoded.Domain, original.Domain)
	}
	if decoded.Category != original.Category {
		t.Errorf("Category: got %v, want %v", decoded.Category, original.Category)
	}
}

func TestBrowseEventCBORRoundTrip(t *testing.T) {
	original := Event{
		Timestamp: time.Now(),
		Service:   "cam1",
		Domain:    "local",
		Category:  CategoryBrowse,
		Browse: &BrowseEventData{
			Event:       "NEW",
			ServiceType: "_rtsp._tcp",
		},
	}

	data, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if decoded.Browse == nil {
		t.Fatal("Browse is nil")
	}
	if decoded.Browse.Event != original.Browse.Event {
		t.Errorf("Browse.Event: got %q, want %q", decoded.Browse.Event, original.Browse.Event)
	}
	if decoded.Browse.ServiceType != original.Browse.ServiceType {
		t.Errorf("Browse.ServiceType: got %q, want %q", decoded.Browse.ServiceType, original.Browse.ServiceType)
	}
}

func TestResolveEventCBORRoundTrip(t *testing.T) {
	original := Event{
		Timestamp: time.Now(),
		Service:   "cam1",
		Domain:    "local",
		Category:  CategoryResolve,
		Resolve: &ResolveEventData{
			HostName: "cam1.local.",
			Address:  "192.168.1.20",
			Port:     554,
			Flags:    "multicast",
			Eligible: true,
		},
	}

	data, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if decoded.Resolve == nil {
		t.Fatal("Resolve is nil")
	}
	if decoded.Resolve.HostName != original.Resolve.HostName {
		t.Errorf("Resolve.HostName: got %q, want %q", decoded.Resolve.HostName, original.Resolve.HostName)
	}
	if decoded.Resolve.Address != original.Resolve.Address {
		t.Errorf("Resolve.Address: got %q, want %q", decoded.Resolve.Address, original.Resolve.Address)
	}
	if decoded.Resolve.Port != original.Resolve.Port {
		t.Errorf("Resolve.Port: got %d, want %d", decoded.Resolve.Port, original.Resolve.Port)
	}
	if !decoded.Resolve.Eligible {
		t.Error("Resolve.Eligible: got false, want true")
	}
}

func TestDescribeEventCBORRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		desc *DescribeEventData
	}{
		{
			name: "success",
			desc: &DescribeEventData{
				Path:    "/by-name/cam1",
				Address: "192.168.1.20",
				Port:    "554",
				OK:      true,
				Size:    412,
			},
		},
		{
			name: "failure",
			desc: &DescribeEventData{
				Path:    "/by-name/cam2",
				Address: "192.168.1.21",
				Port:    "554",
				OK:      false,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := Event{
				Timestamp: time.Now(),
				Service:   "cam1",
				Domain:    "local",
				Category:  CategoryDescribe,
				Describe:  tt.desc,
			}

			data, err := EncodeEvent(original)
			if err != nil {
				t.Fatalf("EncodeEvent failed: %v", err)
			}

			decoded, err := DecodeEvent(data)
			if err != nil {
				t.Fatalf("DecodeEvent failed: %v", err)
			}

			if decoded.Describe == nil {
				t.Fatal("Describe is nil")
			}
			if decoded.Describe.Path != tt.desc.Path {
				t.Errorf("Describe.Path: got %q, want %q", decoded.Describe.Path, tt.desc.Path)
			}
			if decoded.Describe.OK != tt.desc.OK {
				t.Errorf("Describe.OK: got %v, want %v", decoded.Describe.OK, tt.desc.OK)
			}
			if decoded.Describe.Size != tt.desc.Size {
				t.Errorf("Describe.Size: got %d, want %d", decoded.Describe.Size, tt.desc.Size)
			}
		})
	}
}

func TestStateChangeEventCBORRoundTrip(t *testing.T) {
	original := Event{
		Timestamp: time.Now(),
		Category:  CategoryState,
		StateChange: &StateChangeEvent{
			OldState: "CONNECTING",
			NewState: "RUNNING",
			Reason:   "daemon available",
		},
	}

	data, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if decoded.StateChange == nil {
		t.Fatal("StateChange is nil")
	}
	if decoded.StateChange.OldState != original.StateChange.OldState {
		t.Errorf("StateChange.OldState: got %q, want %q", decoded.StateChange.OldState, original.StateChange.OldState)
	}
	if decoded.StateChange.NewState != original.StateChange.NewState {
		t.Errorf("StateChange.NewState: got %q, want %q", decoded.StateChange.NewState, original.StateChange.NewState)
	}
	if decoded.StateChange.Reason != original.StateChange.Reason {
		t.Errorf("StateChange.Reason: got %q, want %q", decoded.StateChange.Reason, original.StateChange.Reason)
	}
}

func TestErrorEventCBORRoundTrip(t *testing.T) {
	original := Event{
		Timestamp: time.Now(),
		Service:   "cam1",
		Domain:    "local",
		Category:  CategoryError,
		Error: &ErrorEventData{
			Message: "resolver failed",
			Context: "NewResolver",
		},
	}

	data, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if decoded.Error == nil {
		t.Fatal("Error is nil")
	}
	if decoded.Error.Message != original.Error.Message {
		t.Errorf("Error.Message: got %q, want %q", decoded.Error.Message, original.Error.Message)
	}
	if decoded.Error.Context != original.Error.Context {
		t.Errorf("Error.Context: got %q, want %q", decoded.Error.Context, original.Error.Context)
	}
}

func TestEventCBORUsesIntegerKeys(t *testing.T) {
	event := Event{
		Timestamp: time.Now(),
		Service:   "cam1",
		Domain:    "local",
		Category:  CategoryBrowse,
	}

	data, err := EncodeEvent(event)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	// Decode to generic map and verify keys are integers
	var rawMap map[uint64]any
	if err := logDecMode.Unmarshal(data, &rawMap); err != nil {
		t.Fatalf("failed to decode as map: %v", err)
	}

	// Should have integer keys 1, 2, 3, 4
	expectedKeys := []uint64{1, 2, 3, 4}
	for _, key := range expectedKeys {
		if _, ok := rawMap[key]; !ok {
			t.Errorf("expected integer key %d not found in encoded data", key)
		}
	}

	// Verify no string keys
	var stringMap map[string]any
	if err := logDecMode.Unmarshal(data, &stringMap); err == nil && len(stringMap) > 0 {
		t.Error("encoded data contains string keys, expected integer keys only")
	}
}
