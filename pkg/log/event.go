package log

import "time"

// Event represents a discovery log event captured at any stage of the
// pipeline. CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// Service is the DNS-SD instance name the event relates to.
	Service string `cbor:"2,keyasint,omitempty"`

	// Domain is the DNS-SD domain the event relates to.
	Domain string `cbor:"3,keyasint,omitempty"`

	// Category classifies the event type.
	Category Category `cbor:"4,keyasint"`

	// Type-specific payload (one of these will be set).
	Browse      *BrowseEventData   `cbor:"5,keyasint,omitempty"` // Browser callbacks
	Resolve     *ResolveEventData  `cbor:"6,keyasint,omitempty"` // Resolver outcomes
	Describe    *DescribeEventData `cbor:"7,keyasint,omitempty"` // RTSP describe tasks
	StateChange *StateChangeEvent  `cbor:"8,keyasint,omitempty"` // Provider client state
	Error       *ErrorEventData    `cbor:"9,keyasint,omitempty"` // Errors at any stage
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryBrowse indicates a browser event (new/remove/enumeration marker).
	CategoryBrowse Category = 0
	// CategoryResolve indicates a resolver outcome.
	CategoryResolve Category = 1
	// CategoryDescribe indicates a describe task outcome.
	CategoryDescribe Category = 2
	// CategoryState indicates a provider state change.
	CategoryState Category = 3
	// CategoryError indicates an error event.
	CategoryError Category = 4
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryBrowse:
		return "BROWSE"
	case CategoryResolve:
		return "RESOLVE"
	case CategoryDescribe:
		return "DESCRIBE"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// BrowseEventData captures a browser callback.
type BrowseEventData struct {
	// Event is the browser event name (NEW, REMOVE, ...).
	Event string `cbor:"1,keyasint"`

	// ServiceType is the browsed service type.
	ServiceType string `cbor:"2,keyasint,omitempty"`
}

// ResolveEventData captures the outcome of a service resolution.
type ResolveEventData struct {
	// HostName is the resolved target host (empty on failure).
	HostName string `cbor:"1,keyasint,omitempty"`

	// Address is the resolved endpoint address (empty on failure).
	Address string `cbor:"2,keyasint,omitempty"`

	// Port is the resolved endpoint port.
	Port uint16 `cbor:"3,keyasint,omitempty"`

	// Flags describes the lookup result (multicast, cached, ...).
	Flags string `cbor:"4,keyasint,omitempty"`

	// Eligible reports whether the address passed the family gate.
	Eligible bool `cbor:"5,keyasint,omitempty"`
}

// DescribeEventData captures the outcome of an RTSP describe task.
type DescribeEventData struct {
	// Path is the describe request path.
	Path string `cbor:"1,keyasint"`

	// Address is the endpoint address the request was sent to.
	Address string `cbor:"2,keyasint,omitempty"`

	// Port is the endpoint port as dialed.
	Port string `cbor:"3,keyasint,omitempty"`

	// OK reports whether the describe succeeded.
	OK bool `cbor:"4,keyasint"`

	// Size is the description size in bytes (success only).
	Size int `cbor:"5,keyasint,omitempty"`
}

// StateChangeEvent captures provider client state transitions.
type StateChangeEvent struct {
	// OldState is the previous state (may be empty).
	OldState string `cbor:"1,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"2,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"3,keyasint,omitempty"`
}

// ErrorEventData captures errors at any stage.
type ErrorEventData struct {
	// Message is the error message.
	Message string `cbor:"1,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"2,keyasint,omitempty"`
}
