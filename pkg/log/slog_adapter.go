package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes discovery events to an slog.Logger.
// Useful for development when you want to see discovery events in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("category", event.Category.String()),
	}

	// Add optional identifiers
	if event.Service != "" {
		attrs = append(attrs, slog.String("service", event.Service))
	}
	if event.Domain != "" {
		attrs = append(attrs, slog.String("domain", event.Domain))
	}

	// Add type-specific attributes
	switch {
	case event.Browse != nil:
		attrs = append(attrs, slog.String("event", event.Browse.Event))
		if event.Browse.ServiceType != "" {
			attrs = append(attrs, slog.String("service_type", event.Browse.ServiceType))
		}
	case event.Resolve != nil:
		attrs = append(attrs,
			slog.String("address", event.Resolve.Address),
			slog.Uint64("port", uint64(event.Resolve.Port)),
			slog.Bool("eligible", event.Resolve.Eligible),
		)
		if event.Resolve.HostName != "" {
			attrs = append(attrs, slog.String("host", event.Resolve.HostName))
		}
		if event.Resolve.Flags != "" {
			attrs = append(attrs, slog.String("flags", event.Resolve.Flags))
		}
	case event.Describe != nil:
		attrs = append(attrs,
			slog.String("path", event.Describe.Path),
			slog.String("address", event.Describe.Address),
			slog.Bool("ok", event.Describe.OK),
		)
		if event.Describe.OK {
			attrs = append(attrs, slog.Int("size", event.Describe.Size))
		}
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_msg", event.Error.Message),
			slog.String("error_context", event.Error.Context),
		)
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "discovery", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
