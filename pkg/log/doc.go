// Package log provides structured event logging for the discovery pipeline.
//
// This package defines the Logger interface and Event types for capturing
// discovery-level events (browse, resolve, describe, state changes). It is
// separate from operational logging (slog) - event capture provides a
// complete machine-readable trace for debugging and analysis.
//
// # Basic Usage
//
// Applications configure logging by providing a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.EventLogger = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	cfg.EventLogger, _ = log.NewFileLogger("/var/log/sourcescan/daemon.dlog")
//
//	// Both: use MultiLogger
//	cfg.EventLogger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    log.NewFileLogger("/var/log/sourcescan/daemon.dlog"),
//	)
//
// # Event Types
//
// Events are captured at each stage of the pipeline:
//   - Browse: advertisement appeared or was withdrawn (BrowseEventData)
//   - Resolve: resolution outcome and address gating (ResolveEventData)
//   - Describe: RTSP describe task outcome (DescribeEventData)
//   - State: provider client state transitions (StateChangeEvent)
//
// Errors at any stage have a dedicated event type.
//
// # File Format
//
// Log files use CBOR encoding with .dlog extension. The sourcescan-log
// CLI tool provides viewing and filtering capabilities.
package log
