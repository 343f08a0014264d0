package log

// MultiLogger fans each discovery event out to multiple loggers. Typical use
// is streaming events to the console (via SlogAdapter) while also recording
// them to a .dlog file (via FileLogger).
type MultiLogger struct {
	loggers []Logger
}

// NewMultiLogger creates a MultiLogger over the provided loggers.
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	return &MultiLogger{loggers: loggers}
}

// Log forwards the event to every configured logger in order.
func (m *MultiLogger) Log(event Event) {
	for _, l := range m.loggers {
		l.Log(event)
	}
}

// Compile-time interface satisfaction check.
var _ Logger = (*MultiLogger)(nil)
