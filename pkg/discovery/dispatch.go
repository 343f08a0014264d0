package discovery

import (
	"log/slog"
	"time"

	"github.com/aoip-tools/sourcescan-go/pkg/log"
)

// Dispatcher launches describe tasks for resolved services and tracks them
// until reaped. Dispatch never blocks the caller; the describe request and
// the observer notification both run on the task's goroutine.
type Dispatcher struct {
	describer Describer
	observer  SourceObserver
	logger    *slog.Logger
	events    log.Logger
	tasks     taskSet
}

// NewDispatcher creates a Dispatcher. Tasks dispatched through it call
// describer synchronously and report successful descriptions to observer.
func NewDispatcher(describer Describer, observer SourceObserver, logger *slog.Logger, events log.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if events == nil {
		events = log.NoopLogger{}
	}
	return &Dispatcher{
		describer: describer,
		observer:  observer,
		logger:    logger,
		events:    events,
	}
}

// Dispatch starts one describe task for the endpoint and registers it in the
// pending set. Arguments are captured by value; the task owns its copies for
// its whole lifetime.
func (d *Dispatcher) Dispatch(name, domain, addr, port string) {
	t := newPendingTask(name, domain)
	d.tasks.Add(t)
	go d.describe(t, name, domain, addr, port)
}

func (d *Dispatcher) describe(t *pendingTask, name, domain, addr, port string) {
	defer t.finish()

	path := DescribePathPrefix + name
	description, err := d.describer.Describe(path, addr, port)

	d.events.Log(log.Event{
		Timestamp: time.Now(),
		Service:   name,
		Domain:    domain,
		Category:  log.CategoryDescribe,
		Describe: &log.DescribeEventData{
			Path:    path,
			Address: addr,
			Port:    port,
			OK:      err == nil,
			Size:    len(description),
		},
	})

	if err != nil {
		// A failed describe is dropped: no retry, nothing surfaces
		// beyond the log.
		d.logger.Debug("describe failed",
			"name", name,
			"address", addr,
			"port", port,
			"error", err)
		return
	}

	d.logger.Debug("describe succeeded",
		"name", name,
		"address", addr,
		"size", len(description))
	d.observer.OnNewSource(name, domain, description)
}

// Reap removes finished tasks without blocking and returns how many were
// removed.
func (d *Dispatcher) Reap() int {
	return d.tasks.Reap()
}

// Drain blocks until every pending task finishes and returns how many were
// waited on.
func (d *Dispatcher) Drain() int {
	return d.tasks.Drain()
}

// Pending returns the number of tracked tasks, finished or not.
func (d *Dispatcher) Pending() int {
	return d.tasks.Len()
}
