// Package sources maintains the set of currently known stream sources.
//
// The Registry consumes discovery notifications and keeps one entry per
// advertised service instance. Entries carry the session description that
// the describe stage fetched; a re-discovered service replaces its previous
// entry but keeps its assigned ID.
package sources

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aoip-tools/sourcescan-go/pkg/discovery"
)

// Source is one discovered stream source.
type Source struct {
	// ID is a stable identifier assigned at first registration.
	ID string

	// Name is the DNS-SD instance name.
	Name string

	// Domain is the DNS-SD domain the source was discovered in.
	Domain string

	// Description is the session description returned by the endpoint.
	Description string

	// DiscoveredAt is when the source was last (re-)registered.
	DiscoveredAt time.Time
}

// Listener receives registry change notifications. Callbacks run on the
// goroutine that mutated the registry and must return promptly.
type Listener interface {
	SourceAdded(src Source)
	SourceRemoved(src Source)
}

type sourceKey struct {
	name   string
	domain string
}

// Registry is the in-memory source table. It is safe for concurrent use;
// discovery delivers additions from describe task goroutines and removals
// from the provider event loop.
type Registry struct {
	logger *slog.Logger

	mu        sync.RWMutex
	byKey     map[sourceKey]Source
	listeners []Listener
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		logger: logger,
		byKey:  make(map[sourceKey]Source),
	}
}

// AddListener registers a change listener. Listeners cannot be removed;
// they live as long as the registry.
func (r *Registry) AddListener(l Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, l)
}

// OnNewSource implements discovery.SourceObserver. A service seen for the
// first time gets a fresh ID; a re-discovered service keeps its ID and has
// its description refreshed.
func (r *Registry) OnNewSource(name, domain, description string) {
	key := sourceKey{name: name, domain: domain}

	r.mu.Lock()
	src, exists := r.byKey[key]
	if !exists {
		src = Source{
			ID:     uuid.New().String(),
			Name:   name,
			Domain: domain,
		}
	}
	src.Description = description
	src.DiscoveredAt = time.Now()
	r.byKey[key] = src
	listeners := append([]Listener(nil), r.listeners...)
	r.mu.Unlock()

	if exists {
		r.logger.Info("source refreshed", "name", name, "domain", domain, "id", src.ID)
	} else {
		r.logger.Info("source added", "name", name, "domain", domain, "id", src.ID)
	}

	for _, l := range listeners {
		l.SourceAdded(src)
	}
}

// OnRemoveSource implements discovery.SourceObserver. Removing an unknown
// source is a no-op; the advertisement may have been withdrawn before its
// describe finished.
func (r *Registry) OnRemoveSource(name, domain string) {
	key := sourceKey{name: name, domain: domain}

	r.mu.Lock()
	src, exists := r.byKey[key]
	if exists {
		delete(r.byKey, key)
	}
	listeners := append([]Listener(nil), r.listeners...)
	r.mu.Unlock()

	if !exists {
		return
	}

	r.logger.Info("source removed", "name", name, "domain", domain, "id", src.ID)

	for _, l := range listeners {
		l.SourceRemoved(src)
	}
}

// Get returns the source registered for the instance name and domain.
func (r *Registry) Get(name, domain string) (Source, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	src, ok := r.byKey[sourceKey{name: name, domain: domain}]
	return src, ok
}

// Sources returns a snapshot of all known sources sorted by name.
func (r *Registry) Sources() []Source {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Source, 0, len(r.byKey))
	for _, src := range r.byKey {
		out = append(out, src)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Domain < out[j].Domain
	})
	return out
}

// Len returns the number of known sources.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byKey)
}

// Compile-time interface satisfaction check.
var _ discovery.SourceObserver = (*Registry)(nil)
