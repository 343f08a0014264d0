package dnssd

// ClientHandler receives connection state changes.
// Implementations are registered when the connection is opened and are
// invoked on the event-loop goroutine.
type ClientHandler interface {
	// ClientStateChanged is called whenever the provider connection changes
	// state. err carries the cause for StateFailure and is nil otherwise.
	ClientStateChanged(state ClientState, err error)
}

// BrowseHandler receives service browser notifications.
type BrowseHandler interface {
	// BrowseEvent is called for every browser notification. identity is
	// meaningful for BrowseNew and BrowseRemove; err carries the cause for
	// BrowseFailure and is nil otherwise.
	BrowseEvent(event BrowseEvent, identity ServiceIdentity, err error)
}

// ResolveHandler receives the terminal outcome of a resolve.
// Exactly one of the two methods is invoked per resolver, on the event-loop
// goroutine. The handler owns the resolver handle and must close it before
// returning, whatever the outcome.
type ResolveHandler interface {
	// ResolveFound delivers a successful resolution.
	ResolveFound(r Resolver, svc ResolvedService)

	// ResolveFailed delivers a failed resolution.
	ResolveFailed(r Resolver, identity ServiceIdentity, err error)
}

// EventLoop is the dispatch context on which all handler callbacks run.
type EventLoop interface {
	// Start begins event dispatch on a dedicated goroutine.
	Start() error

	// Quit asks the loop to stop dispatching. It never blocks and is the
	// only stop operation that is safe to call from inside a handler.
	Quit()

	// Stop quits the loop and waits for the dispatch goroutine to exit.
	// Must not be called from a handler callback.
	Stop()
}

// Conn is an open connection to the DNS-SD provider.
type Conn interface {
	// NewBrowser creates a service browser for serviceType in domain,
	// scoped to the interface with the given index (InterfaceAny for all).
	// Events are delivered to h until the browser is closed.
	NewBrowser(ifaceIndex int, serviceType, domain string, h BrowseHandler) (Browser, error)

	// NewResolver starts resolving the advertised service identified by
	// identity. The outcome is delivered to h exactly once.
	NewResolver(identity ServiceIdentity, ifaceIndex int, h ResolveHandler) (Resolver, error)

	// Close releases the connection. Browsers and resolvers created from it
	// deliver no further events.
	Close() error
}

// Browser is an active service browser handle.
type Browser interface {
	// Close stops browsing and releases the handle.
	Close() error
}

// Resolver is an in-flight resolve handle. It is released by the resolve
// handler at the end of its callback.
type Resolver interface {
	// Close releases the handle.
	Close() error
}

// Provider creates the event loop and connection handles.
// It is the seam between the discovery core and the DNS-SD implementation;
// tests substitute their own Provider.
type Provider interface {
	// NewEventLoop allocates a stopped event loop.
	NewEventLoop() (EventLoop, error)

	// NewConn opens a connection dispatching on loop, registering h for
	// connection state changes.
	NewConn(loop EventLoop, h ClientHandler) (Conn, error)
}
