package discovery

import (
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/aoip-tools/sourcescan-go/pkg/dnssd"
	"github.com/aoip-tools/sourcescan-go/pkg/log"
)

// Config holds the discovery client configuration.
type Config struct {
	// ServiceType is the DNS-SD service type to browse for.
	ServiceType string

	// Domain is the DNS-SD domain to browse in.
	Domain string

	// InterfaceIndex restricts browsing to one network interface.
	// dnssd.InterfaceAny browses all multicast-capable interfaces.
	InterfaceIndex int

	// Logger receives operational log output. Defaults to a discard logger.
	Logger *slog.Logger

	// EventLogger receives structured discovery events. Defaults to
	// log.NoopLogger.
	EventLogger log.Logger
}

// DefaultConfig returns the configuration used by the daemon: browse for
// RTSP sources in the local domain on all interfaces.
func DefaultConfig() Config {
	return Config{
		ServiceType:    ServiceTypeRTSP,
		Domain:         dnssd.DefaultDomain,
		InterfaceIndex: dnssd.InterfaceAny,
	}
}

// Client is the passive discovery engine. It drives a dnssd.Provider,
// resolves browsed services, gates addresses to the supported family and
// dispatches describe tasks for eligible endpoints.
//
// Init, Tick and Terminate are driven by the host from a single goroutine.
// The provider callbacks arrive on the provider's event loop goroutine; the
// handles they touch are only accessed there or after the loop has stopped.
type Client struct {
	cfg        Config
	provider   dnssd.Provider
	dispatcher *Dispatcher
	observer   SourceObserver
	logger     *slog.Logger
	events     log.Logger

	mu      sync.Mutex
	running bool

	loop    dnssd.EventLoop
	conn    dnssd.Conn
	browser dnssd.Browser

	lastState dnssd.ClientState
}

// NewClient creates a Client. The provider supplies the DNS-SD machinery,
// describer performs the RTSP describe requests and observer receives
// source notifications.
func NewClient(provider dnssd.Provider, describer Describer, observer SourceObserver, cfg Config) *Client {
	if cfg.ServiceType == "" {
		cfg.ServiceType = ServiceTypeRTSP
	}
	if cfg.Domain == "" {
		cfg.Domain = dnssd.DefaultDomain
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.EventLogger == nil {
		cfg.EventLogger = log.NoopLogger{}
	}

	return &Client{
		cfg:        cfg,
		provider:   provider,
		dispatcher: NewDispatcher(describer, observer, cfg.Logger, cfg.EventLogger),
		observer:   observer,
		logger:     cfg.Logger,
		events:     cfg.EventLogger,
	}
}

// Init connects to the DNS-SD provider and starts its event loop. Calling
// Init on a running client is a no-op. On failure every partially acquired
// resource is released and the client stays initializable.
func (c *Client) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	loop, err := c.provider.NewEventLoop()
	if err != nil {
		return fmt.Errorf("discovery: create event loop: %w", err)
	}

	conn, err := c.provider.NewConn(loop, c)
	if err != nil {
		loop.Stop()
		return fmt.Errorf("discovery: connect to provider: %w", err)
	}

	c.loop = loop
	c.conn = conn
	c.running = true

	if err := loop.Start(); err != nil {
		c.running = false
		c.conn = nil
		c.loop = nil
		_ = conn.Close()
		loop.Stop()
		return fmt.Errorf("discovery: start event loop: %w", err)
	}

	c.logger.Info("discovery started",
		"service_type", c.cfg.ServiceType,
		"domain", c.cfg.Domain)
	return nil
}

// Tick reaps finished describe tasks. It never blocks and is safe to call
// at any time; the host calls it from its periodic maintenance loop.
func (c *Client) Tick() {
	if n := c.dispatcher.Reap(); n > 0 {
		c.logger.Debug("reaped describe tasks", "count", n)
	}
}

// Terminate shuts the client down: it waits for all in-flight describe
// tasks, stops the event loop and releases the provider handles in reverse
// acquisition order. Terminating a client that is not running is a no-op.
// After Terminate the client may be initialized again.
func (c *Client) Terminate() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	c.mu.Unlock()

	c.logger.Info("waiting for describe tasks", "count", c.dispatcher.Pending())
	c.dispatcher.Drain()

	// After Stop returns no callback is running or will run, so the
	// handles can be released from this goroutine.
	c.loop.Stop()

	if c.browser != nil {
		_ = c.browser.Close()
		c.browser = nil
	}
	_ = c.conn.Close()
	c.conn = nil
	c.loop = nil

	c.logger.Info("discovery stopped")
}

// ClientStateChanged implements dnssd.ClientHandler. It runs on the event
// loop goroutine.
func (c *Client) ClientStateChanged(state dnssd.ClientState, err error) {
	c.events.Log(log.Event{
		Timestamp: time.Now(),
		Category:  log.CategoryState,
		StateChange: &log.StateChangeEvent{
			OldState: c.lastState.String(),
			NewState: state.String(),
			Reason:   errReason(err),
		},
	})
	c.lastState = state

	switch state {
	case dnssd.StateConnecting:
		c.logger.Debug("waiting for DNS-SD daemon")

	case dnssd.StateRegistering, dnssd.StateRunning, dnssd.StateCollision:
		// Browsing works in every connected state, including while the
		// daemon is fighting a host name collision.
		c.ensureBrowser()

	case dnssd.StateFailure:
		c.logger.Error("DNS-SD connection failed", "error", err)
		c.logErrorEvent("", "", "client connection", err)
		// No reconnection. The loop stops dispatching and the client
		// stays down until the host terminates and reinitializes it.
		// TODO: reconnect with a fresh connection once the daemon
		// restart behavior is worked out.
		c.loop.Quit()
	}
}

// ensureBrowser creates the service browser on first use. Runs on the event
// loop goroutine.
func (c *Client) ensureBrowser() {
	if c.browser != nil {
		return
	}

	browser, err := c.conn.NewBrowser(c.cfg.InterfaceIndex, c.cfg.ServiceType, c.cfg.Domain, c)
	if err != nil {
		c.logger.Error("failed to create service browser",
			"service_type", c.cfg.ServiceType,
			"error", err)
		c.logErrorEvent("", c.cfg.Domain, "create browser", err)
		c.loop.Quit()
		return
	}
	c.browser = browser
}

// BrowseEvent implements dnssd.BrowseHandler. It runs on the event loop
// goroutine.
func (c *Client) BrowseEvent(event dnssd.BrowseEvent, identity dnssd.ServiceIdentity, err error) {
	switch event {
	case dnssd.BrowseNew:
		c.logger.Info("service appeared",
			"name", identity.Name,
			"type", identity.Type,
			"domain", identity.Domain)
		c.logBrowseEvent(event, identity)

		// The resolver is fire-and-forget: the resolve handler closes
		// it on its single terminal callback.
		if _, rerr := c.conn.NewResolver(identity, c.cfg.InterfaceIndex, c); rerr != nil {
			// Losing one resolver only loses that service.
			c.logger.Error("failed to create resolver",
				"name", identity.Name,
				"error", rerr)
			c.logErrorEvent(identity.Name, identity.Domain, "create resolver", rerr)
		}

	case dnssd.BrowseRemove:
		c.logger.Info("service removed",
			"name", identity.Name,
			"domain", identity.Domain)
		c.logBrowseEvent(event, identity)
		c.observer.OnRemoveSource(identity.Name, identity.Domain)

	case dnssd.BrowseAllForNow, dnssd.BrowseCacheExhausted:
		c.logger.Debug("browse marker", "event", event.String())

	case dnssd.BrowseFailure:
		c.logger.Error("service browser failed", "error", err)
		c.logErrorEvent("", c.cfg.Domain, "browse", err)
		c.loop.Quit()
	}
}

// ResolveFound implements dnssd.ResolveHandler. It runs on the event loop
// goroutine.
func (c *Client) ResolveFound(r dnssd.Resolver, svc dnssd.ResolvedService) {
	defer r.Close()

	eligible := EligibleAddress(svc.Address)
	c.logger.Debug("service resolved",
		"name", svc.Identity.Name,
		"host", svc.HostName,
		"address", svc.Address,
		"port", svc.Port,
		"flags", svc.Flags.String(),
		"eligible", eligible)

	c.events.Log(log.Event{
		Timestamp: time.Now(),
		Service:   svc.Identity.Name,
		Domain:    svc.Identity.Domain,
		Category:  log.CategoryResolve,
		Resolve: &log.ResolveEventData{
			HostName: svc.HostName,
			Address:  svc.Address,
			Port:     svc.Port,
			Flags:    svc.Flags.String(),
			Eligible: eligible,
		},
	})

	if !eligible {
		return
	}

	c.dispatcher.Dispatch(
		svc.Identity.Name,
		svc.Identity.Domain,
		svc.Address,
		strconv.Itoa(int(svc.Port)))
}

// ResolveFailed implements dnssd.ResolveHandler. It runs on the event loop
// goroutine. A failed resolution only loses that service.
func (c *Client) ResolveFailed(r dnssd.Resolver, identity dnssd.ServiceIdentity, err error) {
	defer r.Close()

	c.logger.Error("failed to resolve service",
		"name", identity.Name,
		"domain", identity.Domain,
		"error", err)
	c.logErrorEvent(identity.Name, identity.Domain, "resolve", err)
}

func (c *Client) logBrowseEvent(event dnssd.BrowseEvent, identity dnssd.ServiceIdentity) {
	c.events.Log(log.Event{
		Timestamp: time.Now(),
		Service:   identity.Name,
		Domain:    identity.Domain,
		Category:  log.CategoryBrowse,
		Browse: &log.BrowseEventData{
			Event:       event.String(),
			ServiceType: identity.Type,
		},
	})
}

func (c *Client) logErrorEvent(service, domain, context string, err error) {
	c.events.Log(log.Event{
		Timestamp: time.Now(),
		Service:   service,
		Domain:    domain,
		Category:  log.CategoryError,
		Error: &log.ErrorEventData{
			Message: errReason(err),
			Context: context,
		},
	})
}

func errReason(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// Compile-time handler checks.
var (
	_ dnssd.ClientHandler  = (*Client)(nil)
	_ dnssd.BrowseHandler  = (*Client)(nil)
	_ dnssd.ResolveHandler = (*Client)(nil)
)
