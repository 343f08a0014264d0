package dnssd

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/enbility/zeroconf/v3"
)

// ZeroconfProvider implements Provider on top of the zeroconf multicast DNS
// client. Browse results from zeroconf already carry resolved records, so a
// resolver created through this binding replays the record most recently seen
// for the identity instead of issuing a fresh query; the outcome is still
// delivered asynchronously on the event loop, preserving the provider
// threading model the discovery core assumes.
type ZeroconfProvider struct{}

// NewZeroconfProvider creates the production DNS-SD provider.
func NewZeroconfProvider() *ZeroconfProvider {
	return &ZeroconfProvider{}
}

// NewEventLoop allocates a stopped event loop.
func (p *ZeroconfProvider) NewEventLoop() (EventLoop, error) {
	return newEventLoop(), nil
}

// NewConn opens a connection dispatching on loop. Multicast sockets are
// opened lazily by the first browser, so the connection reports StateRunning
// as soon as the loop dispatches.
func (p *ZeroconfProvider) NewConn(loop EventLoop, h ClientHandler) (Conn, error) {
	el, ok := loop.(*eventLoop)
	if !ok {
		return nil, fmt.Errorf("event loop was not created by this provider")
	}

	c := &zeroconfConn{
		loop:  el,
		known: make(map[ServiceIdentity]browseEntry),
	}

	if h != nil {
		el.post(func() { h.ClientStateChanged(StateRunning, nil) })
	}

	return c, nil
}

// eventLoop dispatches posted callbacks on a single goroutine. The queue is
// unbounded: callbacks running on the loop may post further events (a browse
// callback starting a resolver does exactly that), so enqueueing must never
// block, whatever the backlog.
type eventLoop struct {
	quit chan struct{}

	quitOnce sync.Once
	wg       sync.WaitGroup

	mu      sync.Mutex
	queue   []func()
	notify  chan struct{}
	started bool
}

func newEventLoop() *eventLoop {
	return &eventLoop{
		quit:   make(chan struct{}),
		notify: make(chan struct{}, 1),
	}
}

// Start begins dispatching. Calling Start on a running loop is a no-op.
func (l *eventLoop) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	select {
	case <-l.quit:
		return ErrLoopClosed
	default:
	}

	if l.started {
		return nil
	}
	l.started = true

	l.wg.Add(1)
	go l.run()
	return nil
}

// Quit signals the dispatch goroutine to exit without waiting for it.
// Safe to call from inside a dispatched callback.
func (l *eventLoop) Quit() {
	l.quitOnce.Do(func() { close(l.quit) })
}

// Stop quits the loop and waits for the dispatch goroutine to exit.
func (l *eventLoop) Stop() {
	l.Quit()
	l.wg.Wait()
}

func (l *eventLoop) run() {
	defer l.wg.Done()
	for {
		select {
		case <-l.quit:
			return
		case <-l.notify:
		}

		for {
			l.mu.Lock()
			batch := l.queue
			l.queue = nil
			l.mu.Unlock()

			if len(batch) == 0 {
				break
			}
			for _, fn := range batch {
				select {
				case <-l.quit:
					return
				default:
				}
				fn()
			}
		}
	}
}

// post enqueues fn for dispatch. It never blocks, so a callback already
// running on the loop can post safely. Events posted after Quit are dropped.
func (l *eventLoop) post(fn func()) {
	select {
	case <-l.quit:
		return
	default:
	}

	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.notify <- struct{}{}:
	default:
	}
}

// browseEntry is the record state kept per advertised service.
type browseEntry struct {
	identity ServiceIdentity
	hostName string
	v4       []net.IP
	v6       []net.IP
	port     uint16
}

// zeroconfConn tracks the records seen by its browsers so that resolvers can
// replay them.
type zeroconfConn struct {
	loop *eventLoop

	mu       sync.Mutex
	closed   bool
	known    map[ServiceIdentity]browseEntry
	browsers []*zeroconfBrowser
}

// NewBrowser starts a zeroconf browse for serviceType in domain and pumps
// its added/removed channels into browse events on the loop.
func (c *zeroconfConn) NewBrowser(ifaceIndex int, serviceType, domain string, h BrowseHandler) (Browser, error) {
	if h == nil {
		return nil, ErrBrowseHandlerNil
	}

	var opts []zeroconf.ClientOption
	if ifaceIndex != InterfaceAny {
		iface, err := net.InterfaceByIndex(ifaceIndex)
		if err != nil {
			return nil, fmt.Errorf("%w: %d", ErrUnknownIface, ifaceIndex)
		}
		opts = append(opts, zeroconf.SelectIfaces([]net.Interface{*iface}))
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrConnClosed
	}

	ctx, cancel := context.WithCancel(context.Background())
	b := &zeroconfBrowser{cancel: cancel}
	c.browsers = append(c.browsers, b)
	c.mu.Unlock()

	entries := make(chan *zeroconf.ServiceEntry, 16)
	removed := make(chan *zeroconf.ServiceEntry, 16)

	go c.pump(serviceType, domain, entries, removed, h)

	go func() {
		if err := zeroconf.Browse(ctx, serviceType, domain, entries, removed, opts...); err != nil && ctx.Err() == nil {
			c.loop.post(func() { h.BrowseEvent(BrowseFailure, ServiceIdentity{}, err) })
		}
	}()

	return b, nil
}

// pump converts zeroconf channel traffic into handler events. It exits when
// zeroconf closes both channels on context cancellation.
func (c *zeroconfConn) pump(serviceType, domain string, entries, removed <-chan *zeroconf.ServiceEntry, h BrowseHandler) {
	for entries != nil || removed != nil {
		select {
		case entry, ok := <-entries:
			if !ok {
				entries = nil
				continue
			}
			be := convertEntry(entry, serviceType, domain)
			c.noteEntry(be)
			c.loop.post(func() { h.BrowseEvent(BrowseNew, be.identity, nil) })

		case entry, ok := <-removed:
			if !ok {
				removed = nil
				continue
			}
			be := convertEntry(entry, serviceType, domain)
			c.forgetEntry(be.identity)
			c.loop.post(func() { h.BrowseEvent(BrowseRemove, be.identity, nil) })
		}
	}
}

// convertEntry maps a zeroconf service entry onto the binding's record form.
// The identity's type and domain come from the browse request, matching the
// parameters the browser was created with.
func convertEntry(entry *zeroconf.ServiceEntry, serviceType, domain string) browseEntry {
	return browseEntry{
		identity: ServiceIdentity{
			Name:   entry.Instance,
			Type:   serviceType,
			Domain: domain,
		},
		hostName: entry.HostName,
		v4:       entry.AddrIPv4,
		v6:       entry.AddrIPv6,
		port:     uint16(entry.Port),
	}
}

func (c *zeroconfConn) noteEntry(be browseEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.known[be.identity] = be
}

func (c *zeroconfConn) forgetEntry(identity ServiceIdentity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.known, identity)
}

// NewResolver resolves identity from the connection's record state. Creation
// always succeeds on an open connection; a missing or address-less record is
// reported through the handler, mirroring providers that deliver resolver
// failures asynchronously.
func (c *zeroconfConn) NewResolver(identity ServiceIdentity, ifaceIndex int, h ResolveHandler) (Resolver, error) {
	if h == nil {
		return nil, ErrResolveHandlerNil
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrConnClosed
	}
	be, ok := c.known[identity]
	c.mu.Unlock()

	r := &zeroconfResolver{identity: identity}

	if !ok {
		c.loop.post(func() { h.ResolveFailed(r, identity, ErrNoSuchService) })
		return r, nil
	}

	addr, ok := pickAddress(be)
	if !ok {
		c.loop.post(func() { h.ResolveFailed(r, identity, ErrNoAddress) })
		return r, nil
	}

	svc := ResolvedService{
		Identity: identity,
		HostName: be.hostName,
		Address:  addr,
		Port:     be.port,
		Flags:    FlagMulticast,
	}
	c.loop.post(func() { h.ResolveFound(r, svc) })
	return r, nil
}

// pickAddress prefers IPv4 records, falling back to IPv6.
func pickAddress(be browseEntry) (string, bool) {
	if len(be.v4) > 0 {
		return be.v4[0].String(), true
	}
	if len(be.v6) > 0 {
		return be.v6[0].String(), true
	}
	return "", false
}

// Close cancels all browsers and drops the record state.
func (c *zeroconfConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	for _, b := range c.browsers {
		b.cancel()
	}
	c.browsers = nil
	c.known = make(map[ServiceIdentity]browseEntry)
	return nil
}

// zeroconfBrowser cancels the underlying browse context on close.
type zeroconfBrowser struct {
	cancel context.CancelFunc
}

func (b *zeroconfBrowser) Close() error {
	b.cancel()
	return nil
}

// zeroconfResolver is a one-shot handle; the outcome is posted at creation.
// It remembers the identity it was created for, which keeps stray handles
// attributable when debugging handler lifecycles.
type zeroconfResolver struct {
	identity ServiceIdentity
}

func (r *zeroconfResolver) Close() error {
	return nil
}

// Compile-time interface satisfaction checks.
var (
	_ Provider  = (*ZeroconfProvider)(nil)
	_ EventLoop = (*eventLoop)(nil)
	_ Conn      = (*zeroconfConn)(nil)
	_ Browser   = (*zeroconfBrowser)(nil)
	_ Resolver  = (*zeroconfResolver)(nil)
)
