// Package mock provides hand-written fakes for the dnssd provider model and
// the discovery collaborators. Tests drive the captured handlers directly
// instead of running a real mDNS stack.
package mock

import (
	"sync"

	"github.com/aoip-tools/sourcescan-go/pkg/dnssd"
)

// EventLoop is an inert dnssd.EventLoop. Tests call the captured handlers
// themselves, so the loop only tracks lifecycle calls.
type EventLoop struct {
	mu         sync.Mutex
	started    bool
	quitCalled bool
	stopCalled bool
}

func (l *EventLoop) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.started = true
	return nil
}

func (l *EventLoop) Quit() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.quitCalled = true
}

func (l *EventLoop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.quitCalled = true
	l.stopCalled = true
}

// Started reports whether Start was called.
func (l *EventLoop) Started() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.started
}

// Stopped reports whether Stop was called.
func (l *EventLoop) Stopped() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stopCalled
}

// QuitCalled reports whether Quit or Stop was called.
func (l *EventLoop) QuitCalled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.quitCalled
}

// Browser is a recorded browse handle.
type Browser struct {
	mu     sync.Mutex
	closed bool
}

func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

// Closed reports whether the handle was released.
func (b *Browser) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// Resolver is a recorded resolve handle.
type Resolver struct {
	mu     sync.Mutex
	closed bool
}

func (r *Resolver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// Closed reports whether the handle was released.
func (r *Resolver) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Conn captures the handlers registered through it so tests can inject
// browse and resolve events.
type Conn struct {
	mu sync.Mutex

	browseHandler  dnssd.BrowseHandler
	resolveHandler dnssd.ResolveHandler

	browsers  []*Browser
	resolvers []*Resolver
	closed    bool
}

func (c *Conn) NewBrowser(ifaceIndex int, serviceType, domain string, h dnssd.BrowseHandler) (dnssd.Browser, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.browseHandler = h
	b := &Browser{}
	c.browsers = append(c.browsers, b)
	return b, nil
}

func (c *Conn) NewResolver(identity dnssd.ServiceIdentity, ifaceIndex int, h dnssd.ResolveHandler) (dnssd.Resolver, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resolveHandler = h
	r := &Resolver{}
	c.resolvers = append(c.resolvers, r)
	return r, nil
}

func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// Closed reports whether the connection was released.
func (c *Conn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// BrowseHandler returns the handler registered by the last NewBrowser call.
func (c *Conn) BrowseHandler() dnssd.BrowseHandler {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.browseHandler
}

// ResolveHandler returns the handler registered by the last NewResolver call.
func (c *Conn) ResolveHandler() dnssd.ResolveHandler {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resolveHandler
}

// LastResolver returns the most recently created resolve handle.
func (c *Conn) LastResolver() *Resolver {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.resolvers) == 0 {
		return nil
	}
	return c.resolvers[len(c.resolvers)-1]
}

// Provider is a dnssd.Provider handing out a single mock loop and
// connection. The client handler is captured so tests can push state
// transitions.
type Provider struct {
	Loop *EventLoop
	Conn *Conn

	mu            sync.Mutex
	clientHandler dnssd.ClientHandler
}

// NewProvider creates a mock provider.
func NewProvider() *Provider {
	return &Provider{
		Loop: &EventLoop{},
		Conn: &Conn{},
	}
}

func (p *Provider) NewEventLoop() (dnssd.EventLoop, error) {
	return p.Loop, nil
}

func (p *Provider) NewConn(loop dnssd.EventLoop, h dnssd.ClientHandler) (dnssd.Conn, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clientHandler = h
	return p.Conn, nil
}

// ClientHandler returns the handler registered by the last NewConn call.
func (p *Provider) ClientHandler() dnssd.ClientHandler {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.clientHandler
}

// Compile-time interface satisfaction checks.
var (
	_ dnssd.Provider  = (*Provider)(nil)
	_ dnssd.EventLoop = (*EventLoop)(nil)
	_ dnssd.Conn      = (*Conn)(nil)
	_ dnssd.Browser   = (*Browser)(nil)
	_ dnssd.Resolver  = (*Resolver)(nil)
)
