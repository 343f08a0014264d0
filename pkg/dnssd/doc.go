// Package dnssd defines the narrow interface between the discovery core and
// a DNS-SD provider, plus the production binding backed by zeroconf.
//
// The provider model mirrors a threaded-poll DNS-SD client: the application
// acquires an event loop, opens a connection on it, and creates browsers and
// resolvers whose events are delivered through handler interfaces registered
// at creation time. All handler callbacks run on the event-loop goroutine,
// one at a time; handlers must not block for long or event delivery stalls.
//
// Handle lifetimes follow the provider convention: browsers and connections
// are owned by whoever created them, while a resolver is fire-and-forget --
// the resolve handler releases it at the end of its callback.
package dnssd
