// Package discovery watches the local network segment for advertised stream
// sources and reports them to the host daemon.
//
// The Client drives a DNS-SD provider (package dnssd) through its browse and
// resolve events: each new advertisement is resolved, the resolved address is
// gated to the family the describe protocol supports, and an eligible
// endpoint is described asynchronously over RTSP. A successful describe is
// reported through SourceObserver.OnNewSource, a withdrawn advertisement
// through OnRemoveSource.
//
// Describe work runs on its own goroutines so slow endpoints never stall the
// provider's event loop. The host drives reaping of finished tasks via
// Client.Tick from its own scheduling loop and drains the remainder on
// Client.Terminate.
//
// The package also carries the daemon's own-service Advertiser, the
// counterpart that announces a local RTSP endpoint over mDNS.
package discovery
