package discovery

// Service browse defaults.
const (
	// ServiceTypeRTSP is the DNS-SD service type advertised by stream sources.
	ServiceTypeRTSP = "_rtsp._tcp"

	// DescribePathPrefix prefixes the service name to form the describe path.
	DescribePathPrefix = "/by-name/"
)

// Describer fetches the stream description of a resolved endpoint.
// Describe is synchronous and is only ever invoked from a dispatched task,
// never from the provider event loop. Timeout behavior belongs to the
// implementation.
type Describer interface {
	Describe(path, addr, port string) (string, error)
}

// SourceObserver receives source lifecycle notifications from the discovery
// core. OnNewSource is invoked from the describe task's own goroutine,
// OnRemoveSource from the provider event loop; implementations must be safe
// for concurrent use and must return promptly.
//
// For a single service the calls follow that service's advertisement
// lifecycle in order; across different services no ordering is guaranteed.
type SourceObserver interface {
	// OnNewSource reports a source that was discovered, resolved and
	// successfully described.
	OnNewSource(name, domain, description string)

	// OnRemoveSource reports that a source's advertisement was withdrawn.
	OnRemoveSource(name, domain string)
}
