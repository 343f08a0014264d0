package dnssd

import (
	"errors"
	"strings"
)

// Default browse parameters.
const (
	// DefaultDomain is the mDNS domain browsed when none is configured.
	DefaultDomain = "local"

	// InterfaceAny selects all multicast-capable interfaces.
	InterfaceAny = 0
)

// Provider errors.
var (
	ErrLoopClosed        = errors.New("event loop already stopped")
	ErrConnClosed        = errors.New("connection closed")
	ErrNoSuchService     = errors.New("service not known to the connection")
	ErrNoAddress         = errors.New("service carries no address record")
	ErrUnknownIface      = errors.New("unknown network interface index")
	ErrBrowseHandlerNil  = errors.New("browse handler must not be nil")
	ErrResolveHandlerNil = errors.New("resolve handler must not be nil")
)

// ServiceIdentity identifies an advertised service independent of its
// current address. Browse and resolve events for the same logical service
// carry the same identity.
type ServiceIdentity struct {
	// Name is the service instance name (e.g. "cam1").
	Name string

	// Type is the DNS-SD service type (e.g. "_rtsp._tcp").
	Type string

	// Domain is the browse domain (e.g. "local").
	Domain string
}

// String returns the identity as "name.type.domain".
func (s ServiceIdentity) String() string {
	return s.Name + "." + s.Type + "." + s.Domain
}

// ClientState describes the provider connection state.
type ClientState uint8

const (
	// StateConnecting - the connection to the DNS-SD service is being set up.
	StateConnecting ClientState = iota

	// StateRegistering - the provider is registering local records.
	StateRegistering

	// StateRunning - the provider is up and events will be delivered.
	StateRunning

	// StateCollision - a local record name collided; records are withdrawn.
	StateCollision

	// StateFailure - the connection failed permanently.
	StateFailure
)

// String returns the state name.
func (s ClientState) String() string {
	switch s {
	case StateConnecting:
		return "CONNECTING"
	case StateRegistering:
		return "REGISTERING"
	case StateRunning:
		return "RUNNING"
	case StateCollision:
		return "COLLISION"
	case StateFailure:
		return "FAILURE"
	default:
		return "UNKNOWN"
	}
}

// BrowseEvent describes a service browser notification.
type BrowseEvent uint8

const (
	// BrowseNew - a service advertisement appeared.
	BrowseNew BrowseEvent = iota

	// BrowseRemove - a service advertisement was withdrawn.
	BrowseRemove

	// BrowseAllForNow - the initial burst of records is complete.
	BrowseAllForNow

	// BrowseCacheExhausted - all cached records have been delivered.
	BrowseCacheExhausted

	// BrowseFailure - the browser failed permanently.
	BrowseFailure
)

// String returns the event name.
func (e BrowseEvent) String() string {
	switch e {
	case BrowseNew:
		return "NEW"
	case BrowseRemove:
		return "REMOVE"
	case BrowseAllForNow:
		return "ALL_FOR_NOW"
	case BrowseCacheExhausted:
		return "CACHE_EXHAUSTED"
	case BrowseFailure:
		return "FAILURE"
	default:
		return "UNKNOWN"
	}
}

// ResultFlags describes the origin of a resolve result.
type ResultFlags uint8

const (
	// FlagLocal - the record originates from the local host.
	FlagLocal ResultFlags = 1 << iota

	// FlagOwnRecord - the record was registered by this very connection.
	FlagOwnRecord

	// FlagWideArea - the record came from wide-area DNS.
	FlagWideArea

	// FlagMulticast - the record came from multicast DNS.
	FlagMulticast

	// FlagCached - the record was served from the provider cache.
	FlagCached
)

// String returns the set flags as a comma-separated list.
func (f ResultFlags) String() string {
	if f == 0 {
		return "none"
	}
	var names []string
	if f&FlagLocal != 0 {
		names = append(names, "local")
	}
	if f&FlagOwnRecord != 0 {
		names = append(names, "own-record")
	}
	if f&FlagWideArea != 0 {
		names = append(names, "wide-area")
	}
	if f&FlagMulticast != 0 {
		names = append(names, "multicast")
	}
	if f&FlagCached != 0 {
		names = append(names, "cached")
	}
	return strings.Join(names, ",")
}

// ResolvedService is the successful outcome of a resolve.
// It is handed to the resolve handler and not retained by the provider.
type ResolvedService struct {
	// Identity of the service this result belongs to.
	Identity ServiceIdentity

	// HostName is the target host advertised in the SRV record.
	HostName string

	// Address is the textual form of one address of the host.
	Address string

	// Port is the advertised service port.
	Port uint16

	// Flags describes where the result came from.
	Flags ResultFlags
}
