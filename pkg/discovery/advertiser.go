package discovery

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/enbility/zeroconf/v3"

	"github.com/aoip-tools/sourcescan-go/pkg/dnssd"
)

// Advertiser announces the daemon's own RTSP endpoint over mDNS so that
// peer daemons running the same discovery core can find it.
type Advertiser interface {
	// Advertise starts announcing the service. It returns an error if an
	// announcement is already active.
	Advertise(info AdvertiseInfo) error

	// Stop withdraws the announcement. Stopping an idle advertiser is a
	// no-op.
	Stop()
}

// AdvertiseInfo describes the announced service.
type AdvertiseInfo struct {
	// Name is the service instance name.
	Name string

	// Port is the RTSP listener port.
	Port uint16

	// TXT carries optional key=value records.
	TXT []string
}

// AdvertiserConfig configures advertiser behavior.
type AdvertiserConfig struct {
	// Interface specifies which network interface to announce on.
	// Empty string means all interfaces.
	Interface string

	// Domain is the DNS-SD domain to announce in.
	Domain string

	// TTL is the DNS record TTL.
	// Default: 120 seconds.
	TTL time.Duration
}

// DefaultAdvertiserConfig returns the default advertiser configuration.
func DefaultAdvertiserConfig() AdvertiserConfig {
	return AdvertiserConfig{
		Interface: "",
		Domain:    dnssd.DefaultDomain,
		TTL:       120 * time.Second,
	}
}

// Advertiser errors.
var (
	ErrAlreadyAdvertising = errors.New("discovery: already advertising")
	ErrMissingName        = errors.New("discovery: service name is required")
	ErrMissingPort        = errors.New("discovery: service port is required")
)

// MDNSAdvertiser implements the Advertiser interface using zeroconf.
type MDNSAdvertiser struct {
	config AdvertiserConfig

	mu     sync.Mutex
	server *zeroconf.Server
}

// NewMDNSAdvertiser creates a new mDNS advertiser.
func NewMDNSAdvertiser(config AdvertiserConfig) (*MDNSAdvertiser, error) {
	if config.Domain == "" {
		config.Domain = dnssd.DefaultDomain
	}
	return &MDNSAdvertiser{config: config}, nil
}

// getInterfaces returns the network interfaces to announce on.
// Returns nil to use all interfaces.
func (a *MDNSAdvertiser) getInterfaces() []net.Interface {
	if a.config.Interface == "" {
		return nil
	}
	iface, err := net.InterfaceByName(a.config.Interface)
	if err != nil {
		return nil
	}
	return []net.Interface{*iface}
}

// Advertise starts announcing the RTSP service.
func (a *MDNSAdvertiser) Advertise(info AdvertiseInfo) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server != nil {
		return ErrAlreadyAdvertising
	}
	if info.Name == "" {
		return ErrMissingName
	}
	if info.Port == 0 {
		return ErrMissingPort
	}

	var opts []zeroconf.ServerOption
	if a.config.TTL > 0 {
		opts = append(opts, zeroconf.TTL(uint32(a.config.TTL.Seconds())))
	}

	// Get interfaces (nil means all interfaces)
	ifaces := a.getInterfaces()

	server, err := zeroconf.Register(
		info.Name,
		ServiceTypeRTSP,
		a.config.Domain,
		int(info.Port),
		info.TXT,
		ifaces,
		opts...,
	)
	if err != nil {
		return fmt.Errorf("discovery: register service: %w", err)
	}

	a.server = server
	return nil
}

// Stop withdraws the announcement.
func (a *MDNSAdvertiser) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server == nil {
		return
	}
	a.server.Shutdown()
	a.server = nil
}

// Compile-time interface satisfaction check.
var _ Advertiser = (*MDNSAdvertiser)(nil)
