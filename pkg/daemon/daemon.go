// Package daemon assembles the discovery pipeline into a runnable service:
// provider, discovery client, RTSP describer, source registry and the
// optional own-service announcement.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/aoip-tools/sourcescan-go/pkg/config"
	"github.com/aoip-tools/sourcescan-go/pkg/discovery"
	"github.com/aoip-tools/sourcescan-go/pkg/dnssd"
	"github.com/aoip-tools/sourcescan-go/pkg/log"
	"github.com/aoip-tools/sourcescan-go/pkg/rtsp"
	"github.com/aoip-tools/sourcescan-go/pkg/sources"
)

// ErrAlreadyRunning is returned by Run on a daemon that is already running.
var ErrAlreadyRunning = errors.New("daemon: already running")

// Options override the collaborators the daemon builds from its
// configuration. Zero fields keep the production implementations; tests
// swap in mocks.
type Options struct {
	// Logger receives operational log output.
	Logger *slog.Logger

	// EventLogger receives structured discovery events. Overrides the
	// configured event log file.
	EventLogger log.Logger

	// Provider supplies the DNS-SD machinery.
	Provider dnssd.Provider

	// Describer performs the RTSP describe requests.
	Describer discovery.Describer

	// Advertiser announces the daemon's own endpoint.
	Advertiser discovery.Advertiser
}

// Daemon is the assembled discovery service.
type Daemon struct {
	cfg    config.Config
	logger *slog.Logger

	client     *discovery.Client
	registry   *sources.Registry
	advertiser discovery.Advertiser

	fileLog *log.FileLogger
	running atomic.Bool
}

// New builds a daemon from the configuration. Collaborators not overridden
// in opts are constructed from cfg.
func New(cfg config.Config, opts Options) (*Daemon, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	d := &Daemon{
		cfg:    cfg,
		logger: logger,
	}

	events := opts.EventLogger
	if events == nil && cfg.Logging.EventLog != "" {
		fileLog, err := log.NewFileLogger(cfg.Logging.EventLog)
		if err != nil {
			return nil, fmt.Errorf("daemon: open event log: %w", err)
		}
		d.fileLog = fileLog
		events = fileLog
	}

	provider := opts.Provider
	if provider == nil {
		provider = dnssd.NewZeroconfProvider()
	}

	describer := opts.Describer
	if describer == nil {
		describer = rtsp.NewClient(rtsp.Config{
			DialTimeout:    cfg.RTSP.DialTimeout.Std(),
			RequestTimeout: cfg.RTSP.RequestTimeout.Std(),
		})
	}

	d.advertiser = opts.Advertiser
	if d.advertiser == nil && cfg.Advertise.Enabled {
		adv, err := discovery.NewMDNSAdvertiser(discovery.AdvertiserConfig{
			Interface: cfg.Discovery.Interface,
			Domain:    cfg.Discovery.Domain,
		})
		if err != nil {
			d.closeEventLog()
			return nil, fmt.Errorf("daemon: create advertiser: %w", err)
		}
		d.advertiser = adv
	}

	ifaceIndex, err := cfg.InterfaceIndex()
	if err != nil {
		d.closeEventLog()
		return nil, err
	}

	d.registry = sources.NewRegistry(logger)
	d.client = discovery.NewClient(provider, describer, d.registry, discovery.Config{
		ServiceType:    cfg.Discovery.ServiceType,
		Domain:         cfg.Discovery.Domain,
		InterfaceIndex: ifaceIndex,
		Logger:         logger,
		EventLogger:    events,
	})

	return d, nil
}

// Registry returns the daemon's source registry.
func (d *Daemon) Registry() *sources.Registry {
	return d.registry
}

// Run starts discovery and blocks until ctx is canceled. On return the
// discovery client has terminated and all describe tasks have finished.
func (d *Daemon) Run(ctx context.Context) error {
	if !d.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer d.running.Store(false)
	defer d.closeEventLog()

	if err := d.client.Init(); err != nil {
		return err
	}
	defer d.client.Terminate()

	if d.advertiser != nil {
		if err := d.startAdvertising(); err != nil {
			return err
		}
		defer d.advertiser.Stop()
	}

	ticker := time.NewTicker(d.cfg.Discovery.TickInterval.Std())
	defer ticker.Stop()

	d.logger.Info("daemon running")

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("daemon shutting down")
			return nil
		case <-ticker.C:
			d.client.Tick()
		}
	}
}

func (d *Daemon) startAdvertising() error {
	name := d.cfg.Advertise.Name
	if name == "" {
		hostname, err := os.Hostname()
		if err != nil {
			return fmt.Errorf("daemon: resolve host name: %w", err)
		}
		name = hostname
	}

	err := d.advertiser.Advertise(discovery.AdvertiseInfo{
		Name: name,
		Port: d.cfg.Advertise.Port,
		TXT:  d.cfg.Advertise.TXT,
	})
	if err != nil {
		return fmt.Errorf("daemon: advertise: %w", err)
	}

	d.logger.Info("advertising own endpoint",
		"name", name,
		"port", d.cfg.Advertise.Port)
	return nil
}

func (d *Daemon) closeEventLog() {
	if d.fileLog != nil {
		_ = d.fileLog.Close()
		d.fileLog = nil
	}
}
