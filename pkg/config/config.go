// Package config loads the daemon configuration from a YAML file and fills
// in defaults for everything left unset.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aoip-tools/sourcescan-go/pkg/discovery"
	"github.com/aoip-tools/sourcescan-go/pkg/dnssd"
)

// Config errors.
var (
	ErrBadLogLevel  = errors.New("config: invalid log level")
	ErrBadInterface = errors.New("config: unknown network interface")
	ErrBadTick      = errors.New("config: tick interval must be positive")
)

// Duration wraps time.Duration with YAML support for strings like "500ms".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var text string
	if err := value.Decode(&text); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(text)
	if err != nil {
		return fmt.Errorf("config: parse duration %q: %w", text, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Discovery configures the browse side of the daemon.
type Discovery struct {
	// ServiceType overrides the browsed DNS-SD service type.
	ServiceType string `yaml:"service_type"`

	// Domain overrides the browsed DNS-SD domain.
	Domain string `yaml:"domain"`

	// Interface restricts discovery to one network interface by name.
	// Empty means all multicast-capable interfaces.
	Interface string `yaml:"interface"`

	// TickInterval is how often finished describe tasks are reaped.
	TickInterval Duration `yaml:"tick_interval"`
}

// RTSP configures the describe collaborator.
type RTSP struct {
	DialTimeout    Duration `yaml:"dial_timeout"`
	RequestTimeout Duration `yaml:"request_timeout"`
}

// Advertise configures the optional own-service announcement.
type Advertise struct {
	// Enabled turns the announcement on.
	Enabled bool `yaml:"enabled"`

	// Name is the announced instance name. Defaults to the host name.
	Name string `yaml:"name"`

	// Port is the announced RTSP port.
	Port uint16 `yaml:"port"`

	// TXT carries extra key=value records.
	TXT []string `yaml:"txt"`
}

// Logging configures operational and event logging.
type Logging struct {
	// Level is the slog level: debug, info, warn or error.
	Level string `yaml:"level"`

	// EventLog is the path of the CBOR event log. Empty disables it.
	EventLog string `yaml:"event_log"`
}

// Config is the daemon configuration.
type Config struct {
	Discovery Discovery `yaml:"discovery"`
	RTSP      RTSP      `yaml:"rtsp"`
	Advertise Advertise `yaml:"advertise"`
	Logging   Logging   `yaml:"logging"`
}

// Default returns the configuration the daemon runs with when no file is
// given.
func Default() Config {
	return Config{
		Discovery: Discovery{
			ServiceType:  discovery.ServiceTypeRTSP,
			Domain:       dnssd.DefaultDomain,
			TickInterval: Duration(time.Second),
		},
		RTSP: RTSP{
			DialTimeout:    Duration(5 * time.Second),
			RequestTimeout: Duration(10 * time.Second),
		},
		Advertise: Advertise{
			Port: 554,
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// Load reads the YAML file at path on top of the defaults and validates the
// result.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for contradictions.
func (c *Config) Validate() error {
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if c.Discovery.TickInterval <= 0 {
		return ErrBadTick
	}
	if c.Discovery.Interface != "" {
		if _, err := net.InterfaceByName(c.Discovery.Interface); err != nil {
			return fmt.Errorf("%w: %s", ErrBadInterface, c.Discovery.Interface)
		}
	}
	return nil
}

// InterfaceIndex resolves the configured interface name to its index.
// Returns dnssd.InterfaceAny when no interface is configured.
func (c *Config) InterfaceIndex() (int, error) {
	if c.Discovery.Interface == "" {
		return dnssd.InterfaceAny, nil
	}
	iface, err := net.InterfaceByName(c.Discovery.Interface)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrBadInterface, c.Discovery.Interface)
	}
	return iface.Index, nil
}

// SlogLevel maps the configured level name to a slog.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch c.Logging.Level {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrBadLogLevel, c.Logging.Level)
	}
}
