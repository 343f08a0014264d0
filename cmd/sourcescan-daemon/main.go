// Command sourcescan-daemon passively discovers RTSP stream sources on the
// local network.
//
// The daemon browses for _rtsp._tcp services over mDNS, resolves each
// advertisement, fetches its session description with an RTSP DESCRIBE
// request and keeps the result in an in-memory source registry. It can
// optionally announce its own RTSP endpoint alongside.
//
// Usage:
//
//	sourcescan-daemon [flags]
//
// Flags:
//
//	-config string      Configuration file path (YAML)
//	-log-level string   Log level: debug, info, warn, error (overrides config)
//	-event-log string   CBOR event log file path (overrides config)
//	-version            Print version and exit
//
// Examples:
//
//	# Run with defaults, browsing all interfaces
//	sourcescan-daemon
//
//	# Run with a config file and verbose logging
//	sourcescan-daemon -config /etc/sourcescan/daemon.yaml -log-level debug
//
//	# Record discovery events for later inspection with sourcescan-log
//	sourcescan-daemon -event-log /var/log/sourcescan/discovery.dlog
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aoip-tools/sourcescan-go/pkg/config"
	"github.com/aoip-tools/sourcescan-go/pkg/daemon"
	"github.com/aoip-tools/sourcescan-go/pkg/version"
)

func main() {
	configFile := flag.String("config", "", "Configuration file path (YAML)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	eventLog := flag.String("event-log", "", "CBOR event log file path (overrides config)")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("sourcescan-daemon %s\n", version.Current)
		return
	}

	cfg, err := loadConfig(*configFile, *logLevel, *eventLog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, err := setupLogging(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	d, err := daemon.New(cfg, daemon.Options{Logger: logger})
	if err != nil {
		logger.Error("failed to create daemon", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal", "signal", sig.String())
		cancel()
	}()

	logger.Info("sourcescan-daemon starting",
		"version", version.Current,
		"service_type", cfg.Discovery.ServiceType,
		"domain", cfg.Discovery.Domain)

	if err := d.Run(ctx); err != nil {
		logger.Error("daemon failed", "error", err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration file (defaults if none given) and
// applies command-line overrides.
func loadConfig(path, logLevel, eventLog string) (config.Config, error) {
	var cfg config.Config
	var err error

	if path != "" {
		cfg, err = config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
	} else {
		cfg = config.Default()
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if eventLog != "" {
		cfg.Logging.EventLog = eventLog
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func setupLogging(cfg config.Config) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler), nil
}
