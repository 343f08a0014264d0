// Command sourcescan-browse is an interactive browser for RTSP stream
// sources on the local network.
//
// It runs the discovery pipeline in-process and offers a command prompt for
// inspecting the discovered sources while the browse is running.
//
// Usage:
//
//	sourcescan-browse [flags]
//
// Flags:
//
//	-config string      Configuration file path (YAML)
//	-log-level string   Log level: debug, info, warn, error (default "warn")
//	-version            Print version and exit
//
// Examples:
//
//	# Browse interactively, then list what was found
//	sourcescan-browse
//	browse> list
//
//	# Watch sources appear and disappear live
//	sourcescan-browse -log-level debug
//	browse> watch on
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/aoip-tools/sourcescan-go/cmd/sourcescan-browse/interactive"
	"github.com/aoip-tools/sourcescan-go/pkg/config"
	"github.com/aoip-tools/sourcescan-go/pkg/daemon"
	"github.com/aoip-tools/sourcescan-go/pkg/version"
)

func main() {
	configFile := flag.String("config", "", "Configuration file path (YAML)")
	logLevel := flag.String("log-level", "warn", "Log level: debug, info, warn, error")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("sourcescan-browse %s\n", version.Current)
		return
	}

	var cfg config.Config
	var err error
	if *configFile != "" {
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	} else {
		cfg = config.Default()
	}
	cfg.Logging.Level = *logLevel

	level, err := cfg.SlogLevel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	browser, err := interactive.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Route log output through readline so it does not clobber the prompt.
	logger := slog.New(slog.NewTextHandler(browser.Stdout(), &slog.HandlerOptions{Level: level}))

	d, err := daemon.New(cfg, daemon.Options{Logger: logger})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	browser.Attach(d.Registry())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := d.Run(ctx); err != nil {
			logger.Error("discovery failed", "error", err)
			cancel()
		}
	}()

	browser.Run(ctx, cancel)
}
