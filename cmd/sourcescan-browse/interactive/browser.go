// Package interactive provides the interactive command-line interface
// for sourcescan-browse.
package interactive

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"github.com/chzyer/readline"

	"github.com/aoip-tools/sourcescan-go/pkg/sources"
)

// Browser handles the interactive command loop. It reads commands from the
// terminal and answers them from the live source registry.
type Browser struct {
	rl       *readline.Instance
	registry *sources.Registry

	// watching gates the live add/remove notifications.
	watching atomic.Bool
}

// New creates a new interactive browser.
func New() (*Browser, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "browse> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &Browser{rl: rl}, nil
}

// Stdout returns a writer that properly coordinates with the readline input.
// Use this for log output to avoid interfering with the command prompt.
func (b *Browser) Stdout() io.Writer {
	return b.rl.Stdout()
}

// Attach binds the browser to a registry and subscribes it for live
// notifications. Must be called before Run.
func (b *Browser) Attach(reg *sources.Registry) {
	b.registry = reg
	reg.AddListener(b)
}

// SourceAdded implements sources.Listener.
func (b *Browser) SourceAdded(src sources.Source) {
	if !b.watching.Load() {
		return
	}
	fmt.Fprintf(b.rl.Stdout(), "+ %s (%s) [%s]\n", src.Name, src.Domain, src.ID)
}

// SourceRemoved implements sources.Listener.
func (b *Browser) SourceRemoved(src sources.Source) {
	if !b.watching.Load() {
		return
	}
	fmt.Fprintf(b.rl.Stdout(), "- %s (%s) [%s]\n", src.Name, src.Domain, src.ID)
}

// Run starts the interactive command loop. It returns when the user exits
// or ctx is canceled; on exit it calls cancel to stop the daemon.
func (b *Browser) Run(ctx context.Context, cancel context.CancelFunc) {
	defer b.rl.Close()

	b.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := b.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(b.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			b.printHelp()

		case "list", "ls":
			b.cmdList()

		case "show", "s":
			b.cmdShow(args)

		case "count":
			fmt.Fprintf(b.rl.Stdout(), "%d source(s)\n", b.registry.Len())

		case "watch", "w":
			b.cmdWatch(args)

		case "quit", "exit", "q":
			fmt.Fprintln(b.rl.Stdout(), "Exiting...")
			cancel()
			return

		default:
			fmt.Fprintf(b.rl.Stdout(), "Unknown command: %s (try 'help')\n", cmd)
		}
	}
}

func (b *Browser) printHelp() {
	fmt.Fprint(b.rl.Stdout(), `Commands:
  list, ls            List discovered sources
  show, s <name>      Show a source including its session description
  count               Show the number of discovered sources
  watch, w [on|off]   Toggle live add/remove notifications
  help, ?             Show this help
  quit, exit, q       Exit
`)
}

func (b *Browser) cmdList() {
	srcs := b.registry.Sources()
	if len(srcs) == 0 {
		fmt.Fprintln(b.rl.Stdout(), "No sources discovered yet.")
		return
	}
	for _, src := range srcs {
		fmt.Fprintf(b.rl.Stdout(), "%-30s %-10s discovered %s\n",
			src.Name, src.Domain, src.DiscoveredAt.Format("15:04:05"))
	}
}

// cmdShow prints every source whose instance name matches the argument.
// Instance names may contain spaces, so all arguments are joined.
func (b *Browser) cmdShow(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(b.rl.Stdout(), "Usage: show <name>")
		return
	}
	name := strings.Join(args, " ")

	found := false
	for _, src := range b.registry.Sources() {
		if src.Name != name {
			continue
		}
		found = true
		fmt.Fprintf(b.rl.Stdout(), "Name:       %s\n", src.Name)
		fmt.Fprintf(b.rl.Stdout(), "Domain:     %s\n", src.Domain)
		fmt.Fprintf(b.rl.Stdout(), "ID:         %s\n", src.ID)
		fmt.Fprintf(b.rl.Stdout(), "Discovered: %s\n", src.DiscoveredAt.Format("2006-01-02 15:04:05"))
		if src.Description != "" {
			fmt.Fprintln(b.rl.Stdout(), "Description:")
			for _, line := range strings.Split(strings.TrimRight(src.Description, "\r\n"), "\n") {
				fmt.Fprintf(b.rl.Stdout(), "  %s\n", strings.TrimRight(line, "\r"))
			}
		}
		fmt.Fprintln(b.rl.Stdout())
	}
	if !found {
		fmt.Fprintf(b.rl.Stdout(), "No source named %q\n", name)
	}
}

func (b *Browser) cmdWatch(args []string) {
	switch {
	case len(args) == 0:
		b.watching.Store(!b.watching.Load())
	case args[0] == "on":
		b.watching.Store(true)
	case args[0] == "off":
		b.watching.Store(false)
	default:
		fmt.Fprintln(b.rl.Stdout(), "Usage: watch [on|off]")
		return
	}
	if b.watching.Load() {
		fmt.Fprintln(b.rl.Stdout(), "Watching for source changes.")
	} else {
		fmt.Fprintln(b.rl.Stdout(), "Watch disabled.")
	}
}

// Compile-time interface satisfaction check.
var _ sources.Listener = (*Browser)(nil)
