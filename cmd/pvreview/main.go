package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hashicorp/go-hclog"

	"pvreview/internal/api"
	"pvreview/internal/cache"
	"pvreview/internal/report"
	"pvreview/internal/settings"
	"pvreview/internal/tui"
)

// command describes a CLI subcommand.
type command struct {
	name  string
	short string
	usage string
	long  string
	run   func(args []string) error
}

var commands = []command{
	{
		name:  "analyze",
		short: "Submit a PDF and browse the analysis interactively",
		usage: "pvreview analyze <file.pdf>",
		long: `Submit a PV installation document to the analyzer backend and open
the interactive report viewer.

Every fact, verification, and red flag links to the document pages
supporting it; press enter on a row to open its first evidence page.
`,
		run: runAnalyze,
	},
	{
		name:  "check",
		short: "Submit a PDF and print the classified summary",
		usage: "pvreview check <file.pdf>",
		long: `Submit a PV installation document and print the classified report
summary to stdout without opening the viewer.

The exit code reflects the traffic light: 0 GREEN, 1 YELLOW, 2 RED.
`,
		run: runCheck,
	},
	{
		name:  "report",
		short: "Reopen a previously analyzed document by id",
		usage: "pvreview report <doc_id>",
		long: `Load the stored report for a document already analyzed by the
backend and open the interactive viewer.
`,
		run: runReport,
	},
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "pvreview — PV document analysis viewer for green-loan underwriting\n\n")
	fmt.Fprintf(w, "Usage:\n  pvreview <command> [arguments]\n\n")
	fmt.Fprintf(w, "Commands:\n")
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-10s %s\n", cmd.name, cmd.short)
	}
	fmt.Fprintf(w, "\nThe analyzer endpoint comes from ~/.pvreview/settings.yaml or the\n")
	fmt.Fprintf(w, "PVREVIEW_BASE environment variable (default %s).\n", settings.DefaultEndpoint)
	fmt.Fprintf(w, "\nRun 'pvreview help <command>' for details on a specific command.\n")
}

func printCommandHelp(w io.Writer, name string) {
	for _, cmd := range commands {
		if cmd.name == name {
			fmt.Fprintf(w, "Usage: %s\n\n%s", cmd.usage, cmd.long)
			return
		}
	}
	fmt.Fprintf(w, "pvreview: unknown command %q\n\nRun 'pvreview help' for usage.\n", name)
}

func dispatch(args []string) error {
	if len(args) == 0 || args[0] == "--help" || args[0] == "-h" {
		printUsage(os.Stdout)
		return nil
	}
	if args[0] == "help" {
		if len(args) >= 2 {
			printCommandHelp(os.Stdout, args[1])
		} else {
			printUsage(os.Stdout)
		}
		return nil
	}
	for _, cmd := range commands {
		if cmd.name == args[0] {
			return cmd.run(args[1:])
		}
	}
	return fmt.Errorf("unknown command %q\n\nRun 'pvreview help' for usage.", args[0])
}

// ---------------------------------------------------------------------------
// Shared setup
// ---------------------------------------------------------------------------

// newBackend loads settings and builds the client and resolver. The
// logger writes to ~/.pvreview/pvreview.log when logFile is true
// (bubbletea owns stdout during the TUI) and to stderr otherwise.
func newBackend(logFile bool) (*api.Client, *api.Resolver, hclog.Logger, error) {
	dir, err := settings.Dir()
	if err != nil {
		return nil, nil, nil, err
	}
	cfg, err := settings.Load(dir)
	if err != nil {
		return nil, nil, nil, err
	}

	var out io.Writer = os.Stderr
	if logFile {
		if err := os.MkdirAll(dir, 0o755); err == nil {
			if f, err := os.OpenFile(filepath.Join(dir, "pvreview.log"),
				os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
				out = f
			}
		}
	}
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "pvreview",
		Output: out,
		Level:  hclog.Info,
	})

	client := api.NewClient(cfg.Base(), cfg.Timeout(), logger)
	pageCache := cache.NewMemory(cfg.PageTTL(), cfg.CleanupInterval())
	resolver := api.NewResolver(client, pageCache, cfg.PageTTL())
	return client, resolver, logger, nil
}

// ---------------------------------------------------------------------------
// analyze
// ---------------------------------------------------------------------------

func runAnalyze(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: pvreview analyze <file.pdf>")
	}
	path := args[0]
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}

	client, resolver, logger, err := newBackend(true)
	if err != nil {
		return err
	}
	m := tui.NewAnalyze(client, resolver, logger, path)
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// ---------------------------------------------------------------------------
// check
// ---------------------------------------------------------------------------

func runCheck(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: pvreview check <file.pdf>")
	}
	client, _, _, err := newBackend(false)
	if err != nil {
		return err
	}

	rep, err := client.Analyze(context.Background(), args[0])
	if err != nil {
		return err
	}

	fmt.Print(renderSummary(rep))

	switch rep.Scorecard.TrafficLight {
	case report.LightGreen:
		return nil
	case report.LightRed:
		os.Exit(2)
	default:
		os.Exit(1)
	}
	return nil
}

// ---------------------------------------------------------------------------
// report
// ---------------------------------------------------------------------------

func runReport(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: pvreview report <doc_id>")
	}
	client, resolver, logger, err := newBackend(true)
	if err != nil {
		return err
	}
	m := tui.NewReport(client, resolver, logger, args[0])
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func main() {
	if err := dispatch(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}
