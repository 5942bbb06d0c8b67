package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/ktmcp/klarnacompayments/internal/config"
	"github.com/ktmcp/klarnacompayments/internal/klarna"
)

// App wires one CLI invocation: the profile location, the printer, and
// the verbosity picked up from global flags.
type App struct {
	configPath string
	printer    *Printer
	verbose    bool
}

// Run parses the global flags, dispatches the command group, and
// returns the process exit code: 1 for any surfaced error, 0 otherwise.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	printer := NewPrinter(stdout, stderr)

	global := flag.NewFlagSet("klarnacompayments", flag.ContinueOnError)
	global.SetOutput(stderr)
	configPath := global.String("config", "", "path to the profile file (default: user config dir)")
	verbose := global.Bool("verbose", false, "enable debug logging")
	global.Usage = func() { printUsage(stderr) }

	if err := global.Parse(args); err != nil {
		return 1
	}

	rest := global.Args()
	if len(rest) == 0 {
		printUsage(stderr)
		return 1
	}

	path := *configPath
	if path == "" {
		defaultPath, err := config.DefaultPath()
		if err != nil {
			printer.Failure(err.Error())
			return 1
		}
		path = defaultPath
	}

	app := &App{
		configPath: path,
		printer:    printer,
		verbose:    *verbose,
	}

	switch rest[0] {
	case "config":
		return app.runConfig(rest[1:])
	case "sessions":
		return app.runSessions(ctx, rest[1:])
	case "authorizations":
		return app.runAuthorizations(ctx, rest[1:])
	case "orders":
		return app.runOrders(ctx, rest[1:])
	case "refunds":
		return app.runRefunds(ctx, rest[1:])
	case "help", "-h", "--help":
		printUsage(stdout)
		return 0
	default:
		printer.Failure(fmt.Sprintf("unknown command %q", rest[0]))
		printUsage(stderr)
		return 1
	}
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `klarnacompayments - payment processing from your terminal

Usage:
  klarnacompayments [--config <path>] [--verbose] <group> <command> [flags]

Groups:
  config          set | show
  sessions        create | get | update
  authorizations  create | get | cancel
  orders          get | capture | update | captures
  refunds         create | list

Amounts are integer minor units (1000 = 10.00). Order lines are passed
as a JSON array via --lines. Add --json to any command for
machine-readable output.
`)
}

// newClient resolves the effective configuration and builds a fresh
// client. Called per command so profile edits apply immediately.
func (a *App) newClient() (*klarna.Client, error) {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, err
	}

	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if a.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	return klarna.NewClient(*cfg, logger)
}

// fail surfaces one error and produces the exit code.
func (a *App) fail(err error, jsonMode bool) int {
	a.printer.Error(err, jsonMode)
	return 1
}

func (a *App) unknownSubcommand(group string, args []string) int {
	if len(args) == 0 {
		a.printer.Failure(fmt.Sprintf("missing %s subcommand", group))
	} else {
		a.printer.Failure(fmt.Sprintf("unknown %s subcommand %q", group, args[0]))
	}
	printUsage(a.printer.errW)
	return 1
}

func parseAmount(s string) (int64, error) {
	amount, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, &klarna.APIError{
			Kind:    klarna.KindInvalidInput,
			Message: fmt.Sprintf("invalid value for --amount: %q (expected integer minor units)", s),
		}
	}
	return amount, nil
}

func parseLines(s string) ([]klarna.OrderLine, error) {
	var lines []klarna.OrderLine
	if err := json.Unmarshal([]byte(s), &lines); err != nil {
		return nil, &klarna.APIError{
			Kind:    klarna.KindInvalidInput,
			Message: "invalid JSON for --lines",
			Err:     err,
		}
	}
	return lines, nil
}

func sessionParams(country, currency, locale string, amount int64, lines []klarna.OrderLine) klarna.SessionParams {
	return klarna.SessionParams{
		PurchaseCountry:  country,
		PurchaseCurrency: currency,
		Locale:           locale,
		OrderAmount:      amount,
		OrderLines:       lines,
	}
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
