// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// dqview is a terminal browser for the data quality test cases of a
// metadata catalog. It opens at a location (a query string or a full
// listing URL copied from the browser), shows one page of test cases,
// and lets the operator filter, page, update incident status, and
// delete test cases. The location is printed on exit so a session can
// be resumed or shared.
//
// With --plain, one page is fetched and printed as a table instead of
// starting the interactive display.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/bureau-foundation/dqview/cmd/dqview/cli"
	"github.com/bureau-foundation/dqview/lib/catalog"
	"github.com/bureau-foundation/dqview/lib/clock"
	"github.com/bureau-foundation/dqview/lib/config"
	"github.com/bureau-foundation/dqview/lib/testcaseui"
	"github.com/bureau-foundation/dqview/lib/testcaseview"
	"github.com/bureau-foundation/dqview/lib/tui"
	"github.com/bureau-foundation/dqview/lib/version"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			var exitErr *cli.ExitError
			if !errors.As(err, &exitErr) {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
			}
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// options holds the parsed command line.
type options struct {
	configPath string
	catalogURL string
	token      string
	location   string
	pageSize   int
	page       int
	plain      bool
	logOutput  string
	logLevel   string
	help       bool
}

func (opts *options) addFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&opts.configPath, "config", "", "config file (default: $"+config.EnvConfig+")")
	flagSet.StringVar(&opts.catalogURL, "catalog-url", "", "catalog API base URL, e.g. http://localhost:8585/api")
	flagSet.StringVar(&opts.token, "token", "", "catalog bearer token (default: $DQVIEW_TOKEN)")
	flagSet.StringVarP(&opts.location, "location", "l", "", "starting location: a query string or listing URL")
	flagSet.IntVar(&opts.pageSize, "page-size", 0, "test cases per page")
	flagSet.IntVar(&opts.page, "page", 1, "page to print with --plain")
	flagSet.BoolVar(&opts.plain, "plain", false, "print one page as a table and exit")
	flagSet.StringVar(&opts.logOutput, "log-output", "", "write JSON log records to this file")
	flagSet.StringVar(&opts.logLevel, "log-level", "", "minimum level for --log-output: debug, info, warn, error")
	flagSet.BoolVarP(&opts.help, "help", "h", false, "show help")
}

func run(args []string, stdout io.Writer) error {
	// Handle --version before flag parsing to match the other binaries.
	if len(args) > 0 && args[0] == "--version" {
		version.Fprint(stdout, "dqview")
		return nil
	}

	var opts options
	flagSet := pflag.NewFlagSet("dqview", pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	opts.addFlags(flagSet)

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil
		}
		return cli.Validation("%w", err).WithHint("Run 'dqview --help' for usage.")
	}
	if opts.help {
		printHelp(flagSet)
		return nil
	}

	positional := flagSet.Args()
	switch {
	case len(positional) > 1:
		return cli.Validation("unexpected argument: %s", positional[1])
	case len(positional) == 1 && opts.location != "":
		return cli.Validation("pass the location as an argument or with --location, not both")
	case len(positional) == 1:
		opts.location = positional[0]
	}

	cfg, err := loadConfig(&opts, flagSet)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if opts.plain {
		return runPlain(ctx, cfg, &opts, stdout)
	}
	return runInteractive(ctx, cfg, stdout)
}

// loadConfig reads the config file, applies command-line overrides,
// and validates the result.
func loadConfig(opts *options, flagSet *pflag.FlagSet) (*config.Config, error) {
	var cfg *config.Config
	var err error
	switch {
	case opts.configPath != "":
		cfg, err = config.LoadFile(opts.configPath)
	default:
		cfg, err = config.Load()
		if errors.Is(err, config.ErrNotConfigured) {
			cfg, err = config.Default(), nil
			cfg.Expand()
		}
	}
	if err != nil {
		return nil, cli.Validation("loading config: %w", err)
	}

	if opts.catalogURL != "" {
		cfg.Catalog.URL = opts.catalogURL
	}
	if opts.token != "" {
		cfg.Catalog.Token = opts.token
	}
	if flagSet.Changed("page-size") {
		cfg.View.PageSize = opts.pageSize
	}
	if opts.location != "" {
		cfg.View.Location = opts.location
	}
	if opts.logOutput != "" {
		cfg.Logging.Output = opts.logOutput
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, cli.Validation("invalid configuration:\n%w", err)
	}
	if opts.page < 1 {
		return nil, cli.Validation("--page must be at least 1, got %d", opts.page)
	}
	return cfg, nil
}

func newClient(cfg *config.Config, logger *slog.Logger) (*catalog.Client, error) {
	timeout, err := cfg.Catalog.TimeoutDuration()
	if err != nil {
		return nil, cli.Validation("%w", err)
	}
	client, err := catalog.NewClient(catalog.Config{
		BaseURL:    cfg.Catalog.URL,
		Token:      cfg.Catalog.Token,
		HTTPClient: catalog.NewHTTPClient(timeout),
		Logger:     logger,
	})
	if err != nil {
		return nil, cli.Validation("%w", err)
	}
	return client, nil
}

// runPlain prints one page of results and exits. Colors are used only
// when stdout is a terminal.
func runPlain(ctx context.Context, cfg *config.Config, opts *options, stdout io.Writer) error {
	logger := cli.NewCommandLogger(cfg.Logging.SlogLevel())
	if cfg.Logging.Output != "" {
		fileHandler, closeFile, err := openFileLogHandler(cfg.Logging.Output, cfg.Logging.SlogLevel())
		if err != nil {
			return cli.Validation("cannot open log file %s: %w", cfg.Logging.Output, err)
		}
		defer closeFile()
		logger = slog.New(fanoutHandler{logger.Handler(), fileHandler})
	}

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}

	now := time.Now()
	results, err := testcaseview.Snapshot(ctx, client, cfg.View.Location, opts.page, cfg.View.PageSize, now)
	if err != nil {
		return cli.Classify(err)
	}
	logger.Debug("fetched test cases",
		"page", results.CurrentPage,
		"count", len(results.TestCases),
		"total", results.Total,
	)

	color := false
	if file, ok := stdout.(*os.File); ok {
		color = term.IsTerminal(int(file.Fd()))
	}
	fmt.Fprintln(stdout, testcaseui.RenderPlain(results, tui.DefaultTheme, now, color))
	return nil
}

// runInteractive runs the full-screen listing.
//
// Background logging (result, mutation, and option failures) is routed
// through a TUILogHandler that shows warnings and errors in the status
// bar instead of writing to stderr, which would corrupt the alt-screen
// display. An optional file logger captures records to a JSON file.
func runInteractive(ctx context.Context, cfg *config.Config, stdout io.Writer) error {
	tuiHandler := testcaseui.NewTUILogHandler(slog.LevelWarn)

	var logger *slog.Logger
	if cfg.Logging.Output != "" {
		fileHandler, closeFile, err := openFileLogHandler(cfg.Logging.Output, cfg.Logging.SlogLevel())
		if err != nil {
			return cli.Validation("cannot open log file %s: %w", cfg.Logging.Output, err)
		}
		defer closeFile()
		logger = slog.New(fanoutHandler{tuiHandler, fileHandler})
	} else {
		logger = slog.New(tuiHandler)
	}

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}

	clk := clock.Real()
	page, err := testcaseview.NewPage(ctx, testcaseview.PageConfig{
		Location: cfg.View.Location,
		PageSize: cfg.View.PageSize,
		Backend:  client,
		Clock:    clk,
		Logger:   logger,
	})
	if err != nil {
		return cli.Internal("%w", err)
	}

	model := testcaseui.NewModel(page, clk)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	tuiHandler.SetSender(program)

	final, err := program.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return cli.Internal("running display: %w", err)
	}

	if finalModel, ok := final.(testcaseui.Model); ok {
		fmt.Fprintln(stdout, finalModel.Location())
		if page.Permission() == testcaseview.PermissionDenied {
			return &cli.ExitError{Code: cli.CategoryForbidden.ExitCode()}
		}
	}
	return nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `dqview: browse data quality test cases in a terminal.

Opens at a location: the query string of a test case listing, or the
full listing URL copied from the catalog web UI. Filters, search, and
paging update the location, which is printed on exit.

Usage:
  dqview [flags] [location]

Examples:
  # Failed tests on one table
  dqview '?tableFqn=mysql_prod.shop.public.orders&testCaseStatus=Failed'

  # Print the first page instead of opening the display
  dqview --plain --page-size 25 'https://catalog.example.com/data-quality/test-cases?testCaseType=column'

Configuration is read from --config or $%s. Without either,
the catalog defaults to http://localhost:8585/api with the token from
$DQVIEW_TOKEN.

Flags:
`, config.EnvConfig)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
