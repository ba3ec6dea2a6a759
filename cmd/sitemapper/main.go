package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/sitemapper"
	"github.com/fwojciec/sitemapper/crawl"
	"github.com/fwojciec/sitemapper/etree"
	"github.com/fwojciec/sitemapper/goquery"
	sitemapperhttp "github.com/fwojciec/sitemapper/http"
	"github.com/fwojciec/sitemapper/prometheus"
	smslog "github.com/fwojciec/sitemapper/slog"
	"github.com/fwojciec/sitemapper/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	m := NewMain()

	err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Getenv reads environment variables. Tests replace it.
	Getenv func(string) string

	// SQLite database used by the sitemap archive. Opened only by
	// commands that need it.
	DB *sqlite.DB

	// Fetcher is closed along with the program.
	Fetcher sitemapper.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		Getenv: os.Getenv,
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var errs []error
	if m.Fetcher != nil {
		errs = append(errs, m.Fetcher.Close())
	}
	if m.DB != nil {
		errs = append(errs, m.DB.Close())
	}
	return errors.Join(errs...)
}

// Run executes the CLI with the given arguments. Errors from closing the
// database or fetcher are joined into the returned error.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) (err error) {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name(AppName),
		kong.Description("Crawl a website and generate its XML sitemap."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'sitemapper --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	cfg, err := m.loadConfig(cli)
	if err != nil {
		return err
	}
	applyFlags(&cfg, cli, cmd)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := cfg.NewLogger(stderr)
	if err != nil {
		return err
	}
	deps.Config = cfg
	deps.Logger = logger

	defer func() {
		if cerr := m.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("failed to close: %w", cerr))
		}
	}()

	if needsArchive(cfg, cli, cmd) {
		if err := m.openDB(cfg.DB); err != nil {
			fmt.Fprintln(stderr, "Hint: Set SITEMAPPER_DB or --db to use a different database path")
			return err
		}
		deps.Sitemaps = smslog.NewLoggingSitemapService(sqlite.NewSitemapService(m.DB), logger)
	}

	switch cmd {
	case "serve":
		deps.Metrics = prometheus.NewMetrics()
		deps.Generator = m.newGenerator(deps, nil)
	case "generate":
		var progress crawl.ProgressFunc
		if !cli.Generate.Quiet {
			progress = func(event crawl.ProgressEvent) {
				fmt.Fprintln(stderr, crawl.FormatProgress(event))
			}
		}
		deps.Generator = m.newGenerator(deps, progress)
	}

	return kongCtx.Run(deps)
}

// loadConfig reads the config file named by --config, or the default
// location when none is given, then overlays the environment. A missing
// default file is not an error.
func (m *Main) loadConfig(cli *CLI) (Config, error) {
	path := cli.Config
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}

	cfg, err := LoadConfigFile(path)
	if errors.Is(err, ErrConfigNotFound) && !explicit {
		err = nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to load config %q: %w", path, err)
	}

	cfg.ApplyEnv(m.Getenv)
	if cli.LogLevel != "" {
		cfg.LogLevel = cli.LogLevel
	}
	return cfg, nil
}

// applyFlags overlays command flags, the highest-precedence layer.
func applyFlags(cfg *Config, cli *CLI, cmd string) {
	var db string
	switch cmd {
	case "serve":
		if cli.Serve.Addr != "" {
			cfg.Addr = cli.Serve.Addr
		}
		if cli.Serve.NoArchive {
			cfg.Archive = false
		}
		db = cli.Serve.DB
	case "generate":
		if cli.Generate.Timeout > 0 {
			cfg.FetchTimeout = cli.Generate.Timeout
		}
		db = cli.Generate.DB
	case "list":
		db = cli.List.DB
	case "show":
		db = cli.Show.DB
	case "delete":
		db = cli.Delete.DB
	}
	if db != "" {
		cfg.DB = db
	}
}

func needsArchive(cfg Config, cli *CLI, cmd string) bool {
	switch cmd {
	case "serve":
		return cfg.Archive
	case "generate":
		return cli.Generate.Save
	case "list", "show", "delete":
		return true
	}
	return false
}

func (m *Main) openDB(path string) error {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	m.DB = sqlite.NewDB(path)
	if err := m.DB.Open(); err != nil {
		return fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	return nil
}

// newGenerator assembles the crawl pipeline. Metrics decorators are added
// only when deps.Metrics is set.
func (m *Main) newGenerator(deps *Dependencies, progress crawl.ProgressFunc) *crawl.Generator {
	cfg := deps.Config

	httpFetcher := sitemapperhttp.NewFetcher(
		sitemapperhttp.WithTimeout(cfg.FetchTimeout),
		sitemapperhttp.WithUserAgent(cfg.UserAgent),
		sitemapperhttp.WithMaxBodySize(cfg.MaxBodyBytes),
	)
	m.Fetcher = httpFetcher

	var fetcher sitemapper.Fetcher = smslog.NewLoggingFetcher(httpFetcher, deps.Logger)
	if deps.Metrics != nil {
		fetcher = prometheus.NewFetcher(fetcher, deps.Metrics)
	}

	var crawler sitemapper.Crawler = &crawl.Crawler{
		Fetcher:      fetcher,
		Extractor:    goquery.NewExtractor(),
		FetchTimeout: cfg.FetchTimeout,
		Progress:     progress,
	}
	crawler = smslog.NewLoggingCrawler(crawler, deps.Logger)
	if deps.Metrics != nil {
		crawler = prometheus.NewCrawler(crawler, deps.Metrics)
	}

	return &crawl.Generator{
		Crawler:  crawler,
		Encoder:  etree.NewEncoder(),
		Sitemaps: deps.Sitemaps,
	}
}
