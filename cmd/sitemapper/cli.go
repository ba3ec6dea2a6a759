package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/sitemapper"
	"github.com/fwojciec/sitemapper/prometheus"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Config    Config
	Logger    *slog.Logger
	Generator sitemapper.Generator
	Sitemaps  sitemapper.SitemapService
	Metrics   *prometheus.Metrics
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config   string `name:"config" type:"path" env:"SITEMAPPER_CONFIG" help:"Path to YAML config file"`
	LogLevel string `name:"log-level" help:"Log level (debug, info, warn, error)"`

	Serve    ServeCmd    `cmd:"" help:"Run the sitemap API server"`
	Generate GenerateCmd `cmd:"" help:"Crawl a site and print its sitemap"`
	List     ListCmd     `cmd:"" help:"List archived sitemaps"`
	Show     ShowCmd     `cmd:"" help:"Print an archived sitemap"`
	Delete   DeleteCmd   `cmd:"" help:"Delete an archived sitemap"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr      string `help:"Listen address (overrides config and $PORT)"`
	DB        string `name:"db" type:"path" help:"Archive database path"`
	NoArchive bool   `name:"no-archive" help:"Do not store generated sitemaps"`
}

// GenerateCmd is the "generate" subcommand.
type GenerateCmd struct {
	URL      string        `arg:"" help:"Seed URL to crawl"`
	MaxPages int           `short:"n" name:"max-pages" help:"Maximum number of pages (default from config, 50)"`
	Images   bool          `short:"i" help:"Include image entries"`
	Timeout  time.Duration `help:"Per-page fetch timeout (default from config, 10s)"`
	Output   string        `short:"o" type:"path" help:"Write sitemap to file instead of stdout"`
	Save     bool          `help:"Store the sitemap in the archive"`
	DB       string        `name:"db" type:"path" help:"Archive database path"`
	Quiet    bool          `short:"q" help:"Suppress progress output"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Domain string `short:"d" help:"Only show sitemaps for this domain"`
	Limit  int    `short:"l" default:"20" help:"Maximum number of sitemaps to show"`
	DB     string `name:"db" type:"path" help:"Archive database path"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	ID string `arg:"" help:"Sitemap ID"`
	DB string `name:"db" type:"path" help:"Archive database path"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	ID string `arg:"" help:"Sitemap ID"`
	DB string `name:"db" type:"path" help:"Archive database path"`
}
