package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sitemapper"
)

// Ensure LoggingCrawler implements sitemapper.Crawler.
var _ sitemapper.Crawler = (*LoggingCrawler)(nil)

// LoggingCrawler wraps a Crawler with a summary log line per crawl.
type LoggingCrawler struct {
	next   sitemapper.Crawler
	logger *slog.Logger
}

// NewLoggingCrawler creates a new LoggingCrawler.
func NewLoggingCrawler(next sitemapper.Crawler, logger *slog.Logger) *LoggingCrawler {
	return &LoggingCrawler{next: next, logger: logger}
}

// Crawl delegates to the wrapped crawler and logs the outcome.
func (c *LoggingCrawler) Crawl(ctx context.Context, seed string, opts sitemapper.CrawlOptions) (result *sitemapper.CrawlResult, err error) {
	defer func(begin time.Time) {
		var domain string
		var count, discovered int
		if result != nil {
			domain, count, discovered = result.Domain, result.Count, result.Discovered
		}
		c.logger.Info("crawl",
			"seed", seed,
			"max_pages", opts.MaxPages,
			"images", opts.IncludeImages,
			"domain", domain,
			"count", count,
			"discovered", discovered,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Crawl(ctx, seed, opts)
}
