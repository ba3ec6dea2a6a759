package prometheus

import (
	"context"
	"time"

	"github.com/fwojciec/sitemapper"
)

// Ensure Crawler implements sitemapper.Crawler.
var _ sitemapper.Crawler = (*Crawler)(nil)

// Crawler counts crawls and records how many pages each produced.
type Crawler struct {
	next    sitemapper.Crawler
	metrics *Metrics
}

// NewCrawler wraps next with crawl metrics.
func NewCrawler(next sitemapper.Crawler, m *Metrics) *Crawler {
	return &Crawler{next: next, metrics: m}
}

// Crawl delegates to the wrapped crawler and records the outcome.
func (c *Crawler) Crawl(ctx context.Context, seed string, opts sitemapper.CrawlOptions) (result *sitemapper.CrawlResult, err error) {
	defer func(begin time.Time) {
		switch {
		case err == nil:
			c.metrics.CrawlsTotal.WithLabelValues(ResultOK).Inc()
			c.metrics.CrawlPages.Observe(float64(result.Count))
			c.metrics.CrawlDuration.Observe(time.Since(begin).Seconds())
		case sitemapper.ErrorCode(err) == sitemapper.EINVALID:
			c.metrics.CrawlsTotal.WithLabelValues(ResultInvalid).Inc()
		default:
			c.metrics.CrawlsTotal.WithLabelValues(ResultError).Inc()
		}
	}(time.Now())
	return c.next.Crawl(ctx, seed, opts)
}
