package sitemapper

import "context"

// Crawler performs a bounded breadth-first crawl of a single site.
type Crawler interface {
	// Crawl canonicalizes seed and visits same-domain pages until
	// opts.MaxPages entries have been collected or no links remain.
	// Returns EINVALID if seed is unusable. Individual page failures
	// are skipped and never returned.
	Crawl(ctx context.Context, seed string, opts CrawlOptions) (*CrawlResult, error)
}

// Generator turns a seed URL into a finished sitemap document.
type Generator interface {
	// Generate crawls seed and encodes the result. When an archive is
	// configured the sitemap is stored and its ID is set.
	Generate(ctx context.Context, seed string, opts CrawlOptions) (*Sitemap, error)

	// GenerateFromURLs encodes urls without crawling.
	GenerateFromURLs(urls []string) (string, error)
}
