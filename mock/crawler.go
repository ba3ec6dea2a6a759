package mock

import (
	"context"

	"github.com/fwojciec/sitemapper"
)

var _ sitemapper.Crawler = (*Crawler)(nil)

// Crawler is a mock implementation of sitemapper.Crawler.
type Crawler struct {
	CrawlFn func(ctx context.Context, seed string, opts sitemapper.CrawlOptions) (*sitemapper.CrawlResult, error)
}

func (c *Crawler) Crawl(ctx context.Context, seed string, opts sitemapper.CrawlOptions) (*sitemapper.CrawlResult, error) {
	return c.CrawlFn(ctx, seed, opts)
}

var _ sitemapper.Generator = (*Generator)(nil)

// Generator is a mock implementation of sitemapper.Generator.
type Generator struct {
	GenerateFn         func(ctx context.Context, seed string, opts sitemapper.CrawlOptions) (*sitemapper.Sitemap, error)
	GenerateFromURLsFn func(urls []string) (string, error)
}

func (g *Generator) Generate(ctx context.Context, seed string, opts sitemapper.CrawlOptions) (*sitemapper.Sitemap, error) {
	return g.GenerateFn(ctx, seed, opts)
}

func (g *Generator) GenerateFromURLs(urls []string) (string, error) {
	return g.GenerateFromURLsFn(urls)
}
