package crawl

import (
	"context"
	"fmt"

	"github.com/fwojciec/sitemapper"
)

var _ sitemapper.Generator = (*Generator)(nil)

// Generator crawls a site, encodes the result and optionally archives it.
type Generator struct {
	Crawler sitemapper.Crawler
	Encoder sitemapper.SitemapEncoder

	// Sitemaps archives generated sitemaps. Nil disables archiving.
	Sitemaps sitemapper.SitemapService
}

// Generate crawls seed and returns the encoded sitemap.
func (g *Generator) Generate(ctx context.Context, seed string, opts sitemapper.CrawlOptions) (*sitemapper.Sitemap, error) {
	result, err := g.Crawler.Crawl(ctx, seed, opts)
	if err != nil {
		return nil, err
	}

	xml, err := g.Encoder.Encode(result.Entries, opts.IncludeImages)
	if err != nil {
		return nil, fmt.Errorf("encode sitemap: %w", err)
	}

	sitemap := &sitemapper.Sitemap{
		Seed:          result.Seed,
		Domain:        result.Domain,
		Count:         result.Count,
		IncludeImages: opts.IncludeImages,
		XML:           xml,
	}

	if g.Sitemaps != nil {
		if err := g.Sitemaps.CreateSitemap(ctx, sitemap); err != nil {
			return nil, fmt.Errorf("archive sitemap: %w", err)
		}
	}

	return sitemap, nil
}

// GenerateFromURLs encodes urls as a bare sitemap without crawling.
func (g *Generator) GenerateFromURLs(urls []string) (string, error) {
	xml, err := g.Encoder.EncodeURLs(urls)
	if err != nil {
		return "", fmt.Errorf("encode sitemap: %w", err)
	}
	return xml, nil
}
