// Package crawl provides sitemap crawling orchestration.
// It coordinates URL normalization, fetching, link and image extraction,
// and sitemap encoding for a single site.
package crawl

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/sitemapper"
)

// DefaultFetchTimeout bounds a single page fetch.
const DefaultFetchTimeout = 10 * time.Second

// Compile-time interface verification.
var _ sitemapper.Crawler = (*Crawler)(nil)

// Crawler performs bounded breadth-first crawls of a single site.
// Pages are fetched one at a time. All per-crawl state is allocated inside
// Crawl, so a Crawler may serve concurrent crawls as long as its Fetcher
// and Extractor can.
type Crawler struct {
	Fetcher   sitemapper.Fetcher
	Extractor sitemapper.LinkExtractor

	// FetchTimeout bounds each page fetch. Defaults to DefaultFetchTimeout.
	FetchTimeout time.Duration

	// Now returns the time recorded as lastmod. Defaults to time.Now.
	Now func() time.Time

	// Progress, if set, receives an event for each page and one at the end.
	Progress ProgressFunc
}

// ProgressEvent reports progress during a crawl.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressCompleted ProgressType = iota
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// Crawl canonicalizes seed and walks same-domain links breadth-first until
// opts.MaxPages pages have been fetched or the frontier is empty.
//
// Only an unusable seed (EINVALID) or an extraction failure is returned as
// an error. Pages that fail to fetch are skipped without retry. If ctx is
// canceled the crawl stops before the next fetch and returns ctx.Err().
func (c *Crawler) Crawl(ctx context.Context, seed string, opts sitemapper.CrawlOptions) (*sitemapper.CrawlResult, error) {
	start, err := Canonicalize(seed)
	if err != nil {
		return nil, err
	}
	normalizer := NewNormalizer(Hostname(start))

	frontier := NewFrontier()
	frontier.Push(start)

	var entries []sitemapper.SitemapEntry
	for frontier.Len() > 0 && len(entries) < opts.MaxPages {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("crawl %s: %w", start, err)
		}

		current, _ := frontier.Pop()

		html, err := c.fetch(ctx, current)
		if err != nil {
			c.report(ProgressEvent{
				Type:      ProgressFailed,
				Completed: len(entries),
				Total:     opts.MaxPages,
				URL:       current,
				Error:     err,
			})
			continue
		}

		entries = append(entries, sitemapper.SitemapEntry{
			Loc:     current,
			LastMod: c.now(),
		})

		links, err := c.Extractor.ExtractLinks(html, current)
		if err != nil {
			return nil, fmt.Errorf("extract links from %s: %w", current, err)
		}
		for _, link := range links {
			// Soft cap: the outer loop discards anything queued past the limit.
			if len(entries) >= opts.MaxPages {
				break
			}
			target, ok := normalizer.Normalize(current, link)
			if !ok {
				continue
			}
			frontier.Push(target)
		}

		if opts.IncludeImages {
			images, err := c.Extractor.ExtractImages(html, current)
			if err != nil {
				return nil, fmt.Errorf("extract images from %s: %w", current, err)
			}
			last := &entries[len(entries)-1]
			last.Images = append(last.Images, images...)
		}

		c.report(ProgressEvent{
			Type:      ProgressCompleted,
			Completed: len(entries),
			Total:     opts.MaxPages,
			URL:       current,
		})
	}

	c.report(ProgressEvent{
		Type:      ProgressFinished,
		Completed: len(entries),
		Total:     opts.MaxPages,
	})

	return &sitemapper.CrawlResult{
		Seed:       start,
		Entries:    entries,
		Domain:     normalizer.Domain(),
		Count:      len(entries),
		Discovered: frontier.Visited(),
	}, nil
}

// fetch retrieves a single page under the per-fetch timeout.
func (c *Crawler) fetch(ctx context.Context, url string) (string, error) {
	timeout := c.FetchTimeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.Fetcher.Fetch(ctx, url)
}

func (c *Crawler) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Crawler) report(event ProgressEvent) {
	if c.Progress != nil {
		c.Progress(event)
	}
}
