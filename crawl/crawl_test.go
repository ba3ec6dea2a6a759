package crawl_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/sitemapper"
	"github.com/fwojciec/sitemapper/crawl"
	"github.com/fwojciec/sitemapper/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// page is one document of a fake site.
type page struct {
	links  []string
	images []sitemapper.ImageRef
}

// fakeSite serves pages keyed by absolute URL. The fetched "HTML" is the
// page URL itself so the extractor can look the page back up.
type fakeSite struct {
	pages map[string]page

	mu      sync.Mutex
	fetched []string
}

func newFakeSite(pages map[string]page) *fakeSite {
	return &fakeSite{pages: pages}
}

func (s *fakeSite) fetcher() *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (string, error) {
			s.mu.Lock()
			s.fetched = append(s.fetched, url)
			s.mu.Unlock()
			if _, ok := s.pages[url]; !ok {
				return "", fmt.Errorf("HTTP 404 for %s", url)
			}
			return url, nil
		},
		CloseFn: func() error { return nil },
	}
}

func (s *fakeSite) extractor() *mock.LinkExtractor {
	return &mock.LinkExtractor{
		ExtractLinksFn: func(html, _ string) ([]string, error) {
			return s.pages[html].links, nil
		},
		ExtractImagesFn: func(html, _ string) ([]sitemapper.ImageRef, error) {
			return s.pages[html].images, nil
		},
	}
}

func (s *fakeSite) crawler() *crawl.Crawler {
	return &crawl.Crawler{
		Fetcher:   s.fetcher(),
		Extractor: s.extractor(),
	}
}

func (s *fakeSite) fetchedURLs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.fetched...)
}

func locs(result *sitemapper.CrawlResult) []string {
	out := make([]string, 0, len(result.Entries))
	for _, e := range result.Entries {
		out = append(out, e.Loc)
	}
	return out
}

func exampleSite() *fakeSite {
	return newFakeSite(map[string]page{
		"https://example.com": {links: []string{
			"/about",
			"https://example.com/contact",
			"https://other.com/x",
		}},
		"https://example.com/about":   {},
		"https://example.com/contact": {},
	})
}

func TestCrawler_Crawl(t *testing.T) {
	t.Parallel()

	t.Run("collects same-domain pages in discovery order", func(t *testing.T) {
		t.Parallel()

		site := exampleSite()
		result, err := site.crawler().Crawl(context.Background(), "example.com", sitemapper.CrawlOptions{MaxPages: 10})

		require.NoError(t, err)
		assert.Equal(t, "example.com", result.Domain)
		assert.Equal(t, "https://example.com", result.Seed)
		assert.Equal(t, 3, result.Count)
		assert.Equal(t, []string{
			"https://example.com",
			"https://example.com/about",
			"https://example.com/contact",
		}, locs(result))
		assert.NotContains(t, site.fetchedURLs(), "https://other.com/x")
	})

	t.Run("max pages of one returns only the seed", func(t *testing.T) {
		t.Parallel()

		site := exampleSite()
		result, err := site.crawler().Crawl(context.Background(), "example.com", sitemapper.CrawlOptions{MaxPages: 1})

		require.NoError(t, err)
		assert.Equal(t, 1, result.Count)
		assert.Equal(t, []string{"https://example.com"}, locs(result))
		assert.Equal(t, []string{"https://example.com"}, site.fetchedURLs())
	})

	t.Run("non-positive max pages never fetches", func(t *testing.T) {
		t.Parallel()

		for _, maxPages := range []int{0, -5} {
			site := exampleSite()
			result, err := site.crawler().Crawl(context.Background(), "example.com", sitemapper.CrawlOptions{MaxPages: maxPages})

			require.NoError(t, err)
			assert.Equal(t, 0, result.Count)
			assert.Empty(t, result.Entries)
			assert.Equal(t, "example.com", result.Domain)
			assert.Empty(t, site.fetchedURLs())
		}
	})

	t.Run("visits pages breadth first", func(t *testing.T) {
		t.Parallel()

		site := newFakeSite(map[string]page{
			"https://example.com/a": {links: []string{"/b", "/c"}},
			"https://example.com/b": {links: []string{"/d"}},
			"https://example.com/c": {links: []string{"/e", "/a"}},
			"https://example.com/d": {},
			"https://example.com/e": {},
		})

		result, err := site.crawler().Crawl(context.Background(), "https://example.com/a", sitemapper.CrawlOptions{MaxPages: 10})

		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://example.com/a",
			"https://example.com/b",
			"https://example.com/c",
			"https://example.com/d",
			"https://example.com/e",
		}, locs(result))
	})

	t.Run("stops at the page limit", func(t *testing.T) {
		t.Parallel()

		site := newFakeSite(map[string]page{
			"https://example.com/a": {links: []string{"/b", "/c"}},
			"https://example.com/b": {links: []string{"/d"}},
			"https://example.com/c": {links: []string{"/e"}},
			"https://example.com/d": {},
			"https://example.com/e": {},
		})

		result, err := site.crawler().Crawl(context.Background(), "https://example.com/a", sitemapper.CrawlOptions{MaxPages: 3})

		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://example.com/a",
			"https://example.com/b",
			"https://example.com/c",
		}, locs(result))
		assert.Len(t, site.fetchedURLs(), 3)
		assert.Equal(t, 4, result.Discovered, "d was queued before the limit was reached")
	})

	t.Run("fetches each page once across link variants", func(t *testing.T) {
		t.Parallel()

		site := newFakeSite(map[string]page{
			"https://example.com": {links: []string{
				"/b",
				"/b#top",
				"/b/",
				"b",
				"https://example.com/b",
				"/",
				"#main",
			}},
			"https://example.com/b": {links: []string{"/", "https://example.com", "https://example.com/#x"}},
		})

		result, err := site.crawler().Crawl(context.Background(), "https://example.com/", sitemapper.CrawlOptions{MaxPages: 10})

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com", "https://example.com/b"}, locs(result))
		assert.Equal(t, []string{"https://example.com", "https://example.com/b"}, site.fetchedURLs())
	})

	t.Run("fetches each page once across host case variants", func(t *testing.T) {
		t.Parallel()

		site := newFakeSite(map[string]page{
			"https://example.com": {links: []string{
				"/docs",
				"https://EXAMPLE.com/docs",
				"https://Example.Com/docs",
			}},
			"https://example.com/docs": {links: []string{"HTTPS://EXAMPLE.COM"}},
		})

		result, err := site.crawler().Crawl(context.Background(), "Example.COM", sitemapper.CrawlOptions{MaxPages: 10})

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com", "https://example.com/docs"}, locs(result))
		assert.Equal(t, []string{"https://example.com", "https://example.com/docs"}, site.fetchedURLs())
		assert.Equal(t, 2, result.Discovered)
		for _, loc := range locs(result) {
			assert.Equal(t, result.Domain, crawl.Hostname(loc))
			assert.Contains(t, loc, "://example.com")
		}
	})

	t.Run("skips pages that fail to fetch without retrying", func(t *testing.T) {
		t.Parallel()

		site := newFakeSite(map[string]page{
			"https://example.com": {links: []string{"/broken", "/ok"}},
			"https://example.com/ok": {links: []string{"/broken"}},
		})

		result, err := site.crawler().Crawl(context.Background(), "example.com", sitemapper.CrawlOptions{MaxPages: 10})

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com", "https://example.com/ok"}, locs(result))
		assert.Equal(t, []string{
			"https://example.com",
			"https://example.com/broken",
			"https://example.com/ok",
		}, site.fetchedURLs())
	})

	t.Run("unreachable seed yields an empty result", func(t *testing.T) {
		t.Parallel()

		site := newFakeSite(map[string]page{})
		result, err := site.crawler().Crawl(context.Background(), "example.com", sitemapper.CrawlOptions{MaxPages: 10})

		require.NoError(t, err)
		assert.Equal(t, 0, result.Count)
		assert.Equal(t, "example.com", result.Domain)
	})

	t.Run("rejects an unusable seed", func(t *testing.T) {
		t.Parallel()

		for _, seed := range []string{"", "ftp://example.com", "https://"} {
			site := exampleSite()
			_, err := site.crawler().Crawl(context.Background(), seed, sitemapper.DefaultCrawlOptions())

			require.Error(t, err, "seed %q", seed)
			assert.Equal(t, sitemapper.EINVALID, sitemapper.ErrorCode(err))
			assert.Empty(t, site.fetchedURLs())
		}
	})

	t.Run("records crawl time as lastmod", func(t *testing.T) {
		t.Parallel()

		now := time.Date(2024, 3, 9, 17, 45, 0, 0, time.UTC)
		site := exampleSite()
		c := site.crawler()
		c.Now = func() time.Time { return now }

		result, err := c.Crawl(context.Background(), "example.com", sitemapper.CrawlOptions{MaxPages: 10})

		require.NoError(t, err)
		for _, e := range result.Entries {
			assert.Equal(t, now, e.LastMod)
		}
	})

	t.Run("propagates extraction errors", func(t *testing.T) {
		t.Parallel()

		site := exampleSite()
		c := site.crawler()
		c.Extractor = &mock.LinkExtractor{
			ExtractLinksFn: func(string, string) ([]string, error) {
				return nil, errors.New("parse failed")
			},
		}

		_, err := c.Crawl(context.Background(), "example.com", sitemapper.DefaultCrawlOptions())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse failed")
		assert.Equal(t, sitemapper.EINTERNAL, sitemapper.ErrorCode(err))
	})

	t.Run("bounds each fetch with a deadline", func(t *testing.T) {
		t.Parallel()

		var deadlines []time.Duration
		c := &crawl.Crawler{
			Fetcher: &mock.Fetcher{
				FetchFn: func(ctx context.Context, url string) (string, error) {
					deadline, ok := ctx.Deadline()
					require.True(t, ok, "fetch context should carry a deadline")
					deadlines = append(deadlines, time.Until(deadline))
					return url, nil
				},
			},
			Extractor:    exampleSite().extractor(),
			FetchTimeout: 2 * time.Second,
		}

		_, err := c.Crawl(context.Background(), "example.com", sitemapper.CrawlOptions{MaxPages: 10})

		require.NoError(t, err)
		require.Len(t, deadlines, 3)
		for _, d := range deadlines {
			assert.LessOrEqual(t, d, 2*time.Second)
		}
	})

	t.Run("stops when the context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		site := exampleSite()
		_, err := site.crawler().Crawl(ctx, "example.com", sitemapper.DefaultCrawlOptions())

		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, site.fetchedURLs())
	})
}

func TestCrawler_Crawl_images(t *testing.T) {
	t.Parallel()

	images := []sitemapper.ImageRef{
		{Loc: "https://cdn.other.com/hero.png", Title: "Hero"},
		{Loc: "https://example.com/logo.svg"},
	}
	newSite := func() *fakeSite {
		return newFakeSite(map[string]page{
			"https://example.com":       {links: []string{"/about"}, images: images},
			"https://example.com/about": {},
		})
	}

	t.Run("attaches images when requested", func(t *testing.T) {
		t.Parallel()

		site := newSite()
		result, err := site.crawler().Crawl(context.Background(), "example.com", sitemapper.CrawlOptions{MaxPages: 10, IncludeImages: true})

		require.NoError(t, err)
		require.Len(t, result.Entries, 2)
		assert.Equal(t, images, result.Entries[0].Images)
		assert.Empty(t, result.Entries[1].Images)
	})

	t.Run("skips image extraction when not requested", func(t *testing.T) {
		t.Parallel()

		site := newSite()
		extractor := site.extractor()
		var imageCalls int
		extractor.ExtractImagesFn = func(string, string) ([]sitemapper.ImageRef, error) {
			imageCalls++
			return images, nil
		}
		c := &crawl.Crawler{Fetcher: site.fetcher(), Extractor: extractor}

		result, err := c.Crawl(context.Background(), "example.com", sitemapper.CrawlOptions{MaxPages: 10})

		require.NoError(t, err)
		assert.Zero(t, imageCalls)
		for _, e := range result.Entries {
			assert.Empty(t, e.Images)
		}
	})
}

func TestCrawler_Crawl_progress(t *testing.T) {
	t.Parallel()

	site := newFakeSite(map[string]page{
		"https://example.com":    {links: []string{"/gone", "/ok"}},
		"https://example.com/ok": {},
	})

	var events []crawl.ProgressEvent
	c := site.crawler()
	c.Progress = func(e crawl.ProgressEvent) { events = append(events, e) }

	_, err := c.Crawl(context.Background(), "example.com", sitemapper.CrawlOptions{MaxPages: 5})
	require.NoError(t, err)

	require.Len(t, events, 4)
	assert.Equal(t, crawl.ProgressCompleted, events[0].Type)
	assert.Equal(t, 1, events[0].Completed)
	assert.Equal(t, 5, events[0].Total)

	assert.Equal(t, crawl.ProgressFailed, events[1].Type)
	assert.Equal(t, "https://example.com/gone", events[1].URL)
	assert.Error(t, events[1].Error)

	assert.Equal(t, crawl.ProgressCompleted, events[2].Type)
	assert.Equal(t, 2, events[2].Completed)

	assert.Equal(t, crawl.ProgressFinished, events[3].Type)
	assert.Equal(t, 2, events[3].Completed)
}

// TestCrawler_Crawl_properties checks the crawl invariants over a binary
// tree of pages with back links and off-site links at every node.
func TestCrawler_Crawl_properties(t *testing.T) {
	t.Parallel()

	const size = 40
	pages := make(map[string]page, size)
	for i := 0; i < size; i++ {
		pages[fmt.Sprintf("https://example.com/p%d", i)] = page{links: []string{
			fmt.Sprintf("/p%d", 2*i+1),
			fmt.Sprintf("/p%d/", 2*i+2),
			fmt.Sprintf("/p%d#frag", i/2),
			fmt.Sprintf("https://elsewhere.org/p%d", i),
		}}
	}

	for maxPages := 1; maxPages <= 12; maxPages++ {
		site := newFakeSite(pages)
		result, err := site.crawler().Crawl(context.Background(), "example.com/p0", sitemapper.CrawlOptions{MaxPages: maxPages})
		require.NoError(t, err)

		assert.LessOrEqual(t, result.Count, maxPages)
		assert.Equal(t, len(result.Entries), result.Count)

		seen := make(map[string]bool)
		for _, e := range result.Entries {
			assert.False(t, seen[e.Loc], "duplicate entry %s", e.Loc)
			seen[e.Loc] = true
			assert.True(t, strings.HasPrefix(e.Loc, "https://example.com/"), "off-site entry %s", e.Loc)
			assert.False(t, strings.HasSuffix(e.Loc, "/"), "trailing slash in %s", e.Loc)
			assert.NotContains(t, e.Loc, "#")
		}
		for _, u := range site.fetchedURLs() {
			assert.Equal(t, "example.com", crawl.Hostname(u))
		}
	}
}
