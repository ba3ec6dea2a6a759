package crawl_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/sitemapper"
	"github.com/fwojciec/sitemapper/crawl"
	"github.com/fwojciec/sitemapper/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubCrawler(result *sitemapper.CrawlResult, err error) *mock.Crawler {
	return &mock.Crawler{
		CrawlFn: func(context.Context, string, sitemapper.CrawlOptions) (*sitemapper.CrawlResult, error) {
			return result, err
		},
	}
}

func TestGenerator_Generate(t *testing.T) {
	t.Parallel()

	result := &sitemapper.CrawlResult{
		Seed: "https://example.com",
		Entries: []sitemapper.SitemapEntry{
			{Loc: "https://example.com", LastMod: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		},
		Domain: "example.com",
		Count:  1,
	}

	t.Run("encodes crawl result", func(t *testing.T) {
		t.Parallel()

		var gotImages bool
		g := &crawl.Generator{
			Crawler: stubCrawler(result, nil),
			Encoder: &mock.SitemapEncoder{
				EncodeFn: func(entries []sitemapper.SitemapEntry, includeImages bool) (string, error) {
					gotImages = includeImages
					assert.Equal(t, result.Entries, entries)
					return "<urlset/>", nil
				},
			},
		}

		sitemap, err := g.Generate(context.Background(), "example.com", sitemapper.CrawlOptions{MaxPages: 5, IncludeImages: true})

		require.NoError(t, err)
		assert.True(t, gotImages)
		assert.Equal(t, "<urlset/>", sitemap.XML)
		assert.Equal(t, "https://example.com", sitemap.Seed)
		assert.Equal(t, "example.com", sitemap.Domain)
		assert.Equal(t, 1, sitemap.Count)
		assert.True(t, sitemap.IncludeImages)
		assert.Empty(t, sitemap.ID, "no archive configured")
	})

	t.Run("archives when a sitemap service is set", func(t *testing.T) {
		t.Parallel()

		g := &crawl.Generator{
			Crawler: stubCrawler(result, nil),
			Encoder: &mock.SitemapEncoder{
				EncodeFn: func([]sitemapper.SitemapEntry, bool) (string, error) { return "<urlset/>", nil },
			},
			Sitemaps: &mock.SitemapService{
				CreateSitemapFn: func(_ context.Context, s *sitemapper.Sitemap) error {
					s.ID = "sm-1"
					return nil
				},
			},
		}

		sitemap, err := g.Generate(context.Background(), "example.com", sitemapper.DefaultCrawlOptions())

		require.NoError(t, err)
		assert.Equal(t, "sm-1", sitemap.ID)
	})

	t.Run("returns crawl errors unchanged", func(t *testing.T) {
		t.Parallel()

		g := &crawl.Generator{
			Crawler: stubCrawler(nil, sitemapper.Errorf(sitemapper.EINVALID, "invalid seed URL")),
		}

		_, err := g.Generate(context.Background(), "ftp://x", sitemapper.DefaultCrawlOptions())

		require.Error(t, err)
		assert.Equal(t, sitemapper.EINVALID, sitemapper.ErrorCode(err))
	})

	t.Run("wraps encode errors", func(t *testing.T) {
		t.Parallel()

		g := &crawl.Generator{
			Crawler: stubCrawler(result, nil),
			Encoder: &mock.SitemapEncoder{
				EncodeFn: func([]sitemapper.SitemapEntry, bool) (string, error) { return "", errors.New("boom") },
			},
		}

		_, err := g.Generate(context.Background(), "example.com", sitemapper.DefaultCrawlOptions())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "encode sitemap")
		assert.Equal(t, sitemapper.EINTERNAL, sitemapper.ErrorCode(err))
	})

	t.Run("wraps archive errors", func(t *testing.T) {
		t.Parallel()

		g := &crawl.Generator{
			Crawler: stubCrawler(result, nil),
			Encoder: &mock.SitemapEncoder{
				EncodeFn: func([]sitemapper.SitemapEntry, bool) (string, error) { return "<urlset/>", nil },
			},
			Sitemaps: &mock.SitemapService{
				CreateSitemapFn: func(context.Context, *sitemapper.Sitemap) error { return errors.New("disk full") },
			},
		}

		_, err := g.Generate(context.Background(), "example.com", sitemapper.DefaultCrawlOptions())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "archive sitemap: disk full")
	})
}

func TestGenerator_GenerateFromURLs(t *testing.T) {
	t.Parallel()

	t.Run("delegates to encoder", func(t *testing.T) {
		t.Parallel()

		g := &crawl.Generator{
			Encoder: &mock.SitemapEncoder{
				EncodeURLsFn: func(urls []string) (string, error) {
					assert.Equal(t, []string{"https://a.com", "https://b.com"}, urls)
					return "<urlset/>", nil
				},
			},
		}

		xml, err := g.GenerateFromURLs([]string{"https://a.com", "https://b.com"})

		require.NoError(t, err)
		assert.Equal(t, "<urlset/>", xml)
	})

	t.Run("wraps encoder errors", func(t *testing.T) {
		t.Parallel()

		g := &crawl.Generator{
			Encoder: &mock.SitemapEncoder{
				EncodeURLsFn: func([]string) (string, error) { return "", errors.New("boom") },
			},
		}

		_, err := g.GenerateFromURLs(nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "encode sitemap: boom")
	})
}
