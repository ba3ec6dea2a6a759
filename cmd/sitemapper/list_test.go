package main_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/sitemapper"
	main "github.com/fwojciec/sitemapper/cmd/sitemapper"
	"github.com/fwojciec/sitemapper/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists sitemaps with ID, domain, count and seed", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := newDeps(stdout, stderr)
		deps.Sitemaps = &mock.SitemapService{
			FindSitemapsFn: func(context.Context, sitemapper.SitemapFilter) ([]*sitemapper.Sitemap, error) {
				return []*sitemapper.Sitemap{
					{ID: "sm-1", Seed: "https://example.com", Domain: "example.com", Count: 12, CreatedAt: time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)},
					{ID: "sm-2", Seed: "https://go.dev/doc", Domain: "go.dev", Count: 50, CreatedAt: time.Date(2025, 1, 16, 11, 0, 0, 0, time.UTC)},
				}, nil
			},
		}

		err := (&main.ListCmd{Limit: 20}).Run(deps)

		require.NoError(t, err)
		output := stdout.String()
		assert.Contains(t, output, "sm-1  example.com  12 pages")
		assert.Contains(t, output, "sm-2  go.dev  50 pages")
		assert.Contains(t, output, "https://go.dev/doc")
	})

	t.Run("passes domain and limit filter", func(t *testing.T) {
		t.Parallel()

		var got sitemapper.SitemapFilter
		deps := newDeps(&bytes.Buffer{}, &bytes.Buffer{})
		deps.Sitemaps = &mock.SitemapService{
			FindSitemapsFn: func(_ context.Context, filter sitemapper.SitemapFilter) ([]*sitemapper.Sitemap, error) {
				got = filter
				return nil, nil
			},
		}

		require.NoError(t, (&main.ListCmd{Domain: " example.com ", Limit: 5}).Run(deps))

		require.NotNil(t, got.Domain)
		assert.Equal(t, "example.com", *got.Domain)
		assert.Equal(t, 5, got.Limit)
	})

	t.Run("shows helpful message when archive is empty", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := newDeps(stdout, &bytes.Buffer{})
		deps.Sitemaps = &mock.SitemapService{
			FindSitemapsFn: func(context.Context, sitemapper.SitemapFilter) ([]*sitemapper.Sitemap, error) {
				return []*sitemapper.Sitemap{}, nil
			},
		}

		require.NoError(t, (&main.ListCmd{}).Run(deps))
		assert.Contains(t, stdout.String(), "No sitemaps found")
	})

	t.Run("returns error when FindSitemaps fails", func(t *testing.T) {
		t.Parallel()

		dbErr := errors.New("database connection failed")
		stderr := &bytes.Buffer{}
		deps := newDeps(&bytes.Buffer{}, stderr)
		deps.Sitemaps = &mock.SitemapService{
			FindSitemapsFn: func(context.Context, sitemapper.SitemapFilter) ([]*sitemapper.Sitemap, error) {
				return nil, dbErr
			},
		}

		err := (&main.ListCmd{}).Run(deps)

		require.ErrorIs(t, err, dbErr)
		assert.Contains(t, stderr.String(), "error:")
	})
}
