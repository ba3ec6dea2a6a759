package mock

import (
	"context"

	"github.com/fwojciec/sitemapper"
)

var _ sitemapper.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of sitemapper.SitemapService.
type SitemapService struct {
	CreateSitemapFn   func(ctx context.Context, sitemap *sitemapper.Sitemap) error
	FindSitemapByIDFn func(ctx context.Context, id string) (*sitemapper.Sitemap, error)
	FindSitemapsFn    func(ctx context.Context, filter sitemapper.SitemapFilter) ([]*sitemapper.Sitemap, error)
	DeleteSitemapFn   func(ctx context.Context, id string) error
}

func (s *SitemapService) CreateSitemap(ctx context.Context, sitemap *sitemapper.Sitemap) error {
	return s.CreateSitemapFn(ctx, sitemap)
}

func (s *SitemapService) FindSitemapByID(ctx context.Context, id string) (*sitemapper.Sitemap, error) {
	return s.FindSitemapByIDFn(ctx, id)
}

func (s *SitemapService) FindSitemaps(ctx context.Context, filter sitemapper.SitemapFilter) ([]*sitemapper.Sitemap, error) {
	return s.FindSitemapsFn(ctx, filter)
}

func (s *SitemapService) DeleteSitemap(ctx context.Context, id string) error {
	return s.DeleteSitemapFn(ctx, id)
}

var _ sitemapper.SitemapEncoder = (*SitemapEncoder)(nil)

// SitemapEncoder is a mock implementation of sitemapper.SitemapEncoder.
type SitemapEncoder struct {
	EncodeFn     func(entries []sitemapper.SitemapEntry, includeImages bool) (string, error)
	EncodeURLsFn func(urls []string) (string, error)
}

func (e *SitemapEncoder) Encode(entries []sitemapper.SitemapEntry, includeImages bool) (string, error) {
	return e.EncodeFn(entries, includeImages)
}

func (e *SitemapEncoder) EncodeURLs(urls []string) (string, error) {
	return e.EncodeURLsFn(urls)
}
