package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sitemapper"
)

// Ensure LoggingSitemapService implements sitemapper.SitemapService.
var _ sitemapper.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService wraps a SitemapService with debug logging.
type LoggingSitemapService struct {
	next   sitemapper.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a new LoggingSitemapService.
func NewLoggingSitemapService(next sitemapper.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// CreateSitemap delegates to the wrapped service and logs the stored ID.
func (s *LoggingSitemapService) CreateSitemap(ctx context.Context, sitemap *sitemapper.Sitemap) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("archive sitemap",
			"id", sitemap.ID,
			"domain", sitemap.Domain,
			"count", sitemap.Count,
			"bytes", len(sitemap.XML),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateSitemap(ctx, sitemap)
}

// FindSitemapByID delegates to the wrapped service.
func (s *LoggingSitemapService) FindSitemapByID(ctx context.Context, id string) (sitemap *sitemapper.Sitemap, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find sitemap",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindSitemapByID(ctx, id)
}

// FindSitemaps delegates to the wrapped service.
func (s *LoggingSitemapService) FindSitemaps(ctx context.Context, filter sitemapper.SitemapFilter) (sitemaps []*sitemapper.Sitemap, err error) {
	defer func(begin time.Time) {
		var domain string
		if filter.Domain != nil {
			domain = *filter.Domain
		}
		s.logger.Debug("find sitemaps",
			"domain", domain,
			"count", len(sitemaps),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindSitemaps(ctx, filter)
}

// DeleteSitemap delegates to the wrapped service and logs the deletion.
func (s *LoggingSitemapService) DeleteSitemap(ctx context.Context, id string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("delete sitemap",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DeleteSitemap(ctx, id)
}
