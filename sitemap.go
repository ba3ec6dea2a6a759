package sitemapper

import (
	"context"
	"time"
)

// Sitemap protocol namespaces.
const (
	SitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"
	ImageNamespace   = "http://www.google.com/schemas/sitemap-image/1.1"
)

// DefaultMaxPages is the page limit used when a request does not specify one.
const DefaultMaxPages = 50

// ImageRef is an image referenced by a crawled page.
type ImageRef struct {
	Loc   string `json:"loc"`
	Title string `json:"title,omitempty"`
}

// SitemapEntry is one successfully fetched page.
type SitemapEntry struct {
	Loc     string     `json:"loc"`
	LastMod time.Time  `json:"lastmod"`
	Images  []ImageRef `json:"images,omitempty"`
}

// CrawlResult is the outcome of a single crawl.
// Entries are in the order their pages were fetched.
type CrawlResult struct {
	Seed    string         `json:"seed"`
	Entries []SitemapEntry `json:"entries"`
	Domain  string         `json:"domain"`
	Count   int            `json:"count"`

	// Discovered is the number of distinct same-domain URLs queued,
	// including those never fetched because of the page limit.
	Discovered int `json:"discovered"`
}

// CrawlOptions controls a single crawl.
type CrawlOptions struct {
	// MaxPages caps the number of entries. Values <= 0 produce an empty result.
	MaxPages int

	// IncludeImages attaches page images to each entry.
	IncludeImages bool
}

// DefaultCrawlOptions returns the options used when none are supplied.
func DefaultCrawlOptions() CrawlOptions {
	return CrawlOptions{MaxPages: DefaultMaxPages}
}

// Sitemap is a generated sitemap document kept in the archive.
type Sitemap struct {
	ID            string    `json:"id"`
	Seed          string    `json:"seed"`
	Domain        string    `json:"domain"`
	Count         int       `json:"count"`
	IncludeImages bool      `json:"includeImages"`
	XML           string    `json:"xml,omitempty"`
	ContentHash   string    `json:"contentHash"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Validate returns an error if the sitemap contains invalid fields.
func (s *Sitemap) Validate() error {
	if s.Seed == "" {
		return Errorf(EINVALID, "sitemap seed URL required")
	}
	if s.Domain == "" {
		return Errorf(EINVALID, "sitemap domain required")
	}
	if s.XML == "" {
		return Errorf(EINVALID, "sitemap XML required")
	}
	return nil
}

// SitemapService represents a service for managing archived sitemaps.
type SitemapService interface {
	// CreateSitemap stores a new sitemap and assigns its ID, hash and timestamp.
	CreateSitemap(ctx context.Context, sitemap *Sitemap) error

	// FindSitemapByID retrieves a sitemap including its XML.
	// Returns ENOTFOUND if the sitemap does not exist.
	FindSitemapByID(ctx context.Context, id string) (*Sitemap, error)

	// FindSitemaps retrieves sitemaps matching the filter, newest first.
	// The XML body is not loaded.
	FindSitemaps(ctx context.Context, filter SitemapFilter) ([]*Sitemap, error)

	// DeleteSitemap permanently removes a sitemap.
	// Returns ENOTFOUND if the sitemap does not exist.
	DeleteSitemap(ctx context.Context, id string) error
}

// SitemapFilter represents a filter for FindSitemaps.
type SitemapFilter struct {
	Domain *string `json:"domain"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// SitemapEncoder serializes crawl output as sitemap XML.
type SitemapEncoder interface {
	// Encode renders entries as an indented urlset. Image elements and the
	// image namespace are only emitted when includeImages is true.
	Encode(entries []SitemapEntry, includeImages bool) (string, error)

	// EncodeURLs renders a bare urlset containing only loc elements.
	EncodeURLs(urls []string) (string, error)
}
