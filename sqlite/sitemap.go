package sqlite

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/sitemapper"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ sitemapper.SitemapService = (*SitemapService)(nil)

// SitemapService implements sitemapper.SitemapService using SQLite.
type SitemapService struct {
	db *DB
}

// NewSitemapService creates a new SitemapService.
func NewSitemapService(db *DB) *SitemapService {
	return &SitemapService{db: db}
}

// hashContent computes xxHash of content and returns hex string.
func hashContent(content string) string {
	h := xxhash.Sum64String(content)
	b := make([]byte, 8)
	b[0] = byte(h >> 56)
	b[1] = byte(h >> 48)
	b[2] = byte(h >> 40)
	b[3] = byte(h >> 32)
	b[4] = byte(h >> 24)
	b[5] = byte(h >> 16)
	b[6] = byte(h >> 8)
	b[7] = byte(h)
	return hex.EncodeToString(b)
}

// CreateSitemap stores a new sitemap.
func (s *SitemapService) CreateSitemap(ctx context.Context, sitemap *sitemapper.Sitemap) error {
	if err := sitemap.Validate(); err != nil {
		return err
	}

	sitemap.ID = uuid.New().String()
	sitemap.CreatedAt = time.Now().UTC()
	sitemap.ContentHash = hashContent(sitemap.XML)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sitemaps (id, seed, domain, page_count, include_images, xml, content_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, sitemap.ID, sitemap.Seed, sitemap.Domain, sitemap.Count, sitemap.IncludeImages,
		sitemap.XML, sitemap.ContentHash, sitemap.CreatedAt.Format(timestampFormat))

	return err
}

// FindSitemapByID retrieves a sitemap by ID.
func (s *SitemapService) FindSitemapByID(ctx context.Context, id string) (*sitemapper.Sitemap, error) {
	var sitemap sitemapper.Sitemap
	var createdAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, seed, domain, page_count, include_images, xml, content_hash, created_at
		FROM sitemaps
		WHERE id = ?
	`, id).Scan(&sitemap.ID, &sitemap.Seed, &sitemap.Domain, &sitemap.Count, &sitemap.IncludeImages,
		&sitemap.XML, &sitemap.ContentHash, &createdAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, sitemapper.Errorf(sitemapper.ENOTFOUND, "sitemap not found")
	}
	if err != nil {
		return nil, err
	}

	if sitemap.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}

	return &sitemap, nil
}

// FindSitemaps retrieves sitemap metadata matching the filter, newest first.
func (s *SitemapService) FindSitemaps(ctx context.Context, filter sitemapper.SitemapFilter) ([]*sitemapper.Sitemap, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, seed, domain, page_count, include_images, content_hash, created_at FROM sitemaps WHERE 1=1")

	if filter.Domain != nil {
		query.WriteString(" AND domain = ?")
		args = append(args, strings.ToLower(*filter.Domain))
	}

	query.WriteString(" ORDER BY created_at DESC, rowid DESC")

	if filter.Offset > 0 && filter.Limit <= 0 {
		// SQLite requires a LIMIT before OFFSET.
		query.WriteString(" LIMIT -1")
	}
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sitemaps []*sitemapper.Sitemap
	for rows.Next() {
		var sitemap sitemapper.Sitemap
		var createdAt string

		if err := rows.Scan(&sitemap.ID, &sitemap.Seed, &sitemap.Domain, &sitemap.Count,
			&sitemap.IncludeImages, &sitemap.ContentHash, &createdAt); err != nil {
			return nil, err
		}

		if sitemap.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}

		sitemaps = append(sitemaps, &sitemap)
	}

	return sitemaps, rows.Err()
}

// DeleteSitemap permanently removes a sitemap.
func (s *SitemapService) DeleteSitemap(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM sitemaps WHERE id = ?", id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sitemapper.Errorf(sitemapper.ENOTFOUND, "sitemap not found")
	}

	return nil
}
