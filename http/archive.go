package http

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/sitemapper"
	"github.com/go-chi/chi/v5"
)

// Paging limits for GET /sitemaps.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// handleListSitemaps handles "GET /sitemaps".
func (s *Server) handleListSitemaps(w http.ResponseWriter, r *http.Request) {
	filter, err := parseSitemapFilter(r)
	if err != nil {
		s.Error(w, r, err)
		return
	}

	sitemaps, err := s.Sitemaps.FindSitemaps(r.Context(), filter)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	if sitemaps == nil {
		sitemaps = []*sitemapper.Sitemap{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"sitemaps": sitemaps})
}

// handleGetSitemap handles "GET /sitemaps/{id}". The response carries an
// ETag derived from the document so clients can revalidate cheaply.
func (s *Server) handleGetSitemap(w http.ResponseWriter, r *http.Request) {
	sitemap, err := s.Sitemaps.FindSitemapByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.Error(w, r, err)
		return
	}

	tag := etag(sitemap)
	w.Header().Set("ETag", tag)
	if match := r.Header.Get("If-None-Match"); match != "" && etagMatches(match, tag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, sitemap.XML)
}

// handleDeleteSitemap handles "DELETE /sitemaps/{id}".
func (s *Server) handleDeleteSitemap(w http.ResponseWriter, r *http.Request) {
	if err := s.Sitemaps.DeleteSitemap(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseSitemapFilter(r *http.Request) (sitemapper.SitemapFilter, error) {
	q := r.URL.Query()
	filter := sitemapper.SitemapFilter{Limit: DefaultListLimit}

	if domain := strings.TrimSpace(q.Get("domain")); domain != "" {
		domain = strings.ToLower(domain)
		filter.Domain = &domain
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return filter, sitemapper.Errorf(sitemapper.EINVALID, "limit must be a positive integer")
		}
		filter.Limit = min(n, MaxListLimit)
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return filter, sitemapper.Errorf(sitemapper.EINVALID, "offset must be a non-negative integer")
		}
		filter.Offset = n
	}
	return filter, nil
}

// etag returns the quoted entity tag for a sitemap, preferring the stored
// content hash.
func etag(s *sitemapper.Sitemap) string {
	hash := s.ContentHash
	if hash == "" {
		hash = strconv.FormatUint(xxhash.Sum64String(s.XML), 16)
	}
	return `"` + hash + `"`
}

// etagMatches reports whether an If-None-Match header matches tag.
func etagMatches(header, tag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		candidate = strings.TrimPrefix(candidate, "W/")
		if candidate == "*" || candidate == tag {
			return true
		}
	}
	return false
}
