package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/fwojciec/sitemapper"
)

// Client-facing messages for malformed generate requests.
const (
	msgMissingURL  = "Please enter a valid URL"
	msgInvalidURLs = "Invalid input. Please provide an array of URLs."
	msgRateLimited = "Too many requests, please try again later."
)

// maxRequestBody caps the size of JSON request bodies (1 MiB).
const maxRequestBody = 1 << 20

// generateRequest is the body of POST /generate. MaxPages and IncludeImages
// are kept raw because clients send them as numbers, strings or booleans.
type generateRequest struct {
	URL           string          `json:"url"`
	MaxPages      json.RawMessage `json:"maxPages"`
	IncludeImages json.RawMessage `json:"includeImages"`
}

// Options converts the loosely typed request fields into crawl options.
func (req *generateRequest) Options() sitemapper.CrawlOptions {
	opts := sitemapper.DefaultCrawlOptions()
	if n, ok := parseMaxPages(req.MaxPages); ok {
		opts.MaxPages = n
	}
	opts.IncludeImages = parseIncludeImages(req.IncludeImages)
	return opts
}

type generateResponse struct {
	XML    string `json:"xml"`
	Count  int    `json:"count"`
	Domain string `json:"domain"`
	ID     string `json:"id,omitempty"`
}

// handleGenerate handles "POST /generate".
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if s.Limiter != nil && !s.Limiter.Allow() {
		s.Error(w, r, sitemapper.Errorf(sitemapper.ETOOMANY, msgRateLimited))
		return
	}

	req, err := decodeGenerateRequest(w, r)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		s.Error(w, r, sitemapper.Errorf(sitemapper.EINVALID, msgMissingURL))
		return
	}

	sitemap, err := s.Generator.Generate(r.Context(), req.URL, req.Options())
	if err != nil {
		s.Error(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, generateResponse{
		XML:    sitemap.XML,
		Count:  sitemap.Count,
		Domain: sitemap.Domain,
		ID:     sitemap.ID,
	})
}

// handleGenerateFromURLs handles "POST /generate-sitemap".
func (s *Server) handleGenerateFromURLs(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URLs *[]string `json:"urls"`
	}
	if err := decodeJSON(r, &req); err != nil || req.URLs == nil {
		s.Error(w, r, sitemapper.Errorf(sitemapper.EINVALID, msgInvalidURLs))
		return
	}

	xml, err := s.Generator.GenerateFromURLs(*req.URLs)
	if err != nil {
		s.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, xml)
}

// decodeGenerateRequest reads a JSON body, or a form body as posted by an
// HTML form.
func decodeGenerateRequest(w http.ResponseWriter, r *http.Request) (*generateRequest, error) {
	var req generateRequest
	if !isForm(r) {
		if err := decodeJSON(r, &req); err != nil {
			return nil, sitemapper.Errorf(sitemapper.EINVALID, "Invalid JSON body")
		}
		return &req, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := r.ParseForm(); err != nil {
		return nil, sitemapper.Errorf(sitemapper.EINVALID, "Invalid form body")
	}
	req.URL = r.PostForm.Get("url")
	req.MaxPages = formValue(r, "maxPages")
	req.IncludeImages = formValue(r, "includeImages")
	return &req, nil
}

func isForm(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/x-www-form-urlencoded"
}

// formValue returns a posted form field as a JSON string so it goes through
// the same coercion as JSON bodies. A missing field yields nil.
func formValue(r *http.Request, key string) json.RawMessage {
	values, ok := r.PostForm[key]
	if !ok || len(values) == 0 {
		return nil
	}
	raw, _ := json.Marshal(values[0])
	return raw
}

// decodeJSON decodes the request body into v. An empty body leaves v
// untouched and is not an error.
func decodeJSON(r *http.Request, v any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// parseMaxPages accepts a JSON number or a numeric string. The bool result
// is false for anything else, including an absent field or a number outside
// the int range. Numeric values are otherwise passed through unchanged, so
// zero or negative limits produce an empty sitemap.
func parseMaxPages(raw json.RawMessage) (int, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0, false
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if i, err := n.Int64(); err == nil {
			if i < math.MinInt || i > math.MaxInt {
				return 0, false
			}
			return int(i), true
		}
		if f, err := n.Float64(); err == nil && f > math.MinInt && f < math.MaxInt {
			return int(f), true
		}
		return 0, false
	}

	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		if i, err := strconv.Atoi(strings.TrimSpace(str)); err == nil {
			return i, true
		}
	}
	return 0, false
}

// parseIncludeImages accepts the HTML checkbox value "on" or JSON true.
func parseIncludeImages(raw json.RawMessage) bool {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str == "on"
	}
	return false
}
