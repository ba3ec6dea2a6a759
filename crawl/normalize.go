package crawl

import (
	"net/url"
	"strings"

	"github.com/fwojciec/sitemapper"
)

// Normalizer turns discovered hrefs into crawl targets on a single host.
// The host is fixed when the Normalizer is created.
type Normalizer struct {
	domain string
}

// NewNormalizer creates a Normalizer that only accepts URLs whose hostname
// equals domain. Comparison is case-insensitive.
func NewNormalizer(domain string) *Normalizer {
	return &Normalizer{domain: strings.ToLower(domain)}
}

// Domain returns the host the Normalizer is scoped to.
func (n *Normalizer) Domain() string {
	return n.domain
}

// Normalize resolves candidate against base and returns the canonical
// crawl target. The bool result is false when candidate is not a crawlable
// page on the Normalizer's domain. Malformed links are dropped silently.
//
// Resolution rules:
//   - "/path" resolves against the origin of base
//   - "http://..." and "https://..." are used as-is
//   - anything else without a scheme is appended to base with a "/" separator
func (n *Normalizer) Normalize(base, candidate string) (string, bool) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" || isNonPageLink(candidate) {
		return "", false
	}

	var raw string
	switch {
	case strings.HasPrefix(candidate, "/"):
		b, err := url.Parse(base)
		if err != nil {
			return "", false
		}
		ref, err := url.Parse(candidate)
		if err != nil {
			return "", false
		}
		raw = b.ResolveReference(ref).String()
	case hasHTTPScheme(candidate):
		raw = candidate
	default:
		ref, err := url.Parse(candidate)
		if err != nil || ref.Scheme != "" {
			return "", false
		}
		raw = strings.TrimSuffix(base, "/") + "/" + candidate
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	if !isHTTP(u) {
		return "", false
	}
	if !strings.EqualFold(u.Hostname(), n.domain) {
		return "", false
	}
	return canonical(u), true
}

// Canonicalize turns a user-supplied seed into a crawl target.
// A missing scheme defaults to https and one trailing slash is removed.
// Returns EINVALID if the seed cannot be crawled.
func Canonicalize(seed string) (string, error) {
	s := strings.TrimSpace(seed)
	if s == "" {
		return "", sitemapper.Errorf(sitemapper.EINVALID, "seed URL required")
	}
	if !hasHTTPScheme(s) {
		if strings.Contains(s, "://") {
			return "", sitemapper.Errorf(sitemapper.EINVALID, "unsupported seed URL scheme: %q", seed)
		}
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil || !isHTTP(u) {
		return "", sitemapper.Errorf(sitemapper.EINVALID, "invalid seed URL: %q", seed)
	}
	return canonical(u), nil
}

// Hostname returns the lower-cased hostname of a crawl target.
func Hostname(target string) string {
	u, err := url.Parse(target)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// canonical lower-cases the scheme and host, then strips the fragment and
// a single trailing slash.
func canonical(u *url.URL) string {
	c := *u
	c.Scheme = strings.ToLower(c.Scheme)
	c.Host = strings.ToLower(c.Host)
	c.Fragment = ""
	c.RawFragment = ""
	c.Path = strings.TrimSuffix(c.Path, "/")
	c.RawPath = strings.TrimSuffix(c.RawPath, "/")
	return c.String()
}

func isHTTP(u *url.URL) bool {
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && u.Hostname() != ""
}

func hasHTTPScheme(s string) bool {
	s = strings.ToLower(s)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// isNonPageLink reports hrefs that never point at a crawlable page.
func isNonPageLink(href string) bool {
	href = strings.ToLower(href)
	return strings.HasPrefix(href, "#") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "data:")
}
