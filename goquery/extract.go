// Package goquery implements link and image extraction using goquery.
package goquery

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/sitemapper"
)

// linkSelector matches every element that carries a navigable href.
const linkSelector = "a[href], area[href]"

// Ensure Extractor implements sitemapper.LinkExtractor.
var _ sitemapper.LinkExtractor = (*Extractor)(nil)

// Extractor pulls links and images out of HTML documents.
// The zero value is ready to use.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractLinks returns the raw href values of all anchor-like elements in
// document order. Values are de-duplicated but otherwise left as written;
// resolving and scoping them is the caller's job.
func (e *Extractor) ExtractLinks(html string, baseURL string) ([]string, error) {
	doc, err := parse(html)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var links []string
	doc.Find(linkSelector).Each(func(_ int, sel *goquery.Selection) {
		href, exists := sel.Attr("href")
		if !exists || strings.TrimSpace(href) == "" {
			return
		}
		if _, ok := seen[href]; ok {
			return
		}
		seen[href] = struct{}{}
		links = append(links, href)
	})

	return links, nil
}

// ExtractImages returns every img element with a src, resolved against
// baseURL and paired with its alt text. Images on other hosts are kept.
// Sources that do not resolve to http or https (data: URIs, for instance)
// are skipped because they cannot appear in a sitemap.
func (e *Extractor) ExtractImages(html string, baseURL string) ([]sitemapper.ImageRef, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	doc, err := parse(html)
	if err != nil {
		return nil, err
	}

	var images []sitemapper.ImageRef
	doc.Find("img[src]").Each(func(_ int, sel *goquery.Selection) {
		src := strings.TrimSpace(sel.AttrOr("src", ""))
		if src == "" {
			return
		}
		loc := resolveURL(base, src)
		if loc == "" {
			return
		}
		images = append(images, sitemapper.ImageRef{
			Loc:   loc,
			Title: strings.TrimSpace(sel.AttrOr("alt", "")),
		})
	})

	return images, nil
}

func parse(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// resolveURL resolves ref against base. Returns empty string if ref cannot
// be parsed or does not resolve to an http(s) URL.
func resolveURL(base *url.URL, ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(u)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	return resolved.String()
}
