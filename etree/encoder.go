// Package etree implements sitemap XML encoding using beevik/etree.
package etree

import (
	"fmt"
	"time"

	"github.com/beevik/etree"
	"github.com/fwojciec/sitemapper"
)

// Fixed per-URL hints written for every entry.
const (
	ChangeFreq = "monthly"
	Priority   = "0.8"
)

const prolog = `version="1.0" encoding="UTF-8"`

// Ensure Encoder implements sitemapper.SitemapEncoder.
var _ sitemapper.SitemapEncoder = (*Encoder)(nil)

// Encoder renders sitemaps.org urlset documents.
type Encoder struct {
	// Indent is the number of spaces per nesting level used by Encode.
	// Defaults to 2.
	Indent int
}

// NewEncoder creates an Encoder with two-space indentation.
func NewEncoder() *Encoder {
	return &Encoder{Indent: 2}
}

// Encode renders entries in order. The image namespace and image:image
// elements are written only when includeImages is true.
func (e *Encoder) Encode(entries []sitemapper.SitemapEntry, includeImages bool) (string, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", prolog)

	urlset := doc.CreateElement("urlset")
	urlset.CreateAttr("xmlns", sitemapper.SitemapNamespace)
	if includeImages {
		urlset.CreateAttr("xmlns:image", sitemapper.ImageNamespace)
	}

	for _, entry := range entries {
		u := urlset.CreateElement("url")
		u.CreateElement("loc").SetText(entry.Loc)
		u.CreateElement("lastmod").SetText(entry.LastMod.Format(time.DateOnly))
		u.CreateElement("changefreq").SetText(ChangeFreq)
		u.CreateElement("priority").SetText(Priority)

		if !includeImages {
			continue
		}
		for _, img := range entry.Images {
			image := u.CreateElement("image:image")
			image.CreateElement("image:loc").SetText(img.Loc)
			if img.Title != "" {
				image.CreateElement("image:title").SetText(img.Title)
			}
		}
	}

	indent := e.Indent
	if indent <= 0 {
		indent = 2
	}
	doc.Indent(indent)

	out, err := doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("writing sitemap XML: %w", err)
	}
	return out, nil
}

// EncodeURLs renders a compact urlset with one loc element per URL.
// URLs are written as given, without normalization or lastmod.
func (e *Encoder) EncodeURLs(urls []string) (string, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", prolog)
	doc.CreateCharData("\n")

	urlset := doc.CreateElement("urlset")
	urlset.CreateAttr("xmlns", sitemapper.SitemapNamespace)
	for _, loc := range urls {
		urlset.CreateElement("url").CreateElement("loc").SetText(loc)
	}

	out, err := doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("writing sitemap XML: %w", err)
	}
	return out, nil
}
