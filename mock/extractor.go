package mock

import "github.com/fwojciec/sitemapper"

var _ sitemapper.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of sitemapper.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn  func(html string, baseURL string) ([]string, error)
	ExtractImagesFn func(html string, baseURL string) ([]sitemapper.ImageRef, error)
}

func (e *LinkExtractor) ExtractLinks(html string, baseURL string) ([]string, error) {
	return e.ExtractLinksFn(html, baseURL)
}

func (e *LinkExtractor) ExtractImages(html string, baseURL string) ([]sitemapper.ImageRef, error) {
	return e.ExtractImagesFn(html, baseURL)
}
