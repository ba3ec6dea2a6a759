package sitemapper

// LinkExtractor queries parsed page content for links and images.
type LinkExtractor interface {
	// ExtractLinks returns the raw href values of anchor-like elements
	// in document order, without duplicates. No filtering or resolution
	// is applied; that is the caller's job.
	ExtractLinks(html string, baseURL string) ([]string, error)

	// ExtractImages returns every image with a src, resolved to an
	// absolute URL against baseURL, paired with its alt text.
	ExtractImages(html string, baseURL string) ([]ImageRef, error)
}
