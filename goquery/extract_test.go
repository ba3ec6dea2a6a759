package goquery_test

import (
	"testing"

	"github.com/fwojciec/sitemapper"
	"github.com/fwojciec/sitemapper/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_ExtractLinks(t *testing.T) {
	t.Parallel()

	t.Run("returns raw hrefs in document order", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<body>
<nav>
	<a href="/about">About</a>
	<a href="https://example.com/contact">Contact</a>
</nav>
<main>
	<a href="https://other.com/x">Elsewhere</a>
	<a href="guide#install">Guide</a>
	<a href="mailto:team@example.com">Mail</a>
</main>
</body>
</html>`

		links, err := goquery.NewExtractor().ExtractLinks(html, "https://example.com")

		require.NoError(t, err)
		assert.Equal(t, []string{
			"/about",
			"https://example.com/contact",
			"https://other.com/x",
			"guide#install",
			"mailto:team@example.com",
		}, links)
	})

	t.Run("includes image map areas", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<map name="m"><area shape="rect" coords="0,0,10,10" href="/area-target"></map>
<a href="/after">After</a>
</body></html>`

		links, err := goquery.NewExtractor().ExtractLinks(html, "https://example.com")

		require.NoError(t, err)
		assert.Equal(t, []string{"/area-target", "/after"}, links)
	})

	t.Run("deduplicates identical hrefs", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<a href="/docs">Docs</a>
<footer><a href="/docs">Docs again</a><a href="/blog">Blog</a></footer>
</body></html>`

		links, err := goquery.NewExtractor().ExtractLinks(html, "https://example.com")

		require.NoError(t, err)
		assert.Equal(t, []string{"/docs", "/blog"}, links)
	})

	t.Run("skips anchors without href", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><a name="top">Top</a><a href="">Empty</a><a href="  ">Blank</a></body></html>`

		links, err := goquery.NewExtractor().ExtractLinks(html, "https://example.com")

		require.NoError(t, err)
		assert.Empty(t, links)
	})

	t.Run("tolerates malformed html", func(t *testing.T) {
		t.Parallel()

		html := `<div><a href="/one">One<div><a href="/two">Two`

		links, err := goquery.NewExtractor().ExtractLinks(html, "https://example.com")

		require.NoError(t, err)
		assert.Equal(t, []string{"/one", "/two"}, links)
	})
}

func TestExtractor_ExtractImages(t *testing.T) {
	t.Parallel()

	t.Run("resolves sources and pairs alt text", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<img src="/img/logo.png" alt="Company logo">
<img src="https://cdn.other.com/hero.jpg" alt=" Hero ">
<img src="thumb.gif">
</body></html>`

		images, err := goquery.NewExtractor().ExtractImages(html, "https://example.com/blog/")

		require.NoError(t, err)
		assert.Equal(t, []sitemapper.ImageRef{
			{Loc: "https://example.com/img/logo.png", Title: "Company logo"},
			{Loc: "https://cdn.other.com/hero.jpg", Title: "Hero"},
			{Loc: "https://example.com/blog/thumb.gif", Title: ""},
		}, images)
	})

	t.Run("keeps duplicate images in order", func(t *testing.T) {
		t.Parallel()

		html := `<img src="/a.png"><img src="/b.png"><img src="/a.png">`

		images, err := goquery.NewExtractor().ExtractImages(html, "https://example.com")

		require.NoError(t, err)
		require.Len(t, images, 3)
		assert.Equal(t, "https://example.com/a.png", images[0].Loc)
		assert.Equal(t, "https://example.com/b.png", images[1].Loc)
		assert.Equal(t, "https://example.com/a.png", images[2].Loc)
	})

	t.Run("skips non http sources", func(t *testing.T) {
		t.Parallel()

		html := `<img src="data:image/png;base64,iVBORw0KGgo="><img><img src=""><img src="/ok.png">`

		images, err := goquery.NewExtractor().ExtractImages(html, "https://example.com")

		require.NoError(t, err)
		assert.Equal(t, []sitemapper.ImageRef{{Loc: "https://example.com/ok.png"}}, images)
	})

	t.Run("returns nil when page has no images", func(t *testing.T) {
		t.Parallel()

		images, err := goquery.NewExtractor().ExtractImages(`<p>text only</p>`, "https://example.com")

		require.NoError(t, err)
		assert.Empty(t, images)
	})

	t.Run("unparsable base URL is an internal error", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.NewExtractor().ExtractImages(`<img src="/a.png">`, "http://[::1")

		require.Error(t, err)
		assert.Equal(t, sitemapper.EINTERNAL, sitemapper.ErrorCode(err))
	})
}
