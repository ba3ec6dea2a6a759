package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/sitemapper"
	"github.com/fwojciec/sitemapper/fs"
)

// Run executes the generate command.
func (c *GenerateCmd) Run(deps *Dependencies) error {
	opts := sitemapper.CrawlOptions{
		MaxPages:      deps.Config.MaxPages,
		IncludeImages: c.Images,
	}
	if c.MaxPages > 0 {
		opts.MaxPages = c.MaxPages
	}

	sitemap, err := deps.Generator.Generate(deps.Ctx, c.URL, opts)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitemapper.ErrorMessage(err))
		return err
	}

	xml := sitemap.XML
	if !strings.HasSuffix(xml, "\n") {
		xml += "\n"
	}

	if c.Output != "" {
		if err := fs.WriteSitemap(c.Output, xml); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %v\n", err)
			return err
		}
	} else {
		fmt.Fprint(deps.Stdout, xml)
	}

	fmt.Fprintf(deps.Stderr, "Generated sitemap for %s with %d pages", sitemap.Domain, sitemap.Count)
	if sitemap.ID != "" {
		fmt.Fprintf(deps.Stderr, " (saved as %s)", sitemap.ID)
	}
	if c.Output != "" {
		fmt.Fprintf(deps.Stderr, " to %s", c.Output)
	}
	fmt.Fprintln(deps.Stderr)
	return nil
}
