package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/sitemapper"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	sitemap, err := deps.Sitemaps.FindSitemapByID(deps.Ctx, c.ID)
	if err != nil {
		if sitemapper.ErrorCode(err) == sitemapper.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: sitemap %q not found. Use 'sitemapper list' to see archived sitemaps.\n", c.ID)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", sitemapper.ErrorMessage(err))
		}
		return err
	}

	fmt.Fprint(deps.Stdout, sitemap.XML)
	if !strings.HasSuffix(sitemap.XML, "\n") {
		fmt.Fprintln(deps.Stdout)
	}
	return nil
}
