package main

import (
	"fmt"

	"github.com/fwojciec/sitemapper"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if err := deps.Sitemaps.DeleteSitemap(deps.Ctx, c.ID); err != nil {
		if sitemapper.ErrorCode(err) == sitemapper.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: sitemap %q not found. Use 'sitemapper list' to see archived sitemaps.\n", c.ID)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", sitemapper.ErrorMessage(err))
		}
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted sitemap %s\n", c.ID)
	return nil
}
