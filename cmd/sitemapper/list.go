package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/sitemapper"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	filter := sitemapper.SitemapFilter{Limit: c.Limit}
	if domain := strings.TrimSpace(c.Domain); domain != "" {
		filter.Domain = &domain
	}

	sitemaps, err := deps.Sitemaps.FindSitemaps(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitemapper.ErrorMessage(err))
		return err
	}

	if len(sitemaps) == 0 {
		fmt.Fprintln(deps.Stdout, "No sitemaps found. Use 'sitemapper generate --save' to create one.")
		return nil
	}

	for _, s := range sitemaps {
		fmt.Fprintf(deps.Stdout, "%s  %s  %d pages  %s  %s\n",
			s.ID, s.Domain, s.Count, s.CreatedAt.Local().Format(time.DateTime), s.Seed)
	}

	return nil
}
