// Package sitemapper crawls a single website breadth-first from a seed URL
// and produces a sitemaps.org XML sitemap, optionally annotated with the
// images found on each page.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, etree/, sqlite/).
package sitemapper
