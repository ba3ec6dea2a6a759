// Package fs provides file-based output for generated sitemaps.
package fs

import (
	"os"
	"path/filepath"
)

// WriteSitemap writes xml to path, creating parent directories as needed.
// The document is written to path+".tmp" and renamed into place so readers
// never observe a partially written sitemap.
func WriteSitemap(path string, xml string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(xml), 0644); err != nil { //nolint:gosec // sitemaps are public documents
		return err
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}

	return nil
}
