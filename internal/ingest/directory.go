// Package ingest locates source PDFs and resolves on-disk identities.
package ingest

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// ListPDFs returns the PDF files under root, sorted. With recursive it
// walks subdirectories; hidden files and directories (dot-prefixed)
// are skipped when skipHidden is set. Unreadable entries are skipped,
// not fatal.
func ListPDFs(root string, recursive, skipHidden bool) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil // continue walking
		}
		if skipHidden && isHidden(path) && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if !recursive && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".pdf") {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

func isHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".")
}
