// Package archive gives access to stylesheets packed into zip bundles.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"strings"
)

// WalkFunc is the type of the function called for each file in archive
// visited by Walk. The archive argument contains path to archive passed to Walk
// The file argument is the zip.File structure for file in archive which satisfies
// match condition. If an error is returned, processing stops.
type WalkFunc func(archive string, file *zip.File) error

// Walk walks the all files in the archive with names starting with prefix,
// calling walkFn for each item. Archives with path traversal components
// ("..") or absolute paths in entry names are rejected.
func Walk(archive, prefix string, walkFn WalkFunc) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		name := f.FileHeader.Name
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if !f.FileInfo().IsDir() && strings.HasPrefix(name, prefix) {
			if err := walkFn(archive, f); err != nil {
				return err
			}
		}
	}
	return nil
}

// Stylesheets lists names of .css entries under prefix in archive order.
func Stylesheets(archive, prefix string) ([]string, error) {
	var names []string
	err := Walk(archive, prefix, func(_ string, f *zip.File) error {
		if strings.EqualFold(path.Ext(f.Name), ".css") {
			names = append(names, f.Name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

// ReadFile returns content of a single archive entry.
func ReadFile(archive, name string) ([]byte, error) {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	f, err := r.Open(name)
	if err != nil {
		return nil, fmt.Errorf("unable to open %q in %s: %w", name, archive, err)
	}
	defer f.Close()

	return io.ReadAll(f)
}

// isSafePath returns false for paths that could escape the extraction
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
