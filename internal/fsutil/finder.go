// Package fsutil provides file system utility functions.
package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FindFilesBySuffix lists the regular files directly inside dir whose names
// end with one of the given suffixes. Subdirectories are not descended into.
// Symlinks are followed; a dangling one is not a file and is skipped.
// The result holds base names, sorted.
func FindFilesBySuffix(dir string, suffixes ...string) ([]string, error) {
	if len(suffixes) == 0 {
		panic("at least one suffix is required")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if !hasAnySuffix(e.Name(), suffixes) {
			continue
		}
		info, err := os.Stat(filepath.Join(dir, e.Name()))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", e.Name(), err)
		}
		if info.Mode().IsRegular() {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

func hasAnySuffix(name string, suffixes []string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}
