package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNotFound is returned when no file with the requested name exists.
var ErrNotFound = errors.New("file not found")

// Index maps base file names to every path under a root that carries that
// name. Paths are kept in walk order, which is lexical.
type Index struct {
	root  string
	paths map[string][]string
}

// BuildIndex walks the whole tree under root once. Unreadable subdirectories
// are skipped; an unreadable root is an error.
func BuildIndex(root string) (*Index, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		root = "."
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", root)
	}

	idx := &Index{root: root, paths: make(map[string][]string)}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		idx.paths[name] = append(idx.paths[name], path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return idx, nil
}

// Root returns the indexed directory.
func (i *Index) Root() string { return i.root }

// Len returns the number of distinct file names indexed.
func (i *Index) Len() int { return len(i.paths) }

// Lookup resolves name to a path. Absolute paths and names containing a
// separator are checked directly (relative ones against the root); bare
// names are looked up anywhere in the tree. When several files share the
// name, the first in lexical order wins and all candidates are returned.
func (i *Index) Lookup(name string) (string, []string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil, fmt.Errorf("%w: empty name", ErrNotFound)
	}
	if filepath.IsAbs(name) || strings.ContainsRune(name, filepath.Separator) {
		path := name
		if !filepath.IsAbs(path) {
			path = filepath.Join(i.root, name)
		}
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			return "", nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return path, []string{path}, nil
	}
	candidates := i.paths[name]
	if len(candidates) == 0 {
		return "", nil, fmt.Errorf("%w: %s under %s", ErrNotFound, name, i.root)
	}
	sorted := append([]string(nil), candidates...)
	sort.Strings(sorted)
	return sorted[0], sorted, nil
}
