package deps

import (
	"io/fs"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
)

// IgnoredDirs are directory names never descended into while scanning.
var IgnoredDirs = map[string]struct{}{
	".git":         {},
	"node_modules": {},
	".venv":        {},
	"venv":         {},
	"target":       {},
	"dist":         {},
	"build":        {},
	"bin":          {},
	"obj":          {},
}

// Tree is a snapshot of the regular files below a repository root.
// Files holds slash-separated paths relative to Root, sorted.
type Tree struct {
	Root  string
	Files []string
}

// Scan walks root, skipping [IgnoredDirs], and returns the sorted file list.
func Scan(root string) (*Tree, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	var files []string
	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == abs {
				return err
			}
			return nil
		}
		if d.IsDir() {
			if _, ok := IgnoredDirs[d.Name()]; ok && path != abs {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(abs, path)
		if err != nil {
			return nil
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return &Tree{Root: abs, Files: files}, nil
}

// Match returns the files matching any of the doublestar patterns, in order.
func (t *Tree) Match(patterns ...string) []string {
	var out []string
	for _, f := range t.Files {
		if MatchAny(patterns, f) {
			out = append(out, f)
		}
	}
	return out
}

// Any reports whether at least one file matches the patterns.
func (t *Tree) Any(patterns ...string) bool {
	for _, f := range t.Files {
		if MatchAny(patterns, f) {
			return true
		}
	}
	return false
}

// Abs converts a relative tree path into an OS path.
func (t *Tree) Abs(rel string) string {
	return filepath.Join(t.Root, filepath.FromSlash(rel))
}

// MatchAny reports whether path matches one of the doublestar patterns.
func MatchAny(patterns []string, path string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, path); ok {
			return true
		}
	}
	return false
}
