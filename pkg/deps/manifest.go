package deps

import (
	"fmt"
	"path"
)

// ManifestParser reads declared dependencies from one kind of manifest file.
type ManifestParser interface {
	// Parse reads the manifest at path and returns name -> version.
	Parse(path string, opts Options) (map[string]string, error)
	// Supports reports whether this parser handles the given filename.
	Supports(filename string) bool
	// Type returns the manifest type identifier (e.g., "pom.xml").
	Type() string
}

// DetectManifest finds a parser that supports the given file path.
// Returns an error if no parser matches.
func DetectManifest(p string, parsers ...ManifestParser) (ManifestParser, error) {
	name := path.Base(p)
	for _, mp := range parsers {
		if mp.Supports(name) {
			return mp, nil
		}
	}
	return nil, fmt.Errorf("unsupported manifest: %s", name)
}
