package deps

import "maps"

// Language describes how one ecosystem is detected and extracted.
type Language struct {
	Name             Ecosystem
	SourcePatterns   []string // Source files that indicate the ecosystem
	ManifestPatterns []string // Manifest files read by ManifestParsers
	ManifestParsers  []ManifestParser

	// Hints optionally scans source files for additional signals that are
	// reported separately and never merged into the dependency map.
	Hints func(t *Tree, opts Options) []string
}

// Detect reports whether the tree contains source or manifest files of l.
func (l *Language) Detect(t *Tree) bool {
	return t.Any(l.SourcePatterns...) || t.Any(l.ManifestPatterns...)
}

// Extract parses every manifest of l in sorted path order and merges the
// results; later files win on name collisions. A manifest that fails to
// parse is reported through opts.Logger and skipped.
func (l *Language) Extract(t *Tree, opts Options) map[string]string {
	opts = opts.WithDefaults()
	out := make(map[string]string)
	for _, rel := range t.Match(l.ManifestPatterns...) {
		p, err := DetectManifest(rel, l.ManifestParsers...)
		if err != nil {
			continue
		}
		found, err := p.Parse(t.Abs(rel), opts)
		if err != nil {
			opts.Logger("skipping %s manifest %s: %v", l.Name, rel, err)
			continue
		}
		maps.Copy(out, found)
	}
	return out
}

// ImportHints runs the language's hint scanner when enabled in opts.
func (l *Language) ImportHints(t *Tree, opts Options) []string {
	if l.Hints == nil || !opts.ImportHints {
		return nil
	}
	return l.Hints(t, opts.WithDefaults())
}
