package python

import "github.com/matzehuels/depaudit/pkg/deps"

// Language extracts Python dependencies from requirements files and
// pyproject.toml.
var Language = &deps.Language{
	Name:             deps.Python,
	SourcePatterns:   []string{"**/*.py"},
	ManifestPatterns: []string{"**/requirements*.txt", "**/pyproject.toml"},
	ManifestParsers:  []deps.ManifestParser{&Requirements{}, &PyProject{}},
}
