package javascript

import "github.com/matzehuels/depaudit/pkg/deps"

// Language extracts JavaScript/TypeScript dependencies from package.json.
var Language = &deps.Language{
	Name:             deps.JavaScript,
	SourcePatterns:   []string{"**/*.js", "**/*.jsx", "**/*.mjs", "**/*.ts", "**/*.tsx"},
	ManifestPatterns: []string{"**/package.json"},
	ManifestParsers:  []deps.ManifestParser{&PackageJSON{}},
}
