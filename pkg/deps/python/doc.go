// Package python extracts declared Python dependencies.
//
// Supported manifests:
//
//   - requirements*.txt: one requirement per line; option lines (-r, -e),
//     URL and VCS lines are ignored
//   - pyproject.toml: [project] dependencies and optional-dependencies,
//     plus the Poetry dependency, group and dev-dependency tables
//
// The version recorded for a requirement is its constraint text with
// whitespace removed (">=2.0,<3"), or "latest" when none is declared.
package python
