// Package deps defines the dependency record model and the extractor
// framework shared by the per-ecosystem packages.
//
// # Overview
//
// depaudit reports the direct, declared dependencies of a repository. It
// does not resolve version ranges or transitive graphs: each dependency
// carries exactly one declared version string, or "latest" when unpinned.
//
// # Scanning
//
// [Scan] walks a repository once and returns a [Tree] of relative,
// slash-separated paths in sorted order. Vendored and generated
// directories ([IgnoredDirs]) are skipped. Patterns are doublestar globs:
//
//	tree, _ := deps.Scan(root)
//	poms := tree.Match("**/pom.xml")
//
// # Languages
//
// A [Language] pairs detection patterns with [ManifestParser]
// implementations:
//
//   - Detect: true if any source file or manifest of the ecosystem exists
//   - Extract: parse every manifest in path order and merge name -> version;
//     later files win, malformed files are logged and skipped
//   - ImportHints: optional heuristic signals, opt-in through [Options]
//
// # Records
//
// A [Record] is one dependency after resolution. License, URL and
// [Provenance] are filled exactly once by the resolution stage; the
// [Record.Key] (ecosystem, name) is unique within a repository.
//
// # Supported Ecosystems
//
//   - [python]: requirements*.txt, pyproject.toml
//   - [javascript]: package.json
//   - [java]: pom.xml, build.gradle, build.gradle.kts
//   - [dotnet]: *.csproj, *.fsproj, *.vbproj, packages.config
//
// [python]: github.com/matzehuels/depaudit/pkg/deps/python
// [javascript]: github.com/matzehuels/depaudit/pkg/deps/javascript
// [java]: github.com/matzehuels/depaudit/pkg/deps/java
// [dotnet]: github.com/matzehuels/depaudit/pkg/deps/dotnet
package deps
