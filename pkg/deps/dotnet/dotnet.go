package dotnet

import "github.com/matzehuels/depaudit/pkg/deps"

// Language extracts NuGet dependencies from MSBuild project files and
// packages.config. Directory.Packages.props marks the ecosystem and
// supplies centrally managed versions.
var Language = &deps.Language{
	Name:           deps.DotNet,
	SourcePatterns: []string{"**/*.cs", "**/*.fs", "**/*.vb"},
	ManifestPatterns: []string{
		"**/*.csproj", "**/*.fsproj", "**/*.vbproj",
		"**/packages.config", "**/Directory.Packages.props",
	},
	ManifestParsers: []deps.ManifestParser{&ProjectParser{}, &PackagesConfigParser{}},
}
