package java

import (
	"strings"

	"github.com/matzehuels/depaudit/pkg/deps"
)

// Language extracts Java dependencies from Maven and Gradle build files.
// Names are Maven coordinates "groupId:artifactId".
var Language = &deps.Language{
	Name:             deps.Java,
	SourcePatterns:   []string{"**/*.java", "**/*.kt"},
	ManifestPatterns: []string{"**/pom.xml", "**/build.gradle", "**/build.gradle.kts"},
	ManifestParsers:  []deps.ManifestParser{&POMParser{}, &GradleParser{}},
	Hints:            ImportHints,
}

// NormalizeCoordinate converts filename-safe coordinates to Maven format.
// Colons are not allowed in some file names, so "groupId_artifactId" is
// accepted as a substitute and converted at the last underscore.
//
// Examples:
//   - "com.google.guava:guava" → "com.google.guava:guava" (unchanged)
//   - "com.google.guava_guava" → "com.google.guava:guava" (converted)
func NormalizeCoordinate(coord string) string {
	if strings.Contains(coord, ":") {
		return coord
	}
	if idx := strings.LastIndex(coord, "_"); idx != -1 {
		return coord[:idx] + ":" + coord[idx+1:]
	}
	return coord
}
