package java

import (
	"os"
	"regexp"
	"strings"

	"github.com/matzehuels/depaudit/pkg/deps"
)

const gradleConfigs = `(?:implementation|api|compile|compileOnly|runtimeOnly|testImplementation|testCompile|testRuntimeOnly|annotationProcessor|kapt)`

var (
	// implementation 'g:a:v'
	gradleStringRE = regexp.MustCompile(`\b` + gradleConfigs + `\s+['"]([^'"\s]+:[^'"\s]+)['"]`)
	// implementation("g:a:v")
	gradleParenRE = regexp.MustCompile(`\b` + gradleConfigs + `\s*\(\s*['"]([^'"\s]+:[^'"\s]+)['"]\s*\)`)
	// implementation group: 'g', name: 'a', version: 'v'
	gradleMapRE = regexp.MustCompile(`\b` + gradleConfigs +
		`\s*\(?\s*group\s*[:=]\s*['"]([^'"]+)['"]\s*,\s*name\s*[:=]\s*['"]([^'"]+)['"]` +
		`(?:\s*,\s*version\s*[:=]\s*['"]([^'"]+)['"])?`)
)

// GradleParser scans build.gradle and build.gradle.kts files for
// dependency declarations in string, parenthesized and map notation.
type GradleParser struct{}

func (g *GradleParser) Type() string { return "build.gradle" }

func (g *GradleParser) Supports(name string) bool {
	return name == "build.gradle" || name == "build.gradle.kts"
}

func (g *GradleParser) Parse(path string, _ deps.Options) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseGradle(string(data)), nil
}

func parseGradle(content string) map[string]string {
	result := make(map[string]string)
	for _, re := range []*regexp.Regexp{gradleStringRE, gradleParenRE} {
		for _, m := range re.FindAllStringSubmatch(content, -1) {
			parts := strings.Split(m[1], ":")
			if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
				continue
			}
			version := deps.VersionLatest
			if len(parts) > 2 && parts[2] != "" {
				version = parts[2]
			}
			result[parts[0]+":"+parts[1]] = version
		}
	}
	for _, m := range gradleMapRE.FindAllStringSubmatch(content, -1) {
		version := m[3]
		if version == "" {
			version = deps.VersionLatest
		}
		result[m[1]+":"+m[2]] = version
	}
	return result
}
