package python

import (
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/depaudit/pkg/deps"
)

var (
	poetryBlockRE = regexp.MustCompile(`(?s)\[tool\.poetry\.dependencies\]\s*([^\[]+)`)
	listBlockRE   = regexp.MustCompile(`(?s)dependencies\s*=\s*\[\s*([^\]]+)\]`)
)

// PyProject parses pyproject.toml files in both PEP 621 and Poetry layouts.
// When the file is not valid TOML a block scan recovers names only.
type PyProject struct{}

func (p *PyProject) Type() string              { return "pyproject.toml" }
func (p *PyProject) Supports(name string) bool { return name == "pyproject.toml" }

func (p *PyProject) Parse(path string, opts deps.Options) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc pyprojectFile
	if err := toml.Unmarshal(data, &doc); err != nil {
		opts.Logger("pyproject.toml %s is not valid TOML, scanning blocks: %v", path, err)
		return scanBlocks(string(data)), nil
	}

	result := make(map[string]string)
	addRequirements(result, doc.Project.Dependencies)
	for _, group := range sortedKeys(doc.Project.OptionalDependencies) {
		addRequirements(result, doc.Project.OptionalDependencies[group])
	}
	poetry := doc.Tool.Poetry
	addPoetry(result, poetry.Dependencies)
	addPoetry(result, poetry.DevDependencies)
	for _, group := range sortedKeys(poetry.Group) {
		addPoetry(result, poetry.Group[group].Dependencies)
	}
	return result, nil
}

type pyprojectFile struct {
	Project struct {
		Dependencies         []string            `toml:"dependencies"`
		OptionalDependencies map[string][]string `toml:"optional-dependencies"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Dependencies    map[string]any         `toml:"dependencies"`
			DevDependencies map[string]any         `toml:"dev-dependencies"`
			Group           map[string]poetryGroup `toml:"group"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

type poetryGroup struct {
	Dependencies map[string]any `toml:"dependencies"`
}

func addRequirements(dst map[string]string, lines []string) {
	for _, line := range lines {
		if name, constraint, ok := parseRequirement(strings.TrimSpace(line)); ok {
			dst[name] = constraint
		}
	}
}

// addPoetry records Poetry dependency tables. Values are either a version
// string or an inline table; tables without a version (git, path) map to
// "latest".
func addPoetry(dst map[string]string, table map[string]any) {
	for name, spec := range table {
		if strings.EqualFold(name, "python") {
			continue
		}
		version := deps.VersionLatest
		switch v := spec.(type) {
		case string:
			version = v
		case map[string]any:
			if s, ok := v["version"].(string); ok {
				version = s
			}
		}
		if version == "" || version == "*" {
			version = deps.VersionLatest
		}
		dst[name] = version
	}
}

// scanBlocks is the fallback for files the TOML decoder rejects.
func scanBlocks(content string) map[string]string {
	matches := poetryBlockRE.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		matches = listBlockRE.FindAllStringSubmatch(content, -1)
	}
	result := make(map[string]string)
	for _, m := range matches {
		for _, line := range strings.Split(m[1], "\n") {
			line = strings.Trim(strings.TrimSpace(line), `"',`)
			if line == "" || line[0] == '#' {
				continue
			}
			if name := depNameRE.FindString(line); name != "" && !strings.EqualFold(name, "python") {
				result[name] = deps.VersionLatest
			}
		}
	}
	return result
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
