package javascript

import (
	"encoding/json"
	"os"
	"sort"
	"strings"

	"github.com/matzehuels/depaudit/pkg/deps"
)

// PackageJSON parses package.json files. It extracts dependencies and then
// devDependencies, so a name declared in both keeps the dev version.
type PackageJSON struct{}

func (p *PackageJSON) Type() string              { return "package.json" }
func (p *PackageJSON) Supports(name string) bool { return strings.EqualFold(name, "package.json") }

func (p *PackageJSON) Parse(path string, _ deps.Options) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var pkg packageFile
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, err
	}

	result := make(map[string]string)
	apply(result, pkg.Dependencies)
	apply(result, pkg.DevDependencies)
	return result, nil
}

type packageFile struct {
	Name            string         `json:"name"`
	Version         string         `json:"version"`
	Dependencies    map[string]any `json:"dependencies"`
	DevDependencies map[string]any `json:"devDependencies"`
}

func apply(dst map[string]string, section map[string]any) {
	names := make([]string, 0, len(section))
	for name := range section {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		version, _ := section[name].(string)
		if version = strings.TrimSpace(version); version == "" || version == "*" {
			version = deps.VersionLatest
		}
		dst[name] = version
	}
}
