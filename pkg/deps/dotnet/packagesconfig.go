package dotnet

import (
	"encoding/xml"
	"os"
	"regexp"
	"strings"

	"github.com/matzehuels/depaudit/pkg/deps"
)

var packageConfigRE = regexp.MustCompile(`<package\s+id="([^"]+)"\s+version="([^"]+)"`)

// PackagesConfigParser parses legacy packages.config files.
type PackagesConfigParser struct{}

func (p *PackagesConfigParser) Type() string { return "packages.config" }

func (p *PackagesConfigParser) Supports(name string) bool {
	return strings.EqualFold(name, "packages.config")
}

func (p *PackagesConfigParser) Parse(path string, opts deps.Options) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	result := make(map[string]string)
	var cfg struct {
		Packages []struct {
			ID      string `xml:"id,attr"`
			Version string `xml:"version,attr"`
		} `xml:"package"`
	}
	if err := xml.Unmarshal(data, &cfg); err != nil {
		opts.Logger("packages.config %s is not valid XML, scanning text: %v", path, err)
		for _, m := range packageConfigRE.FindAllStringSubmatch(string(data), -1) {
			result[m[1]] = m[2]
		}
		return result, nil
	}
	for _, pkg := range cfg.Packages {
		id := strings.TrimSpace(pkg.ID)
		if id == "" {
			continue
		}
		version := strings.TrimSpace(pkg.Version)
		if version == "" {
			version = deps.VersionLatest
		}
		result[id] = version
	}
	return result, nil
}
