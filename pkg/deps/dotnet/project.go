package dotnet

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/matzehuels/depaudit/pkg/deps"
)

const centralProps = "Directory.Packages.props"

var (
	packageRefRE     = regexp.MustCompile(`<PackageReference\s+Include="([^"]+)"\s+Version="([^"]+)"`)
	packageVersionRE = regexp.MustCompile(`<PackageVersion\s+Include="([^"]+)"\s+Version="([^"]+)"`)
)

// ProjectParser parses SDK-style *.csproj, *.fsproj and *.vbproj files.
// PackageReference versions may be an attribute or a child element; a
// reference without one takes its version from the nearest
// Directory.Packages.props above the project.
type ProjectParser struct{}

func (p *ProjectParser) Type() string { return "msbuild" }

func (p *ProjectParser) Supports(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csproj", ".fsproj", ".vbproj":
		return true
	}
	return false
}

func (p *ProjectParser) Parse(path string, opts deps.Options) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var central map[string]string
	result := make(map[string]string)

	refs, err := decodeProject(data, func(g itemGroup) []packageRef { return g.PackageReferences })
	if err != nil {
		opts.Logger("project %s is not valid XML, scanning text: %v", path, err)
		for _, m := range packageRefRE.FindAllStringSubmatch(string(data), -1) {
			result[m[1]] = m[2]
		}
		return result, nil
	}
	for _, ref := range refs {
		name := ref.name()
		if name == "" {
			continue
		}
		version := ref.version()
		if version == "" {
			if central == nil {
				central = loadCentralVersions(filepath.Dir(path), opts)
			}
			version = central[strings.ToLower(name)]
		}
		if version == "" {
			version = deps.VersionLatest
		}
		result[name] = version
	}
	return result, nil
}

type msbuildProject struct {
	ItemGroups []itemGroup `xml:"ItemGroup"`
}

type itemGroup struct {
	PackageReferences []packageRef `xml:"PackageReference"`
	PackageVersions   []packageRef `xml:"PackageVersion"`
}

type packageRef struct {
	Include     string `xml:"Include,attr"`
	Update      string `xml:"Update,attr"`
	VersionAttr string `xml:"Version,attr"`
	VersionElem string `xml:"Version"`
}

func (r packageRef) name() string {
	if r.Include != "" {
		return strings.TrimSpace(r.Include)
	}
	return strings.TrimSpace(r.Update)
}

func (r packageRef) version() string {
	if v := strings.TrimSpace(r.VersionAttr); v != "" {
		return v
	}
	return strings.TrimSpace(r.VersionElem)
}

func decodeProject(data []byte, pick func(itemGroup) []packageRef) ([]packageRef, error) {
	var proj msbuildProject
	if err := xml.Unmarshal(data, &proj); err != nil {
		return nil, err
	}
	var refs []packageRef
	for _, g := range proj.ItemGroups {
		refs = append(refs, pick(g)...)
	}
	return refs, nil
}

// loadCentralVersions reads the closest Directory.Packages.props at or
// above dir. The search stops at a repository root (a directory holding
// .git) or the filesystem root. Keys are lowercased package ids.
func loadCentralVersions(dir string, opts deps.Options) map[string]string {
	versions := make(map[string]string)
	for {
		path := filepath.Join(dir, centralProps)
		if data, err := os.ReadFile(path); err == nil {
			refs, err := decodeProject(data, func(g itemGroup) []packageRef { return g.PackageVersions })
			if err != nil {
				opts.Logger("%s is not valid XML, scanning text: %v", path, err)
				for _, m := range packageVersionRE.FindAllStringSubmatch(string(data), -1) {
					versions[strings.ToLower(m[1])] = m[2]
				}
				return versions
			}
			for _, ref := range refs {
				if name, v := ref.name(), ref.version(); name != "" && v != "" {
					versions[strings.ToLower(name)] = v
				}
			}
			return versions
		}
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return versions
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return versions
		}
		dir = parent
	}
}
