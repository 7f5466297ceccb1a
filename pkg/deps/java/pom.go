package java

import (
	"encoding/xml"
	"os"
	"regexp"
	"strings"

	"github.com/matzehuels/depaudit/pkg/deps"
)

var placeholderRE = regexp.MustCompile(`\$\{([^}]+)\}`)

// POMParser parses Maven pom.xml files. Dependencies come from both
// <dependencies> and <dependencyManagement>; a direct dependency without a
// version takes the managed one.
type POMParser struct{}

func (p *POMParser) Type() string              { return "pom.xml" }
func (p *POMParser) Supports(name string) bool { return name == "pom.xml" }

func (p *POMParser) Parse(path string, _ deps.Options) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var pom pomProject
	if err := xml.Unmarshal(data, &pom); err != nil {
		return nil, err
	}
	return extractDependencies(&pom), nil
}

func extractDependencies(pom *pomProject) map[string]string {
	result := make(map[string]string)
	managed := make(map[string]string)

	for _, dep := range pom.DependencyManagement.Dependencies {
		coord, ok := dep.coordinate(pom)
		if !ok {
			continue
		}
		version := pom.substitute(dep.Version)
		managed[coord] = version
		result[coord] = orLatest(version)
	}
	for _, dep := range pom.Dependencies {
		coord, ok := dep.coordinate(pom)
		if !ok {
			continue
		}
		version := pom.substitute(dep.Version)
		if version == "" {
			version = managed[coord]
		}
		result[coord] = orLatest(version)
	}
	return result
}

func orLatest(v string) string {
	if v == "" {
		return deps.VersionLatest
	}
	return v
}

type pomProject struct {
	GroupID              string          `xml:"groupId"`
	ArtifactID           string          `xml:"artifactId"`
	Version              string          `xml:"version"`
	Parent               pomParent       `xml:"parent"`
	Properties           pomProperties   `xml:"properties"`
	Dependencies         []pomDependency `xml:"dependencies>dependency"`
	DependencyManagement struct {
		Dependencies []pomDependency `xml:"dependencies>dependency"`
	} `xml:"dependencyManagement"`
}

type pomParent struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
}

type pomDependency struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
	Scope      string `xml:"scope"`
}

func (d pomDependency) coordinate(pom *pomProject) (string, bool) {
	group := pom.substitute(d.GroupID)
	artifact := pom.substitute(d.ArtifactID)
	if group == "" || artifact == "" || strings.Contains(group+artifact, "${") {
		return "", false
	}
	return group + ":" + artifact, true
}

// substitute expands ${...} placeholders from <properties> and the project
// coordinates. Unknown placeholders are left as written.
func (p *pomProject) substitute(s string) string {
	s = strings.TrimSpace(s)
	for range 5 {
		if !strings.Contains(s, "${") {
			break
		}
		next := placeholderRE.ReplaceAllStringFunc(s, func(m string) string {
			if v, ok := p.property(m[2 : len(m)-1]); ok {
				return v
			}
			return m
		})
		if next == s {
			break
		}
		s = next
	}
	return s
}

func (p *pomProject) property(name string) (string, bool) {
	switch name {
	case "project.version", "pom.version", "version":
		return firstNonEmpty(p.Version, p.Parent.Version)
	case "project.groupId", "pom.groupId":
		return firstNonEmpty(p.GroupID, p.Parent.GroupID)
	case "project.artifactId":
		return firstNonEmpty(p.ArtifactID)
	case "project.parent.version":
		return firstNonEmpty(p.Parent.Version)
	}
	v, ok := p.Properties[name]
	return v, ok
}

func firstNonEmpty(values ...string) (string, bool) {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v, true
		}
	}
	return "", false
}

// pomProperties collects arbitrary <properties> children by local name.
type pomProperties map[string]string

func (p *pomProperties) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	props := make(pomProperties)
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var value string
			if err := d.DecodeElement(&value, &t); err != nil {
				return err
			}
			props[t.Name.Local] = strings.TrimSpace(value)
		case xml.EndElement:
			*p = props
			return nil
		}
	}
}
