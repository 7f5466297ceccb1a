package analysis

import (
	"os"
	"regexp"
	"strings"

	"github.com/matzehuels/depaudit/pkg/deps"
)

// Repository metadata defaults.
const (
	LicenseUnknown   = "Unknown"
	LicenseCustom    = "Custom"
	NoDescription    = "No description available."
	descriptionLimit = 300
)

var licenseFiles = []string{"LICENSE", "LICENSE.md", "LICENSE.txt", "COPYING"}

// licenseMarkers map a phrase in a license text to its identifier, checked
// in order.
var licenseMarkers = []struct{ phrase, id string }{
	{"mit license", "MIT"},
	{"apache license", "Apache-2.0"},
	{"gnu general public license", "GPL"},
	{"mozilla public license", "MPL-2.0"},
}

// RepoLicense identifies the repository license from the first readable
// license file. A license file without a known marker is "Custom".
func RepoLicense(t *deps.Tree) string {
	for _, name := range licenseFiles {
		for _, rel := range t.Match("**/" + name) {
			data, err := os.ReadFile(t.Abs(rel))
			if err != nil {
				continue
			}
			content := strings.ToLower(string(data))
			for _, m := range licenseMarkers {
				if strings.Contains(content, m.phrase) {
					return m.id
				}
			}
			return LicenseCustom
		}
	}
	return LicenseUnknown
}

var (
	paragraphRE = regexp.MustCompile(`\n\s*\n`)
	markupRE    = regexp.MustCompile("(\\*\\*|\\*|__|_|`|\\[.*\\]\\(.*\\))")
)

// Description returns the first paragraph of the top-level README that is
// not a heading, with inline markup removed and truncated to 300 characters.
func Description(t *deps.Tree) string {
	for _, name := range []string{"README.md", "readme.md"} {
		data, err := os.ReadFile(t.Abs(name))
		if err != nil {
			continue
		}
		for _, p := range paragraphRE.Split(string(data), -1) {
			p = strings.TrimSpace(p)
			if p == "" || strings.HasPrefix(p, "#") {
				continue
			}
			p = markupRE.ReplaceAllString(p, "")
			if r := []rune(p); len(r) > descriptionLimit {
				return string(r[:descriptionLimit]) + "..."
			}
			return p
		}
	}
	return NoDescription
}
