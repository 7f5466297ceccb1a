package infra

import (
	"regexp"
	"strings"
)

// azCreateRE matches `az <group> create ... --name X` and
// `az storage blob upload ... --container-name X`. RE2 has no
// backreferences, so quoted and bare names are separate alternatives.
var azCreateRE = regexp.MustCompile(`(?is)az\s+([a-z\s-]+?)\s+(create|blob\s+upload).*?(?:--name|-n|--container-name|-c)\s+(?:"([\w\-$]+)"|'([\w\-$]+)'|([\w\-$]+))`)

// scanShell extracts Azure CLI resources from a script. source names the
// file (and job, for workflow steps) the script came from.
func scanShell(content, source, language string) []Resource {
	var out []Resource
	for _, m := range azCreateRE.FindAllStringSubmatch(content, -1) {
		action := strings.Join(strings.Fields(m[2]), " ")
		var typ string
		if strings.Contains(strings.ToLower(action), "blob") {
			typ = "az storage " + action
		} else {
			typ = "az " + strings.Join(strings.Fields(m[1]), " ") + " create"
		}
		name := m[3]
		if name == "" {
			name = m[4]
		}
		if name == "" {
			name = m[5]
		}
		out = append(out, Resource{
			Name:       name,
			Type:       typ,
			Language:   language,
			SourceFile: source,
			Size:       SizeUnknown,
		})
	}
	return out
}
