package infra

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/matzehuels/depaudit/pkg/deps"
)

// sdkPackages maps each tracked service to the client package names that
// indicate its use, per manifest language.
var sdkPackages = map[string]struct {
	dotnet, node string
	python       *regexp.Regexp
}{
	ServiceCosmosDB:    {dotnet: "Microsoft.Azure.Cosmos", node: "@azure/cosmos", python: requirementRE("azure-cosmos")},
	ServiceBlobStorage: {dotnet: "Azure.Storage.Blobs", node: "@azure/storage-blob", python: requirementRE("azure-storage-blob")},
}

var trackedServices = []string{ServiceCosmosDB, ServiceBlobStorage}

// sdkInteractions looks for client SDK references in .NET projects,
// package.json files and Python requirement files. The returned map always
// holds an entry for every tracked service.
func sdkInteractions(t *deps.Tree, opts deps.Options) map[string][]Interaction {
	out := make(map[string][]Interaction, len(trackedServices))
	for _, svc := range trackedServices {
		out[svc] = []Interaction{}
	}
	add := func(svc, language, rel string) {
		out[svc] = append(out[svc], Interaction{Name: "Unknown", Kind: KindSDK, Language: language, Details: rel})
	}

	for _, rel := range t.Match("**/*.csproj") {
		content, ok := read(t, rel, opts)
		if !ok {
			continue
		}
		for _, svc := range trackedServices {
			if strings.Contains(content, `Include="`+sdkPackages[svc].dotnet+`"`) {
				add(svc, ".NET", rel)
			}
		}
	}

	for _, rel := range t.Match("**/package.json") {
		content, ok := read(t, rel, opts)
		if !ok {
			continue
		}
		var pkg struct {
			Dependencies    map[string]any `json:"dependencies"`
			DevDependencies map[string]any `json:"devDependencies"`
		}
		if err := json.Unmarshal([]byte(content), &pkg); err != nil {
			opts.Logger("could not parse %s: %v", rel, err)
			continue
		}
		for _, svc := range trackedServices {
			name := sdkPackages[svc].node
			_, dep := pkg.Dependencies[name]
			_, dev := pkg.DevDependencies[name]
			if dep || dev {
				add(svc, "Node.js", rel)
			}
		}
	}

	for _, rel := range t.Match("**/requirements*.txt", "**/pyproject.toml") {
		content, ok := read(t, rel, opts)
		if !ok {
			continue
		}
		for _, svc := range trackedServices {
			if sdkPackages[svc].python.MatchString(content) {
				add(svc, "Python", rel)
			}
		}
	}
	return out
}

// requirementRE matches name as a whole requirement token.
func requirementRE(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?im)(?:^|["'\s])` + regexp.QuoteMeta(name) + `(?:$|[\s"'\[<>=!~;,])`)
}
