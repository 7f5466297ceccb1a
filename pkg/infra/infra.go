package infra

import (
	"os"
	"slices"
	"strings"

	"github.com/matzehuels/depaudit/pkg/deps"
)

// Source languages of detected resources.
const (
	LangPython        = "Python"
	LangTypeScript    = "TypeScript"
	LangShell         = "Shell"
	LangGitHubActions = "GitHub Actions"
	LangTerraform     = "Terraform"
)

// Tracked cloud services.
const (
	ServiceCosmosDB    = "Cosmos DB"
	ServiceBlobStorage = "Blob Storage"
)

// Interaction kinds.
const (
	KindSDK = "SDK Usage"
	KindIaC = "IaC Resource"
)

// SizeUnknown is the Size of a resource that declares no SKU.
const SizeUnknown = "N/A"

// ProviderKeywords gate which constructor calls count as cloud resources.
var ProviderKeywords = []string{"azure", "aws", "gcp", "kubernetes", "cloudflare", "digitalocean", "azuread", "azure-native"}

var (
	cosmosKeywords = []string{"cosmosdb", "documentdb"}
	blobKeywords   = []string{"storage.account", "storage.container", "storage.blob"}
)

// Resource is one infrastructure resource declared in code or scripts.
// It is comparable; equal values are the same resource.
type Resource struct {
	Name       string
	Type       string
	Language   string
	SourceFile string
	Size       string
}

// Interaction records that a repository touches a tracked cloud service.
type Interaction struct {
	Name     string // Resource name, "Unknown" for SDK usage
	Kind     string // KindSDK or KindIaC
	Language string
	Details  string // Manifest path or resource type
}

// Workflow summarizes one GitHub Actions workflow file.
type Workflow struct {
	Name     string
	Path     string
	Triggers string
	Jobs     []string
}

// Result holds everything found in one repository.
type Result struct {
	Resources    []Resource
	Interactions map[string][]Interaction
	Workflows    []Workflow
}

// Analyze scans the tree for infrastructure resources, service
// interactions and workflows. Files that cannot be read or parsed are
// reported through opts.Logger and skipped.
func Analyze(t *deps.Tree, opts deps.Options) *Result {
	opts = opts.WithDefaults()
	var found []Resource

	for _, rel := range t.Match("**/*.py") {
		if content, ok := read(t, rel, opts); ok {
			found = append(found, scanPython(content, rel)...)
		}
	}
	for _, rel := range t.Match("**/*.ts") {
		if content, ok := read(t, rel, opts); ok {
			found = append(found, scanTypeScript(content, rel)...)
		}
	}
	for _, rel := range t.Match("**/*.sh") {
		if content, ok := read(t, rel, opts); ok {
			found = append(found, scanShell(content, rel, LangShell)...)
		}
	}
	for _, rel := range t.Match("**/*.tf") {
		if strings.HasPrefix(rel, ".terraform/") || strings.Contains(rel, "/.terraform/") {
			continue
		}
		if content, ok := read(t, rel, opts); ok {
			found = append(found, scanTerraform(content, rel, opts)...)
		}
	}

	var workflows []Workflow
	for _, rel := range t.Match(".github/workflows/*.yml", ".github/workflows/*.yaml") {
		content, ok := read(t, rel, opts)
		if !ok {
			continue
		}
		wf, steps := parseWorkflow(content, rel, opts)
		workflows = append(workflows, wf)
		found = append(found, steps...)
	}
	slices.SortFunc(workflows, func(a, b Workflow) int { return strings.Compare(a.Name, b.Name) })

	resources := Dedup(found)
	interactions := sdkInteractions(t, opts)
	for _, r := range resources {
		for _, svc := range servicesFor(r.Type) {
			interactions[svc] = append(interactions[svc], Interaction{
				Name: r.Name, Kind: KindIaC, Language: r.Language, Details: r.Type,
			})
		}
	}

	return &Result{Resources: resources, Interactions: interactions, Workflows: workflows}
}

// Dedup removes duplicate resources and sorts by (language, type, name).
func Dedup(rs []Resource) []Resource {
	seen := make(map[Resource]struct{}, len(rs))
	out := make([]Resource, 0, len(rs))
	for _, r := range rs {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b Resource) int {
		if c := strings.Compare(a.Language, b.Language); c != 0 {
			return c
		}
		if c := strings.Compare(a.Type, b.Type); c != 0 {
			return c
		}
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.SourceFile, b.SourceFile)
	})
	return out
}

// servicesFor maps a resource type onto tracked services. Underscores are
// treated as dots so Terraform types (azurerm_storage_account) match the
// same keywords as SDK class paths.
func servicesFor(resourceType string) []string {
	t := strings.ReplaceAll(strings.ToLower(resourceType), "_", ".")
	var out []string
	if containsAny(t, cosmosKeywords) {
		out = append(out, ServiceCosmosDB)
	}
	if containsAny(t, blobKeywords) {
		out = append(out, ServiceBlobStorage)
	}
	return out
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func read(t *deps.Tree, rel string, opts deps.Options) (string, bool) {
	data, err := os.ReadFile(t.Abs(rel))
	if err != nil {
		opts.Logger("skipping %s: %v", rel, err)
		return "", false
	}
	return string(data), true
}
