package infra

import (
	"regexp"
	"strings"
)

var (
	providerAlt = alternation(ProviderKeywords)

	// resource = pkg.module.Class("name", ...)
	pythonCallRE = regexp.MustCompile(`(?m)^[ \t]*[A-Za-z_][\w.]*[ \t]*=[ \t]*([A-Za-z_]\w*(?:\.[A-Za-z_]\w*)+)\s*\(\s*[rbuRBU]?["']([^"'\n]+)["']`)
	pythonSkuRE  = regexp.MustCompile(`\bsku\s*=\s*["']([^"']+)["']`)

	// new azure.storage.Account("name", ...)
	tsNewRE = regexp.MustCompile(`new\s+((?:` + providerAlt + `)\.[\w.<>]+)\s*\(\s*["']([^"']+)["']`)
	tsSkuRE = regexp.MustCompile(`sku\s*:\s*["']([^"']+)["']`)
)

// skuWindow bounds how far past a constructor call a sku argument is
// searched for.
const skuWindow = 200

func alternation(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(quoted, "|")
}

// scanPython finds assignments whose right-hand side calls a provider
// constructor with a literal name as its first argument.
func scanPython(content, rel string) []Resource {
	if !containsAny(content, ProviderKeywords) {
		return nil
	}
	var out []Resource
	for _, m := range pythonCallRE.FindAllStringSubmatchIndex(content, -1) {
		fn := content[m[2]:m[3]]
		if !containsAny(fn, ProviderKeywords) {
			continue
		}
		out = append(out, Resource{
			Name:       content[m[4]:m[5]],
			Type:       fn,
			Language:   LangPython,
			SourceFile: rel,
			Size:       sizeAfter(content, m[1], pythonSkuRE),
		})
	}
	return out
}

// scanTypeScript finds `new provider.X("name", ...)` constructor calls.
func scanTypeScript(content, rel string) []Resource {
	var out []Resource
	for _, m := range tsNewRE.FindAllStringSubmatchIndex(content, -1) {
		out = append(out, Resource{
			Name:       content[m[4]:m[5]],
			Type:       content[m[2]:m[3]],
			Language:   LangTypeScript,
			SourceFile: rel,
			Size:       sizeAfter(content, m[1], tsSkuRE),
		})
	}
	return out
}

func sizeAfter(content string, end int, re *regexp.Regexp) string {
	window := content[end:min(end+skuWindow, len(content))]
	if m := re.FindStringSubmatch(window); m != nil {
		return m[1]
	}
	return SizeUnknown
}
