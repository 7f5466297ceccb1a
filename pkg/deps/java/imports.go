package java

import (
	"bufio"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/matzehuels/depaudit/pkg/deps"
)

var importRE = regexp.MustCompile(`^\s*import\s+(?:static\s+)?([A-Za-z_][\w]*(?:\.[A-Za-z_][\w]*)+)`)

var stdlibPrefixes = []string{"java.", "javax.", "jdk.", "sun.", "kotlin.", "kotlinx."}

// ImportHints scans .java and .kt sources for import statements and
// returns the distinct third-party package prefixes (at most three
// segments), sorted. The result is a heuristic and is never merged into
// the dependency map.
func ImportHints(t *deps.Tree, opts deps.Options) []string {
	seen := make(map[string]struct{})
	for _, rel := range t.Match("**/*.java", "**/*.kt") {
		if err := scanImports(t.Abs(rel), seen); err != nil {
			opts.Logger("skipping java source %s: %v", rel, err)
		}
	}
	hints := make([]string, 0, len(seen))
	for h := range seen {
		hints = append(hints, h)
	}
	sort.Strings(hints)
	return hints
}

func scanImports(path string, seen map[string]struct{}) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		m := importRE.FindStringSubmatch(scanner.Text())
		if m == nil || isStdlib(m[1]) {
			continue
		}
		parts := strings.Split(m[1], ".")
		if len(parts) > 1 {
			parts = parts[:len(parts)-1]
		}
		if len(parts) > 3 {
			parts = parts[:3]
		}
		seen[strings.Join(parts, ".")] = struct{}{}
	}
	return scanner.Err()
}

func isStdlib(pkg string) bool {
	for _, p := range stdlibPrefixes {
		if strings.HasPrefix(pkg, p) {
			return true
		}
	}
	return false
}
