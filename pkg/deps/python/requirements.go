package python

import (
	"bufio"
	"os"
	"regexp"
	"strings"

	"github.com/matzehuels/depaudit/pkg/deps"
)

var depNameRE = regexp.MustCompile(`^([a-zA-Z0-9][-a-zA-Z0-9._]*)`)

// Requirements parses requirements*.txt files. Each requirement keeps its
// declared constraint (e.g. "==2.0.1"); bare names map to "latest".
type Requirements struct{}

func (r *Requirements) Type() string { return "requirements.txt" }

func (r *Requirements) Supports(name string) bool {
	return strings.HasPrefix(name, "requirements") && strings.HasSuffix(name, ".txt")
}

func (r *Requirements) Parse(path string, _ deps.Options) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	result := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' || line[0] == '-' {
			continue
		}
		if strings.Contains(line, "://") || strings.HasPrefix(line, "git+") {
			continue
		}
		if name, constraint, ok := parseRequirement(line); ok {
			result[name] = constraint
		}
	}
	return result, scanner.Err()
}

// parseRequirement splits a PEP 508 style line into its leading identifier
// and version constraint. Extras, environment markers and inline comments
// are dropped.
func parseRequirement(line string) (name, constraint string, ok bool) {
	m := depNameRE.FindStringSubmatch(line)
	if len(m) < 2 {
		return "", "", false
	}
	name = m[1]
	rest := line[len(name):]
	if i := strings.Index(rest, "#"); i >= 0 {
		rest = rest[:i]
	}
	if i := strings.Index(rest, ";"); i >= 0 {
		rest = rest[:i]
	}
	rest = strings.TrimSpace(rest)
	if strings.HasPrefix(rest, "[") {
		if i := strings.Index(rest, "]"); i >= 0 {
			rest = rest[i+1:]
		}
	}
	rest = strings.Join(strings.Fields(rest), "")
	rest = strings.Trim(rest, "()")
	if rest == "" {
		rest = deps.VersionLatest
	}
	return name, rest, true
}
