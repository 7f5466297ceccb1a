package pipeline

import (
	"bufio"
	"io"
	"os"
	"strings"

	deperrors "github.com/matzehuels/depaudit/pkg/errors"
)

// DefaultReposFile is the repository list read when none is given.
const DefaultReposFile = "repos.txt"

// ReadRepos parses a newline-delimited repository list. Blank lines and
// lines starting with '#' are ignored.
func ReadRepos(r io.Reader) ([]string, error) {
	var urls []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := sc.Err(); err != nil {
		return nil, deperrors.Wrap(deperrors.ErrCodeParseFailed, err, "read repository list")
	}
	return urls, nil
}

// LoadRepos reads the repository list at path.
func LoadRepos(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, deperrors.Wrap(deperrors.ErrCodeFileNotFound, err, "repository list %s not found; add one repository URL per line", path)
		}
		return nil, deperrors.Wrap(deperrors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadRepos(f)
}
