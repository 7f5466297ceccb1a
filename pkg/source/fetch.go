package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	deperrors "github.com/matzehuels/depaudit/pkg/errors"
)

// DefaultCloneTimeout bounds a single clone.
const DefaultCloneTimeout = 10 * time.Minute

// Fetcher materializes a repository. Fetch returns the directory holding the
// working tree, which is dir for cloned repositories and the repository
// itself for local paths.
type Fetcher interface {
	Fetch(ctx context.Context, url, dir string) (string, error)
}

// GitFetcher shallow clones repositories with the git command line.
//
// Zero values: Binary defaults to "git", Timeout to [DefaultCloneTimeout].
type GitFetcher struct {
	Binary  string
	Timeout time.Duration
}

// Fetch clones url into dir with --depth=1. A dir that already holds files
// is assumed to be a previous clone and returned as is. Local directories
// are used in place and dir is ignored.
func (g *GitFetcher) Fetch(ctx context.Context, url, dir string) (string, error) {
	if local, ok := LocalPath(url); ok {
		return local, nil
	}
	if populated(dir) {
		return dir, nil
	}
	if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
		return "", deperrors.Wrap(deperrors.ErrCodeFetchFailed, err, "prepare %s", dir)
	}

	bin := g.Binary
	if bin == "" {
		bin = "git"
	}
	timeout := g.Timeout
	if timeout <= 0 {
		timeout = DefaultCloneTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res, err := run(ctx, bin, []string{"clone", "--depth=1", "--quiet", url, dir}, "")
	if err != nil {
		switch res.ExitCode {
		case exitTimeout:
			return "", deperrors.Wrap(deperrors.ErrCodeFetchFailed, err, "clone %s: timed out after %s", url, timeout)
		case exitNotFound:
			return "", deperrors.Wrap(deperrors.ErrCodeFetchFailed, err, "clone %s: %s not found in PATH", url, bin)
		}
		return "", deperrors.Wrap(deperrors.ErrCodeFetchFailed, err, "clone %s: %s", url, strings.TrimSpace(res.Stderr))
	}
	return dir, nil
}

// LocalPath reports whether url names an existing local directory and
// returns its absolute path.
func LocalPath(url string) (string, bool) {
	if isRemote(url) {
		return "", false
	}
	info, err := os.Stat(url)
	if err != nil || !info.IsDir() {
		return "", false
	}
	abs, err := filepath.Abs(url)
	if err != nil {
		return "", false
	}
	return abs, true
}

// RepoName derives a display name from a repository URL: its last path
// segment without a ".git" suffix.
func RepoName(url string) string {
	if local, ok := LocalPath(url); ok {
		return filepath.Base(local)
	}
	s := strings.TrimRight(url, "/")
	s = strings.TrimSuffix(s, ".git")
	if i := strings.LastIndexAny(s, "/:"); i >= 0 {
		s = s[i+1:]
	}
	if s == "" {
		return "repository"
	}
	return s
}

func isRemote(url string) bool {
	for _, p := range []string{"https://", "http://", "ssh://", "git@", "file://", "git://"} {
		if strings.HasPrefix(url, p) {
			return true
		}
	}
	return false
}

func populated(dir string) bool {
	entries, err := os.ReadDir(dir)
	return err == nil && len(entries) > 0
}
