package source

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	deperrors "github.com/matzehuels/depaudit/pkg/errors"
)

func TestRun_NotFound(t *testing.T) {
	res, err := run(context.Background(), "nonexistentcommand12345", nil, "")
	if err == nil {
		t.Fatal("expected error")
	}
	if res.ExitCode != exitNotFound {
		t.Errorf("ExitCode = %d, want %d", res.ExitCode, exitNotFound)
	}
}

func TestRepoName(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://github.com/acme/widget", "widget"},
		{"https://github.com/acme/widget.git", "widget"},
		{"https://github.com/acme/widget/", "widget"},
		{"git@github.com:acme/widget.git", "widget"},
		{"git@host:widget", "widget"},
		{"file:///srv/git/tools.git", "tools"},
	}
	for _, tt := range tests {
		if got := RepoName(tt.url); got != tt.want {
			t.Errorf("RepoName(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestGitFetcher_LocalDirInPlace(t *testing.T) {
	repo := t.TempDir()
	os.WriteFile(filepath.Join(repo, "README.md"), []byte("hi"), 0o644)

	f := &GitFetcher{Binary: "nonexistentcommand12345"}
	root, err := f.Fetch(context.Background(), repo, filepath.Join(t.TempDir(), "0-x"))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if root != repo {
		t.Errorf("root = %q, want %q", root, repo)
	}
	if RepoName(repo) != filepath.Base(repo) {
		t.Errorf("RepoName(local) = %q", RepoName(repo))
	}
}

func TestGitFetcher_PopulatedDirIsReused(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "pom.xml"), []byte("<project/>"), 0o644)

	f := &GitFetcher{Binary: "nonexistentcommand12345"}
	root, err := f.Fetch(context.Background(), "https://example.invalid/acme/widget", dir)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if root != dir {
		t.Errorf("root = %q, want %q", root, dir)
	}
}

func TestGitFetcher_FailureIsFetchFailed(t *testing.T) {
	f := &GitFetcher{Binary: "nonexistentcommand12345"}
	_, err := f.Fetch(context.Background(), "https://example.invalid/acme/widget", filepath.Join(t.TempDir(), "0-widget"))
	if !deperrors.Is(err, deperrors.ErrCodeFetchFailed) {
		t.Fatalf("err = %v, want FETCH_FAILED", err)
	}
	if !strings.Contains(err.Error(), "not found in PATH") {
		t.Errorf("err = %v, want missing binary message", err)
	}
}

func TestGitFetcher_Clone(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	ctx := context.Background()
	origin := t.TempDir()
	os.WriteFile(filepath.Join(origin, "package.json"), []byte(`{"dependencies":{"left-pad":"1.0.1"}}`), 0o644)
	for _, args := range [][]string{
		{"init", "--quiet"},
		{"add", "."},
		{"-c", "user.name=test", "-c", "user.email=test@example.com", "commit", "--quiet", "-m", "init"},
	} {
		if res, err := run(ctx, "git", args, origin); err != nil {
			t.Skipf("git %v: %v %s", args, err, res.Stderr)
		}
	}

	dir := filepath.Join(t.TempDir(), "0-origin")
	root, err := (&GitFetcher{}).Fetch(ctx, "file://"+origin, dir)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "package.json")); err != nil {
		t.Errorf("cloned tree missing package.json: %v", err)
	}
}

func TestWorkspace(t *testing.T) {
	ws, err := NewWorkspace(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewWorkspace: %v", err)
	}
	a := ws.Dir(0, "widget")
	b := ws.Dir(1, "widget")
	if a == b {
		t.Fatalf("Dir collision: %s", a)
	}
	if filepath.Base(a) != "0-widget" {
		t.Errorf("Dir = %s, want 0-widget", filepath.Base(a))
	}
	if got := filepath.Base(ws.Dir(2, "we ird/name")); got != "2-we_ird_name" {
		t.Errorf("Dir sanitized = %s", got)
	}

	os.MkdirAll(a, 0o755)
	os.WriteFile(filepath.Join(a, "locked"), []byte("x"), 0o444)

	if err := ws.Release(context.Background()); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if _, err := os.Stat(ws.Root()); !os.IsNotExist(err) {
		t.Errorf("workspace still exists: %v", err)
	}
}
