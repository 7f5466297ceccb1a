package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/depaudit/pkg/report"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()

	for _, name := range []string{"analyze", "cache", "completion"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestAnalyzeLocalRepository(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("GITHUB_TOKEN", "")

	tmp := t.TempDir()
	repo := filepath.Join(tmp, "shop-api")
	writeFile(t, filepath.Join(repo, "requirements.txt"), "flask==2.0.1\nrequests>=2.31\n")
	writeFile(t, filepath.Join(repo, "README.md"), "# Shop API\n\nServes the shop.\n")

	mapping := filepath.Join(tmp, "mapping.csv")
	writeFile(t, mapping, "dependency_name,dependency_type,version,license,documentation_url\n"+
		"flask,python,2.0.1,BSD-3-Clause,https://flask.palletsprojects.com/\n")

	out := filepath.Join(tmp, "out")
	var logs bytes.Buffer
	root := New(&logs, LogInfo).RootCommand()
	root.SetArgs([]string{
		"analyze",
		"--mapping", mapping,
		"--output", out,
		"--work-dir", tmp,
		"--no-cache",
		"--no-github",
		"--budget", "python=0",
		repo,
	})
	if err := root.Execute(); err != nil {
		t.Fatalf("analyze: %v\nlogs:\n%s", err, logs.String())
	}

	csv, err := os.ReadFile(filepath.Join(out, report.DependencyCSVFile))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(csv), "! BSD-3-Clause") {
		t.Errorf("dependency report missing override license:\n%s", csv)
	}

	worklist, err := os.ReadFile(filepath.Join(out, report.WorklistFile))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(worklist), "requests,python") {
		t.Errorf("worklist missing unresolved dependency:\n%s", worklist)
	}
	if strings.Contains(string(worklist), "flask") {
		t.Errorf("worklist lists an overridden dependency:\n%s", worklist)
	}

	md, err := os.ReadFile(filepath.Join(out, report.DependencyMarkdownFile))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(md), "Serves the shop.") {
		t.Errorf("markdown report missing description:\n%s", md)
	}
}

func TestAnalyzeFailedRepositoryKeepsExitStatus(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	tmp := t.TempDir()
	repos := filepath.Join(tmp, "repos.txt")
	writeFile(t, repos, "# nothing here can be cloned\nnot a url\n")

	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetArgs([]string{
		"analyze",
		"--repos", repos,
		"--mapping", filepath.Join(tmp, "missing.csv"),
		"--output", filepath.Join(tmp, "out"),
		"--work-dir", tmp,
		"--no-cache",
	})
	if err := root.Execute(); err != nil {
		t.Fatalf("analyze with failing repository returned %v, want nil", err)
	}
	if _, err := os.Stat(filepath.Join(tmp, "out", report.DependencyCSVFile)); err != nil {
		t.Errorf("dependency report not written: %v", err)
	}
}

func TestAnalyzeMissingRepoList(t *testing.T) {
	tmp := t.TempDir()
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetArgs([]string{"analyze", "--repos", filepath.Join(tmp, "repos.txt"), "--no-cache"})
	if err := root.Execute(); err == nil {
		t.Fatal("analyze without a repository list should fail")
	}
}
