package languages

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/depaudit/pkg/deps"
)

func TestFind(t *testing.T) {
	for _, name := range []string{"python", "javascript", "java", "dotnet"} {
		if l := Find(name); l == nil || string(l.Name) != name {
			t.Errorf("Find(%q) = %v", name, l)
		}
	}
	if Find("cobol") != nil {
		t.Error("Find(cobol) should be nil")
	}
}

func TestDetect(t *testing.T) {
	dir := t.TempDir()
	for rel, content := range map[string]string{
		"requirements.txt": "flask\n",
		"web/package.json": "{}",
		"README.md":        "# demo\n",
	} {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	tree, err := deps.Scan(dir)
	if err != nil {
		t.Fatal(err)
	}

	got := Detect(tree)
	if len(got) != 2 || got[0].Name != deps.JavaScript || got[1].Name != deps.Python {
		var names []deps.Ecosystem
		for _, l := range got {
			names = append(names, l.Name)
		}
		t.Errorf("Detect = %v, want [javascript python]", names)
	}
}
