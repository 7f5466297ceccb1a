package override

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/depaudit/pkg/deps"
	deperrors "github.com/matzehuels/depaudit/pkg/errors"
)

func TestLoadMissingFile(t *testing.T) {
	tbl, err := Load(filepath.Join(t.TempDir(), DefaultFile), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tbl.Len() != 0 {
		t.Errorf("Len = %d, want 0", tbl.Len())
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	content := strings.Join([]string{
		"dependency_name,dependency_type,version,license,documentation_url",
		"left-pad,javascript,1.3.0,WTFPL,https://github.com/stevemao/left-pad",
		"Newtonsoft.Json,dotnet,,MIT,https://www.newtonsoft.com/json",
		",python,1.0,MIT,",
		"flask,,1.0,MIT,",
		"too,few,fields",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	tbl, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tbl.Len() != 2 {
		t.Errorf("Len = %d, want 2", tbl.Len())
	}
	e, ok := tbl.Lookup("JavaScript", "LEFT-PAD")
	if !ok || e.License != "WTFPL" || e.Version != "1.3.0" {
		t.Errorf("Lookup(left-pad) = %+v, %v", e, ok)
	}
	if _, ok := tbl.Lookup("dotnet", "newtonsoft.json"); !ok {
		t.Error("Lookup(newtonsoft.json) missing")
	}
	if _, ok := tbl.Lookup("python", "flask"); ok {
		t.Error("row without type should be skipped")
	}
}

func TestReadColumnOrderAndSkips(t *testing.T) {
	content := "license,dependency_type,dependency_name\nApache-2.0,java,com.google.guava:guava\nMIT,python\n"
	var skipped []int
	tbl, err := Read(strings.NewReader(content), func(line int, _ string) { skipped = append(skipped, line) })
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	e, ok := tbl.Lookup("java", "com.google.guava:guava")
	if !ok || e.License != "Apache-2.0" || e.Version != "" || e.DocumentationURL != "" {
		t.Errorf("entry = %+v, %v", e, ok)
	}
	if len(skipped) != 1 || skipped[0] != 3 {
		t.Errorf("skipped lines = %v, want [3]", skipped)
	}
}

func TestLookupJavaUnderscoreName(t *testing.T) {
	content := "dependency_name,dependency_type,license\ncom.oracle.database.jdbc_ojdbc8,java,Oracle FUTC\n"
	tbl, err := Read(strings.NewReader(content), nil)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	e, ok := tbl.Lookup("java", "com.oracle.database.jdbc:ojdbc8")
	if !ok || e.License != "Oracle FUTC" {
		t.Errorf("entry = %+v, %v", e, ok)
	}
	if _, ok := tbl.Lookup("python", "my_pkg"); ok {
		t.Error("underscore rewrite must only apply to java")
	}
}

func TestReadBadHeader(t *testing.T) {
	if _, err := Read(strings.NewReader("name,license\nx,MIT\n"), nil); err == nil {
		t.Error("expected error for header without required columns")
	}
	tbl, err := Read(strings.NewReader(""), nil)
	if err != nil || tbl.Len() != 0 {
		t.Errorf("empty input: %v, %d", err, tbl.Len())
	}
}

func TestLoadUnreadable(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(dir, nil)
	if err == nil {
		t.Fatal("expected error when path is a directory")
	}
	if !deperrors.Is(err, deperrors.ErrCodeParseFailed) && !deperrors.Is(err, deperrors.ErrCodeFileNotFound) {
		t.Errorf("unexpected error code %q", deperrors.GetCode(err))
	}
}

func TestEntryApply(t *testing.T) {
	rec := deps.Record{Ecosystem: deps.JavaScript, Name: "left-pad", Version: "1.0.0"}

	tests := []struct {
		name  string
		entry Entry
		want  deps.Record
	}{
		{
			name:  "full entry",
			entry: Entry{Version: "1.3.0", License: "WTFPL", DocumentationURL: "https://x"},
			want: deps.Record{Ecosystem: deps.JavaScript, Name: "left-pad", Version: "1.3.0",
				License: "! WTFPL", URL: "https://x", Provenance: deps.ProvenanceOverride},
		},
		{
			name:  "blank license and version",
			entry: Entry{},
			want: deps.Record{Ecosystem: deps.JavaScript, Name: "left-pad", Version: "1.0.0",
				License: "! unknown", Provenance: deps.ProvenanceOverride},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.Apply(rec); got != tt.want {
				t.Errorf("Apply = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNilTable(t *testing.T) {
	var tbl *Table
	if _, ok := tbl.Lookup("python", "x"); ok || tbl.Len() != 0 {
		t.Error("nil table should be empty")
	}
}
