// Package override loads the manual dependency mapping table.
//
// The table is a CSV file curated by hand, typically seeded from the
// missing-dependency worklist of a previous run:
//
//	dependency_name,dependency_type,version,license,documentation_url
//	left-pad,javascript,1.3.0,WTFPL,https://github.com/stevemao/left-pad
//
// Columns are located by header name, so their order is free. Entries are
// keyed case-insensitively by ecosystem and name. A loaded [Table] is
// never modified and is safe for concurrent use.
package override

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/depaudit/pkg/deps"
	"github.com/matzehuels/depaudit/pkg/deps/java"
	deperrors "github.com/matzehuels/depaudit/pkg/errors"
)

// DefaultFile is the conventional file name of the mapping table.
const DefaultFile = "dependency_mapping.csv"

// Header is the column set of the mapping table, in canonical order.
var Header = []string{"dependency_name", "dependency_type", "version", "license", "documentation_url"}

// Marker prefixes every license that came from the table.
const Marker = "! "

// Entry is one row of the mapping table.
type Entry struct {
	Ecosystem        string
	Name             string
	Version          string
	License          string
	DocumentationURL string
}

// Table is an immutable set of override entries.
type Table struct {
	entries map[string]Entry
}

// Key returns the lookup key for an ecosystem and name. Java names written
// as "groupId_artifactId" match their "groupId:artifactId" coordinate.
func Key(ecosystem, name string) string {
	ecosystem = strings.ToLower(ecosystem)
	if ecosystem == string(deps.Java) {
		name = java.NormalizeCoordinate(name)
	}
	return ecosystem + ":" + strings.ToLower(name)
}

// Empty returns a table without entries.
func Empty() *Table {
	return &Table{entries: map[string]Entry{}}
}

// New builds a table from entries. Later entries replace earlier ones with
// the same key.
func New(entries ...Entry) *Table {
	t := Empty()
	for _, e := range entries {
		t.entries[Key(e.Ecosystem, e.Name)] = e
	}
	return t
}

// Load reads the table at path. A missing file yields an empty table.
// Rows without a name or type, or with the wrong number of fields, are
// skipped with a warning.
func Load(path string, logger *log.Logger) (*Table, error) {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return Empty(), nil
	}
	if err != nil {
		return nil, deperrors.Wrap(deperrors.ErrCodeFileNotFound, err, "open %s", path)
	}
	defer f.Close()

	t, err := Read(f, func(line int, reason string) {
		logger.Warn("skipping mapping row", "file", path, "line", line, "reason", reason)
	})
	if err != nil {
		return nil, deperrors.Wrap(deperrors.ErrCodeParseFailed, err, "read %s", path)
	}
	logger.Info("loaded dependency mapping", "file", path, "entries", t.Len())
	return t, nil
}

// Read parses a mapping table from r. skip is called for every row that is
// ignored.
func Read(r io.Reader, skip func(line int, reason string)) (*Table, error) {
	if skip == nil {
		skip = func(int, string) {}
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return Empty(), nil
	}
	if err != nil {
		return nil, err
	}
	cols, err := columns(header)
	if err != nil {
		return nil, err
	}

	t := Empty()
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				skip(perr.Line, perr.Err.Error())
				continue
			}
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		if len(row) != len(header) {
			skip(line, fmt.Sprintf("expected %d fields, got %d", len(header), len(row)))
			continue
		}
		e := Entry{
			Name:             strings.TrimSpace(row[cols["dependency_name"]]),
			Ecosystem:        strings.TrimSpace(row[cols["dependency_type"]]),
			Version:          field(row, cols, "version"),
			License:          field(row, cols, "license"),
			DocumentationURL: field(row, cols, "documentation_url"),
		}
		if e.Name == "" || e.Ecosystem == "" {
			skip(line, "missing dependency_name or dependency_type")
			continue
		}
		t.entries[Key(e.Ecosystem, e.Name)] = e
	}
	return t, nil
}

func columns(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, required := range Header[:2] {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("header is missing column %q", required)
		}
	}
	return cols, nil
}

func field(row []string, cols map[string]int, name string) string {
	if i, ok := cols[name]; ok {
		return strings.TrimSpace(row[i])
	}
	return ""
}

// Lookup returns the entry for ecosystem and name, matched case-insensitively.
func (t *Table) Lookup(ecosystem, name string) (Entry, bool) {
	if t == nil {
		return Entry{}, false
	}
	e, ok := t.entries[Key(ecosystem, name)]
	return e, ok
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Apply fills rec from the entry: the license gets the override marker
// ("! unknown" when blank), the URL is taken as is, and a non-empty
// version replaces the declared one.
func (e Entry) Apply(rec deps.Record) deps.Record {
	license := e.License
	if license == "" {
		license = deps.LicenseUnknown
	}
	rec.License = Marker + license
	rec.URL = e.DocumentationURL
	if e.Version != "" {
		rec.Version = e.Version
	}
	rec.Provenance = deps.ProvenanceOverride
	return rec
}
