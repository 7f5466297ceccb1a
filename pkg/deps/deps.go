package deps

import (
	"slices"
	"strings"
)

// Ecosystem identifies a package ecosystem handled by an extractor.
type Ecosystem string

const (
	Python     Ecosystem = "python"
	JavaScript Ecosystem = "javascript"
	Java       Ecosystem = "java"
	DotNet     Ecosystem = "dotnet"
)

// Provenance records which resolution step filled a record's license and URL.
type Provenance string

const (
	ProvenanceOverride   Provenance = "override"   // manual override table
	ProvenanceResolved   Provenance = "resolved"   // remote registry lookup
	ProvenanceUnresolved Provenance = "unresolved" // budget cutoff
)

// Placeholder values used when metadata is missing.
const (
	VersionLatest       = "latest"
	LicenseUnknown      = "unknown"
	LicenseLookupFailed = "lookup-failed"
)

// Record is one direct dependency of a repository.
type Record struct {
	Ecosystem  Ecosystem  // Package ecosystem
	Name       string     // Package identifier ("group:artifact" for Java)
	Version    string     // Declared version or "latest"
	License    string     // License, "unknown" or "lookup-failed"
	URL        string     // Documentation URL, "" when unknown
	Provenance Provenance // Step that resolved License and URL
}

// Key returns the dedup key of the record within one repository.
func (r Record) Key() string {
	return string(r.Ecosystem) + ":" + r.Name
}

// NeedsCuration reports whether the record lacks a license or URL.
func (r Record) NeedsCuration() bool {
	switch r.License {
	case "", LicenseUnknown, LicenseLookupFailed:
		return true
	}
	return r.URL == ""
}

// SortRecords orders records by (ecosystem, name).
func SortRecords(records []Record) {
	slices.SortFunc(records, func(a, b Record) int {
		if c := strings.Compare(string(a.Ecosystem), string(b.Ecosystem)); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
}

// Options configures extraction behavior.
type Options struct {
	Logger      func(string, ...any) // Warning callback for skipped files (optional)
	ImportHints bool                 // Collect source import hints where supported
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	return opts
}
