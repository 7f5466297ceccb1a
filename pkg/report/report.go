// Package report assembles analysis results into static outputs.
//
// Assembly is pure: [Rows], [Sections], [Worklist] and [Resources] turn
// reports into ordered values, and the Render functions turn those into
// bytes. [Write] renders everything in memory first and then replaces each
// output file atomically, so a failed run never leaves a half-written
// report behind.
package report

import (
	"slices"
	"strings"

	"github.com/matzehuels/depaudit/pkg/analysis"
	"github.com/matzehuels/depaudit/pkg/deps"
	"github.com/matzehuels/depaudit/pkg/infra"
	"github.com/matzehuels/depaudit/pkg/override"
)

// Output file names, relative to the output directory.
const (
	DependencyCSVFile      = "dependency_report.csv"
	DependencyMarkdownFile = "dependency_report.md"
	WorklistFile           = "missing-dependency-mapping.csv"
	InfrastructureCSVFile  = "infrastructure_report.csv"
	InfrastructureMDFile   = "infrastructure_report.md"
)

// NotApplicable fills the dependency columns of a repository without
// dependencies.
const NotApplicable = "N/A"

// Row is one line of the flat dependency report.
type Row struct {
	Repository  string
	RepoLicense string
	Dependency  string
	Type        string
	Version     string
	License     string
	URL         string
}

// RowHeader is the header of the dependency CSV.
var RowHeader = []string{"Repository", "Repo License", "Dependency", "Dependency Type", "Version", "Dependency License", "URL"}

func (r Row) fields() []string {
	return []string{r.Repository, r.RepoLicense, r.Dependency, r.Type, r.Version, r.License, r.URL}
}

// Rows flattens reports into one row per dependency, in report order. A
// repository without dependencies contributes a single N/A row.
func Rows(reports []*analysis.Report) []Row {
	var rows []Row
	for _, rep := range reports {
		if len(rep.Dependencies) == 0 {
			rows = append(rows, Row{
				Repository: rep.URL, RepoLicense: rep.License,
				Dependency: NotApplicable, Type: NotApplicable, Version: NotApplicable,
				License: NotApplicable, URL: NotApplicable,
			})
			continue
		}
		for _, d := range rep.Dependencies {
			rows = append(rows, Row{
				Repository:  rep.URL,
				RepoLicense: rep.License,
				Dependency:  d.Name,
				Type:        string(d.Ecosystem),
				Version:     d.Version,
				License:     d.License,
				URL:         d.URL,
			})
		}
	}
	return rows
}

// Worklist returns the dependencies that still need manual curation: a
// missing license or URL and no override. Entries are deduplicated by
// override key, so names differing only in case collapse into one row. The
// last occurrence wins and the result is sorted.
func Worklist(reports []*analysis.Report) []deps.Record {
	byKey := make(map[string]deps.Record)
	for _, rep := range reports {
		for _, d := range rep.Dependencies {
			if d.Provenance == deps.ProvenanceOverride || !d.NeedsCuration() {
				continue
			}
			byKey[override.Key(string(d.Ecosystem), d.Name)] = d
		}
	}
	out := make([]deps.Record, 0, len(byKey))
	for _, d := range byKey {
		out = append(out, d)
	}
	deps.SortRecords(out)
	return out
}

// ResourceRow is one infrastructure resource of one repository.
type ResourceRow struct {
	Repository string
	infra.Resource
}

// ResourceHeader is the header of the infrastructure CSV.
var ResourceHeader = []string{"Repository", "Resource Name", "Resource Type", "Language", "Source File", "Size"}

// Resources flattens the infrastructure resources of all reports, in
// report order.
func Resources(reports []*analysis.Report) []ResourceRow {
	var rows []ResourceRow
	for _, rep := range reports {
		for _, r := range rep.Resources {
			rows = append(rows, ResourceRow{Repository: rep.URL, Resource: r})
		}
	}
	return rows
}

// Section is the narrative view of one repository.
type Section struct {
	Name         string
	URL          string
	License      string
	Types        string // Comma-separated ecosystems, "None" when empty
	Description  string
	Dependencies []deps.Record
	Resources    []infra.Resource
	Interactions []ServiceInteraction
	Workflows    []infra.Workflow
}

// ServiceInteraction is an interaction tagged with its service.
type ServiceInteraction struct {
	Service string
	infra.Interaction
}

// Sections builds one section per report, in report order.
func Sections(reports []*analysis.Report) []Section {
	out := make([]Section, 0, len(reports))
	for _, rep := range reports {
		types := make([]string, len(rep.Ecosystems))
		for i, e := range rep.Ecosystems {
			types[i] = string(e)
		}
		joined := strings.Join(types, ", ")
		if joined == "" {
			joined = "None"
		}

		ds := slices.Clone(rep.Dependencies)
		deps.SortRecords(ds)

		workflows := slices.Clone(rep.Workflows)
		slices.SortStableFunc(workflows, func(a, b infra.Workflow) int { return strings.Compare(a.Name, b.Name) })

		out = append(out, Section{
			Name:         rep.Name,
			URL:          rep.URL,
			License:      rep.License,
			Types:        joined,
			Description:  rep.Description,
			Dependencies: ds,
			Resources:    rep.Resources,
			Interactions: flattenInteractions(rep.Interactions),
			Workflows:    workflows,
		})
	}
	return out
}

// flattenInteractions orders interactions by (service, kind), keeping
// detection order otherwise.
func flattenInteractions(m map[string][]infra.Interaction) []ServiceInteraction {
	services := make([]string, 0, len(m))
	for s := range m {
		services = append(services, s)
	}
	slices.Sort(services)

	var out []ServiceInteraction
	for _, s := range services {
		for _, i := range m[s] {
			out = append(out, ServiceInteraction{Service: s, Interaction: i})
		}
	}
	slices.SortStableFunc(out, func(a, b ServiceInteraction) int {
		if c := strings.Compare(a.Service, b.Service); c != 0 {
			return c
		}
		return strings.Compare(a.Kind, b.Kind)
	})
	return out
}
