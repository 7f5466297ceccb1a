package report

import (
	"bytes"
	"cmp"
	"encoding/csv"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/depaudit/pkg/deps"
	"github.com/matzehuels/depaudit/pkg/infra"
	"github.com/matzehuels/depaudit/pkg/override"
)

// RenderCSV renders the flat dependency report.
func RenderCSV(rows []Row) ([]byte, error) {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, r.fields())
	}
	return renderCSV(RowHeader, records)
}

// RenderWorklist renders the curation template. Its header matches the
// override table, so a filled-in worklist can be used as the mapping file
// of the next run. License and URL are left blank.
func RenderWorklist(records []deps.Record) ([]byte, error) {
	out := make([][]string, 0, len(records))
	for _, d := range records {
		out = append(out, []string{d.Name, string(d.Ecosystem), d.Version, "", ""})
	}
	return renderCSV(override.Header, out)
}

// RenderResources renders the flat infrastructure report.
func RenderResources(rows []ResourceRow) ([]byte, error) {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{r.Repository, r.Name, r.Type, r.Language, r.SourceFile, r.Size})
	}
	return renderCSV(ResourceHeader, records)
}

func renderCSV(header []string, records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	if err := w.WriteAll(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderMarkdown renders the narrative dependency report.
func RenderMarkdown(sections []Section, generated time.Time) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "# Repository Dependency Report\n\n_Generated on %s_\n\n", generated.Format(time.ANSIC))
	fmt.Fprintf(&b, "_Licenses marked with `!` are from the manual `%s` file._\n\n", override.DefaultFile)

	for _, s := range sections {
		fmt.Fprintf(&b, "## [%s](%s)\n\n", s.Name, s.URL)
		fmt.Fprintf(&b, "* **License**: %s\n", s.License)
		fmt.Fprintf(&b, "* **Detected Types**: %s\n", s.Types)
		fmt.Fprintf(&b, "* **Description**: %s\n\n", s.Description)

		if len(s.Dependencies) == 0 {
			b.WriteString("_No dependencies found or parsed._\n\n")
		} else {
			rows := make([][]string, 0, len(s.Dependencies))
			for _, d := range s.Dependencies {
				link := NotApplicable
				if d.URL != "" {
					link = fmt.Sprintf("[Link](%s)", d.URL)
				}
				rows = append(rows, []string{d.Name, string(d.Ecosystem), d.Version, d.License, link})
			}
			writeTable(&b, []string{"Dependency", "Type", "Version", "License", "Documentation"}, rows)
		}
		b.WriteString("---\n\n")
	}
	return []byte(b.String())
}

// RenderInfrastructureMarkdown renders the infrastructure report: one
// table per cloud service, a resource count by type, and per-repository
// workflow, interaction and resource tables.
func RenderInfrastructureMarkdown(sections []Section, generated time.Time) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "# Infrastructure Report\n\n_Generated on %s_\n\n## Overall Summary\n\n", generated.Format(time.ANSIC))

	for _, service := range []string{infra.ServiceCosmosDB, infra.ServiceBlobStorage} {
		var rows [][]string
		for _, s := range sortedByName(sections) {
			for _, i := range s.Interactions {
				if i.Service == service {
					rows = append(rows, []string{s.Name, i.Kind, i.Language, code(i.Details)})
				}
			}
		}
		if len(rows) == 0 {
			continue
		}
		fmt.Fprintf(&b, "### %s Analysis\n\n", service)
		writeTable(&b, []string{"Repository", "Interaction Type", "Detected Language", "Details"}, rows)
		b.WriteString("---\n\n")
	}

	b.WriteString("### General Resource Count by Type\n\n")
	writeTable(&b, []string{"Resource Type", "Count"}, resourceCounts(sections))
	b.WriteString("---\n\n## Repository Details\n\n")

	for _, s := range sortedByName(sections) {
		fmt.Fprintf(&b, "### [%s](%s)\n\n", s.Name, s.URL)
		empty := true
		if len(s.Workflows) > 0 {
			empty = false
			b.WriteString("#### GitHub Workflow Summary\n\n")
			rows := make([][]string, 0, len(s.Workflows))
			for _, wf := range s.Workflows {
				rows = append(rows, []string{code(wf.Path), wf.Triggers, strings.Join(wf.Jobs, ", ")})
			}
			writeTable(&b, []string{"Workflow File", "Triggers", "Job Names"}, rows)
		}
		if len(s.Interactions) > 0 {
			empty = false
			b.WriteString("#### Detected Service Interactions\n\n")
			rows := make([][]string, 0, len(s.Interactions))
			for _, i := range s.Interactions {
				rows = append(rows, []string{i.Service, i.Kind, i.Language, code(i.Details)})
			}
			writeTable(&b, []string{"Service", "Type", "Language", "Details"}, rows)
		}
		if len(s.Resources) > 0 {
			empty = false
			b.WriteString("#### All Infrastructure Resources\n\n")
			rows := make([][]string, 0, len(s.Resources))
			for _, r := range s.Resources {
				rows = append(rows, []string{r.Language, code(r.Type), code(r.Name)})
			}
			writeTable(&b, []string{"Language / Source", "Resource Type", "Name"}, rows)
		}
		if empty {
			b.WriteString("_No infrastructure resources or specific service interactions found._\n\n")
		}
	}
	return []byte(b.String())
}

// resourceCounts counts resources by type, most common first.
func resourceCounts(sections []Section) [][]string {
	counts := make(map[string]int)
	for _, s := range sections {
		for _, r := range s.Resources {
			counts[r.Type]++
		}
	}
	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	slices.SortFunc(types, func(a, b string) int {
		if c := cmp.Compare(counts[b], counts[a]); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	rows := make([][]string, 0, len(types))
	for _, t := range types {
		rows = append(rows, []string{code(t), fmt.Sprint(counts[t])})
	}
	return rows
}

func sortedByName(sections []Section) []Section {
	out := slices.Clone(sections)
	slices.SortStableFunc(out, func(a, b Section) int { return strings.Compare(a.Name, b.Name) })
	return out
}

var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// writeTable renders a GitHub-flavored Markdown table followed by a blank
// line. An empty row set renders the header only.
func writeTable(b *strings.Builder, headers []string, rows [][]string) {
	escaped := make([][]string, len(rows))
	for i, row := range rows {
		escaped[i] = make([]string, len(row))
		for j, cell := range row {
			escaped[i][j] = escapeCell(cell)
		}
	}
	t := table.New().
		Border(lipgloss.MarkdownBorder()).
		BorderTop(false).
		BorderBottom(false).
		Headers(headers...).
		Rows(escaped...).
		StyleFunc(func(row, col int) lipgloss.Style { return cellStyle })
	b.WriteString(t.Render())
	b.WriteString("\n\n")
}

var cellReplacer = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ")

func escapeCell(s string) string {
	return cellReplacer.Replace(s)
}

func code(s string) string {
	if s == "" {
		return ""
	}
	return "`" + s + "`"
}
