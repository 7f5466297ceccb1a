package report

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/matzehuels/depaudit/pkg/analysis"
	deperrors "github.com/matzehuels/depaudit/pkg/errors"
)

// Output is one rendered file.
type Output struct {
	Name string
	Data []byte
}

// Options controls which outputs [Render] produces.
type Options struct {
	// Generated is the timestamp printed in Markdown reports.
	Generated time.Time
	// SkipInfrastructure omits the infrastructure reports.
	SkipInfrastructure bool
}

// Render produces every output for reports. The worklist is omitted when
// no dependency needs curation.
func Render(reports []*analysis.Report, opts Options) ([]Output, error) {
	if opts.Generated.IsZero() {
		opts.Generated = time.Now()
	}
	sections := Sections(reports)

	depCSV, err := RenderCSV(Rows(reports))
	if err != nil {
		return nil, deperrors.Wrap(deperrors.ErrCodeInternal, err, "render %s", DependencyCSVFile)
	}
	outputs := []Output{
		{Name: DependencyCSVFile, Data: depCSV},
		{Name: DependencyMarkdownFile, Data: RenderMarkdown(sections, opts.Generated)},
	}

	if work := Worklist(reports); len(work) > 0 {
		data, err := RenderWorklist(work)
		if err != nil {
			return nil, deperrors.Wrap(deperrors.ErrCodeInternal, err, "render %s", WorklistFile)
		}
		outputs = append(outputs, Output{Name: WorklistFile, Data: data})
	}

	if !opts.SkipInfrastructure {
		data, err := RenderResources(Resources(reports))
		if err != nil {
			return nil, deperrors.Wrap(deperrors.ErrCodeInternal, err, "render %s", InfrastructureCSVFile)
		}
		outputs = append(outputs,
			Output{Name: InfrastructureCSVFile, Data: data},
			Output{Name: InfrastructureMDFile, Data: RenderInfrastructureMarkdown(sections, opts.Generated)},
		)
	}
	return outputs, nil
}

// Write renders the outputs and writes them into dir. It returns the paths
// written; on error, files written before the failure are kept. A worklist
// left by an earlier run is removed when nothing needs curation.
func Write(dir string, reports []*analysis.Report, opts Options) ([]string, error) {
	outputs, err := Render(reports, opts)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, deperrors.Wrap(deperrors.ErrCodeInvalidInput, err, "create output directory %s", dir)
	}
	var written []string
	hasWorklist := false
	for _, out := range outputs {
		path := filepath.Join(dir, out.Name)
		if err := WriteFileAtomic(path, out.Data); err != nil {
			return written, err
		}
		written = append(written, path)
		hasWorklist = hasWorklist || out.Name == WorklistFile
	}
	if !hasWorklist {
		stale := filepath.Join(dir, WorklistFile)
		if err := os.Remove(stale); err != nil && !errors.Is(err, os.ErrNotExist) {
			return written, deperrors.Wrap(deperrors.ErrCodeInternal, err, "remove stale %s", stale)
		}
	}
	return written, nil
}

// WriteFileAtomic writes data to a temporary file next to path and renames
// it into place, so readers see either the old or the new content.
func WriteFileAtomic(path string, data []byte) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return deperrors.Wrap(deperrors.ErrCodeInternal, err, "write %s", path)
	}
	name := tmp.Name()
	cleanup := func(err error) error {
		tmp.Close()
		os.Remove(name)
		return deperrors.Wrap(deperrors.ErrCodeInternal, err, "write %s", path)
	}
	if _, err := tmp.Write(data); err != nil {
		return cleanup(err)
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return deperrors.Wrap(deperrors.ErrCodeInternal, err, "write %s", path)
	}
	if err := os.Chmod(name, 0o644); err != nil {
		os.Remove(name)
		return deperrors.Wrap(deperrors.ErrCodeInternal, err, "write %s", path)
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return deperrors.Wrap(deperrors.ErrCodeInternal, err, "write %s", path)
	}
	return nil
}
