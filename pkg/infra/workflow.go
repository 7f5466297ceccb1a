package infra

import (
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/depaudit/pkg/deps"
)

const (
	unnamedWorkflow = "Unnamed Workflow"
	unknownTrigger  = "Unknown"
)

type workflowFile struct {
	Name string    `yaml:"name"`
	On   yaml.Node `yaml:"on"`
	Jobs yaml.Node `yaml:"jobs"`
}

type workflowJob struct {
	Steps []struct {
		Uses string         `yaml:"uses"`
		With map[string]any `yaml:"with"`
	} `yaml:"steps"`
}

// parseWorkflow summarizes a GitHub Actions workflow and extracts Azure
// CLI resources from azure/cli inline scripts. Jobs keep file order.
func parseWorkflow(content, rel string, opts deps.Options) (Workflow, []Resource) {
	wf := Workflow{Name: unnamedWorkflow, Path: path.Base(rel), Triggers: unknownTrigger}

	var doc workflowFile
	if err := yaml.Unmarshal([]byte(content), &doc); err != nil {
		opts.Logger("could not summarize workflow %s: %v", rel, err)
		return wf, nil
	}
	wf.Name = doc.Name
	if wf.Name == "" {
		wf.Name = path.Base(rel)
	}
	if t := triggers(&doc.On); t != "" {
		wf.Triggers = t
	}

	var resources []Resource
	if doc.Jobs.Kind != yaml.MappingNode {
		return wf, nil
	}
	for i := 0; i+1 < len(doc.Jobs.Content); i += 2 {
		id := doc.Jobs.Content[i].Value
		wf.Jobs = append(wf.Jobs, id)

		var job workflowJob
		if err := doc.Jobs.Content[i+1].Decode(&job); err != nil {
			opts.Logger("could not read job %s in %s: %v", id, rel, err)
			continue
		}
		for _, step := range job.Steps {
			if !strings.Contains(step.Uses, "azure/cli") {
				continue
			}
			script, _ := step.With["inlineScript"].(string)
			if script == "" {
				continue
			}
			source := fmt.Sprintf("%s (Job: %s)", rel, id)
			resources = append(resources, scanShell(script, source, LangGitHubActions)...)
		}
	}
	return wf, resources
}

// triggers renders the `on:` value: a scalar as is, a sequence joined, a
// mapping as its keys.
func triggers(n *yaml.Node) string {
	switch n.Kind {
	case yaml.ScalarNode:
		return n.Value
	case yaml.SequenceNode:
		var parts []string
		for _, c := range n.Content {
			parts = append(parts, c.Value)
		}
		return strings.Join(parts, ", ")
	case yaml.MappingNode:
		var keys []string
		for i := 0; i < len(n.Content); i += 2 {
			keys = append(keys, n.Content[i].Value)
		}
		return strings.Join(keys, ", ")
	}
	return ""
}
