// Package languages provides the complete list of supported dependency
// ecosystems.
//
// This package exists to break import cycles: the individual ecosystem
// packages (python, java, etc.) import pkg/deps, so pkg/deps cannot import
// them back. Consumers that need the full list import this package.
//
// Usage:
//
//	import "github.com/matzehuels/depaudit/pkg/deps/languages"
//
//	for _, lang := range languages.Detect(tree) {
//	    fmt.Println(lang.Name)
//	}
package languages

import (
	"github.com/matzehuels/depaudit/pkg/deps"
	"github.com/matzehuels/depaudit/pkg/deps/dotnet"
	"github.com/matzehuels/depaudit/pkg/deps/java"
	"github.com/matzehuels/depaudit/pkg/deps/javascript"
	"github.com/matzehuels/depaudit/pkg/deps/python"
)

// All is the canonical list of supported ecosystems, sorted by name.
var All = []*deps.Language{
	dotnet.Language,
	java.Language,
	javascript.Language,
	python.Language,
}

// Find returns the Language with the given name, or nil if not found.
func Find(name string) *deps.Language {
	for _, l := range All {
		if string(l.Name) == name {
			return l
		}
	}
	return nil
}

// Detect returns the languages present in the tree, in the order of [All].
func Detect(t *deps.Tree) []*deps.Language {
	var found []*deps.Language
	for _, l := range All {
		if l.Detect(t) {
			found = append(found, l)
		}
	}
	return found
}
