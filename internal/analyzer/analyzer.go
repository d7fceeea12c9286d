// Package analyzer parses a single file's source text into a flat catalog
// of definitions, the calls they make, and the file's import bindings.
package analyzer

import (
	"errors"
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"intentcheck/internal/types"
)

// ErrSourceParse marks source text the analyzer could not parse. Callers
// skip the file and record a diagnostic instead of aborting the run.
var ErrSourceParse = errors.New("source parse error")

// Analyzer extracts a FileAnalysis from one file's source text.
type Analyzer interface {
	Analyze(content string) (*types.FileAnalysis, error)
	SupportedExtensions() []string
	Language() string
}

// PlaceholderSegment marks a call-target segment that could not be rendered
// to a stable name (computed attributes, call results, subscripts).
const PlaceholderSegment = "?"

// Resolvable reports whether a recorded call name can participate in call
// resolution. Placeholder names are kept in the catalog for completeness
// but never resolved.
func Resolvable(call string) bool {
	return call != "" && !strings.Contains(call, PlaceholderSegment)
}

// Registry maps file extensions to language analyzers.
type Registry struct {
	analyzers map[string]Analyzer
}

// NewRegistry builds a registry with all built-in language analyzers.
func NewRegistry() (*Registry, error) {
	registry := &Registry{analyzers: make(map[string]Analyzer)}

	python, err := NewPythonAnalyzer()
	if err != nil {
		return nil, err
	}
	registry.Register(python)

	golang, err := NewGoAnalyzer()
	if err != nil {
		return nil, err
	}
	registry.Register(golang)

	return registry, nil
}

func (r *Registry) Register(a Analyzer) {
	for _, ext := range a.SupportedExtensions() {
		r.analyzers[ext] = a
	}
}

// ForFile returns the analyzer for the file's extension, or nil.
func (r *Registry) ForFile(path string) Analyzer {
	return r.analyzers[strings.ToLower(filepath.Ext(path))]
}

// Supports reports whether some analyzer handles the file's extension.
func (r *Registry) Supports(path string) bool {
	return r.ForFile(path) != nil
}

// Languages lists the registered language names.
func (r *Registry) Languages() []string {
	seen := make(map[string]bool)
	var names []string
	for _, a := range r.analyzers {
		if !seen[a.Language()] {
			seen[a.Language()] = true
			names = append(names, a.Language())
		}
	}
	return names
}

// syntheticSignature is the last-resort signature when the header text
// cannot be isolated from the source.
func syntheticSignature(def *types.Definition) string {
	return string(def.Kind) + " " + def.Name + "(...)"
}

// extractText renders a definition's full text. Strategies are tried in
// order: the parse node's exact source span, then a line-range slice of the
// original source, then a placeholder. A rendering failure never aborts
// definition extraction.
func extractText(node *sitter.Node, src []byte, lines []string, name string) string {
	strategies := []func() string{
		func() string { return node.Utf8Text(src) },
		func() string {
			return sliceLines(lines, int(node.StartPosition().Row), int(node.EndPosition().Row)+1)
		},
	}
	for _, strategy := range strategies {
		if text := strings.TrimRight(strategy(), "\n"); text != "" {
			return text
		}
	}
	return "# source unavailable for " + name
}

// sliceLines returns rows [start, end) of lines joined by newlines, where
// rows are 0-based. Out-of-range bounds are clamped.
func sliceLines(lines []string, start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(lines) {
		end = len(lines)
	}
	if start >= end {
		return ""
	}
	return strings.Join(lines[start:end], "\n")
}

// dedent strips the given indent prefix from every line that carries it.
func dedent(text, indent string) string {
	if indent == "" {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, indent)
	}
	return strings.Join(lines, "\n")
}
