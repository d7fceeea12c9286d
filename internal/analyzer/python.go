package analyzer

import (
	"fmt"
	"strings"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"intentcheck/internal/types"
)

type PythonAnalyzer struct {
	mu       sync.Mutex
	parser   *sitter.Parser
	language *sitter.Language
}

func NewPythonAnalyzer() (*PythonAnalyzer, error) {
	lang := sitter.NewLanguage(tree_sitter_python.Language())
	parser := sitter.NewParser()
	if err := parser.SetLanguage(lang); err != nil {
		return nil, fmt.Errorf("failed to set language for parser: %w", err)
	}
	return &PythonAnalyzer{
		parser:   parser,
		language: lang,
	}, nil
}

func (pa *PythonAnalyzer) Language() string {
	return "Python"
}

func (pa *PythonAnalyzer) SupportedExtensions() []string {
	return []string{".py", ".pyw"}
}

// Analyze parses Python source and collects imports, classes, functions and
// methods in document order, with the calls made inside each body.
func (pa *PythonAnalyzer) Analyze(content string) (*types.FileAnalysis, error) {
	pa.mu.Lock()
	defer pa.mu.Unlock()

	src := []byte(content)
	tree := pa.parser.Parse(src, nil)
	if tree == nil {
		return nil, fmt.Errorf("tree-sitter returned nil tree: %w", ErrSourceParse)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("invalid Python syntax: %w", ErrSourceParse)
	}

	analysis := &types.FileAnalysis{SourceLines: strings.Split(content, "\n")}
	pa.collect(root, src, "", analysis)
	return analysis, nil
}

// collect walks statements looking for imports and definitions. It descends
// into compound statements (if/try/with blocks) but not into function
// bodies: definitions nested inside callables are not cataloged, matching
// module- and class-scope collection.
func (pa *PythonAnalyzer) collect(node *sitter.Node, src []byte, owner string, analysis *types.FileAnalysis) {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "import_statement", "import_from_statement", "future_import_statement":
			analysis.Imports = append(analysis.Imports, pa.importBinding(child, src))
		case "class_definition":
			pa.collectClass(child, child, src, analysis)
		case "function_definition":
			pa.collectFunction(child, child, src, owner, analysis)
		case "decorated_definition":
			inner := child.ChildByFieldName("definition")
			if inner == nil {
				continue
			}
			switch inner.Kind() {
			case "class_definition":
				pa.collectClass(inner, child, src, analysis)
			case "function_definition":
				pa.collectFunction(inner, child, src, owner, analysis)
			}
		default:
			pa.collect(child, src, owner, analysis)
		}
	}
}

// collectClass records the class itself, then its direct members with the
// class threaded through as the owning scope. The class's call list covers
// every call inside the class body, method bodies included, so a class
// emitted as a whole resolves the same names its methods would.
func (pa *PythonAnalyzer) collectClass(node, outer *sitter.Node, src []byte, analysis *types.FileAnalysis) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}

	def := &types.Definition{
		Name:      nameNode.Utf8Text(src),
		Kind:      types.KindClass,
		StartLine: int(node.StartPosition().Row) + 1,
		EndLine:   int(node.EndPosition().Row) + 1,
	}
	body := node.ChildByFieldName("body")
	def.Body = extractText(outer, src, analysis.SourceLines, def.Name)
	def.Signature = pa.extractSignature(node, outer, src, analysis.SourceLines, def)
	def.Calls = pa.collectCalls(body, src)
	analysis.Definitions = append(analysis.Definitions, def)

	if body != nil {
		pa.collect(body, src, def.Name, analysis)
	}
}

func (pa *PythonAnalyzer) collectFunction(node, outer *sitter.Node, src []byte, owner string, analysis *types.FileAnalysis) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}

	kind := types.KindFunction
	if owner != "" {
		kind = types.KindMethod
	}
	def := &types.Definition{
		Name:       nameNode.Utf8Text(src),
		Kind:       kind,
		OwnerClass: owner,
		StartLine:  int(node.StartPosition().Row) + 1,
		EndLine:    int(node.EndPosition().Row) + 1,
	}
	def.Body = extractText(outer, src, analysis.SourceLines, def.Name)
	def.Signature = pa.extractSignature(node, outer, src, analysis.SourceLines, def)
	def.Calls = pa.collectCalls(node.ChildByFieldName("body"), src)
	analysis.Definitions = append(analysis.Definitions, def)
}

// extractSignature slices the header lines, decorators included, up to the
// first body statement, dedented to the def line's indentation. Falls back
// to a synthetic signature when the header cannot be isolated (one-liner
// definitions, missing body).
func (pa *PythonAnalyzer) extractSignature(node, outer *sitter.Node, src []byte, lines []string, def *types.Definition) string {
	body := node.ChildByFieldName("body")
	if body == nil {
		return syntheticSignature(def)
	}

	headerStart := int(outer.StartPosition().Row)
	bodyStart := int(body.StartPosition().Row)
	header := sliceLines(lines, headerStart, bodyStart)

	defRow := int(node.StartPosition().Row)
	if defRow < len(lines) {
		defLine := lines[defRow]
		indent := defLine[:len(defLine)-len(strings.TrimLeft(defLine, " \t"))]
		header = dedent(header, indent)
	}

	header = strings.TrimSpace(header)
	if header == "" {
		return syntheticSignature(def)
	}
	return header
}

// collectCalls gathers every call expression nested anywhere under node, in
// document order, rendering each target to a dotted name or a placeholder.
func (pa *PythonAnalyzer) collectCalls(node *sitter.Node, src []byte) []string {
	if node == nil {
		return nil
	}
	var calls []string
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Kind() == "call" {
			if fn := n.ChildByFieldName("function"); fn != nil {
				calls = append(calls, pa.renderCallTarget(fn, src))
			}
		}
		for i := uint(0); i < n.NamedChildCount(); i++ {
			if child := n.NamedChild(i); child != nil {
				walk(child)
			}
		}
	}
	walk(node)
	return calls
}

// renderCallTarget reconstructs a call target as a bare identifier or a
// dotted attribute chain. Targets that are not stable names (call results,
// subscripts, lambdas) degrade to a placeholder segment.
func (pa *PythonAnalyzer) renderCallTarget(node *sitter.Node, src []byte) string {
	switch node.Kind() {
	case "identifier":
		return node.Utf8Text(src)
	case "attribute":
		attrNode := node.ChildByFieldName("attribute")
		if attrNode == nil {
			return PlaceholderSegment
		}
		attr := attrNode.Utf8Text(src)
		objNode := node.ChildByFieldName("object")
		if objNode == nil {
			return PlaceholderSegment + "." + attr
		}
		return pa.renderCallTarget(objNode, src) + "." + attr
	default:
		return PlaceholderSegment
	}
}

// importBinding preserves the statement verbatim and records the names it
// introduces at module scope: the module (and its top-level package) for
// whole-module imports, aliases when present, the imported symbols for
// from-imports. Wildcard imports bind nothing knowable.
func (pa *PythonAnalyzer) importBinding(node *sitter.Node, src []byte) types.ImportBinding {
	binding := types.ImportBinding{
		Raw:        node.Utf8Text(src),
		BoundNames: make(map[string]bool),
	}

	moduleName := node.ChildByFieldName("module_name")
	fromImport := node.Kind() != "import_statement"

	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		if moduleName != nil && child.StartByte() == moduleName.StartByte() {
			continue
		}
		switch child.Kind() {
		case "dotted_name", "identifier":
			name := child.Utf8Text(src)
			binding.BoundNames[name] = true
			if !fromImport {
				if head, _, found := strings.Cut(name, "."); found {
					binding.BoundNames[head] = true
				}
			}
		case "aliased_import":
			if alias := child.ChildByFieldName("alias"); alias != nil {
				binding.BoundNames[alias.Utf8Text(src)] = true
			}
		}
	}

	return binding
}
