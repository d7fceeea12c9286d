package analyzer

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"

	"intentcheck/internal/types"
)

// moduleVersionRegex matches the /vN major-version suffix of a module path.
var moduleVersionRegex = regexp.MustCompile(`^v\d+$`)

type GoAnalyzer struct {
	mu       sync.Mutex
	parser   *sitter.Parser
	language *sitter.Language
}

func NewGoAnalyzer() (*GoAnalyzer, error) {
	lang := sitter.NewLanguage(tree_sitter_go.Language())
	parser := sitter.NewParser()
	if err := parser.SetLanguage(lang); err != nil {
		return nil, fmt.Errorf("failed to set language for parser: %w", err)
	}
	return &GoAnalyzer{
		parser:   parser,
		language: lang,
	}, nil
}

func (ga *GoAnalyzer) Language() string {
	return "Go"
}

func (ga *GoAnalyzer) SupportedExtensions() []string {
	return []string{".go"}
}

// Analyze collects imports, functions, methods and type declarations from a
// Go file. Methods carry the receiver's base type as their owning class;
// unlike Python, a method's line range is not nested inside the type's.
func (ga *GoAnalyzer) Analyze(content string) (*types.FileAnalysis, error) {
	ga.mu.Lock()
	defer ga.mu.Unlock()

	src := []byte(content)
	tree := ga.parser.Parse(src, nil)
	if tree == nil {
		return nil, fmt.Errorf("tree-sitter returned nil tree: %w", ErrSourceParse)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("invalid Go syntax: %w", ErrSourceParse)
	}

	analysis := &types.FileAnalysis{SourceLines: strings.Split(content, "\n")}

	for i := uint(0); i < root.NamedChildCount(); i++ {
		child := root.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "import_declaration":
			ga.collectImports(child, src, analysis)
		case "function_declaration":
			ga.collectCallable(child, src, "", analysis)
		case "method_declaration":
			ga.collectCallable(child, src, ga.receiverType(child, src), analysis)
		case "type_declaration":
			ga.collectTypes(child, src, analysis)
		}
	}

	return analysis, nil
}

func (ga *GoAnalyzer) collectImports(node *sitter.Node, src []byte, analysis *types.FileAnalysis) {
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		for i := uint(0); i < n.NamedChildCount(); i++ {
			child := n.NamedChild(i)
			if child == nil {
				continue
			}
			if child.Kind() == "import_spec" {
				analysis.Imports = append(analysis.Imports, ga.importBinding(child, src))
				continue
			}
			walk(child)
		}
	}
	walk(node)
}

func (ga *GoAnalyzer) importBinding(spec *sitter.Node, src []byte) types.ImportBinding {
	binding := types.ImportBinding{
		Raw:        "import " + spec.Utf8Text(src),
		BoundNames: make(map[string]bool),
	}

	if name := spec.ChildByFieldName("name"); name != nil {
		switch alias := name.Utf8Text(src); alias {
		case "_", ".":
			// blank and dot imports bind no stable package name
		default:
			binding.BoundNames[alias] = true
		}
		return binding
	}

	if pathNode := spec.ChildByFieldName("path"); pathNode != nil {
		path := strings.Trim(pathNode.Utf8Text(src), "`\"")
		parts := strings.Split(path, "/")
		base := parts[len(parts)-1]
		if len(parts) > 1 && moduleVersionRegex.MatchString(base) {
			base = parts[len(parts)-2]
		}
		if base != "" {
			binding.BoundNames[base] = true
		}
	}

	return binding
}

func (ga *GoAnalyzer) collectCallable(node *sitter.Node, src []byte, owner string, analysis *types.FileAnalysis) {
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
	def.Body = extractText(node, src, analysis.SourceLines, def.Name)
	def.Signature = ga.extractSignature(node, src, def)
	def.Calls = ga.collectCalls(node.ChildByFieldName("body"), src)
	analysis.Definitions = append(analysis.Definitions, def)
}

// collectTypes records each type spec as a Class-kind definition, so struct
// and interface changes localize the same way class-attribute changes do.
func (ga *GoAnalyzer) collectTypes(node *sitter.Node, src []byte, analysis *types.FileAnalysis) {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		spec := node.NamedChild(i)
		if spec == nil || spec.Kind() != "type_spec" {
			continue
		}
		nameNode := spec.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}

		// a single-spec declaration reads better with its type keyword
		outer := spec
		if node.NamedChildCount() == 1 {
			outer = node
		}

		def := &types.Definition{
			Name:      nameNode.Utf8Text(src),
			Kind:      types.KindClass,
			StartLine: int(outer.StartPosition().Row) + 1,
			EndLine:   int(outer.EndPosition().Row) + 1,
		}
		def.Body = extractText(outer, src, analysis.SourceLines, def.Name)
		startRow := int(outer.StartPosition().Row)
		def.Signature = strings.TrimSpace(sliceLines(analysis.SourceLines, startRow, startRow+1))
		if def.Signature == "" {
			def.Signature = syntheticSignature(def)
		}
		analysis.Definitions = append(analysis.Definitions, def)
	}
}

// extractSignature takes the header bytes up to the function body. External
// declarations without a body use the whole node.
func (ga *GoAnalyzer) extractSignature(node *sitter.Node, src []byte, def *types.Definition) string {
	body := node.ChildByFieldName("body")
	var header string
	if body == nil {
		header = node.Utf8Text(src)
	} else if start, end := node.StartByte(), body.StartByte(); start < end && int(end) <= len(src) {
		header = string(src[start:end])
	}

	header = strings.TrimSpace(header)
	if header == "" {
		return syntheticSignature(def)
	}
	return header
}

func (ga *GoAnalyzer) collectCalls(node *sitter.Node, src []byte) []string {
	if node == nil {
		return nil
	}
	var calls []string
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Kind() == "call_expression" {
			if fn := n.ChildByFieldName("function"); fn != nil {
				calls = append(calls, ga.renderCallTarget(fn, src))
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

func (ga *GoAnalyzer) renderCallTarget(node *sitter.Node, src []byte) string {
	switch node.Kind() {
	case "identifier", "field_identifier", "package_identifier", "type_identifier":
		return node.Utf8Text(src)
	case "selector_expression":
		fieldNode := node.ChildByFieldName("field")
		if fieldNode == nil {
			return PlaceholderSegment
		}
		field := fieldNode.Utf8Text(src)
		operand := node.ChildByFieldName("operand")
		if operand == nil {
			return PlaceholderSegment + "." + field
		}
		return ga.renderCallTarget(operand, src) + "." + field
	case "parenthesized_expression":
		if inner := node.NamedChild(0); inner != nil {
			return ga.renderCallTarget(inner, src)
		}
		return PlaceholderSegment
	default:
		return PlaceholderSegment
	}
}

// receiverType unwraps the receiver parameter down to its base type name.
func (ga *GoAnalyzer) receiverType(node *sitter.Node, src []byte) string {
	receiver := node.ChildByFieldName("receiver")
	if receiver == nil {
		return ""
	}
	var param *sitter.Node
	for i := uint(0); i < receiver.NamedChildCount(); i++ {
		child := receiver.NamedChild(i)
		if child != nil && child.Kind() == "parameter_declaration" {
			param = child
			break
		}
	}
	if param == nil {
		return ""
	}

	typeNode := param.ChildByFieldName("type")
	for typeNode != nil {
		switch typeNode.Kind() {
		case "pointer_type":
			typeNode = typeNode.NamedChild(0)
		case "generic_type":
			typeNode = typeNode.ChildByFieldName("type")
		case "type_identifier":
			return typeNode.Utf8Text(src)
		default:
			return ""
		}
	}
	return ""
}
