package types

// LineSet holds 1-based line numbers in the new revision of a file.
type LineSet map[int]bool

// ChangeSet maps a file path to the set of line numbers the diff added in
// the new revision. Files with no added lines never appear.
type ChangeSet map[string]LineSet

// Add records a line number for the given file, creating its set if needed.
func (cs ChangeSet) Add(path string, line int) {
	set, ok := cs[path]
	if !ok {
		set = make(LineSet)
		cs[path] = set
	}
	set[line] = true
}

// DefinitionKind classifies a Definition.
type DefinitionKind string

const (
	KindFunction DefinitionKind = "Function"
	KindMethod   DefinitionKind = "Method"
	KindClass    DefinitionKind = "Class"
)

// Definition is a named callable or class found by a source analyzer.
type Definition struct {
	Name       string
	Kind       DefinitionKind
	OwnerClass string // set for methods only
	StartLine  int    // 1-based, inclusive
	EndLine    int    // 1-based, inclusive
	Signature  string
	Body       string
	Calls      []string // raw call-target names in document order
}

// DisplayName renders the name a human would use for the definition,
// qualified by the owning class for methods.
func (d *Definition) DisplayName() string {
	if d.OwnerClass != "" {
		return d.OwnerClass + "." + d.Name
	}
	return d.Name
}

// ContainsLine reports whether line falls inside the definition's range.
func (d *Definition) ContainsLine(line int) bool {
	return d.StartLine <= line && line <= d.EndLine
}

// ContainsAny reports whether any changed line falls inside the range.
func (d *Definition) ContainsAny(lines LineSet) bool {
	for line := range lines {
		if d.ContainsLine(line) {
			return true
		}
	}
	return false
}

// ImportBinding is one import statement and the identifiers it makes
// available at module scope.
type ImportBinding struct {
	Raw        string // the statement text, preserved verbatim
	BoundNames map[string]bool
}

// Binds reports whether the import introduces the given identifier.
func (b ImportBinding) Binds(name string) bool {
	return b.BoundNames[name]
}

// FileAnalysis is the analyzer's catalog for a single file. Definitions are
// in document order; a class is followed by its methods. The analysis is
// read-only once built.
type FileAnalysis struct {
	Definitions []*Definition
	Imports     []ImportBinding
	SourceLines []string
}

// Methods returns the method definitions owned by the named class, in
// emission order.
func (fa *FileAnalysis) Methods(class string) []*Definition {
	var methods []*Definition
	for _, def := range fa.Definitions {
		if def.Kind == KindMethod && def.OwnerClass == class {
			methods = append(methods, def)
		}
	}
	return methods
}
