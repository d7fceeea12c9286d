package extractor

import (
	"sort"
	"strings"

	"intentcheck/internal/analyzer"
	"intentcheck/internal/types"
)

// ResolvedSignature is a local definition whose signature answers a call
// made by a changed block.
type ResolvedSignature struct {
	Call       string
	Definition *types.Definition
}

// DefinitionContext is the assembled context for one relevant definition:
// its full body plus the signatures and imports its calls resolve to.
type DefinitionContext struct {
	Definition *types.Definition
	Signatures []ResolvedSignature
	Imports    []string
}

// Assemble resolves each relevant definition's calls against the file's
// local definitions and import bindings. Methods are the base unit of
// context: a class reached only through its relevant methods is not emitted
// again as a whole, so bodies never repeat. Each signature and import is
// emitted at most once across the whole file, even when different call
// names resolve to the same definition, and a definition never resolves to
// its own signature.
func Assemble(relevant []*types.Definition, analysis *types.FileAnalysis) []DefinitionContext {
	methodEmitted := make(map[string]bool)
	for _, def := range relevant {
		if def.Kind == types.KindMethod {
			methodEmitted[def.OwnerClass] = true
		}
	}

	emittedSignatures := make(map[string]bool)
	emittedDefinitions := make(map[string]bool)
	emittedImports := make(map[string]bool)

	var blocks []DefinitionContext
	for _, def := range relevant {
		if def.Kind == types.KindClass && methodEmitted[def.Name] {
			continue
		}

		block := DefinitionContext{Definition: def}
		for _, call := range def.Calls {
			if !analyzer.Resolvable(call) || emittedSignatures[call] {
				continue
			}

			if match := resolveLocal(call, def, analysis); match != nil {
				emittedSignatures[call] = true
				if !emittedDefinitions[match.DisplayName()] {
					emittedDefinitions[match.DisplayName()] = true
					block.Signatures = append(block.Signatures, ResolvedSignature{Call: call, Definition: match})
				}
				continue
			}

			if raw, ok := resolveImport(call, analysis); ok && !emittedImports[raw] {
				block.Imports = append(block.Imports, raw)
				emittedImports[raw] = true
			}
		}

		sort.Strings(block.Imports)
		blocks = append(blocks, block)
	}

	return blocks
}

// resolveLocal finds the first local function or method, in emission order,
// whose name matches the call name or its last dotted segment, skipping the
// definition making the call.
func resolveLocal(call string, current *types.Definition, analysis *types.FileAnalysis) *types.Definition {
	lastSegment := call
	if i := strings.LastIndex(call, "."); i >= 0 {
		lastSegment = call[i+1:]
	}

	for _, def := range analysis.Definitions {
		if def.Kind == types.KindClass || def == current {
			continue
		}
		if def.Name == call || def.Name == lastSegment {
			return def
		}
	}
	return nil
}

// resolveImport matches the call's first dotted segment against the names
// each import statement binds, returning the first import's raw text.
func resolveImport(call string, analysis *types.FileAnalysis) (string, bool) {
	head, _, _ := strings.Cut(call, ".")
	for _, imp := range analysis.Imports {
		if imp.Binds(head) {
			return imp.Raw, true
		}
	}
	return "", false
}
