package extractor

import (
	"fmt"
	"strings"
)

// FileSection is the bundle fragment for one changed file: either assembled
// definition blocks, or a diagnostic when the file could not be analyzed.
type FileSection struct {
	Path       string
	Diagnostic string
	Blocks     []DefinitionContext
}

// Bundle is the ordered context document for a whole diff. Section order
// follows sorted file-path order, so identical inputs render identically.
type Bundle struct {
	Sections []FileSection
}

// Empty reports whether the bundle carries no context at all.
func (b *Bundle) Empty() bool {
	return len(b.Sections) == 0
}

// Render serializes the bundle as plain structured text for prompt
// rendering, stable across runs.
func (b *Bundle) Render() string {
	var sb strings.Builder

	for _, section := range b.Sections {
		if section.Diagnostic != "" {
			fmt.Fprintf(&sb, "--- Skipped File: %s (%s) ---\n\n", section.Path, section.Diagnostic)
			continue
		}

		fmt.Fprintf(&sb, "--- Context from File: %s ---\n", section.Path)
		for _, block := range section.Blocks {
			def := block.Definition
			fmt.Fprintf(&sb, "\n--- Context for Changed %s `%s` ---\n", def.Kind, def.DisplayName())
			sb.WriteString("\nFull Definition:\n")
			sb.WriteString(def.Body)
			sb.WriteString("\n")

			for _, sig := range block.Signatures {
				label := fmt.Sprintf("\nSignature of Local %s Called `%s`", sig.Definition.Kind, sig.Call)
				if sig.Definition.OwnerClass != "" {
					label += fmt.Sprintf(" (method of class %s)", sig.Definition.OwnerClass)
				}
				sb.WriteString(label + ":\n")
				sb.WriteString(sig.Definition.Signature)
				sb.WriteString("\n")
			}

			if len(block.Imports) > 0 {
				sb.WriteString("\nRelevant Imports:\n")
				for _, imp := range block.Imports {
					sb.WriteString(imp)
					sb.WriteString("\n")
				}
			}
		}
		sb.WriteString("\n")
	}

	return strings.TrimSpace(sb.String())
}

// diagnosticFor translates an analysis failure into the one-line bundle
// placeholder that distinguishes "analysis failed" from "nothing relevant".
func diagnosticFor(err error) string {
	switch {
	case err == nil:
		return ""
	case isParseFailure(err):
		return "could not parse"
	default:
		return "could not fetch content"
	}
}
