// Package extractor maps a diff's changed lines onto the definitions that
// contain them and assembles the minimal context bundle a reviewer needs.
package extractor

import (
	"intentcheck/internal/types"
)

// Localize returns the definitions containing at least one changed line, in
// the analyzer's emission order. Functions and methods are relevant when
// the changed lines intersect their range; a class is relevant when its own
// range is hit or any of its methods is. Each definition appears at most
// once regardless of how many paths reach it.
func Localize(analysis *types.FileAnalysis, changed types.LineSet) []*types.Definition {
	ownerHit := make(map[string]bool)
	for _, def := range analysis.Definitions {
		if def.Kind == types.KindMethod && def.ContainsAny(changed) {
			ownerHit[def.OwnerClass] = true
		}
	}

	var relevant []*types.Definition
	for _, def := range analysis.Definitions {
		switch def.Kind {
		case types.KindFunction, types.KindMethod:
			if def.ContainsAny(changed) {
				relevant = append(relevant, def)
			}
		case types.KindClass:
			if def.ContainsAny(changed) || ownerHit[def.Name] {
				relevant = append(relevant, def)
			}
		}
	}
	return relevant
}
