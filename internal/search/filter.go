package search

import "github.com/standardbeagle/sgrep/internal/types"

// Filter keeps the spans whose category is in the requested set,
// preserving order. It is a pure predicate: filtering an already filtered
// sequence by the same set yields an equal sequence.
func Filter(spans []types.ClassifiedSpan, categories types.CategorySet) []types.ClassifiedSpan {
	if len(spans) == 0 {
		return nil
	}
	kept := make([]types.ClassifiedSpan, 0, len(spans))
	for _, s := range spans {
		if categories.Has(s.Category) {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}
