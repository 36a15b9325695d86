package search

import (
	"github.com/standardbeagle/sgrep/internal/source"
	"github.com/standardbeagle/sgrep/internal/types"
)

// AssembleMatches converts span-relative pattern offsets into positioned
// matches. Each offset is rebased to an absolute file offset and mapped
// through the precomputed line index, so a span covering several lines (a
// block comment, a raw string) still reports each hit on its own line.
func AssembleMatches(file string, idx *source.LineIndex, span types.ClassifiedSpan, offsets []int) []types.Match {
	if len(offsets) == 0 {
		return nil
	}
	matches := make([]types.Match, 0, len(offsets))
	for _, off := range offsets {
		line, col := idx.Locate(span.ByteStart + off)
		matches = append(matches, types.Match{
			File:     file,
			Line:     line,
			Column:   col,
			LineText: idx.LineText(line),
			Category: span.Category,
		})
	}
	return matches
}
