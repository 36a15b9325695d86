// Line coordinate handling for search results.
//
// Match offsets come out of the pipeline as absolute byte positions.
// Converting each one to line/column by rescanning the file would be
// quadratic on match-heavy files, so a LineIndex precomputes every
// line-start offset once and resolves positions by binary search.
package source

// LineIndex resolves byte offsets in one file's content to 1-based
// line/column pairs.
type LineIndex struct {
	content []byte
	starts  []int
}

// NewLineIndex builds the line-start table for content. The index holds
// a reference to content; callers must not mutate it afterwards.
func NewLineIndex(content []byte) *LineIndex {
	return &LineIndex{
		content: content,
		starts:  LineStarts(content),
	}
}

// LineStarts computes the byte offset of the start of every line.
// starts[i] is where line i+1 begins; line 1 always starts at offset 0,
// so the result is never empty.
func LineStarts(content []byte) []int {
	// Two passes: count first so the slice is allocated exactly once.
	newlines := 0
	for _, b := range content {
		if b == '\n' {
			newlines++
		}
	}

	starts := make([]int, 1, newlines+1)
	starts[0] = 0
	for i, b := range content {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// LineCount returns the number of lines the content spans. A trailing
// newline opens a final empty line, matching editor conventions.
func (ix *LineIndex) LineCount() int {
	return len(ix.starts)
}

// Locate converts an absolute byte offset to a 1-based line number and
// 1-based byte column within that line. Offsets past the end of content
// resolve to the last line.
func (ix *LineIndex) Locate(offset int) (line, column int) {
	if offset < 0 {
		offset = 0
	}

	// Binary search for the largest line start <= offset.
	lo, hi := 0, len(ix.starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if ix.starts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo + 1, offset - ix.starts[lo] + 1
}

// LineStart returns the byte offset where the given 1-based line begins,
// or -1 when the line is out of range.
func (ix *LineIndex) LineStart(line int) int {
	if line < 1 || line > len(ix.starts) {
		return -1
	}
	return ix.starts[line-1]
}

// LineText returns the given 1-based line without its terminator.
// Both LF and CRLF endings are stripped.
func (ix *LineIndex) LineText(line int) string {
	if line < 1 || line > len(ix.starts) {
		return ""
	}

	start := ix.starts[line-1]
	end := len(ix.content)
	if line < len(ix.starts) {
		end = ix.starts[line]
		if end > start && ix.content[end-1] == '\n' {
			end--
		}
	}
	if end > start && ix.content[end-1] == '\r' {
		end--
	}
	if start >= end {
		return ""
	}
	return string(ix.content[start:end])
}
