// Package search implements the matching pipeline: pattern scanning
// inside classified spans, category filtering, position assembly, and
// the file-parallel engine that ties them together.
package search

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/standardbeagle/sgrep/internal/types"
)

// occurrence is one pattern hit inside a span's text. Offsets are bytes
// relative to the span start and always index the original text, never a
// case-folded copy.
type occurrence struct {
	start int
	end   int
}

// FindOccurrences returns the byte offsets where pattern occurs in text,
// overlapping occurrences included: "aa" against "aaa" yields 0 and 1.
// Case-insensitive matching lowercases both sides with the same fold rule.
func FindOccurrences(text, pattern string, caseSensitive bool) []int {
	occs := findOccurrences(text, pattern, caseSensitive)
	if len(occs) == 0 {
		return nil
	}
	offsets := make([]int, len(occs))
	for i, o := range occs {
		offsets[i] = o.start
	}
	return offsets
}

func findOccurrences(text, pattern string, caseSensitive bool) []occurrence {
	if len(pattern) == 0 || len(text) == 0 || len(pattern) > len(text) {
		return nil
	}
	if caseSensitive {
		return findExact(text, pattern)
	}
	if isASCII(text) && isASCII(pattern) {
		// ASCII lowering never changes byte lengths, so offsets into the
		// folded copy are valid in the original.
		return findExact(strings.ToLower(text), strings.ToLower(pattern))
	}
	return findFolded(text, pattern)
}

// findExact is the overlapping substring scan: restart one byte past each
// hit so "aa" is found twice in "aaa".
func findExact(text, pattern string) []occurrence {
	var occs []occurrence
	offset := 0
	for offset < len(text) {
		idx := strings.Index(text[offset:], pattern)
		if idx < 0 {
			break
		}
		start := offset + idx
		occs = append(occs, occurrence{start: start, end: start + len(pattern)})
		offset = start + 1
	}
	return occs
}

// findFolded is the non-ASCII fallback: compare rune by rune under
// unicode.ToLower, advancing one rune per candidate position. The matched
// end can differ from start+len(pattern) when folding changes a rune's
// encoded width, so ends are tracked explicitly.
func findFolded(text, pattern string) []occurrence {
	pat := []rune(strings.ToLower(pattern))
	if len(pat) == 0 {
		return nil
	}
	var occs []occurrence
	for i := 0; i < len(text); {
		if n, ok := foldedPrefixLen(text[i:], pat); ok {
			occs = append(occs, occurrence{start: i, end: i + n})
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		if size == 0 {
			break
		}
		i += size
	}
	return occs
}

// foldedPrefixLen reports whether text begins with pat under lowercase
// folding and returns the byte length of the matched prefix.
func foldedPrefixLen(text string, pat []rune) (int, bool) {
	n := 0
	for _, pr := range pat {
		r, size := utf8.DecodeRuneInString(text[n:])
		if size == 0 {
			return 0, false
		}
		if unicode.ToLower(r) != pr {
			return 0, false
		}
		n += size
	}
	return n, true
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// IsWordByte reports whether b is a word constituent: letter, digit, or
// underscore.
func IsWordByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}

// onWordBounds reports whether text[start:end] sits on word boundaries.
// A multi-byte rune neighbor never counts as a word byte, which keeps the
// check safe on UTF-8 input.
func onWordBounds(text string, start, end int) bool {
	if start > 0 && IsWordByte(text[start-1]) {
		return false
	}
	if end < len(text) && IsWordByte(text[end]) {
		return false
	}
	return true
}

// MatchSpan applies the request's matching rules to one classified span
// and returns the pattern offsets within it. Under whole-word matching an
// identifier or keyword span must equal the pattern outright (the token is
// the word), while comment and string spans check word boundaries around
// each occurrence instead.
func MatchSpan(span types.ClassifiedSpan, pattern string, caseSensitive, wholeWord bool) []int {
	if wholeWord && (span.Category == types.CategoryIdentifier || span.Category == types.CategoryKeyword) {
		if equalUnderCase(span.Text, pattern, caseSensitive) {
			return []int{0}
		}
		return nil
	}

	occs := findOccurrences(span.Text, pattern, caseSensitive)
	if len(occs) == 0 {
		return nil
	}
	offsets := make([]int, 0, len(occs))
	for _, o := range occs {
		if wholeWord && !onWordBounds(span.Text, o.start, o.end) {
			continue
		}
		offsets = append(offsets, o.start)
	}
	if len(offsets) == 0 {
		return nil
	}
	return offsets
}

func equalUnderCase(text, pattern string, caseSensitive bool) bool {
	if caseSensitive {
		return text == pattern
	}
	pat := []rune(strings.ToLower(pattern))
	n, ok := foldedPrefixLen(text, pat)
	return ok && n == len(text)
}
