package types

import (
	"fmt"
	"strings"
	"unicode"
)

// Common system-wide constants
const (
	// DefaultMaxFileSize skips files larger than this during traversal.
	// Large source files are almost always generated code or embedded
	// data; parsing them costs memory without useful matches.
	DefaultMaxFileSize = 10 * 1024 * 1024 // 10MB per file

	// DefaultWorkers of zero means one worker per CPU.
	DefaultWorkers = 0

	// DefaultDebounceMs batches watch-mode filesystem events so a burst
	// of saves triggers one re-search, not dozens.
	DefaultDebounceMs = 300

	// DefaultMaxCount of zero means unlimited matches per file.
	DefaultMaxCount = 0

	// BinaryPreCheckBytes is how much of a file the binary sniffer reads
	// before committing to a full load.
	BinaryPreCheckBytes = 512
)

// CaseMode selects how pattern case is treated. The zero value is smart
// case: sensitive when the pattern contains an upper-case rune,
// insensitive otherwise.
type CaseMode uint8

const (
	CaseSmart CaseMode = iota
	CaseSensitive
	CaseInsensitive
)

func (m CaseMode) String() string {
	switch m {
	case CaseSensitive:
		return "sensitive"
	case CaseInsensitive:
		return "insensitive"
	default:
		return "smart"
	}
}

// Resolve reduces the mode to a concrete sensitivity for one pattern.
func (m CaseMode) Resolve(pattern string) bool {
	switch m {
	case CaseSensitive:
		return true
	case CaseInsensitive:
		return false
	default:
		return hasUpper(pattern)
	}
}

func hasUpper(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

// ParseCaseMode reads a mode name from config or flags. The empty string
// is smart case.
func ParseCaseMode(s string) (CaseMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "smart":
		return CaseSmart, nil
	case "sensitive":
		return CaseSensitive, nil
	case "insensitive":
		return CaseInsensitive, nil
	default:
		return CaseSmart, fmt.Errorf("unknown case mode %q (want smart, sensitive, or insensitive)", s)
	}
}

// ClassifiedSpan is one searchable token produced by the tree classifier.
// ByteStart and ByteEnd are offsets into the file content; Text is copied
// out of the parse buffer so the span never references tree storage.
type ClassifiedSpan struct {
	ByteStart int
	ByteEnd   int
	Category  Category
	Text      string
}

// Len returns the span width in bytes.
func (s ClassifiedSpan) Len() int {
	return s.ByteEnd - s.ByteStart
}

// SearchRequest carries one resolved query. CaseSensitive is the concrete
// sensitivity after smart-case resolution. WholeWord restricts matches to
// word boundaries; for identifier and keyword spans it means whole-token
// equality.
type SearchRequest struct {
	Pattern       string
	Categories    CategorySet
	CaseSensitive bool
	WholeWord     bool
	MaxPerFile    int
}

// Match is one confirmed pattern hit positioned against the original
// source text. Line and Column are 1-based; Column counts bytes from the
// start of the line. LineText is the full line without its terminator.
type Match struct {
	File     string   `json:"file"`
	Line     int      `json:"line"`
	Column   int      `json:"column"`
	LineText string   `json:"line_text"`
	Category Category `json:"category"`
}

// Warning records a per-file skip: unreadable file, unsupported language,
// parse failure. Warnings never abort a run.
type Warning struct {
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

// FileTask names one file scheduled for searching, paired with the
// language tag the traversal layer inferred for it.
type FileTask struct {
	Path     string
	Language string
}

// Result aggregates a whole run: matches in deterministic order plus the
// per-file warnings collected along the way.
type Result struct {
	Matches  []Match   `json:"matches"`
	Warnings []Warning `json:"warnings,omitempty"`

	// FilesSearched counts files that completed the pipeline, including
	// files that yielded no matches.
	FilesSearched int `json:"files_searched"`
}
