// Package display renders search results as grouped or line-prefixed
// text with optional ANSI styling, or as a single JSON document.
package display

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/standardbeagle/sgrep/internal/types"
)

// Options controls rendering. The zero value prints grouped colored
// output truncated to the detected terminal width.
type Options struct {
	// NoGroup prints path:line[:col]:text per match instead of per-file
	// blocks.
	NoGroup bool
	// ShowColumn adds the 1-based column after the line number.
	ShowColumn bool
	// NoColor disables ANSI styling.
	NoColor bool
	// JSON emits one JSON document instead of text.
	JSON bool
	// NoTruncate disables shortening long lines to the terminal width.
	NoTruncate bool
	// Width overrides terminal width detection. Zero means detect; when
	// detection fails lines are not truncated.
	Width int
}

// Report is one completed run prepared for output. Paths should already
// be relative to the search root.
type Report struct {
	Query         string          `json:"query"`
	Language      string          `json:"language"`
	CaseSensitive bool            `json:"case_sensitive"`
	Count         int             `json:"count"`
	TimeMs        int64           `json:"time_ms"`
	Matches       []types.Match   `json:"matches"`
	Warnings      []types.Warning `json:"warnings,omitempty"`

	// Highlight is the byte length of the matched literal within each
	// line. Zero disables match styling; query-expression rows have no
	// literal to highlight.
	Highlight int `json:"-"`
}

// Printer writes reports to an output and a warning stream.
type Printer struct {
	out    io.Writer
	errOut io.Writer
	opts   Options

	pathColor  *color.Color
	lineColor  *color.Color
	matchColor *color.Color
}

// NewPrinter builds a printer. Width 0 triggers terminal detection on
// stdout.
func NewPrinter(out, errOut io.Writer, opts Options) *Printer {
	if opts.Width == 0 && !opts.NoTruncate {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			opts.Width = w
		}
	}

	p := &Printer{
		out:        out,
		errOut:     errOut,
		opts:       opts,
		pathColor:  color.New(color.FgGreen, color.Bold),
		lineColor:  color.New(color.FgYellow, color.Bold),
		matchColor: color.New(color.FgBlack, color.BgYellow),
	}
	if opts.NoColor {
		p.pathColor.DisableColor()
		p.lineColor.DisableColor()
		p.matchColor.DisableColor()
	}
	return p
}

// ForceColor turns styling on even when stdout is not a terminal.
func (p *Printer) ForceColor() {
	p.pathColor.EnableColor()
	p.lineColor.EnableColor()
	p.matchColor.EnableColor()
}

// Print renders one report. In JSON mode warnings travel inside the
// document; in text mode they go to the warning stream.
func (p *Printer) Print(report *Report) error {
	if p.opts.JSON {
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	for _, w := range report.Warnings {
		if w.Path != "" {
			fmt.Fprintf(p.errOut, "%s: %s\n", w.Path, w.Message)
		} else {
			fmt.Fprintln(p.errOut, w.Message)
		}
	}

	currentFile := ""
	first := true
	for i := range report.Matches {
		m := &report.Matches[i]
		if !p.opts.NoGroup && m.File != currentFile {
			if !first {
				fmt.Fprintln(p.out)
			}
			first = false
			fmt.Fprintln(p.out, p.pathColor.Sprint(m.File))
			currentFile = m.File
		}
		p.printMatch(m, report.Highlight)
	}
	return nil
}

// Separator marks the boundary between watch-mode reruns. JSON documents
// are self-delimiting, so JSON mode writes nothing.
func (p *Printer) Separator() {
	if p.opts.JSON {
		return
	}
	fmt.Fprintf(p.out, "\n%s\n\n", strings.Repeat("-", 40))
}

func (p *Printer) printMatch(m *types.Match, patternLen int) {
	var b strings.Builder

	if p.opts.NoGroup {
		b.WriteString(p.pathColor.Sprint(m.File))
		b.WriteByte(':')
	}
	b.WriteString(p.lineColor.Sprintf("%d:", m.Line))
	if p.opts.ShowColumn {
		fmt.Fprintf(&b, "%d:", m.Column)
	}

	text := m.LineText
	start := m.Column - 1
	end := start + patternLen
	if start < 0 || start > len(text) {
		start, end = len(text), len(text)
	}
	if end > len(text) {
		end = len(text)
	}

	if !p.opts.NoTruncate && p.opts.Width > 0 {
		text, start, end = truncateAroundMatch(text, start, end, p.opts.Width)
	}

	b.WriteString(text[:start])
	if end > start {
		b.WriteString(p.matchColor.Sprint(text[start:end]))
	}
	b.WriteString(text[end:])

	fmt.Fprintln(p.out, b.String())
}
