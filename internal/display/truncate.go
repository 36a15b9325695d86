package display

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

const ellipsis = "..."

// truncateAroundMatch shortens line to at most width display cells while
// keeping the byte range [matchStart, matchEnd) visible, with ellipsis
// markers on cut edges. The returned offsets locate the match within the
// returned string. Widths are wcwidth cells, not bytes, so wide runes
// count double.
func truncateAroundMatch(line string, matchStart, matchEnd, width int) (string, int, int) {
	if width < 2*len(ellipsis)+1 || runewidth.StringWidth(line) <= width {
		return line, matchStart, matchEnd
	}

	// Walk back from the match start, spending up to a third of the
	// width on leading context.
	winStart := matchStart
	budget := width / 3
	for winStart > 0 && budget > 0 {
		r, size := utf8.DecodeLastRuneInString(line[:winStart])
		w := runewidth.RuneWidth(r)
		if w > budget {
			break
		}
		winStart -= size
		budget -= w
	}

	lead := ""
	avail := width
	if winStart > 0 {
		lead = ellipsis
		avail -= len(ellipsis)
	}

	// Fill forward until the width is spent. When the tail does not fit,
	// shrink until the trailing marker does.
	winEnd := winStart
	used := 0
	clipped := false
	for winEnd < len(line) {
		r, size := utf8.DecodeRuneInString(line[winEnd:])
		w := runewidth.RuneWidth(r)
		if used+w > avail {
			clipped = true
			break
		}
		winEnd += size
		used += w
	}
	if clipped {
		for winEnd > winStart && used+len(ellipsis) > avail {
			r, size := utf8.DecodeLastRuneInString(line[:winEnd])
			winEnd -= size
			used -= runewidth.RuneWidth(r)
		}
	}

	out := lead + line[winStart:winEnd]
	if clipped {
		out += ellipsis
	}

	start := matchStart - winStart + len(lead)
	end := matchEnd - winStart + len(lead)
	if limit := len(lead) + winEnd - winStart; end > limit {
		end = limit
	}
	if start > end {
		start = end
	}
	return out, start, end
}
