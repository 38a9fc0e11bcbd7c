package header

import (
	"strings"

	"github.com/phobologic/codexheader/internal/style"
)

const ellipsis = "…"

// Truncate collapses whitespace in s and shortens it to at most width runes.
// Shortened values end in an ellipsis.
func Truncate(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:max(width, 0)])
	}
	return strings.TrimRight(string(r[:width-1]), " ") + ellipsis
}

// Render wraps logical header lines in the comment syntax of st. The result
// always has exactly [Lines] entries, without line terminators.
//
// The first line carries the marker and is never truncated, so the header
// stays detectable at any width. Extra lines are dropped from the middle so
// the final line survives; short input is padded with blank comment lines
// placed before the final line.
func Render(st style.Style, lines []string, maxWidth int) []string {
	fields := fit(lines)
	out := make([]string, 0, Lines)
	first := strings.Join(strings.Fields(fields[0]), " ")

	if st.IsBlock() {
		out = append(out, st.BlockStart+" "+first)
		for _, f := range fields[1 : Lines-1] {
			out = append(out, st.BlockLinePrefix+Truncate(f, maxWidth))
		}
		return append(out, st.BlockLinePrefix+Truncate(fields[Lines-1], maxWidth)+" "+st.BlockEnd)
	}

	for i, f := range fields {
		switch {
		case i == 0 && first != "":
			out = append(out, st.LinePrefix+first)
			continue
		case f == "":
			out = append(out, strings.TrimRight(st.LinePrefix, " "))
			continue
		}
		out = append(out, st.LinePrefix+Truncate(f, maxWidth))
	}
	return out
}

func fit(lines []string) []string {
	switch {
	case len(lines) == 0:
		return make([]string, Lines)
	case len(lines) > Lines:
		out := make([]string, 0, Lines)
		out = append(out, lines[:Lines-1]...)
		return append(out, lines[len(lines)-1])
	case len(lines) < Lines:
		out := make([]string, 0, Lines)
		out = append(out, lines[:len(lines)-1]...)
		out = append(out, make([]string, Lines-len(lines))...)
		return append(out, lines[len(lines)-1])
	default:
		return lines
	}
}
