package extract

import (
	"strings"

	"github.com/phobologic/codexheader/internal/header"
)

const (
	docstringWidth    = 300
	docstringMaxLines = 2000
)

// PeekDocstring returns the module docstring when it is the first non-blank
// statement of body, collapsed and truncated for use as a Purpose hint.
// The docstring itself is left in place. Returns "" when there is none or it
// is not closed within a bounded number of lines.
func PeekDocstring(body []string) string {
	i := 0
	for i < len(body) && strings.TrimSpace(body[i]) == "" {
		i++
	}
	if i == len(body) {
		return ""
	}

	opener := strings.TrimSpace(body[i])
	var quote string
	switch {
	case strings.HasPrefix(opener, `"""`):
		quote = `"""`
	case strings.HasPrefix(opener, `'''`):
		quote = `'''`
	default:
		return ""
	}

	first := opener[len(quote):]
	if content, _, closed := strings.Cut(first, quote); closed {
		return header.Truncate(content, docstringWidth)
	}

	collected := []string{first}
	end := min(len(body), i+docstringMaxLines)
	for _, ln := range body[i+1 : end] {
		if before, _, closed := strings.Cut(ln, quote); closed {
			collected = append(collected, before)
			return header.Truncate(strings.Join(collected, "\n"), docstringWidth)
		}
		collected = append(collected, strings.TrimRight(ln, "\r\n"))
	}
	return ""
}
