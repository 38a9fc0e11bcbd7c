// Package header locates, parses and renders the fixed-size metadata header
// kept at the top of annotated files.
//
// A header is exactly [Lines] physical lines. Its first line carries
// [Marker]; its last line is the "Last update" field. Field lines have the
// form "Label: value" inside the file's comment syntax.
package header

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	// Marker identifies a managed header.
	Marker = "@codex-header: v1"
	// Lines is the exact number of physical lines a header occupies.
	Lines = 20
	// Placeholder is the value of an unfilled field.
	Placeholder = "TODO"
	// DefaultMaxWidth bounds each rendered field line, in runes.
	DefaultMaxWidth = 120

	// scanLimit is how far into the body the locator looks for Marker.
	scanLimit = 60
)

// ErrInvalidHeader is returned when Marker is present but the header does
// not occupy its fixed window.
var ErrInvalidHeader = errors.New("invalid header")

// ValidationError names the file whose header violates the layout.
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidHeader
}

// Find splits an existing header off the front of body. Only the first 60
// lines are searched for Marker. When Marker is found the header must be
// exactly the first [Lines] lines of body; anything else is a
// *ValidationError and the file must not be rewritten.
func Find(body []string, path string) (hdr, rest []string, found bool, err error) {
	limit := min(len(body), scanLimit)
	if !containsMarker(body[:limit]) {
		return nil, body, false, nil
	}

	if len(body) < Lines {
		return nil, body, false, &ValidationError{
			Path:   path,
			Reason: fmt.Sprintf("found %s but file is shorter than %d lines", Marker, Lines),
		}
	}

	if containsMarker(body[:Lines]) {
		return body[:Lines], body[Lines:], true, nil
	}

	return nil, body, false, &ValidationError{
		Path: path,
		Reason: fmt.Sprintf("found %s near top but header is not the first %d lines; normalize the header manually",
			Marker, Lines),
	}
}

func containsMarker(lines []string) bool {
	for _, ln := range lines {
		if strings.Contains(ln, Marker) {
			return true
		}
	}
	return false
}

var (
	commentPrefixRe = regexp.MustCompile(`^\s*(?:/\*+|<!--)?\s*(?:\*+\s*)?(?:#|//|--)?\s*`)
	commentSuffixRe = regexp.MustCompile(`\s*(?:\*/|-->)\s*$`)
	placeholderRe   = regexp.MustCompile(`^` + Placeholder + `(?:[\s:;,.-]|$)`)
)

// StripComment removes comment delimiters around a header line.
func StripComment(line string) string {
	s := strings.TrimRight(line, "\r\n")
	s = commentSuffixRe.ReplaceAllString(s, "")
	s = commentPrefixRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// ParseFields reads "Label: value" pairs from header lines. Unknown lines
// are ignored.
func ParseFields(hdr []string) map[string]string {
	fields := make(map[string]string)
	for _, ln := range hdr {
		clean := StripComment(ln)
		for _, label := range Labels {
			prefix := label + ":"
			if strings.HasPrefix(clean, prefix) {
				fields[label] = strings.TrimSpace(clean[len(prefix):])
				break
			}
		}
	}
	return fields
}

// IsPlaceholder reports whether v is unfilled: empty, whitespace, or the
// placeholder token optionally followed by punctuation and text.
func IsPlaceholder(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || placeholderRe.MatchString(v)
}
