package lang

import (
	"regexp"
	"strings"

	"github.com/phobologic/codexheader/internal/model"
)

var whereRe = regexp.MustCompile(`\bwhere\b`)

// SplitSupertypes splits a raw parent clause on top-level commas. Anything
// after an opening brace or a where-clause is dropped first; commas nested
// inside generic arguments or calls do not split.
func SplitSupertypes(raw string) []string {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexByte(raw, '{'); i >= 0 {
		raw = raw[:i]
	}
	if loc := whereRe.FindStringIndex(raw); loc != nil {
		raw = raw[:loc[0]]
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var parts []string
	depth, start := 0, 0
	for i, r := range raw {
		switch r {
		case '<', '(', '[':
			depth++
		case '>', ')', ']':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, raw[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, raw[start:])

	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// CleanBaseName strips generic arguments, call parentheses and namespace
// qualifiers: "pkg.Base<T>" and "mod::Base()" both become "Base".
func CleanBaseName(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "<(["); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	for _, sep := range []string{"::", ".", `\`} {
		if i := strings.LastIndex(s, sep); i >= 0 {
			s = s[i+len(sep):]
		}
	}
	return strings.TrimSpace(s)
}

// cleanAll cleans every piece and drops the ones that end up empty.
func cleanAll(pieces []string) []string {
	var out []string
	for _, p := range pieces {
		if name := CleanBaseName(p); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// firstThen assigns first to the leading parent and rest to all others.
func firstThen(names []string, first, rest model.Relation) []Supertype {
	out := make([]Supertype, 0, len(names))
	for i, n := range names {
		rel := rest
		if i == 0 {
			rel = first
		}
		out = append(out, Supertype{Rel: rel, Name: n})
	}
	return out
}

func all(names []string, rel model.Relation) []Supertype {
	return firstThen(names, rel, rel)
}
