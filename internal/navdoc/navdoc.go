// Package navdoc maintains the navigation document (AGENTS.md by default):
// a project-level table of annotated files, kept between boundary markers so
// surrounding content is never touched.
package navdoc

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/phobologic/codexheader/internal/discover"
	"github.com/phobologic/codexheader/internal/header"
	"github.com/phobologic/codexheader/internal/lang"
	"github.com/phobologic/codexheader/internal/prolog"
)

// Boundary markers of the generated index table.
const (
	IndexStart = "<!-- CODEX_HEADER_INDEX_START -->"
	IndexEnd   = "<!-- CODEX_HEADER_INDEX_END -->"
)

// DefaultFile is the navigation document written when none is configured.
const DefaultFile = "AGENTS.md"

const purposeWidth = 60

const tableHead = "<!-- This section is generated by codexheader -->\n" +
	"<!-- DO NOT EDIT MANUALLY -->\n\n" +
	"| File | Purpose | Key Content |\n" +
	"|------|---------|-------------|\n"

// Entry is one row of the index table.
type Entry struct {
	Path    string
	Purpose string
	Types   string
	Funcs   string
}

// EntryFor builds an Entry from reconciled header fields.
func EntryFor(rel string, f header.Fields) Entry {
	return Entry{
		Path:    rel,
		Purpose: f.Get(header.Purpose),
		Types:   f.Get(header.KeyTypes),
		Funcs:   f.Get(header.KeyFuncs),
	}
}

// Row renders e as a markdown table row.
func (e Entry) Row() string {
	purpose := header.Placeholder
	if !header.IsPlaceholder(e.Purpose) {
		purpose = header.Truncate(e.Purpose, purposeWidth)
	}

	var key []string
	if !header.IsPlaceholder(e.Types) {
		key = append(key, "Types: "+e.Types)
	}
	if !header.IsPlaceholder(e.Funcs) {
		key = append(key, "Funcs: "+e.Funcs)
	}
	content := "-"
	if len(key) > 0 {
		content = strings.Join(key, "; ")
	}

	return fmt.Sprintf("| `%s` | %s | %s |", e.Path, escapeCell(purpose), escapeCell(content))
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// Collect reads the headers of paths and returns an Entry for each file
// that has a valid one.
func Collect(paths []string, root string) []Entry {
	var out []Entry
	for _, p := range paths {
		raw, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		rel := discover.RelPath(p, root)
		_, rest := prolog.Split(prolog.SplitLines(string(raw)), lang.ForPath(p).EncodingCookie)
		hdr, _, found, err := header.Find(rest, rel)
		if err != nil || !found {
			continue
		}
		f := header.ParseFields(hdr)
		out = append(out, Entry{
			Path:    rel,
			Purpose: f[header.Purpose],
			Types:   f[header.KeyTypes],
			Funcs:   f[header.KeyFuncs],
		})
	}
	return out
}

// ApplyIndex merges entries into the index table of content and returns the
// new document. Rows already present for other paths are kept; rows are
// sorted by path. Empty content yields the full guide template. Content
// without markers gets an index section appended.
func ApplyIndex(content string, entries []Entry, today string) string {
	rows := make(map[string]string)
	start := strings.Index(content, IndexStart)
	end := strings.Index(content, IndexEnd)
	hasMarkers := start >= 0 && end > start
	if hasMarkers {
		for path, row := range parseRows(content[start+len(IndexStart) : end]) {
			rows[path] = row
		}
	}
	for _, e := range entries {
		rows[e.Path] = e.Row()
	}

	section := IndexStart + "\n" + tableHead + table(rows) + IndexEnd

	switch {
	case hasMarkers:
		return ApplySection(content, IndexStart, IndexEnd, section)
	case strings.TrimSpace(content) == "":
		return Template(today, section)
	default:
		return ApplySection(content, IndexStart, IndexEnd, "## Annotated Files Index\n\n"+section)
	}
}

func table(rows map[string]string) string {
	paths := make([]string, 0, len(rows))
	for p := range rows {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var b strings.Builder
	for _, p := range paths {
		b.WriteString(rows[p])
		b.WriteString("\n")
	}
	return b.String()
}

// parseRows returns the existing table rows keyed by file path.
func parseRows(section string) map[string]string {
	rows := make(map[string]string)
	for _, ln := range strings.Split(section, "\n") {
		ln = strings.TrimSpace(ln)
		if !strings.HasPrefix(ln, "| `") {
			continue
		}
		rest := ln[len("| `"):]
		path, _, ok := strings.Cut(rest, "`")
		if !ok || path == "" {
			continue
		}
		rows[path] = ln
	}
	return rows
}

// ApplySection inserts section into content, replacing an existing block
// delimited by start and end if present or appending if not.
func ApplySection(content, start, end, section string) string {
	i := strings.Index(content, start)
	j := strings.Index(content, end)

	if i >= 0 && j > i {
		return content[:i] + section + content[j+len(end):]
	}

	// Append, ensuring a blank line separator.
	if len(content) > 0 && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content + "\n" + section + "\n"
}

// Update applies entries to the document at path, creating it if missing.
// It reports whether the file changed.
func Update(path string, entries []Entry, today string) (bool, error) {
	if len(entries) == 0 {
		return false, nil
	}

	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}

	updated := ApplyIndex(string(existing), entries, today)
	if updated == string(existing) {
		return false, nil
	}
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}
