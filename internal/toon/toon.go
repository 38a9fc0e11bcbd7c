// Package toon implements TOON (Token-Oriented Object Notation) encoding of
// annotation run reports.
package toon

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/phobologic/codexheader/internal/annotate"
	"github.com/phobologic/codexheader/internal/header"
)

var (
	needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)
	looksNumeric = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?$`)
	keywords     = map[string]struct{}{
		"true":  {},
		"false": {},
		"null":  {},
	}
)

// Encode converts batch results into TOON format. Files that failed are
// listed under errors; the rest under files, with their inheritance edges
// listed separately.
func Encode(root string, dryRun bool, results []annotate.Result) string {
	var parts []string

	mode := "write"
	if dryRun {
		mode = "dry-run"
	}
	parts = append(parts, fmt.Sprintf("root: %s", encodeValue(root)))
	parts = append(parts, fmt.Sprintf("mode: %s", mode))

	var fileRows, edgeRows, errRows [][]string
	for i := range results {
		r := &results[i]
		if r.Err != nil {
			errRows = append(errRows, []string{r.Path, r.Err.Error()})
			continue
		}
		fileRows = append(fileRows, []string{
			r.RelPath,
			string(r.Action),
			r.Fields.Get(header.KeyTypes),
			r.Fields.Get(header.KeyFuncs),
		})
		if inh := r.Fields.Get(header.Inheritance); inh != "" {
			for _, e := range strings.Split(inh, ", ") {
				edgeRows = append(edgeRows, []string{r.RelPath, e})
			}
		}
	}
	parts = append(parts, formatTabular("files", []string{"path", "action", "types", "funcs"}, fileRows))

	if len(edgeRows) > 0 {
		parts = append(parts, formatTabular("inheritance", []string{"path", "edge"}, edgeRows))
	}
	if len(errRows) > 0 {
		parts = append(parts, formatTabular("errors", []string{"path", "error"}, errRows))
	}

	s := annotate.Summarize(results)
	parts = append(parts, formatTabular("summary", []string{"changed", "unchanged", "skipped", "errored"}, [][]string{{
		strconv.Itoa(s.Changed),
		strconv.Itoa(s.Unchanged),
		strconv.Itoa(s.Skipped),
		strconv.Itoa(s.Errored),
	}}))

	return strings.Join(parts, "\n")
}

func formatTabular(name string, columns []string, rows [][]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]{%s}:", name, len(rows), strings.Join(columns, ","))
	for _, row := range rows {
		encoded := make([]string, len(row))
		for i, cell := range row {
			encoded[i] = encodeValue(cell)
		}
		fmt.Fprintf(&b, "\n  %s", strings.Join(encoded, ","))
	}
	return b.String()
}

func encodeValue(value string) string {
	if value == "" {
		return `""`
	}

	if value != strings.TrimSpace(value) {
		return quote(value)
	}

	if strings.ContainsAny(value, "\n\r\t") {
		return quote(value)
	}

	if _, ok := keywords[strings.ToLower(value)]; ok {
		return quote(value)
	}

	if looksNumeric.MatchString(value) {
		return value
	}

	if needsQuoting.MatchString(value) {
		return quote(value)
	}

	if strings.HasPrefix(value, "-") {
		return quote(value)
	}

	return value
}

func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	return `"` + escaped + `"`
}
