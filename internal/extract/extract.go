// Package extract scans a file body line by line and reports the
// declarations the header lists: key types, key functions, entrypoints and
// inheritance edges.
package extract

import (
	"strings"

	"github.com/phobologic/codexheader/internal/lang"
	"github.com/phobologic/codexheader/internal/model"
)

// Limits applied to each extracted list.
const (
	MaxLineLength  = 5000
	MaxTypes       = 4
	MaxFuncs       = 6
	MaxEntrypoints = 2
	MaxEdges       = 6
)

// Resolver finds a type declared in another file. Implementations return
// false unless the name is unambiguous.
type Resolver interface {
	Resolve(name string) (model.Location, bool)
}

// Extract scans body, whose first line will sit at line offset+1 of the
// final file. r may be nil, in which case parents not declared in this file
// are rendered by bare name.
func Extract(l *lang.Language, body []string, offset int, r Resolver) model.Symbols {
	var types, funcs, entries []model.SymbolRef
	for i, raw := range body {
		line, ok := scannable(raw)
		if !ok {
			continue
		}
		kind, name, ok := l.Match(line)
		if !ok {
			continue
		}
		ref := model.SymbolRef{Name: name, Line: offset + i + 1}
		switch kind {
		case model.Type:
			types = append(types, ref)
		case model.Function:
			funcs = append(funcs, ref)
		case model.Entrypoint:
			entries = append(entries, ref)
		}
	}

	return model.Symbols{
		Types:       capUnique(types, MaxTypes),
		Funcs:       capUnique(funcs, MaxFuncs),
		Entrypoints: capUnique(entries, MaxEntrypoints),
		Inheritance: inheritance(l, body, offset, r),
	}
}

// Types returns every type declaration in body, in order and without
// limits. Used to build the cross-file type index.
func Types(l *lang.Language, body []string, offset int) []model.SymbolRef {
	var out []model.SymbolRef
	for i, raw := range body {
		line, ok := scannable(raw)
		if !ok {
			continue
		}
		if name, ok := l.TypeName(line); ok {
			out = append(out, model.SymbolRef{Name: name, Line: offset + i + 1})
		}
	}
	return out
}

func inheritance(l *lang.Language, body []string, offset int, r Resolver) []model.Edge {
	if l.Inherit == nil {
		return nil
	}

	declared := make(map[string]int)
	for _, ref := range Types(l, body, offset) {
		if _, ok := declared[ref.Name]; !ok {
			declared[ref.Name] = ref.Line
		}
	}
	isLocal := func(name string) bool {
		_, ok := declared[name]
		return ok
	}

	var edges []model.Edge
	for i, raw := range body {
		line, ok := scannable(raw)
		if !ok {
			continue
		}
		child, parents := l.Inherit(line, isLocal)
		if child == "" || len(parents) == 0 {
			continue
		}

		childLine, ok := declared[child]
		if !ok {
			childLine = offset + i + 1
		}
		for _, p := range parents {
			if p.Name == "" {
				continue
			}
			edges = append(edges, model.Edge{
				Child:  model.SymbolRef{Name: child, Line: childLine},
				Rel:    p.Rel,
				Parent: resolve(p.Name, declared, r),
			})
			if len(edges) >= MaxEdges {
				return edges
			}
		}
	}
	return edges
}

// resolve prefers a declaration in the same file, then an unambiguous one
// elsewhere, then the bare name.
func resolve(name string, declared map[string]int, r Resolver) model.SymbolRef {
	if ln, ok := declared[name]; ok {
		return model.SymbolRef{Name: name, Line: ln}
	}
	if r != nil {
		if loc, ok := r.Resolve(name); ok {
			return model.SymbolRef{Name: name, Line: loc.Line, Path: loc.Path}
		}
	}
	return model.SymbolRef{Name: name}
}

func scannable(raw string) (string, bool) {
	if len(raw) > MaxLineLength {
		return "", false
	}
	return strings.TrimRight(raw, "\r\n"), true
}

// capUnique keeps the first occurrence of each name, up to limit entries.
func capUnique(refs []model.SymbolRef, limit int) []model.SymbolRef {
	var out []model.SymbolRef
	seen := make(map[string]bool, len(refs))
	for _, r := range refs {
		if seen[r.Name] {
			continue
		}
		seen[r.Name] = true
		out = append(out, r)
		if len(out) == limit {
			break
		}
	}
	return out
}

// Join renders refs as a comma-separated header value, or "" when empty.
func Join[T interface{ String() string }](refs []T) string {
	parts := make([]string, len(refs))
	for i, r := range refs {
		parts[i] = r.String()
	}
	return strings.Join(parts, ", ")
}
