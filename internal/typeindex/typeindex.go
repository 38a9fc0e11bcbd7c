// Package typeindex builds the cross-file map from type name to the places
// it is declared, used to resolve parent types declared in other files.
package typeindex

import (
	"context"
	"log/slog"
	"os"
	"sort"

	"github.com/phobologic/codexheader/internal/discover"
	"github.com/phobologic/codexheader/internal/extract"
	"github.com/phobologic/codexheader/internal/header"
	"github.com/phobologic/codexheader/internal/lang"
	"github.com/phobologic/codexheader/internal/model"
	"github.com/phobologic/codexheader/internal/prolog"
	"github.com/phobologic/codexheader/internal/style"
)

// Index maps type names to declaration sites. It is read-only once built
// and safe for concurrent use.
type Index struct {
	byName map[string][]model.Location
}

// Build scans paths and records every type declaration. Line numbers are
// those the declarations will have once each file carries a header, so
// references stay valid after the run. Files that cannot be read, have no
// comment style, or carry an invalid header are left out.
func Build(ctx context.Context, paths []string, root string) *Index {
	idx := &Index{byName: make(map[string][]model.Location)}
	for _, p := range paths {
		if ctx.Err() != nil {
			break
		}
		if _, support := style.ForPath(p); support != style.Supported {
			continue
		}
		raw, err := os.ReadFile(p)
		if err != nil {
			slog.WarnContext(ctx, "type index: read failed", slog.String("path", p), slog.Any("error", err))
			continue
		}

		l := lang.ForPath(p)
		pro, rest := prolog.Split(prolog.SplitLines(string(raw)), l.EncodingCookie)
		_, body, _, err := header.Find(rest, p)
		if err != nil {
			slog.WarnContext(ctx, "type index: skipping file", slog.String("path", p), slog.Any("error", err))
			continue
		}

		rel := discover.RelPath(p, root)
		for _, ref := range extract.Types(l, body, len(pro)+header.Lines) {
			idx.Add(ref.Name, model.Location{Path: rel, Line: ref.Line})
		}
	}

	for name := range idx.byName {
		locs := idx.byName[name]
		sort.SliceStable(locs, func(i, j int) bool {
			if locs[i].Path != locs[j].Path {
				return locs[i].Path < locs[j].Path
			}
			return locs[i].Line < locs[j].Line
		})
	}
	return idx
}

// Add records a declaration. Only used while building.
func (x *Index) Add(name string, loc model.Location) {
	if x.byName == nil {
		x.byName = make(map[string][]model.Location)
	}
	x.byName[name] = append(x.byName[name], loc)
}

// Lookup returns every recorded declaration of name.
func (x *Index) Lookup(name string) []model.Location {
	if x == nil {
		return nil
	}
	return x.byName[name]
}

// Resolve returns the declaration of name when there is exactly one.
func (x *Index) Resolve(name string) (model.Location, bool) {
	locs := x.Lookup(name)
	if len(locs) != 1 {
		return model.Location{}, false
	}
	return locs[0], true
}

// Len reports the number of distinct type names.
func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return len(x.byName)
}
