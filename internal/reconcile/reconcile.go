// Package reconcile decides the value of every header field from freshly
// extracted symbols, the prior header (if any), and caller overrides.
package reconcile

import (
	"github.com/phobologic/codexheader/internal/extract"
	"github.com/phobologic/codexheader/internal/header"
	"github.com/phobologic/codexheader/internal/model"
)

// DateLayout formats the Last update field.
const DateLayout = "2006-01-02"

// Input is everything known about one file when its header is rebuilt.
type Input struct {
	// Path is the header Path value, relative to the run root.
	Path    string
	Symbols model.Symbols
	// Prior holds fields parsed from an existing header; nil when the file
	// has none.
	Prior map[string]string

	// Purpose and Index override both prior values and hints when set.
	Purpose string
	Index   string
	// Hint is a Purpose derived from the source, such as a module docstring.
	Hint string

	// Refresh resets manual fields instead of preserving them.
	Refresh bool
	// Today is the current date in DateLayout.
	Today string
}

// Fields returns the reconciled fields in header order.
//
// Computed fields always come from Symbols. In preserve mode manual fields
// keep their prior non-placeholder values and Last update keeps its prior
// date; in refresh mode manual fields reset and Last update is Today.
// Advancing a preserved date when the content changed is left to the caller,
// which can compare rendered output.
func Fields(in Input) header.Fields {
	var f header.Fields
	set := func(label, v string) { f = append(f, header.Field{Label: label, Value: v}) }

	set(header.Path, in.Path)
	set(header.Purpose, in.purpose())
	set(header.KeyTypes, extract.Join(in.Symbols.Types))
	set(header.Inheritance, extract.Join(in.Symbols.Inheritance))
	set(header.KeyFuncs, extract.Join(in.Symbols.Funcs))
	set(header.Entrypoints, extract.Join(in.Symbols.Entrypoints))
	for _, label := range header.Manual {
		set(label, in.prior(label))
	}
	set(header.Index, firstFilled(in.Index, in.prior(header.Index)))
	set(header.LastUpdate, in.lastUpdate())
	return f
}

func (in Input) purpose() string {
	return firstFilled(in.Purpose, in.prior(header.Purpose), in.Hint)
}

func (in Input) lastUpdate() string {
	return firstFilled(in.prior(header.LastUpdate), in.Today)
}

// prior returns the preserved value of label, or "" in refresh mode or when
// the prior value is a placeholder.
func (in Input) prior(label string) string {
	if in.Refresh {
		return ""
	}
	v := in.Prior[label]
	if header.IsPlaceholder(v) {
		return ""
	}
	return v
}

func firstFilled(vs ...string) string {
	for _, v := range vs {
		if !header.IsPlaceholder(v) {
			return v
		}
	}
	return ""
}
