package header

import "fmt"

// Field labels in rendering order.
const (
	Path          = "Path"
	Purpose       = "Purpose"
	KeyTypes      = "Key types"
	Inheritance   = "Inheritance"
	KeyFuncs      = "Key funcs"
	Entrypoints   = "Entrypoints"
	PublicAPI     = "Public API"
	InputsOutputs = "Inputs/Outputs"
	CoreFlow      = "Core flow"
	Dependencies  = "Dependencies"
	ErrorHandling = "Error handling"
	ConfigEnv     = "Config/env"
	SideEffects   = "Side effects"
	Performance   = "Performance"
	Security      = "Security"
	Tests         = "Tests"
	KnownIssues   = "Known issues"
	Index         = "Index"
	LastUpdate    = "Last update"
)

// Labels is the fixed field order.
var Labels = []string{
	Path, Purpose, KeyTypes, Inheritance, KeyFuncs, Entrypoints,
	PublicAPI, InputsOutputs, CoreFlow, Dependencies, ErrorHandling, ConfigEnv,
	SideEffects, Performance, Security, Tests, KnownIssues, Index, LastUpdate,
}

// Computed fields are regenerated from source on every run.
var Computed = []string{KeyTypes, Inheritance, KeyFuncs, Entrypoints}

// Manual fields are kept from a prior header unless refreshed. Purpose and
// Index are manual too but have their own fallbacks.
var Manual = []string{
	PublicAPI, InputsOutputs, CoreFlow, Dependencies, ErrorHandling, ConfigEnv,
	SideEffects, Performance, Security, Tests, KnownIssues,
}

// MarkerLine is the first logical line of every header.
var MarkerLine = fmt.Sprintf("%s | %d lines | keep updated", Marker, Lines)

// Field is one labeled header value.
type Field struct {
	Label string
	Value string
}

// Fields is an ordered set of header values.
type Fields []Field

// Get returns the value for label, or "".
func (f Fields) Get(label string) string {
	for _, fd := range f {
		if fd.Label == label {
			return fd.Value
		}
	}
	return ""
}

// Set replaces the value for label, appending the field if absent.
func (f *Fields) Set(label, value string) {
	for i := range *f {
		if (*f)[i].Label == label {
			(*f)[i].Value = value
			return
		}
	}
	*f = append(*f, Field{Label: label, Value: value})
}

// Lines returns the logical header lines: MarkerLine followed by one
// "Label: value" line per field. Empty values render as Placeholder.
func (f Fields) Lines() []string {
	out := make([]string, 0, len(f)+1)
	out = append(out, MarkerLine)
	for _, fd := range f {
		v := fd.Value
		if v == "" {
			v = Placeholder
		}
		out = append(out, fd.Label+": "+v)
	}
	return out
}
