// Package lang provides a language registry mapping file extensions to the
// line patterns used to recognize declarations, and, where available, the
// tree-sitter grammar used to cross-check them.
//
// The patterns are heuristics, not a parser: each rule is anchored to the
// start of a single line and only top-level-looking declarations are
// recognized. They may miss declarations split across lines and may match
// text inside strings or comments.
package lang

import (
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/codexheader/internal/model"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Rule recognizes one kind of declaration on a single line.
type Rule struct {
	Kind    model.SymbolKind
	Pattern *regexp.Regexp
	// Name extracts the symbol name from the submatches of Pattern.
	// An empty result means the rule did not produce a symbol.
	Name func(m []string) string
}

// Supertype is one parent named on an inheritance line.
type Supertype struct {
	Rel  model.Relation
	Name string
}

// InheritFunc inspects one line and returns the declared child type and its
// parents. isLocal reports whether a type name is declared in the same file.
type InheritFunc func(line string, isLocal func(string) bool) (child string, parents []Supertype)

// Language holds the recognition rules for a supported language.
type Language struct {
	Name       string
	Extensions []string

	// Rules are tried in order; the first match on a line wins.
	Rules []Rule

	// Inherit extracts inheritance edges. Nil for languages without
	// inheritance syntax.
	Inherit InheritFunc

	// EncodingCookie marks languages whose source-encoding comment must stay
	// on the first lines of the file.
	EncodingCookie bool

	// Docstrings marks languages whose leading string literal documents the
	// module.
	Docstrings bool

	grammar *sitter.Language

	// IsFunction reports whether a syntax node is a function declaration the
	// line rules are expected to recognize.
	IsFunction func(node *sitter.Node, source []byte) bool

	// IsEntrypoint reports whether a syntax node marks a program entrypoint.
	IsEntrypoint func(node *sitter.Node, source []byte) bool
}

// HasGrammar reports whether a tree-sitter grammar is registered.
func (l *Language) HasGrammar() bool {
	return l.grammar != nil
}

// GetLanguage returns the tree-sitter Language pointer, or nil.
func (l *Language) GetLanguage() *sitter.Language {
	return l.grammar
}

// NewParser creates a fresh tree-sitter parser for this language.
// Each goroutine must use its own parser (not thread-safe).
func (l *Language) NewParser() *sitter.Parser {
	p := sitter.NewParser()
	p.SetLanguage(l.grammar)
	return p
}

// Match applies the rules to line and returns the first symbol found.
func (l *Language) Match(line string) (model.SymbolKind, string, bool) {
	for _, r := range l.Rules {
		m := r.Pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if name := r.Name(m); name != "" {
			return r.Kind, name, true
		}
	}
	return "", "", false
}

// TypeName applies only the type rules to line.
func (l *Language) TypeName(line string) (string, bool) {
	for _, r := range l.Rules {
		if r.Kind != model.Type {
			continue
		}
		m := r.Pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if name := r.Name(m); name != "" {
			return name, true
		}
	}
	return "", false
}

// Languages maps language names to their configuration.
// Populated by init() functions in per-language files.
var Languages = map[string]*Language{}

// Generic is used for styled files without a dedicated language entry.
const Generic = "generic"

// extensionMap is built lazily after all init() functions have run.
var extensionMap map[string]string
var extensionOnce sync.Once

func getExtensionMap() map[string]string {
	extensionOnce.Do(func() {
		extensionMap = make(map[string]string)
		for _, l := range Languages {
			for _, ext := range l.Extensions {
				extensionMap[ext] = l.Name
			}
		}
	})
	return extensionMap
}

// ForExtension returns the language name for a file extension, or "" if
// there is no dedicated entry.
func ForExtension(ext string) string {
	return getExtensionMap()[strings.ToLower(ext)]
}

// ForPath returns the language for path, falling back to the generic rules.
func ForPath(path string) *Language {
	if name := ForExtension(filepath.Ext(path)); name != "" {
		return Languages[name]
	}
	return Languages[Generic]
}

// NodeText returns the source text of a tree-sitter node.
func NodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}

// CollapseWhitespace replaces runs of whitespace with a single space and trims.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// firstGroup returns the first non-empty submatch, for alternations where
// each branch captures the name in its own group.
func firstGroup(m []string) string {
	for _, g := range m[1:] {
		if g != "" {
			return g
		}
	}
	return ""
}

func group(n int) func([]string) string {
	return func(m []string) string {
		if n < len(m) {
			return m[n]
		}
		return ""
	}
}

func constant(name string) func([]string) string {
	return func([]string) string { return name }
}

func rule(kind model.SymbolKind, pattern string, name func([]string) string) Rule {
	return Rule{Kind: kind, Pattern: regexp.MustCompile(pattern), Name: name}
}

// childName returns the text of node's "name" field, or "".
func childName(node *sitter.Node, source []byte) string {
	n := node.ChildByFieldName("name")
	if n == nil {
		return ""
	}
	return NodeText(n, source)
}

func isTopLevel(node *sitter.Node, rootTypes ...string) bool {
	p := node.Parent()
	if p == nil {
		return false
	}
	for _, t := range rootTypes {
		if p.Type() == t {
			return true
		}
	}
	return false
}

func nodeTypeIn(types ...string) func(*sitter.Node, []byte) bool {
	return func(node *sitter.Node, _ []byte) bool {
		for _, t := range types {
			if node.Type() == t {
				return true
			}
		}
		return false
	}
}
