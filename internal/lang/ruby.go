package lang

import (
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/ruby"

	"github.com/phobologic/codexheader/internal/model"
)

var rbInheritRe = regexp.MustCompile(`^\s*class\s+([A-Z][\w:]*)\s*<\s*([A-Z][\w:]*)`)

func init() {
	Languages["ruby"] = &Language{
		Name:       "ruby",
		Extensions: []string{".rb"},
		Rules: []Rule{
			rule(model.Type, `^\s*(?:class|module)\s+([A-Z][\w:]*)`, rubyName),
			rule(model.Function, `^\s*def\s+(?:self\.)?([A-Za-z_]\w*[?!=]?)`, group(1)),
			rule(model.Entrypoint, `^if\s+(?:__FILE__\s*==\s*\$(?:0|PROGRAM_NAME)|\$(?:0|PROGRAM_NAME)\s*==\s*__FILE__)`, constant("__FILE__")),
		},
		Inherit:        rubyInherit,
		EncodingCookie: true,
		grammar:        ruby.GetLanguage(),
		IsFunction:     nodeTypeIn("method", "singleton_method"),
		IsEntrypoint:   rubyIsEntrypoint,
	}
}

// rubyName drops the enclosing namespaces of Outer::Inner.
func rubyName(m []string) string {
	return CleanBaseName(m[1])
}

func rubyInherit(line string, _ func(string) bool) (string, []Supertype) {
	m := rbInheritRe.FindStringSubmatch(line)
	if m == nil {
		return "", nil
	}
	parent := CleanBaseName(m[2])
	if parent == "" {
		return "", nil
	}
	return CleanBaseName(m[1]), []Supertype{{Rel: model.Extends, Name: parent}}
}

// rubyIsEntrypoint matches a top-level `if __FILE__ == $0` guard.
func rubyIsEntrypoint(node *sitter.Node, source []byte) bool {
	if node.Type() != "if" || !isTopLevel(node, "program") {
		return false
	}
	cond := node.ChildByFieldName("condition")
	if cond == nil {
		return false
	}
	return strings.Contains(NodeText(cond, source), "__FILE__")
}
