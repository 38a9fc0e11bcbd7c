package lang

import (
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/phobologic/codexheader/internal/model"
)

var pyInheritRe = regexp.MustCompile(`^\s*class\s+([A-Za-z_]\w*)\s*\(([^)]*)\)\s*:`)

func init() {
	Languages["python"] = &Language{
		Name:       "python",
		Extensions: []string{".py", ".pyi"},
		Rules: []Rule{
			rule(model.Type, `^\s*class\s+([A-Za-z_]\w*)\s*[(:]`, group(1)),
			rule(model.Function, `^\s*(?:async\s+)?def\s+([A-Za-z_]\w*)\s*\(`, group(1)),
			rule(model.Entrypoint, `^if\s+__name__\s*==\s*['"]__main__['"]`, constant("__main__")),
		},
		Inherit:        pythonInherit,
		EncodingCookie: true,
		Docstrings:     true,
		grammar:        python.GetLanguage(),
		IsFunction:     nodeTypeIn("function_definition"),
		IsEntrypoint:   pythonIsEntrypoint,
	}
}

// pythonInherit treats the first base as the superclass and the rest as
// additional bases. Keyword arguments such as metaclass=ABCMeta are skipped.
func pythonInherit(line string, _ func(string) bool) (string, []Supertype) {
	m := pyInheritRe.FindStringSubmatch(line)
	if m == nil {
		return "", nil
	}
	var bases []string
	for _, p := range SplitSupertypes(m[2]) {
		if strings.Contains(p, "=") || strings.HasPrefix(p, "*") {
			continue
		}
		bases = append(bases, p)
	}
	return m[1], firstThen(cleanAll(bases), model.Extends, model.AdditionalBase)
}

// pythonIsEntrypoint matches a module-level `if __name__ == "__main__":`.
func pythonIsEntrypoint(node *sitter.Node, source []byte) bool {
	if node.Type() != "if_statement" || !isTopLevel(node, "module") {
		return false
	}
	cond := node.ChildByFieldName("condition")
	if cond == nil {
		return false
	}
	text := NodeText(cond, source)
	return strings.Contains(text, "__name__") && strings.Contains(text, "__main__")
}
