package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"

	"github.com/phobologic/codexheader/internal/model"
)

func init() {
	Languages["go"] = &Language{
		Name:       "go",
		Extensions: []string{".go"},
		Rules: []Rule{
			rule(model.Type, `^\s*type\s+([A-Za-z_]\w*)(?:\[[^\]]*\])?\s+(?:struct|interface)\b`, group(1)),
			rule(model.Entrypoint, `^func\s+main\s*\(\s*\)`, constant("main")),
			// Receivers are optional: func (s *Server) Serve(...) and func Serve[T any](...).
			rule(model.Function, `^\s*func\s+(?:\([^)]*\)\s*)?([A-Za-z_]\w*)\s*[\[(]`, group(1)),
		},
		grammar:      golang.GetLanguage(),
		IsFunction:   goIsFunction,
		IsEntrypoint: goIsEntrypoint,
	}
}

func goIsFunction(node *sitter.Node, source []byte) bool {
	switch node.Type() {
	case "function_declaration", "method_declaration":
		return !goIsEntrypoint(node, source)
	}
	return false
}

func goIsEntrypoint(node *sitter.Node, source []byte) bool {
	return node.Type() == "function_declaration" && childName(node, source) == "main"
}
