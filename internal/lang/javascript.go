package lang

import (
	"regexp"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/phobologic/codexheader/internal/model"
)

const jsIdent = `[A-Za-z_$][\w$]*`

var (
	jsExtendsRe = regexp.MustCompile(
		`^\s*(?:export\s+)?(?:default\s+)?(?:declare\s+)?(?:abstract\s+)?class\s+(` + jsIdent + `)\s*(?:<[^>]*>)?\s+extends\s+([\w$.]+)`)
	jsImplementsRe = regexp.MustCompile(
		`^\s*(?:export\s+)?(?:default\s+)?(?:declare\s+)?(?:abstract\s+)?class\s+(` + jsIdent + `)\b(?:\s*<[^>]*>)?(?:\s+extends\s+[\w$.]+(?:<[^>]*>)?)?\s+implements\s+([^{]+)`)
	tsInterfaceExtendsRe = regexp.MustCompile(
		`^\s*(?:export\s+)?(?:declare\s+)?interface\s+(` + jsIdent + `)(?:\s*<[^>]*>)?\s+extends\s+([^{]+)`)
)

// Function rules shared by JavaScript and TypeScript. TypeScript adds type
// parameters between the name and the opening parenthesis.
var jsFuncRules = []Rule{
	rule(model.Function,
		`^\s*(?:export\s+)?(?:default\s+)?(?:async\s+)?function\s*\*?\s*(`+jsIdent+`)\s*[<(]`, group(1)),
	rule(model.Function,
		`^\s*(?:export\s+)?(?:const|let|var)\s+(`+jsIdent+`)\s*(?::[^=]+)?=\s*(?:async\s*)?\(`, group(1)),
	rule(model.Entrypoint, `^\s*export\s+default\b`, constant("default")),
}

func init() {
	jsTypes := []Rule{
		rule(model.Type,
			`^\s*export\s+default\s+class\s+(`+jsIdent+`)\b|^\s*export\s+class\s+(`+jsIdent+`)\b|^\s*class\s+(`+jsIdent+`)\b`,
			firstGroup),
	}
	tsTypes := []Rule{
		rule(model.Type, `^\s*(?:export\s+)?(?:default\s+)?(?:declare\s+)?(?:abstract\s+)?class\s+(`+jsIdent+`)\b`, group(1)),
		rule(model.Type, `^\s*(?:export\s+)?(?:declare\s+)?interface\s+(`+jsIdent+`)\b`, group(1)),
		rule(model.Type, `^\s*(?:export\s+)?(?:declare\s+)?(?:const\s+)?enum\s+(`+jsIdent+`)\b`, group(1)),
		rule(model.Type, `^\s*(?:export\s+)?(?:declare\s+)?type\s+(`+jsIdent+`)\b`, group(1)),
	}

	Languages["javascript"] = &Language{
		Name:         "javascript",
		Extensions:   []string{".js", ".jsx", ".mjs", ".cjs"},
		Rules:        append(jsTypes, jsFuncRules...),
		Inherit:      jsInherit,
		grammar:      javascript.GetLanguage(),
		IsFunction:   jsIsFunction,
		IsEntrypoint: jsIsEntrypoint,
	}
	Languages["typescript"] = &Language{
		Name:         "typescript",
		Extensions:   []string{".ts", ".mts", ".cts"},
		Rules:        append(tsTypes, jsFuncRules...),
		Inherit:      jsInherit,
		grammar:      typescript.GetLanguage(),
		IsFunction:   jsIsFunction,
		IsEntrypoint: jsIsEntrypoint,
	}
	Languages["tsx"] = &Language{
		Name:         "tsx",
		Extensions:   []string{".tsx"},
		Rules:        append(append([]Rule(nil), tsTypes...), jsFuncRules...),
		Inherit:      jsInherit,
		grammar:      tsx.GetLanguage(),
		IsFunction:   jsIsFunction,
		IsEntrypoint: jsIsEntrypoint,
	}
}

// jsInherit records `extends` as the superclass and every `implements`
// entry as an interface. An interface that extends others lists them all as
// supertypes.
func jsInherit(line string, _ func(string) bool) (string, []Supertype) {
	var child string
	var parents []Supertype
	if m := jsExtendsRe.FindStringSubmatch(line); m != nil {
		child = m[1]
		if p := CleanBaseName(m[2]); p != "" {
			parents = append(parents, Supertype{Rel: model.Extends, Name: p})
		}
	}
	if m := jsImplementsRe.FindStringSubmatch(line); m != nil {
		child = m[1]
		parents = append(parents, all(cleanAll(SplitSupertypes(m[2])), model.Implements)...)
	}
	if child == "" {
		if m := tsInterfaceExtendsRe.FindStringSubmatch(line); m != nil {
			child = m[1]
			parents = all(cleanAll(SplitSupertypes(m[2])), model.Extends)
		}
	}
	return child, parents
}

func jsIsFunction(node *sitter.Node, _ []byte) bool {
	switch node.Type() {
	case "function_declaration", "generator_function_declaration":
		return true
	case "variable_declarator":
		v := node.ChildByFieldName("value")
		return v != nil && v.Type() == "arrow_function" && v.ChildByFieldName("parameters") != nil
	}
	return false
}

// jsIsEntrypoint matches `export default <expression>`. A default-exported
// class or named function is reported as a type or function instead.
func jsIsEntrypoint(node *sitter.Node, _ []byte) bool {
	return node.Type() == "export_statement" && node.ChildByFieldName("value") != nil
}
