package lang

import (
	"regexp"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"

	"github.com/phobologic/codexheader/internal/model"
)

const rsVis = `(?:pub(?:\([^)]*\))?\s+)?`

var rsImplForRe = regexp.MustCompile(`^\s*(?:unsafe\s+)?impl\s*(?:<[^>]+>\s*)?([A-Za-z_][\w:]*)(?:<[^>]*>)?\s+for\s+([A-Za-z_][\w:]*)`)

func init() {
	Languages["rust"] = &Language{
		Name:       "rust",
		Extensions: []string{".rs"},
		Rules: []Rule{
			rule(model.Type, `^\s*`+rsVis+`(struct|enum|trait|union)\s+([A-Za-z_]\w*)\b`, group(2)),
			rule(model.Entrypoint, `^fn\s+main\s*\(\s*\)`, constant("main")),
			rule(model.Function,
				`^\s*`+rsVis+`(?:const\s+)?(?:async\s+)?(?:unsafe\s+)?(?:extern\s+"[^"]*"\s+)?fn\s+([A-Za-z_]\w*)\s*[<(]`, group(1)),
		},
		Inherit:      rustInherit,
		grammar:      rust.GetLanguage(),
		IsFunction:   rustIsFunction,
		IsEntrypoint: rustIsEntrypoint,
	}
}

// rustInherit reads `impl Trait for Type`. Edges are only recorded for
// types declared in the same file so the child reference points at a real
// definition.
func rustInherit(line string, isLocal func(string) bool) (string, []Supertype) {
	m := rsImplForRe.FindStringSubmatch(line)
	if m == nil {
		return "", nil
	}
	trait, forType := CleanBaseName(m[1]), CleanBaseName(m[2])
	if trait == "" || forType == "" || !isLocal(forType) {
		return "", nil
	}
	return forType, []Supertype{{Rel: model.Implements, Name: trait}}
}

func rustIsFunction(node *sitter.Node, source []byte) bool {
	return node.Type() == "function_item" && !rustIsEntrypoint(node, source)
}

func rustIsEntrypoint(node *sitter.Node, source []byte) bool {
	return node.Type() == "function_item" && isTopLevel(node, "source_file") && childName(node, source) == "main"
}
