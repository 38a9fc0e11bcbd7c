package lang

import (
	"regexp"
	"strings"

	"github.com/phobologic/codexheader/internal/model"
)

// cLikeFunc matches a definition with its opening brace on the same line,
// e.g. `static int parse(const char *s) {`.
const cLikeFunc = `^\s*[A-Za-z_][\w\s\*&:<>,]*[\s\*&]+([A-Za-z_]\w*)\s*\([^;]*\)\s*(?:const\s*)?\{`

var (
	cppBasesRe      = regexp.MustCompile(`^\s*(?:class|struct)\s+([A-Za-z_]\w*)(?:\s+final)?\s*:\s*([^{;]+)`)
	cppAccessPrefix = regexp.MustCompile(`^(?:(?:public|protected|private|virtual)\s+)+`)
)

func init() {
	Languages["cfamily"] = &Language{
		Name:       "cfamily",
		Extensions: []string{".c", ".h", ".cc", ".cpp", ".cxx", ".hpp", ".hh"},
		Rules: []Rule{
			rule(model.Type,
				`^\s*(?:typedef\s+)?(?:struct|class|union|enum(?:\s+class)?)\s+([A-Za-z_]\w*)\s*(?:final\s*)?(?:[:{]|$)`, group(1)),
			rule(model.Entrypoint, `^\s*int\s+main\s*\(`, constant("main")),
			rule(model.Function, cLikeFunc, cFuncName),
		},
		Inherit: cppInherit,
	}
	Languages[Generic] = &Language{
		Name: Generic,
		Rules: []Rule{
			rule(model.Function, cLikeFunc, cFuncName),
		},
	}
}

var cKeywords = map[string]struct{}{
	"if": {}, "for": {}, "while": {}, "switch": {}, "return": {}, "sizeof": {}, "catch": {},
}

// cFuncName rejects control-flow statements such as `} else if (x) {`.
func cFuncName(m []string) string {
	if _, ok := cKeywords[m[1]]; ok {
		return ""
	}
	return m[1]
}

// cppInherit reads a C++ base-specifier list. The first base is the
// primary superclass; further bases are multiple inheritance.
func cppInherit(line string, _ func(string) bool) (string, []Supertype) {
	m := cppBasesRe.FindStringSubmatch(line)
	if m == nil {
		return "", nil
	}
	var bases []string
	for _, p := range SplitSupertypes(m[2]) {
		bases = append(bases, cppAccessPrefix.ReplaceAllString(strings.TrimSpace(p), ""))
	}
	return m[1], firstThen(cleanAll(bases), model.Extends, model.AdditionalBase)
}
