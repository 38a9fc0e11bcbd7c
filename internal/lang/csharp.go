package lang

import (
	"regexp"

	"github.com/phobologic/codexheader/internal/model"
)

const csMods = `(?:(?:public|protected|private|internal|abstract|sealed|static|partial|readonly|ref|unsafe|new|file)\s+)*`

var csSupertypesRe = regexp.MustCompile(`^\s*` + csMods + `(class|interface|struct|record)\s+([A-Za-z_]\w*)(?:<[^>]*>)?(?:\([^)]*\))?\s*:\s*([^{]+)`)

func init() {
	Languages["csharp"] = &Language{
		Name:       "csharp",
		Extensions: []string{".cs"},
		Rules: []Rule{
			rule(model.Type, `^\s*`+csMods+`(?:class|interface|struct|enum|record(?:\s+(?:class|struct))?)\s+([A-Za-z_]\w*)\b`, group(1)),
			rule(model.Entrypoint,
				`^\s*(?:(?:public|private|internal)\s+)?static\s+(?:async\s+)?(?:void|int|Task(?:<int>)?)\s+Main\s*\(`, constant("Main")),
			rule(model.Function,
				`^\s*(?:(?:public|protected|private|internal|static|virtual|override|abstract|async|sealed|extern|new|unsafe|partial)\s+)+[\w<>\[\],.?]+\s+([A-Za-z_]\w*)\s*[<(]`, group(1)),
		},
		Inherit: csharpInherit,
	}
}

// csharpInherit follows the base-list rules: an interface extends every
// entry, a struct can only implement interfaces, and a class names its base
// class first followed by interfaces.
func csharpInherit(line string, _ func(string) bool) (string, []Supertype) {
	m := csSupertypesRe.FindStringSubmatch(line)
	if m == nil {
		return "", nil
	}
	kind, child := m[1], m[2]
	names := cleanAll(SplitSupertypes(m[3]))
	switch kind {
	case "interface":
		return child, all(names, model.Extends)
	case "struct":
		return child, all(names, model.Implements)
	default:
		return child, firstThen(names, model.Extends, model.Implements)
	}
}
