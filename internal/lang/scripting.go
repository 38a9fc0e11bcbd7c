package lang

import (
	"regexp"

	"github.com/phobologic/codexheader/internal/model"
)

var (
	phpExtendsRe    = regexp.MustCompile(`^\s*(?:(?:abstract|final|readonly)\s+)*(class|interface)\s+([A-Za-z_]\w*)\s+extends\s+([\w\\, ]+?)(?:\s+implements\b|\s*\{|\s*$)`)
	phpImplementsRe = regexp.MustCompile(`^\s*(?:(?:abstract|final|readonly)\s+)*(?:class|enum)\s+([A-Za-z_]\w*)\b.*?\s+implements\s+([^{]+)`)

	swiftSupertypesRe = regexp.MustCompile(`^\s*(?:(?:public|private|fileprivate|internal|open|final|indirect)\s+)*(class|struct|enum|protocol|actor)\s+([A-Za-z_]\w*)(?:<[^>]*>)?\s*:\s*([^{]+)`)
)

func init() {
	Languages["php"] = &Language{
		Name:       "php",
		Extensions: []string{".php"},
		Rules: []Rule{
			rule(model.Type, `^\s*(?:(?:abstract|final|readonly)\s+)*(class|interface|trait|enum)\s+([A-Za-z_]\w*)\b`, group(2)),
			rule(model.Function,
				`^\s*(?:(?:public|protected|private|static|abstract|final)\s+)*function\s+&?\s*([A-Za-z_]\w*)\s*\(`, group(1)),
		},
		Inherit: phpInherit,
	}
	Languages["swift"] = &Language{
		Name:       "swift",
		Extensions: []string{".swift"},
		Rules: []Rule{
			rule(model.Type,
				`^\s*(?:(?:public|private|fileprivate|internal|open|final|indirect)\s+)*(class|struct|enum|protocol|actor)\s+([A-Za-z_]\w*)\b`, group(2)),
			rule(model.Entrypoint, `^\s*@main\b`, constant("@main")),
			rule(model.Function,
				`^\s*(?:(?:public|private|fileprivate|internal|open|static|class|override|mutating|final|@\w+)\s+)*func\s+([A-Za-z_]\w*)\s*[<(]`, group(1)),
		},
		Inherit: swiftInherit,
	}
	Languages["shell"] = &Language{
		Name:       "shell",
		Extensions: []string{".sh", ".bash", ".zsh"},
		Rules: []Rule{
			rule(model.Function,
				`^\s*function\s+([A-Za-z_][\w:-]*)|^\s*([A-Za-z_][\w:-]*)\s*\(\)\s*(?:\{|$)`, firstGroup),
			rule(model.Entrypoint, `^if\s+\[\[?\s*"?\$\{?BASH_SOURCE`, constant("main")),
		},
	}
	Languages["lua"] = &Language{
		Name:       "lua",
		Extensions: []string{".lua"},
		Rules: []Rule{
			rule(model.Function, `^\s*(?:local\s+)?function\s+([A-Za-z_][\w.:]*)\s*\(`, group(1)),
		},
	}
}

func phpInherit(line string, _ func(string) bool) (string, []Supertype) {
	var child string
	var parents []Supertype
	if m := phpExtendsRe.FindStringSubmatch(line); m != nil {
		child = m[2]
		parents = append(parents, all(cleanAll(SplitSupertypes(m[3])), model.Extends)...)
	}
	if m := phpImplementsRe.FindStringSubmatch(line); m != nil {
		child = m[1]
		parents = append(parents, all(cleanAll(SplitSupertypes(m[2])), model.Implements)...)
	}
	return child, parents
}

// swiftInherit treats the first entry of a class as its superclass and the
// rest as protocols. Protocols refine all of theirs; value types and actors
// can only conform.
func swiftInherit(line string, _ func(string) bool) (string, []Supertype) {
	m := swiftSupertypesRe.FindStringSubmatch(line)
	if m == nil {
		return "", nil
	}
	kind, child := m[1], m[2]
	names := cleanAll(SplitSupertypes(m[3]))
	switch kind {
	case "class":
		return child, firstThen(names, model.Extends, model.Implements)
	case "protocol":
		return child, all(names, model.Extends)
	default:
		return child, all(names, model.Implements)
	}
}
