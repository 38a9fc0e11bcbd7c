package lang

import (
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"

	"github.com/phobologic/codexheader/internal/model"
)

const (
	javaMods = `(?:(?:public|protected|private|abstract|final|static|sealed|non-sealed|strictfp)\s+)*`
	ktMods   = `(?:(?:public|protected|private|internal|open|abstract|sealed|data|enum|inner|annotation|value|inline)\s+)*`
)

var (
	javaExtendsRe          = regexp.MustCompile(`^\s*` + javaMods + `class\s+([A-Za-z_]\w*)(?:<[^>]*>)?\s+extends\s+([\w.]+)`)
	javaImplementsRe       = regexp.MustCompile(`^\s*` + javaMods + `(?:class|enum|record)\s+([A-Za-z_]\w*)\b(?:<[^>]*>)?(?:\([^)]*\))?(?:\s+extends\s+[\w.]+(?:<[^>]*>)?)?\s+implements\s+([^{]+)`)
	javaInterfaceExtendsRe = regexp.MustCompile(`^\s*` + javaMods + `interface\s+([A-Za-z_]\w*)(?:<[^>]*>)?\s+extends\s+([^{]+)`)

	ktSupertypesRe = regexp.MustCompile(`^\s*` + ktMods + `(class|interface|object)\s+([A-Za-z_]\w*)(?:<[^>]*>)?(?:\s*(?:private|protected|internal|public)?\s*(?:constructor)?\s*\([^)]*\))?\s*:\s*([^{]+)`)
)

func init() {
	Languages["java"] = &Language{
		Name:       "java",
		Extensions: []string{".java"},
		Rules: []Rule{
			rule(model.Type, `^\s*`+javaMods+`(class|interface|enum|record|@interface)\s+([A-Za-z_]\w*)\b`, group(2)),
			rule(model.Entrypoint, `^\s*public\s+static\s+void\s+main\s*\(`, constant("main")),
			rule(model.Function,
				`^\s*(?:(?:public|protected|private|static|final|abstract|synchronized|native|default)\s+)+(?:<[^>]+>\s+)?[\w<>\[\],.?]+\s+([A-Za-z_]\w*)\s*\(`, group(1)),
		},
		Inherit:      javaInherit,
		grammar:      java.GetLanguage(),
		IsFunction:   javaIsFunction,
		IsEntrypoint: javaIsEntrypoint,
	}
	Languages["kotlin"] = &Language{
		Name:       "kotlin",
		Extensions: []string{".kt", ".kts"},
		Rules: []Rule{
			rule(model.Type, `^\s*`+ktMods+`(class|interface|object)\s+([A-Za-z_]\w*)\b`, group(2)),
			rule(model.Entrypoint, `^fun\s+main\s*\(`, constant("main")),
			rule(model.Function,
				`^\s*(?:(?:public|protected|private|internal|override|open|abstract|suspend|inline|operator|infix|tailrec|external)\s+)*fun\s+(?:<[^>]+>\s*)?(?:[\w.]+\.)?([A-Za-z_]\w*)\s*\(`, group(1)),
		},
		Inherit: kotlinInherit,
	}
}

func javaInherit(line string, _ func(string) bool) (string, []Supertype) {
	var child string
	var parents []Supertype
	if m := javaExtendsRe.FindStringSubmatch(line); m != nil {
		child = m[1]
		if p := CleanBaseName(m[2]); p != "" {
			parents = append(parents, Supertype{Rel: model.Extends, Name: p})
		}
	}
	if m := javaImplementsRe.FindStringSubmatch(line); m != nil {
		child = m[1]
		parents = append(parents, all(cleanAll(SplitSupertypes(m[2])), model.Implements)...)
	}
	if m := javaInterfaceExtendsRe.FindStringSubmatch(line); m != nil {
		child = m[1]
		parents = append(parents, all(cleanAll(SplitSupertypes(m[2])), model.Extends)...)
	}
	return child, parents
}

// kotlinInherit handles the single-superclass-call syntax: the first
// supertype written as a constructor call is the superclass and every other
// entry is an interface. Without any call the first entry is taken as the
// superclass. Interfaces extend all of their supertypes.
func kotlinInherit(line string, _ func(string) bool) (string, []Supertype) {
	m := ktSupertypesRe.FindStringSubmatch(line)
	if m == nil {
		return "", nil
	}
	kind, child, raw := m[1], m[2], SplitSupertypes(m[3])
	if kind == "interface" {
		return child, all(cleanAll(raw), model.Extends)
	}

	hasCall := false
	for _, p := range raw {
		if strings.Contains(p, "(") && strings.Contains(p, ")") {
			hasCall = true
			break
		}
	}

	var parents []Supertype
	usedSuper := false
	for i, p := range raw {
		name := CleanBaseName(p)
		if name == "" {
			continue
		}
		isCall := strings.Contains(p, "(") && strings.Contains(p, ")")
		rel := model.Implements
		switch {
		case hasCall && isCall && !usedSuper:
			rel = model.Extends
			usedSuper = true
		case !hasCall && i == 0:
			rel = model.Extends
		}
		parents = append(parents, Supertype{Rel: rel, Name: name})
	}
	return child, parents
}

// javaIsFunction only counts methods with at least one modifier, matching
// what the line rules can see.
func javaIsFunction(node *sitter.Node, source []byte) bool {
	if node.Type() != "method_declaration" || javaIsEntrypoint(node, source) {
		return false
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if node.NamedChild(i).Type() == "modifiers" {
			return true
		}
	}
	return false
}

func javaIsEntrypoint(node *sitter.Node, source []byte) bool {
	if node.Type() != "method_declaration" || childName(node, source) != "main" {
		return false
	}
	text := NodeText(node, source)
	return strings.HasPrefix(strings.TrimSpace(text), "public") && strings.Contains(text, "static")
}
