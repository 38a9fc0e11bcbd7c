package navdoc

import "strings"

// Sentinels around the reading guide written by `codexheader init`.
const (
	GuideStart = "<!-- codex-header:start -->"
	GuideEnd   = "<!-- codex-header:end -->"
)

const guideBody = `## Code Navigation with codexheader

Source files in this project start with a 20-line ` + "`@codex-header: v1`" + ` block.
Read the header before reading the file.

**Reading pattern:**

1. **Read the first 20 lines only.** The header lists the file's purpose, key
   types, key functions, entrypoints and inheritance, each with a line number.
2. **Jump to line references.** ` + "`Name@L45`" + ` is line 45 of the same file;
   ` + "`Name@path/to/file.py#L12`" + ` is line 12 of another file.
3. **Read the full file only** when you need the implementation of a symbol
   you are changing.

**Reference syntax:**

- ` + "`Child@L10->Base@L3`" + `: Child extends Base
- ` + "`Child@L10+Mixin`" + `: additional base class
- ` + "`Store@L8~>Closer`" + `: Store implements Closer
- ` + "`TODO`" + `: field not filled in yet

**Keeping headers current:** after editing a file, run
` + "`codexheader <files> --root <repo-root>`" + `. Add ` + "`--verify`" + ` to check that
no computed field was left as TODO.`

// Guide returns the sentinel-wrapped reading guide.
func Guide() string {
	return GuideStart + "\n" + guideBody + "\n" + GuideEnd
}

// Template returns a new navigation document containing the reading guide
// and the given index section.
func Template(today, indexSection string) string {
	var b strings.Builder
	b.WriteString("# Code Navigation Guide\n\n")
	b.WriteString(Guide())
	b.WriteString("\n\n## Annotated Files Index\n\n")
	b.WriteString(indexSection)
	b.WriteString("\n\n---\n\n*Last updated: ")
	b.WriteString(today)
	b.WriteString("*\n")
	return b.String()
}
