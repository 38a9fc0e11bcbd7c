// Package style maps file extensions to the comment syntax used to render a
// header.
package style

import (
	"path/filepath"
	"strings"
)

// Kind selects how header lines are wrapped.
type Kind string

const (
	Line  Kind = "line"
	Block Kind = "block"
	HTML  Kind = "html"
)

// Support reports why a lookup did or did not produce a style.
type Support int

const (
	Supported Support = iota
	// Unknown means the extension is not in the table.
	Unknown
	// Binary means the extension is explicitly known to be non-text.
	Binary
)

// Style is the comment syntax of one file type.
// Line styles use LinePrefix; block and HTML styles use the Block fields.
type Style struct {
	Kind            Kind
	LinePrefix      string
	BlockStart      string
	BlockLinePrefix string
	BlockEnd        string
}

var (
	hash   = Style{Kind: Line, LinePrefix: "# "}
	dashes = Style{Kind: Line, LinePrefix: "-- "}
	cBlock = Style{Kind: Block, BlockStart: "/*", BlockLinePrefix: " * ", BlockEnd: " */"}
	markup = Style{Kind: HTML, BlockStart: "<!--", BlockLinePrefix: "  ", BlockEnd: "-->"}
)

var byExtension = map[string]Style{
	".py":   hash,
	".pyi":  hash,
	".sh":   hash,
	".bash": hash,
	".zsh":  hash,
	".fish": hash,
	".ps1":  hash,
	".rb":   hash,
	".yml":  hash,
	".yaml": hash,

	".sql": dashes,
	".lua": dashes,

	".c":     cBlock,
	".h":     cBlock,
	".cc":    cBlock,
	".cpp":   cBlock,
	".cxx":   cBlock,
	".hh":    cBlock,
	".hpp":   cBlock,
	".cs":    cBlock,
	".java":  cBlock,
	".kt":    cBlock,
	".kts":   cBlock,
	".swift": cBlock,
	".js":    cBlock,
	".jsx":   cBlock,
	".mjs":   cBlock,
	".cjs":   cBlock,
	".ts":    cBlock,
	".tsx":   cBlock,
	".mts":   cBlock,
	".cts":   cBlock,
	".go":    cBlock,
	".rs":    cBlock,
	".php":   cBlock,
	".css":   cBlock,
	".scss":  cBlock,
	".less":  cBlock,

	".html": markup,
	".htm":  markup,
	".xml":  markup,
	".vue":  markup,
}

var binaryExtensions = map[string]struct{}{
	".json":  {},
	".lock":  {},
	".png":   {},
	".jpg":   {},
	".jpeg":  {},
	".gif":   {},
	".webp":  {},
	".ico":   {},
	".pdf":   {},
	".zip":   {},
	".gz":    {},
	".bz2":   {},
	".xz":    {},
	".7z":    {},
	".jar":   {},
	".class": {},
	".wasm":  {},
}

// ForPath returns the comment style for path, keyed by its lowercased
// extension. The Support value distinguishes binary files from unknown ones;
// callers skip both.
func ForPath(path string) (Style, Support) {
	return ForExtension(filepath.Ext(path))
}

// ForExtension is ForPath for a bare extension such as ".go".
func ForExtension(ext string) (Style, Support) {
	ext = strings.ToLower(ext)
	if _, ok := binaryExtensions[ext]; ok {
		return Style{}, Binary
	}
	s, ok := byExtension[ext]
	if !ok {
		return Style{}, Unknown
	}
	return s, Supported
}

// IsBlock reports whether the style wraps the header in open/close delimiters.
func (s Style) IsBlock() bool {
	return s.Kind == Block || s.Kind == HTML
}
