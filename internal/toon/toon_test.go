package toon

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phobologic/codexheader/internal/annotate"
	"github.com/phobologic/codexheader/internal/header"
)

func TestEncodeValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", `""`},
		{"simple", "hello", "hello"},
		{"leading space", " hello", `" hello"`},
		{"newline", "a\nb", `"a\nb"`},
		{"true keyword", "True", `"True"`},
		{"null keyword", "null", `"null"`},
		{"integer", "42", "42"},
		{"negative integer", "-1", "-1"},
		{"comma", "a@L1, b@L2", `"a@L1, b@L2"`},
		{"colon", "read: denied", `"read: denied"`},
		{"quote", `a"b`, `"a\"b"`},
		{"backslash", `a\b`, `"a\\b"`},
		{"dash prefix", "-foo", `"-foo"`},
		{"action", "no-op", "no-op"},
		{"path", "src/main.py", "src/main.py"},
		{"edge", "Child@L21->Base@pkg/base.py#L23", "Child@L21->Base@pkg/base.py#L23"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, encodeValue(tt.in))
		})
	}
}

func fieldsOf(kv ...string) header.Fields {
	var f header.Fields
	for i := 0; i+1 < len(kv); i += 2 {
		f.Set(kv[i], kv[i+1])
	}
	return f
}

func TestEncode(t *testing.T) {
	t.Parallel()

	results := []annotate.Result{
		{
			Path:    "/repo/src/main.py",
			RelPath: "src/main.py",
			Action:  annotate.Inserted,
			Changed: true,
			Fields: fieldsOf(
				header.KeyTypes, "App@L22",
				header.KeyFuncs, "run@L30, stop@L41",
				header.Inheritance, "App@L22->Base, App@L22+Mixin",
			),
		},
		{Path: "/repo/README.md", RelPath: "README.md", Action: annotate.NoOp},
		{Path: "/repo/bad.go", RelPath: "bad.go", Err: errors.New("bad.go: invalid")},
	}

	lines := strings.Split(Encode("/repo", true, results), "\n")
	assert.Equal(t, []string{
		"root: /repo",
		"mode: dry-run",
		"files[2]{path,action,types,funcs}:",
		`  src/main.py,inserted,App@L22,"run@L30, stop@L41"`,
		`  README.md,no-op,"",""`,
		"inheritance[2]{path,edge}:",
		"  src/main.py,App@L22->Base",
		"  src/main.py,App@L22+Mixin",
		"errors[1]{path,error}:",
		`  /repo/bad.go,"bad.go: invalid"`,
		"summary[1]{changed,unchanged,skipped,errored}:",
		"  1,1,0,1",
	}, lines)
}

func TestEncodeEmpty(t *testing.T) {
	t.Parallel()

	got := Encode(".", false, nil)
	assert.Equal(t, "root: .\nmode: write\nfiles[0]{path,action,types,funcs}:\nsummary[1]{changed,unchanged,skipped,errored}:\n  0,0,0,0", got)
}
