package annotate

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phobologic/codexheader/internal/header"
	"github.com/phobologic/codexheader/internal/prolog"
	"github.com/phobologic/codexheader/internal/typeindex"
)

var (
	day1 = time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	day2 = time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
)

func optsAt(root string, now time.Time) Options {
	return Options{Root: root, Now: func() time.Time { return now }}
}

func lines(b []byte) []string {
	return prolog.SplitLines(string(b))
}

const goSource = `package demo

type Store struct{}

func (s *Store) Get() {}

func main() {}
`

func TestApplyInsertsHeader(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	out, res, err := Apply(filepath.Join(root, "demo", "main.go"), []byte(goSource), optsAt(root, day1))
	require.NoError(t, err)
	assert.Equal(t, Inserted, res.Action)
	assert.True(t, res.Changed)

	got := lines(out)
	require.Len(t, got, header.Lines+7)
	assert.Equal(t, "/* "+header.MarkerLine+"\n", got[0])
	assert.Equal(t, " * Path: demo/main.go\n", got[1])
	assert.Equal(t, " * Purpose: TODO\n", got[2])
	assert.Equal(t, " * Key types: Store@L23\n", got[3])
	assert.Equal(t, " * Inheritance: TODO\n", got[4])
	assert.Equal(t, " * Key funcs: Get@L25\n", got[5])
	assert.Equal(t, " * Entrypoints: main@L27\n", got[6])
	assert.Equal(t, " * Last update: 2026-03-04  */\n", got[19])

	// Reported lines point at the declarations in the rewritten file.
	assert.Equal(t, "type Store struct{}\n", got[22])
	assert.Equal(t, "func (s *Store) Get() {}\n", got[24])
	assert.Equal(t, "func main() {}\n", got[26])
}

func TestApplyIdempotent(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := filepath.Join(root, "main.go")

	first, _, err := Apply(path, []byte(goSource), optsAt(root, day1))
	require.NoError(t, err)

	second, res, err := Apply(path, first, optsAt(root, day2))
	require.NoError(t, err)
	assert.Equal(t, NoOp, res.Action)
	assert.False(t, res.Changed)
	assert.Equal(t, string(first), string(second))
}

func TestApplyNarrowWidthIdempotent(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	tcs := map[string]struct {
		name string
		src  string
	}{
		"block": {name: "main.go", src: "package main\n\nfunc main() {}\n"},
		"line":  {name: "main.py", src: "def main():\n    pass\n"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(root, tc.name)
			opts := optsAt(root, day1)
			opts.MaxWidth = 12

			first, res, err := Apply(path, []byte(tc.src), opts)
			require.NoError(t, err)
			assert.Equal(t, Inserted, res.Action)
			assert.Contains(t, lines(first)[0], header.MarkerLine)

			second, res, err := Apply(path, first, opts)
			require.NoError(t, err)
			assert.Equal(t, NoOp, res.Action)
			assert.Equal(t, string(first), string(second))
			assert.Equal(t, 1, strings.Count(string(second), header.Marker))
		})
	}
}

func TestApplyDateAdvancesOnlyOnChange(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := filepath.Join(root, "main.go")

	first, _, err := Apply(path, []byte(goSource), optsAt(root, day1))
	require.NoError(t, err)

	edited := append(append([]byte(nil), first...), []byte("\ntype Cache struct{}\n")...)
	out, res, err := Apply(path, edited, optsAt(root, day2))
	require.NoError(t, err)
	assert.Equal(t, Updated, res.Action)
	assert.Equal(t, "2026-03-09", res.Fields.Get(header.LastUpdate))
	assert.Equal(t, "Store@L23, Cache@L29", res.Fields.Get(header.KeyTypes))
	assert.Contains(t, string(out), " * Last update: 2026-03-09  */\n")
}

func TestApplyEmptyLineStyle(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	out, res, err := Apply(filepath.Join(root, "run.sh"), nil, optsAt(root, day1))
	require.NoError(t, err)
	assert.Equal(t, Inserted, res.Action)

	got := lines(out)
	require.Len(t, got, header.Lines)
	assert.Equal(t, "# "+header.MarkerLine+"\n", got[0])
	assert.Equal(t, "# Path: run.sh\n", got[1])
	for _, ln := range got[2:18] {
		assert.True(t, strings.HasSuffix(ln, ": TODO\n"), ln)
	}
	assert.Equal(t, "# Last update: 2026-03-04\n", got[19])
}

func TestApplyPreservesPrologAndDocstring(t *testing.T) {
	t.Parallel()

	src := "#!/usr/bin/env python3\n# -*- coding: utf-8 -*-\n\"\"\"Sync   invoices\nfrom the ledger.\"\"\"\n\nclass Job(Base):\n    pass\n"
	root := t.TempDir()
	out, _, err := Apply(filepath.Join(root, "job.py"), []byte(src), optsAt(root, day1))
	require.NoError(t, err)

	got := lines(out)
	assert.Equal(t, "#!/usr/bin/env python3\n", got[0])
	assert.Equal(t, "# -*- coding: utf-8 -*-\n", got[1])
	assert.Equal(t, "# "+header.MarkerLine+"\n", got[2])
	assert.Equal(t, "# Purpose: Sync invoices from the ledger.\n", got[4])
	assert.Equal(t, "# Key types: Job@L26\n", got[5])
	assert.Equal(t, "# Inheritance: Job@L26->Base\n", got[6])
	assert.Equal(t, "\"\"\"Sync   invoices\n", got[22])
}

func TestApplyUnsupported(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"data.json", "README.txt"} {
		out, res, err := Apply(name, []byte("x"), Options{})
		require.NoError(t, err)
		assert.Equal(t, Skipped, res.Action)
		assert.Equal(t, "x", string(out))
	}
}

func TestApplyMarkerOutsideWindow(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	src := strings.Repeat("x = 1\n", 24) + "# @codex-header: v1\n" + "y = 2\n"
	path := writeTestFile(t, root, "bad.py", src)

	res := File(path, optsAt(root, day1))
	require.ErrorIs(t, res.Err, header.ErrInvalidHeader)
	assert.Contains(t, res.Err.Error(), "bad.py")

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, src, string(after))
}

func TestApplyPreservesManualFields(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	src := strings.Join([]string{
		"/* @codex-header: v1 | 20 lines | keep updated",
		" * Path: src/components/AlarmMessageList.tsx",
		" * Purpose: React 组件模块（默认导出）：AlarmMessageList",
		" * Key types: TODO",
		" * Inheritance: TODO",
		" * Key funcs: TODO",
		" * Entrypoints: TODO",
		" * Public API: 已完成",
		" * Inputs/Outputs: TODO",
		" * Core flow: TODO",
		" * Dependencies: TODO",
		" * Error handling: TODO",
		" * Config/env: TODO",
		" * Side effects: TODO",
		" * Performance: TODO",
		" * Security: TODO",
		" * Tests: TODO",
		" * Known issues: TODO",
		" * Index: TODO",
		" * Last update: 2026-01-01 */",
		"",
		"export const AlarmMessageList = () => null;",
		"export default AlarmMessageList;",
		"",
	}, "\n") + "\n"
	path := writeTestFile(t, root, "AlarmMessageList.tsx", src)

	res := File(path, optsAt(root, day1))
	require.NoError(t, res.Err)
	assert.True(t, res.Changed)

	updated, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(updated), "Purpose: React 组件模块（默认导出）：AlarmMessageList")
	assert.Contains(t, string(updated), "Public API: 已完成")
	assert.Contains(t, string(updated), "Path: AlarmMessageList.tsx")
	assert.Contains(t, string(updated), "Entrypoints: default@L23")
	assert.Contains(t, string(updated), "Last update: 2026-03-04")
	assert.Len(t, lines(updated), header.Lines+4)
}

func TestApplyRefreshResetsManualFields(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	var b strings.Builder
	b.WriteString("/* " + header.MarkerLine + "\n")
	b.WriteString(" * Path: file.ts\n")
	for _, l := range header.Labels[1 : len(header.Labels)-1] {
		b.WriteString(" * " + l + ": KeepMe\n")
	}
	b.WriteString(" * Last update: 2026-01-01 */\n\nexport const x = 1;\n")
	path := writeTestFile(t, root, "file.ts", b.String())

	opts := optsAt(root, day1)
	opts.Refresh = true
	res := File(path, opts)
	require.NoError(t, res.Err)
	assert.Equal(t, Updated, res.Action)

	updated, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(updated), "Purpose: TODO")
	assert.Contains(t, string(updated), "Public API: TODO")
	assert.Contains(t, string(updated), "Index: TODO")
	assert.NotContains(t, string(updated), "KeepMe")
}

func TestApplyOverridePersists(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := writeTestFile(t, root, "lib.rb", "class Parser\nend\n")

	opts := optsAt(root, day1)
	opts.Purpose = "Handles X"
	require.NoError(t, File(path, opts).Err)

	res := File(path, optsAt(root, day2))
	require.NoError(t, res.Err)
	assert.Equal(t, NoOp, res.Action)
	assert.Equal(t, "Handles X", res.Fields.Get(header.Purpose))
}

func TestApplyCrossFileParents(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	base := writeTestFile(t, root, "pkg/base.py", "import os\n\nclass Base:\n    pass\n")
	dupA := writeTestFile(t, root, "a/mixin.py", "class Mixin:\n    pass\n")
	dupB := writeTestFile(t, root, "b/mixin.py", "class Mixin:\n    pass\n")
	child := writeTestFile(t, root, "app/child.py", "class Child(Base, Mixin):\n    pass\n")

	idx := typeindex.Build(context.Background(), []string{base, dupA, dupB, child}, root)

	opts := optsAt(root, day1)
	opts.Index = idx
	res := File(child, opts)
	require.NoError(t, res.Err)
	assert.Equal(t, "Child@L21->Base@pkg/base.py#L23, Child@L21+Mixin", res.Fields.Get(header.Inheritance))
}

func TestApplyCRLF(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := filepath.Join(root, "win.py")
	src := []byte("def main():\r\n    pass\r\n")

	first, _, err := Apply(path, src, optsAt(root, day1))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(first, []byte("# "+header.MarkerLine+"\r\n")))
	assert.Contains(t, string(first), "# Key funcs: main@L21\r\n")

	second, res, err := Apply(path, first, optsAt(root, day2))
	require.NoError(t, err)
	assert.Equal(t, NoOp, res.Action)
	assert.Equal(t, first, second)
}

func TestFileDryRun(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := writeTestFile(t, root, "main.go", goSource)

	opts := optsAt(root, day1)
	opts.DryRun = true
	res := File(path, opts)
	require.NoError(t, res.Err)
	assert.True(t, res.Changed)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, goSource, string(after))
}

func TestFileKeepsPermissions(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := writeTestFile(t, root, "run.sh", "echo hi\n")
	require.NoError(t, os.Chmod(path, 0o755))

	require.NoError(t, File(path, optsAt(root, day1)).Err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func writeTestFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
