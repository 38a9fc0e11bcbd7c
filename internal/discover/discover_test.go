package discover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, "main.py", "print('hello')")
	writeFile(t, dir, "lib/util.go", "package lib")
	writeFile(t, dir, "web/index.html", "<p></p>")
	// No comment style.
	writeFile(t, dir, "readme.txt", "hello")
	// Binary.
	writeFile(t, dir, "data.json", "{}")
	writeFile(t, dir, ".hidden.py", "secret")

	files, err := Files(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join("lib", "util.go"), "main.py", filepath.Join("web", "index.html")}, files)
}

func TestFilesSkipDirs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, "main.py", "pass")
	writeFile(t, dir, "node_modules/pkg.js", "x")
	writeFile(t, dir, "__pycache__/cached.py", "pass")
	writeFile(t, dir, ".hidden/secret.py", "pass")
	writeFile(t, dir, "target/debug/build.rs", "fn main() {}")

	files, err := Files(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"main.py"}, files)
}

func TestFilesExcludes(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, "app.js", "x")
	writeFile(t, dir, "app.min.js", "x")
	writeFile(t, dir, "vendor/lib.go", "package lib")
	writeFile(t, dir, "pkg/zz_generated.go", "package pkg")
	writeFile(t, dir, "pkg/real.go", "package pkg")

	ex, err := NewExcludes([]string{"vendor"}, []string{"*.min.js", "zz_*.go"})
	require.NoError(t, err)

	files, err := Files(dir, ex)
	require.NoError(t, err)
	assert.Equal(t, []string{"app.js", filepath.Join("pkg", "real.go")}, files)
}

func TestNewExcludesInvalid(t *testing.T) {
	t.Parallel()

	_, err := NewExcludes(nil, []string{"[a-"})
	require.Error(t, err)
}

func TestFilesGitignore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, ".gitignore", "gen/\n*.pb.go\n")
	writeFile(t, dir, "main.go", "package main")
	writeFile(t, dir, "api.pb.go", "package main")
	writeFile(t, dir, "gen/out.go", "package gen")

	files, err := Files(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"main.go"}, files)
}

func TestFilesSymlinksSkipped(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "real.py", "pass")

	err := os.Symlink(filepath.Join(dir, "real.py"), filepath.Join(dir, "link.py"))
	if err != nil {
		t.Skip("symlinks not supported")
	}

	files, err := Files(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"real.py"}, files)
}

func TestExpand(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "src/a.go", "package src")
	writeFile(t, dir, "src/b.py", "pass")
	writeFile(t, dir, "notes.txt", "explicit files are kept")

	got := Expand([]string{
		filepath.Join(dir, "src"),
		filepath.Join(dir, "src", "a.go"),
		filepath.Join(dir, "notes.txt"),
		filepath.Join(dir, "missing.go"),
	}, nil)

	assert.Equal(t, []string{
		filepath.Join(dir, "src", "a.go"),
		filepath.Join(dir, "src", "b.py"),
		filepath.Join(dir, "notes.txt"),
	}, got)
}

func TestRelPath(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	assert.Equal(t, "pkg/a.go", RelPath(filepath.Join(root, "pkg", "a.go"), root))
	assert.Equal(t, "a.go", RelPath(filepath.Join(root, "a.go"), root))

	outside := filepath.Join(filepath.Dir(root), "elsewhere.go")
	assert.Equal(t, filepath.ToSlash(outside), RelPath(outside, root))
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
