// Package discover expands file and directory arguments into the list of
// annotatable files.
package discover

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gobwas/glob"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/phobologic/codexheader/internal/style"
)

var skipDirs = map[string]struct{}{
	"__pycache__":   {},
	"node_modules":  {},
	".git":          {},
	".hg":           {},
	".svn":          {},
	"venv":          {},
	".venv":         {},
	"env":           {},
	".env":          {},
	"build":         {},
	"dist":          {},
	"target":        {},
	".tox":          {},
	".mypy_cache":   {},
	".ruff_cache":   {},
	".pytest_cache": {},
	"egg-info":      {},
}

// Excludes filters walked entries by base name.
type Excludes struct {
	dirs  []glob.Glob
	files []glob.Glob
}

// NewExcludes compiles directory and file glob patterns.
func NewExcludes(dirs, files []string) (*Excludes, error) {
	ex := &Excludes{}
	for _, p := range dirs {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("exclude dir %q: %w", p, err)
		}
		ex.dirs = append(ex.dirs, g)
	}
	for _, p := range files {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("exclude file %q: %w", p, err)
		}
		ex.files = append(ex.files, g)
	}
	return ex, nil
}

func (e *Excludes) dir(name string) bool {
	return e != nil && matchAny(e.dirs, name)
}

func (e *Excludes) file(name string) bool {
	return e != nil && matchAny(e.files, name)
}

func matchAny(gs []glob.Glob, name string) bool {
	for _, g := range gs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// Expand turns args into a de-duplicated, ordered list of file paths.
// Directories are walked recursively and yield only files with a known
// comment style; file arguments are kept as given. Missing paths are logged
// and skipped.
func Expand(args []string, ex *Excludes) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(p string) {
		p = filepath.Clean(p)
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			slog.Warn("skip (missing)", slog.String("path", arg))
			continue
		}
		if !info.IsDir() {
			add(arg)
			continue
		}
		files, err := Files(arg, ex)
		if err != nil {
			slog.Warn("walk failed", slog.String("path", arg), slog.Any("error", err))
			continue
		}
		for _, f := range files {
			add(filepath.Join(arg, f))
		}
	}
	return out
}

// Files discovers annotatable files under root, returned relative to root
// and sorted.
func Files(root string, ex *Excludes) ([]string, error) {
	gitFiles := gitLsFiles(root)
	var gi *ignore.GitIgnore
	if gitFiles == nil {
		gi = loadGitignore(root)
	}

	var results []string

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip errors
		}

		name := d.Name()

		if d.IsDir() {
			if path == root {
				return nil
			}
			if _, skip := skipDirs[name]; skip || strings.HasPrefix(name, ".") || ex.dir(name) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") || ex.file(name) {
			return nil
		}

		// Skip symlinks
		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}

		if gitFiles != nil {
			if _, ok := gitFiles[filepath.ToSlash(rel)]; !ok {
				return nil
			}
		} else if gi != nil && gi.MatchesPath(rel) {
			return nil
		}

		if _, support := style.ForPath(name); support != style.Supported {
			return nil
		}

		results = append(results, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(results)

	return results, nil
}

// RelPath returns path relative to root with forward slashes, or path as
// given when it is not under root.
func RelPath(path, root string) string {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func gitLsFiles(root string) map[string]struct{} {
	gitDir := filepath.Join(root, ".git")
	info, err := os.Stat(gitDir)
	if err != nil || !info.IsDir() {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "ls-files", "--cached", "--others", "--exclude-standard")
	cmd.Dir = root
	out, err := cmd.Output()
	if err != nil {
		return nil
	}

	files := make(map[string]struct{})
	for _, line := range strings.Split(strings.TrimRight(string(out), "\n"), "\n") {
		if line != "" {
			files[line] = struct{}{}
		}
	}
	return files
}

func loadGitignore(root string) *ignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return gi
}
