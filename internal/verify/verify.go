// Package verify checks annotated files for computed header fields that were
// left unfilled even though the file declares matching symbols.
//
// Declarations are detected independently of the annotator's line patterns
// by parsing the file with tree-sitter. Languages without a grammar are not
// checked.
package verify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/codexheader/internal/discover"
	"github.com/phobologic/codexheader/internal/header"
	"github.com/phobologic/codexheader/internal/lang"
	"github.com/phobologic/codexheader/internal/prolog"
	"github.com/phobologic/codexheader/internal/style"
)

// Finding lists the incomplete header lines of one file.
type Finding struct {
	Path   string
	Issues []string
}

// Checker holds one tree-sitter parser per language. Not safe for
// concurrent use; give each goroutine its own.
type Checker struct {
	parsers map[string]*sitter.Parser
}

// NewChecker returns an empty Checker.
func NewChecker() *Checker {
	return &Checker{parsers: make(map[string]*sitter.Parser)}
}

func (c *Checker) parser(l *lang.Language) *sitter.Parser {
	p, ok := c.parsers[l.Name]
	if !ok {
		p = l.NewParser()
		c.parsers[l.Name] = p
	}
	return p
}

// Check inspects the header of one file. relPath names the file in the
// finding. Files without a header, without a comment style, or in a language
// without a grammar report no issues.
func (c *Checker) Check(ctx context.Context, path, relPath string, source []byte) (Finding, error) {
	f := Finding{Path: relPath}

	if _, support := style.ForPath(path); support != style.Supported {
		return f, nil
	}
	l := lang.ForPath(path)
	if !l.HasGrammar() {
		return f, nil
	}

	_, rest := prolog.Split(prolog.SplitLines(string(source)), l.EncodingCookie)
	hdr, _, found, err := header.Find(rest, relPath)
	if err != nil {
		f.Issues = append(f.Issues, "No valid header found")
		return f, nil
	}
	if !found {
		return f, nil
	}

	fields := header.ParseFields(hdr)
	needFuncs := isUnfilled(fields, header.KeyFuncs)
	needEntry := isUnfilled(fields, header.Entrypoints)
	if !needFuncs && !needEntry {
		return f, nil
	}

	tree, err := c.parser(l).ParseCtx(ctx, nil, source)
	if err != nil {
		return f, fmt.Errorf("parse %s: %w", relPath, err)
	}
	defer tree.Close()

	hasFunc, hasEntry := scan(l, tree.RootNode(), source)
	if needFuncs && hasFunc {
		f.Issues = append(f.Issues, header.KeyFuncs+": "+fields[header.KeyFuncs])
	}
	if needEntry && hasEntry {
		f.Issues = append(f.Issues, header.Entrypoints+": "+fields[header.Entrypoints])
	}
	return f, nil
}

func isUnfilled(fields map[string]string, label string) bool {
	v, ok := fields[label]
	return ok && header.IsPlaceholder(v)
}

// scan walks the syntax tree until both kinds of declaration are found.
func scan(l *lang.Language, root *sitter.Node, source []byte) (hasFunc, hasEntry bool) {
	stack := []*sitter.Node{root}
	for len(stack) > 0 && !(hasFunc && hasEntry) {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !hasFunc && l.IsFunction != nil && l.IsFunction(n, source) {
			hasFunc = true
		}
		if !hasEntry && l.IsEntrypoint != nil && l.IsEntrypoint(n, source) {
			hasEntry = true
		}
		for i := int(n.ChildCount()) - 1; i >= 0; i-- {
			if child := n.Child(i); child != nil && child.IsNamed() {
				stack = append(stack, child)
			}
		}
	}
	return hasFunc, hasEntry
}

// Files checks paths concurrently and returns the files with issues, in
// input order. Per-file errors are returned alongside and do not stop the
// run.
func Files(ctx context.Context, paths []string, root string, workers int) ([]Finding, []error) {
	type result struct {
		finding Finding
		err     error
	}

	results := make([]result, len(paths))
	if len(paths) == 0 {
		return nil, nil
	}

	numWorkers := workers
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	if numWorkers > len(paths) {
		numWorkers = len(paths)
	}

	work := make(chan int, len(paths))
	for i := range paths {
		work <- i
	}
	close(work)

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// Each goroutine gets its own parsers
			c := NewChecker()
			for idx := range work {
				p := paths[idx]
				rel := discover.RelPath(p, root)
				source, err := os.ReadFile(p)
				if err != nil {
					results[idx].err = fmt.Errorf("%s: %w", p, err)
					continue
				}
				f, err := c.Check(ctx, p, rel, source)
				if err != nil {
					slog.WarnContext(ctx, "verify failed", slog.String("path", rel), slog.Any("error", err))
				}
				results[idx] = result{finding: f, err: err}
			}
		}()
	}
	wg.Wait()

	var findings []Finding
	var errs []error
	for _, r := range results {
		if r.err != nil {
			errs = append(errs, r.err)
			continue
		}
		if len(r.finding.Issues) > 0 {
			findings = append(findings, r.finding)
		}
	}
	return findings, errs
}

// Write prints findings and a remediation hint, or a success line when there
// are none.
func Write(w io.Writer, findings []Finding) {
	if len(findings) == 0 {
		_, _ = fmt.Fprintln(w, "All headers are complete!")
		return
	}

	_, _ = fmt.Fprintf(w, "Found %d file(s) with incomplete headers:\n\n", len(findings))
	for _, f := range findings {
		_, _ = fmt.Fprintf(w, "%s:\n", f.Path)
		for _, issue := range f.Issues {
			_, _ = fmt.Fprintf(w, "  - %s\n", issue)
		}
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "To fix these files, run:")
	_, _ = fmt.Fprintln(w, "  codexheader <files> --root <repo-root>")
}
