// Package annotate inserts or updates the header of individual files and
// runs that pipeline over a batch.
package annotate

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/phobologic/codexheader/internal/discover"
	"github.com/phobologic/codexheader/internal/extract"
	"github.com/phobologic/codexheader/internal/header"
	"github.com/phobologic/codexheader/internal/lang"
	"github.com/phobologic/codexheader/internal/prolog"
	"github.com/phobologic/codexheader/internal/reconcile"
	"github.com/phobologic/codexheader/internal/style"
)

// Action is what happened to a file.
type Action string

const (
	Inserted Action = "inserted"
	Updated  Action = "updated"
	NoOp     Action = "no-op"
	Skipped  Action = "skipped"
)

// Options control a run. The zero value annotates in place relative to the
// working directory with default width and no cross-file resolution.
type Options struct {
	Root      string
	Purpose   string
	IndexHint string
	MaxWidth  int
	DryRun    bool
	Refresh   bool

	// Index resolves parent types declared in other files. Nil renders
	// such parents by bare name.
	Index extract.Resolver

	// Now returns the current time; defaults to time.Now.
	Now func() time.Time

	// Workers bounds concurrent files in Run; 0 means GOMAXPROCS.
	Workers int
}

func (o Options) today() string {
	now := time.Now
	if o.Now != nil {
		now = o.Now
	}
	return now().Format(reconcile.DateLayout)
}

func (o Options) maxWidth() int {
	if o.MaxWidth <= 0 {
		return header.DefaultMaxWidth
	}
	return o.MaxWidth
}

// Result describes the outcome for one file.
type Result struct {
	// Path is the path as given; RelPath is the header Path value.
	Path    string
	RelPath string
	Action  Action
	Changed bool
	Fields  header.Fields
	Err     error
}

// Apply computes the annotated content of raw without touching the file
// system. Files without a comment style are Skipped. A file whose existing
// header is malformed yields a *header.ValidationError.
func Apply(path string, raw []byte, opts Options) ([]byte, Result, error) {
	rel := discover.RelPath(path, opts.Root)
	res := Result{Path: path, RelPath: rel}

	st, support := style.ForPath(path)
	if support != style.Supported {
		res.Action = Skipped
		return raw, res, nil
	}

	l := lang.ForPath(path)
	lines := prolog.SplitLines(string(raw))
	eol := lineEnding(lines)
	pro, rest := prolog.Split(lines, l.EncodingCookie)

	hdr, body, found, err := header.Find(rest, rel)
	if err != nil {
		return raw, res, err
	}

	in := reconcile.Input{
		Path:    rel,
		Symbols: extract.Extract(l, body, len(pro)+header.Lines, opts.Index),
		Purpose: opts.Purpose,
		Index:   opts.IndexHint,
		Refresh: opts.Refresh,
		Today:   opts.today(),
	}
	if found {
		in.Prior = header.ParseFields(hdr)
	}
	if l.Docstrings && header.IsPlaceholder(opts.Purpose) {
		in.Hint = extract.PeekDocstring(body)
	}

	fields := reconcile.Fields(in)
	out := assemble(pro, header.Render(st, fields.Lines(), opts.maxWidth()), body, eol)

	if found && !bytes.Equal(out, raw) && fields.Get(header.LastUpdate) != in.Today {
		fields.Set(header.LastUpdate, in.Today)
		out = assemble(pro, header.Render(st, fields.Lines(), opts.maxWidth()), body, eol)
	}

	res.Fields = fields
	switch {
	case bytes.Equal(out, raw):
		res.Action = NoOp
	case found:
		res.Action, res.Changed = Updated, true
	default:
		res.Action, res.Changed = Inserted, true
	}
	return out, res, nil
}

// File annotates the file at path, writing it back unless opts.DryRun is
// set. Errors are reported in Result.Err.
func File(path string, opts Options) Result {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Result{Path: path, RelPath: discover.RelPath(path, opts.Root), Err: fmt.Errorf("read: %w", err)}
	}

	out, res, err := Apply(path, raw, opts)
	if err != nil {
		res.Err = err
		return res
	}
	if !res.Changed || opts.DryRun {
		return res
	}

	if err := writeFile(path, out); err != nil {
		res.Err = fmt.Errorf("write: %w", err)
	}
	return res
}

// writeFile replaces path as a whole, keeping its permissions.
func writeFile(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), info.Mode().Perm()); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func assemble(pro, hdr, body []string, eol string) []byte {
	var b strings.Builder
	for i, ln := range pro {
		b.WriteString(ln)
		if i == len(pro)-1 && !strings.HasSuffix(ln, "\n") {
			b.WriteString(eol)
		}
	}
	for _, ln := range hdr {
		b.WriteString(ln)
		b.WriteString(eol)
	}
	for _, ln := range body {
		b.WriteString(ln)
	}
	return []byte(b.String())
}

// lineEnding returns "\r\n" for files whose first line uses it.
func lineEnding(lines []string) string {
	if len(lines) > 0 && strings.HasSuffix(lines[0], "\r\n") {
		return "\r\n"
	}
	return "\n"
}
