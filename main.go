// codexheader inserts and maintains a fixed 20-line navigation header at the
// top of source files.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/phobologic/codexheader/internal/annotate"
	"github.com/phobologic/codexheader/internal/config"
	"github.com/phobologic/codexheader/internal/discover"
	"github.com/phobologic/codexheader/internal/log"
	"github.com/phobologic/codexheader/internal/navdoc"
	"github.com/phobologic/codexheader/internal/reconcile"
	"github.com/phobologic/codexheader/internal/toon"
	"github.com/phobologic/codexheader/internal/typeindex"
	"github.com/phobologic/codexheader/internal/verify"
	"github.com/phobologic/codexheader/internal/version"
)

var (
	// errIncomplete is returned after verification lists incomplete files.
	errIncomplete = errors.New("incomplete headers")
	// errFailed is returned when at least one file could not be processed.
	errFailed = errors.New("some files failed")
)

var reportFormats = []string{"text", "toon"}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	if err == nil {
		return
	}
	// Already reported per file.
	if !errors.Is(err, errIncomplete) && !errors.Is(err, errFailed) {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	stop()
	os.Exit(1)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

// globalOptions are shared by every command.
type globalOptions struct {
	root       string
	configPath string
	workers    int
	log        *log.Config

	// now is overridden in tests.
	now func() time.Time
}

type annotateOptions struct {
	purpose        string
	indexHint      string
	refresh        bool
	resolveParents bool
	maxWidth       int
	dryRun         bool
	verify         bool
	updateAgents   bool
	report         string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	g := &globalOptions{root: ".", log: log.NewConfig(), now: time.Now}
	o := &annotateOptions{report: "text"}

	cmd := &cobra.Command{
		Use:   "codexheader [flags] PATH...",
		Short: "Insert or update codex headers in source files",
		Long: `codexheader writes a 20-line @codex-header block at the top of each source
file: path, purpose, key types, inheritance, key functions, entrypoints and
hand-maintained notes, with line references into the file. Directories are
walked recursively. Re-running is idempotent; manual fields are preserved
unless --refresh is given.`,
		Args:          cobra.MinimumNArgs(1),
		Version:       version.String(),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			h, err := g.log.NewHandler(stderr)
			if err != nil {
				return err
			}
			slog.SetDefault(slog.New(h))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnnotate(cmd, g, o, args, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetVersionTemplate("{{.Version}}\n")

	pf := cmd.PersistentFlags()
	pf.StringVar(&g.root, "root", g.root, "repository root used for relative paths and config lookup")
	pf.StringVar(&g.configPath, "config", "", "config file (default <root>/"+config.FileName+")")
	pf.IntVar(&g.workers, "workers", 0, "files processed concurrently (0 = GOMAXPROCS)")
	g.log.RegisterFlags(pf)

	f := cmd.Flags()
	f.StringVar(&o.purpose, "purpose", "", "set the Purpose field for every file")
	f.StringVar(&o.indexHint, "index-hint", "", "set the Index field for every file")
	f.BoolVar(&o.refresh, "refresh", false, "reset manual fields instead of preserving them")
	f.BoolVar(&o.resolveParents, "resolve-parents", false, "resolve parent types declared in other given files")
	f.IntVar(&o.maxWidth, "max-width", 0, "maximum rendered width of a field value")
	f.BoolVar(&o.dryRun, "dry-run", false, "report changes without writing files")
	f.BoolVar(&o.verify, "verify", false, "check changed files for incomplete headers afterwards")
	f.BoolVar(&o.updateAgents, "update-agents-md", false, "update the navigation document index for changed files")
	f.StringVar(&o.report, "report", o.report, "report format, one of: text, toon")

	if err := g.log.RegisterCompletions(cmd); err != nil {
		fmt.Fprintf(stderr, "register completions: %v\n", err)
	}
	_ = cmd.RegisterFlagCompletionFunc("report",
		cobra.FixedCompletions(reportFormats, cobra.ShellCompDirectiveNoFileComp))

	cmd.AddCommand(
		newVerifyCmd(g, stdout, stderr),
		newIndexCmd(g, stdout, stderr),
		newInitCmd(stdout, stderr),
	)
	return cmd
}

// settings resolves the root and merges flags over the loaded config.
func (g *globalOptions) settings(cmd *cobra.Command) (string, *config.Config, error) {
	root, err := filepath.Abs(g.root)
	if err != nil {
		return "", nil, fmt.Errorf("resolving root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return "", nil, fmt.Errorf("root path: %w", err)
	}
	if !info.IsDir() {
		return "", nil, fmt.Errorf("%s: not a directory", root)
	}

	cfg, err := config.Load(root, g.configPath)
	if err != nil {
		return "", nil, err
	}
	if cmd.Flags().Changed("workers") {
		if g.workers < 0 {
			return "", nil, fmt.Errorf("--workers must not be negative, got %d", g.workers)
		}
		cfg.Workers = g.workers
	}
	return root, cfg, nil
}

func (g *globalOptions) paths(args []string, cfg *config.Config) ([]string, error) {
	ex, err := discover.NewExcludes(cfg.ExcludeDirs, cfg.ExcludeFiles)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	return discover.Expand(args, ex), nil
}

func (g *globalOptions) agentsFile(root string, cfg *config.Config) string {
	if filepath.IsAbs(cfg.AgentsFile) {
		return cfg.AgentsFile
	}
	return filepath.Join(root, cfg.AgentsFile)
}

func runAnnotate(cmd *cobra.Command, g *globalOptions, o *annotateOptions, args []string, stdout, stderr io.Writer) error {
	ctx := cmd.Context()

	if o.report != "text" && o.report != "toon" {
		return fmt.Errorf("unknown report format %q", o.report)
	}

	root, cfg, err := g.settings(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("max-width") {
		if o.maxWidth < 1 {
			return fmt.Errorf("--max-width must be at least 1, got %d", o.maxWidth)
		}
		cfg.MaxWidth = o.maxWidth
	}
	if cmd.Flags().Changed("resolve-parents") {
		cfg.ResolveParents = o.resolveParents
	}

	paths, err := g.paths(args, cfg)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		_, _ = fmt.Fprintln(stderr, "no files to process")
		return nil
	}

	opts := annotate.Options{
		Root:      root,
		Purpose:   o.purpose,
		IndexHint: o.indexHint,
		MaxWidth:  cfg.MaxWidth,
		DryRun:    o.dryRun,
		Refresh:   o.refresh,
		Now:       g.now,
		Workers:   cfg.Workers,
	}
	if cfg.ResolveParents {
		idx := typeindex.Build(ctx, paths, root)
		slog.DebugContext(ctx, "type index built", slog.Int("types", idx.Len()))
		opts.Index = idx
	}

	results := annotate.Run(ctx, paths, opts)

	var summary annotate.Summary
	if o.report == "toon" {
		_, _ = fmt.Fprintln(stdout, toon.Encode(root, o.dryRun, results))
		summary = annotate.Summarize(results)
	} else {
		summary = annotate.Report(stdout, stderr, results, o.dryRun)
	}

	if o.updateAgents && !o.dryRun {
		var entries []navdoc.Entry
		for _, r := range results {
			if r.Err == nil && r.Changed {
				entries = append(entries, navdoc.EntryFor(r.RelPath, r.Fields))
			}
		}
		doc := g.agentsFile(root, cfg)
		changed, err := navdoc.Update(doc, entries, g.now().Format(reconcile.DateLayout))
		if err != nil {
			return err
		}
		if changed {
			_, _ = fmt.Fprintf(stderr, "updated index: %s\n", discover.RelPath(doc, root))
		}
	}

	incomplete := false
	if o.verify && !o.dryRun {
		if changed := annotate.ChangedPaths(results); len(changed) > 0 {
			findings, errs := verify.Files(ctx, changed, root, cfg.Workers)
			for _, err := range errs {
				_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
			}
			verify.Write(stdout, findings)
			incomplete = len(findings) > 0 || len(errs) > 0
		}
	}

	switch {
	case summary.Errored > 0:
		return errFailed
	case incomplete:
		return errIncomplete
	}
	return nil
}

func newVerifyCmd(g *globalOptions, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "verify PATH...",
		Short: "List files whose headers leave detectable functions or entrypoints as TODO",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, cfg, err := g.settings(cmd)
			if err != nil {
				return err
			}
			paths, err := g.paths(args, cfg)
			if err != nil {
				return err
			}

			findings, errs := verify.Files(cmd.Context(), paths, root, cfg.Workers)
			for _, err := range errs {
				_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
			}
			verify.Write(stdout, findings)

			if len(errs) > 0 {
				return errFailed
			}
			if len(findings) > 0 {
				return errIncomplete
			}
			return nil
		},
	}
}

func newIndexCmd(g *globalOptions, stdout, stderr io.Writer) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "index PATH...",
		Short: "Add the headers of annotated files to the navigation document",
		Long: `index reads the headers of the given files and merges one row per file into
the table between the CODEX_HEADER_INDEX markers of the navigation document
(agents_file, default AGENTS.md in the root). Rows for other files are kept.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, cfg, err := g.settings(cmd)
			if err != nil {
				return err
			}
			paths, err := g.paths(args, cfg)
			if err != nil {
				return err
			}

			entries := navdoc.Collect(paths, root)
			today := g.now().Format(reconcile.DateLayout)
			doc := g.agentsFile(root, cfg)

			if dryRun {
				existing, err := os.ReadFile(doc)
				if err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("reading %s: %w", doc, err)
				}
				_, _ = fmt.Fprint(stdout, navdoc.ApplyIndex(string(existing), entries, today))
				return nil
			}

			changed, err := navdoc.Update(doc, entries, today)
			if err != nil {
				return err
			}
			rel := discover.RelPath(doc, root)
			if changed {
				_, _ = fmt.Fprintf(stderr, "updated index: %s (%d file(s))\n", rel, len(entries))
			} else {
				_, _ = fmt.Fprintf(stderr, "index unchanged: %s\n", rel)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the updated document instead of writing it")
	return cmd
}
