package annotate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
)

// Run annotates paths concurrently. Results are returned in input order;
// a failure in one file never stops the others. Files not yet started when
// ctx is cancelled report ctx.Err().
func Run(ctx context.Context, paths []string, opts Options) []Result {
	results := make([]Result, len(paths))
	if len(paths) == 0 {
		return results
	}

	numWorkers := opts.Workers
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

			for idx := range work {
				p := paths[idx]
				if err := ctx.Err(); err != nil {
					results[idx] = Result{Path: p, Err: err}
					continue
				}
				res := File(p, opts)
				if res.Err != nil {
					slog.DebugContext(ctx, "annotate failed", slog.String("path", p), slog.Any("error", res.Err))
				}
				results[idx] = res
			}
		}()
	}
	wg.Wait()

	return results
}

// Summary counts results by outcome.
type Summary struct {
	Changed   int
	Unchanged int
	Skipped   int
	Errored   int
}

// Summarize tallies results.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		switch {
		case r.Err != nil:
			s.Errored++
		case r.Action == Skipped:
			s.Skipped++
		case r.Changed:
			s.Changed++
		default:
			s.Unchanged++
		}
	}
	return s
}

// Report writes one line per file to w. Errors and the batch summary go to
// errw.
func Report(w, errw io.Writer, results []Result, dryRun bool) Summary {
	for _, r := range results {
		switch {
		case r.Err != nil:
			_, _ = fmt.Fprintf(errw, "error: %s: %v\n", r.Path, r.Err)
		case r.Action == Skipped:
			_, _ = fmt.Fprintf(w, "skip (unsupported): %s\n", r.Path)
		default:
			_, _ = fmt.Fprintf(w, "%s: %s\n", r.Action, r.Path)
		}
	}

	s := Summarize(results)
	if dryRun {
		_, _ = fmt.Fprintf(errw, "dry-run: %d file(s) would change\n", s.Changed)
	} else {
		_, _ = fmt.Fprintf(errw, "done: %d file(s) changed\n", s.Changed)
	}
	if s.Errored > 0 {
		_, _ = fmt.Fprintf(errw, "%d file(s) failed\n", s.Errored)
	}
	return s
}

// ChangedPaths returns the paths of files that were (or in a dry run would
// be) rewritten.
func ChangedPaths(results []Result) []string {
	var out []string
	for _, r := range results {
		if r.Err == nil && r.Changed {
			out = append(out, r.Path)
		}
	}
	return out
}
