package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/phobologic/codexheader/internal/navdoc"
)

// newInitCmd implements `codexheader init`, which writes (or updates) the
// header reading guide in an agents document.
func newInitCmd(stdout, stderr io.Writer) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "init [path-to-AGENTS.md]",
		Short: "Write the codex header reading guide to an agents document",
		Long: `Write a guide explaining how to read codex headers to an agents document. The
section is wrapped in sentinel comments so it can be updated in place on
subsequent runs without touching surrounding content. Creates the file if it
does not exist.

path-to-AGENTS.md defaults to ./AGENTS.md.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			section := navdoc.Guide()

			// --dry-run with no path: just print the section itself.
			if dryRun && len(args) == 0 {
				_, _ = fmt.Fprintln(stdout, section)
				return nil
			}

			path := navdoc.DefaultFile
			if len(args) > 0 {
				path = args[0]
			}

			existing, err := os.ReadFile(path)
			if err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			updated := navdoc.ApplySection(string(existing), navdoc.GuideStart, navdoc.GuideEnd, section)

			if dryRun {
				_, _ = fmt.Fprint(stdout, updated)
				return nil
			}

			if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}

			_, _ = fmt.Fprintf(stderr, "wrote codexheader guide to %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print what would be written without modifying the file")
	return cmd
}
