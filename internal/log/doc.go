// Package log configures the [log/slog] default handler from the
// --log-level and --log-format flags of the codexheader command.
package log
