package log

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Format is a log output format.
type Format string

const (
	// FormatText writes key=value lines without timestamps.
	FormatText Format = "text"
	// FormatJSON writes one JSON object per record.
	FormatJSON Format = "json"
	// FormatLogfmt writes timestamped key=value lines with source locations.
	FormatLogfmt Format = "logfmt"
)

const (
	levelFlag  = "log-level"
	formatFlag = "log-format"
)

var (
	// ErrUnknownLogLevel indicates an unrecognized --log-level value.
	ErrUnknownLogLevel = errors.New("unknown log level")
	// ErrUnknownLogFormat indicates an unrecognized --log-format value.
	ErrUnknownLogFormat = errors.New("unknown log format")
)

var (
	levelNames  = []string{"error", "warn", "info", "debug"}
	formatNames = []string{string(FormatText), string(FormatJSON), string(FormatLogfmt)}
)

// Config holds the --log-level and --log-format values.
type Config struct {
	Level  string
	Format string
}

// NewConfig returns a Config defaulting to info-level text output.
func NewConfig() *Config {
	return &Config{Level: "info", Format: string(FormatText)}
}

// RegisterFlags adds --log-level and --log-format to flags.
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.Level, levelFlag, c.Level,
		"log level, one of: "+strings.Join(levelNames, ", "))
	flags.StringVar(&c.Format, formatFlag, c.Format,
		"log format, one of: "+strings.Join(formatNames, ", "))
}

// RegisterCompletions completes the log flags of cmd with their fixed values.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	for flag, values := range map[string][]string{levelFlag: levelNames, formatFlag: formatNames} {
		err := cmd.RegisterFlagCompletionFunc(flag,
			cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
		if err != nil {
			return fmt.Errorf("registering %s completion: %w", flag, err)
		}
	}
	return nil
}

// NewHandler builds the handler selected by c, writing to w.
func (c *Config) NewHandler(w io.Writer) (slog.Handler, error) {
	lvl, err := ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	f, err := ParseFormat(c.Format)
	if err != nil {
		return nil, err
	}
	return NewHandler(w, lvl, f), nil
}

// NewHandler returns a handler writing records at or above lvl to w.
func NewHandler(w io.Writer, lvl slog.Level, f Format) slog.Handler {
	switch f {
	case FormatJSON:
		return slog.NewJSONHandler(w, &slog.HandlerOptions{AddSource: true, Level: lvl})
	case FormatLogfmt:
		return slog.NewTextHandler(w, &slog.HandlerOptions{AddSource: true, Level: lvl})
	}

	// Text output omits the time.
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})
}

// ParseLevel parses a level name, case-insensitively. "warning" is
// accepted for warn.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "error":
		return slog.LevelError, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLogLevel, level)
}

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(format string) (Format, error) {
	switch f := Format(strings.ToLower(format)); f {
	case FormatText, FormatJSON, FormatLogfmt:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLogFormat, format)
}
