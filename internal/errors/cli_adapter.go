package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// CLIErrorAdapter handles error presentation and exit code determination.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
}

func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
	}
}

// ExitCodeFor determines the exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}

	classified, ok := As(err)
	if !ok {
		return 1
	}

	switch classified.Category {
	case CategoryInput:
		return 2 // Invalid usage
	case CategoryConfig:
		return 7
	case CategoryNetwork:
		return 8 // External system error
	case CategoryMetadata, CategoryInternal:
		return 10
	case CategoryOutput:
		return 11
	default:
		return 1
	}
}

// FormatError formats an error for display on the terminal.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}

	classified, ok := As(err)
	if !ok {
		return fmt.Sprintf("Error: %v", err)
	}
	if a.verbose {
		return classified.Error()
	}

	switch classified.Category {
	case CategoryInput, CategoryConfig:
		return classified.Message
	default:
		if classified.Cause != nil {
			return fmt.Sprintf("%s: %s: %v", classified.Category, classified.Message, classified.Cause)
		}
		return fmt.Sprintf("%s: %s", classified.Category, classified.Message)
	}
}

// Handle prints the diagnostic to out and returns the exit code. It does not exit.
func (a *CLIErrorAdapter) Handle(err error, out io.Writer) int {
	if err == nil {
		return 0
	}

	if a.verbose {
		a.logError(err)
	}
	fmt.Fprintln(out, a.FormatError(err))
	return a.ExitCodeFor(err)
}

func (a *CLIErrorAdapter) logError(err error) {
	classified, ok := As(err)
	if !ok {
		a.logger.Error("Unclassified error", "error", err)
		return
	}

	attrs := []slog.Attr{slog.String("category", string(classified.Category))}
	for key, value := range classified.Context {
		attrs = append(attrs, slog.Any(key, value))
	}
	level := slog.LevelError
	if classified.Severity == SeverityWarning {
		level = slog.LevelWarn
	}
	a.logger.LogAttrs(context.Background(), level, classified.Message, attrs...)
}
