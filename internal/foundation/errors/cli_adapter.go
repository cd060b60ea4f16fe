package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Exit codes returned by docatlas commands.
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitUsage    = 2
	ExitNotFound = 3
	ExitContent  = 4
	ExitConfig   = 7
	ExitGit      = 8
	ExitInternal = 10
	ExitBuild    = 11
)

var exitCodes = map[ErrorCategory]int{
	CategoryValidation:    ExitUsage,
	CategorySyntax:        ExitUsage,
	CategoryNotFound:      ExitNotFound,
	CategoryCatalog:       ExitContent,
	CategoryAlreadyExists: ExitContent,
	CategoryConfig:        ExitConfig,
	CategoryGit:           ExitGit,
	CategoryBuild:         ExitBuild,
	CategoryFileSystem:    ExitBuild,
	CategoryInternal:      ExitInternal,
}

// CLIErrorAdapter prints command errors and maps them to exit codes.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	out     io.Writer
}

func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
		out:     os.Stderr,
	}
}

// ExitCodeFor returns the exit code for err. Unclassified errors exit with 1.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return ExitOK
	}
	classified, ok := AsClassified(err)
	if !ok {
		return ExitFailure
	}
	if code, ok := exitCodes[classified.Category()]; ok {
		return code
	}
	return ExitFailure
}

// FormatError renders err for the terminal.
//
// Classified errors print their message followed by their context in key
// order, so the offending coordinate or spec string is always visible.
// Verbose mode prints the full chain instead.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	classified, ok := AsClassified(err)
	if !ok || a.verbose {
		return "Error: " + err.Error()
	}

	var b strings.Builder
	b.WriteString("Error: ")
	b.WriteString(classified.Message())
	ctx := classified.Context()
	for _, k := range ctx.Keys() {
		fmt.Fprintf(&b, " %s=%v", k, ctx[k])
	}
	return b.String()
}

// HandleError logs and prints err, and returns the exit code.
func (a *CLIErrorAdapter) HandleError(err error) int {
	if err == nil {
		return ExitOK
	}
	a.log(err)
	_, _ = fmt.Fprintln(a.out, a.FormatError(err))
	return a.ExitCodeFor(err)
}

// log writes non-fatal errors to the logger; fatal ones only print, unless verbose.
func (a *CLIErrorAdapter) log(err error) {
	classified, ok := AsClassified(err)
	if !ok {
		a.logger.Error("Unclassified error", slog.String("error", err.Error()))
		return
	}
	if classified.IsFatal() && !a.verbose {
		return
	}
	a.logger.LogAttrs(context.Background(), levelFor(classified.Severity()), classified.Message(), classified.LogAttrs()...)
}

func levelFor(severity ErrorSeverity) slog.Level {
	switch severity {
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
