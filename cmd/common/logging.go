package common

import (
	"io"
	"log/slog"
	"os"
)

// SetupLogging installs a text slog handler on stderr. Debug records are only
// emitted when verbose is set.
func SetupLogging(verbose bool) {
	slog.SetDefault(NewLogger(os.Stderr, verbose))
}

func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

// Fail prints "dotdash <cmd>: <err>" to stderr and exits 1.
func Fail(cmd string, err error) {
	_, _ = io.WriteString(os.Stderr, appName+" "+cmd+": "+err.Error()+"\n")
	os.Exit(1)
}
