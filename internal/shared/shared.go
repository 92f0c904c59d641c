// Package shared holds the configuration, sentinel errors, history migrations and logging
// helpers used across ytsync.
package shared

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// NewLogger returns the ytsync diagnostics logger. Entries are prefixed "ytsync" and carry
// timestamps and caller; nil w logs to [os.Stderr] so stdout stays free for sync output.
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{ReportTimestamp: true, ReportCaller: true, Prefix: "ytsync"}
	return log.NewWithOptions(w, opts)
}

// WithLogger scopes l to a component, e.g. WithLogger(l, "component", "sync") for the engine.
func WithLogger(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

// SetLogLevel changes the level of l; --verbose lowers it to [log.DebugLevel].
func SetLogLevel(l *log.Logger, ll log.Level) {
	l.SetLevel(ll)
}

// GenerateID returns a random v4 UUID used as a sync run ID.
func GenerateID() string {
	return uuid.New().String()
}
