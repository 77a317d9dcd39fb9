// Package cli implements the timeweave command-line interface.
//
// # Commands
//
//   - analyze: trim and weigh timelines around an origin, print a report
//   - hops: print hop distances from an origin
//   - graph: draw the identity graph as SVG or DOT
//   - frames: walk the weighted frames in time order
//   - serve: answer the same queries over HTTP
//   - cache: manage the analysis cache
//
// # Configuration
//
// Defaults for origin, max hops, min born, the cache backend and the server
// address come from a TOML file at --config or
// $XDG_CONFIG_HOME/timeweave/config.toml. Flags override it.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// routes pipeline, cache and server events to the log. Loggers are passed
// through context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Trimmed 12 timelines (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
