// Package logbridge is the logging bridge (LB), used by the embedding
// surface (the backends and the façade do not log through it): structured
// slog records tagged with a
// per-embed-session correlation id, plus a tabular fallback renderer for
// the handful of call sites that want a human-scannable dump instead of a
// stream of log lines, the same split core/util.go draws between
// slog-based leveled logging and go-pretty table dumps.
package logbridge

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/xid"
)

// Custom levels, LevelTrace just below LevelDebug and LevelWaveform just
// above LevelInfo, carried over from the
// waveform/trace levels core/util.go defines for CGRA cycle logging.
const (
	LevelTrace    slog.Level = slog.LevelDebug - 1
	LevelWaveform slog.Level = slog.LevelInfo + 1
)

// SessionID is the correlation id attached to every log record emitted
// during one EmbedInit..EmbedEvent(shutdown) session, so a multi-backend
// run's interleaved log lines can be split back apart per session.
type SessionID string

// NewSessionID mints a fresh correlation id.
func NewSessionID() SessionID {
	return SessionID(xid.New().String())
}

// Logger is a thin wrapper around *slog.Logger that always carries a
// session id and a backend name, the two attributes nearly every call
// site needs.
type Logger struct {
	base    *slog.Logger
	session SessionID
	backend string
}

// New creates a Logger for backend, tagged with session.
func New(backend string, session SessionID) *Logger {
	return &Logger{
		base:    slog.Default(),
		session: session,
		backend: backend,
	}
}

func (l *Logger) with(args ...any) *slog.Logger {
	base := append([]any{"session", string(l.session), "backend", l.backend}, args...)
	return l.base.With(base...)
}

// Info logs at info level.
func (l *Logger) Info(msg string, args ...any) { l.with(args...).Info(msg) }

// Warn logs at warn level.
func (l *Logger) Warn(msg string, args ...any) { l.with(args...).Warn(msg) }

// Error logs at error level.
func (l *Logger) Error(msg string, args ...any) { l.with(args...).Error(msg) }

// Trace logs at the custom trace level, below debug.
func (l *Logger) Trace(msg string, args ...any) {
	l.with(args...).Log(nil, LevelTrace, msg)
}

// Waveform logs one signal-value-change at the custom waveform level, the
// structured-logging analogue of a VCD trace line.
func (l *Logger) Waveform(signal, value string, step uint64) {
	l.with("signal", signal, "value", value, "step", step).
		Log(nil, LevelWaveform, "value change")
}

// Table renders rows as an ASCII table to stdout, the fallback path for
// call sites that want a snapshot dump (the register-file and buffer
// dumps core/util.go builds) rather than a stream of structured records.
func Table(title string, header []string, rows [][]string) {
	w := table.NewWriter()
	w.SetOutputMirror(os.Stdout)

	headerRow := make(table.Row, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	w.AppendHeader(headerRow)

	for _, r := range rows {
		row := make(table.Row, len(r))
		for i, c := range r {
			row[i] = c
		}
		w.AppendRow(row)
	}

	if title != "" {
		fmt.Println(title)
	}
	w.Render()
}
