// Package diag collects the warnings and errors produced while parsing and
// building a map. Recoverable problems are recorded here instead of being
// returned, so a load can finish and still surface everything it found.
package diag

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Severity classifies an entry.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Entry is one recorded problem.
type Entry struct {
	Severity Severity
	Op       string
	Message  string
}

func (e Entry) String() string {
	if e.Op == "" {
		return e.Severity.String() + ": " + e.Message
	}
	return e.Severity.String() + ": " + e.Op + ": " + e.Message
}

type store struct {
	entries []Entry
}

// Log accumulates entries and mirrors them to a zap logger.
// A nil *Log is valid and discards everything.
type Log struct {
	st  *store
	op  string
	log *zap.Logger
}

// New returns an empty log writing through l. A nil l is replaced by a no-op logger.
func New(l *zap.Logger) *Log {
	if l == nil {
		l = zap.NewNop()
	}
	return &Log{st: &store{}, log: l}
}

// With returns a child log tagging entries with op. The child shares storage
// with its parent.
func (l *Log) With(op string) *Log {
	if l == nil {
		return nil
	}
	return &Log{st: l.st, op: op, log: l.log.With(zap.String("op", op))}
}

// Logger returns the underlying zap logger.
func (l *Log) Logger() *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l.log
}

// Warnf records a warning.
func (l *Log) Warnf(format string, args ...any) {
	if l == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	l.st.entries = append(l.st.entries, Entry{Severity: SeverityWarning, Op: l.op, Message: msg})
	l.log.Warn(msg)
}

// Errorf records an error.
func (l *Log) Errorf(format string, args ...any) {
	if l == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	l.st.entries = append(l.st.entries, Entry{Severity: SeverityError, Op: l.op, Message: msg})
	l.log.Error(msg)
}

// Debugf writes to the logger only; debug output is not recorded.
func (l *Log) Debugf(format string, args ...any) {
	if l == nil {
		return
	}
	l.log.Sugar().Debugf(format, args...)
}

// Entries returns a copy of all entries in insertion order.
func (l *Log) Entries() []Entry {
	if l == nil {
		return nil
	}
	out := make([]Entry, len(l.st.entries))
	copy(out, l.st.entries)
	return out
}

// Warnings returns the warning entries.
func (l *Log) Warnings() []Entry { return l.filter(SeverityWarning) }

// Errors returns the error entries.
func (l *Log) Errors() []Entry { return l.filter(SeverityError) }

func (l *Log) filter(s Severity) []Entry {
	if l == nil {
		return nil
	}
	var out []Entry
	for _, e := range l.st.entries {
		if e.Severity == s {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of recorded entries.
func (l *Log) Len() int {
	if l == nil {
		return 0
	}
	return len(l.st.entries)
}

// HasErrors reports whether any error entry was recorded.
func (l *Log) HasErrors() bool {
	return len(l.Errors()) > 0
}

// Err combines every error entry into a single error, or nil.
func (l *Log) Err() error {
	var err error
	for _, e := range l.Errors() {
		err = multierr.Append(err, errors.New(e.String()))
	}
	return err
}

// String renders all entries, one per line.
func (l *Log) String() string {
	var b strings.Builder
	for _, e := range l.Entries() {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String()
}
