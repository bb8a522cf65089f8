// Package diag collects export diagnostics.
//
// A Sink is append-only and is passed explicitly into every decode call.
// Entries render as one plain-text line each, tagged [ERROR], [WARN] or [INFO].
package diag

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

// Level is the severity of a diagnostic.
type Level uint8

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

// String returns the log tag for the level.
func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return fmt.Sprintf("Level(%d)", uint8(l))
	}
}

// NoTrainer marks entries that are not tied to a record.
const NoTrainer = -1

// Entry is a single diagnostic event.
type Entry struct {
	Message   string
	TrainerID int
	Level     Level
}

// String renders the entry as a log line.
func (e Entry) String() string {
	if e.TrainerID == NoTrainer {
		return fmt.Sprintf("[%s] %s", e.Level, e.Message)
	}
	return fmt.Sprintf("[%s] trainer_id %d: %s", e.Level, e.TrainerID, e.Message)
}

// Sink accumulates entries in arrival order.
type Sink struct {
	logger  *zap.Logger
	entries []Entry
	counts  [3]int
}

// NewSink creates an empty sink.
func NewSink() *Sink {
	return &Sink{logger: zap.NewNop()}
}

// WithLogger mirrors every entry to l.
func (s *Sink) WithLogger(l *zap.Logger) *Sink {
	if l == nil {
		l = zap.NewNop()
	}
	s.logger = l
	return s
}

// Add appends an entry.
func (s *Sink) Add(e Entry) {
	s.entries = append(s.entries, e)
	if int(e.Level) < len(s.counts) {
		s.counts[e.Level]++
	}

	fields := []zap.Field{zap.String("level", e.Level.String())}
	if e.TrainerID != NoTrainer {
		fields = append(fields, zap.Int("trainer_id", e.TrainerID))
	}
	switch e.Level {
	case LevelError:
		s.logger.Error(e.Message, fields...)
	case LevelWarn:
		s.logger.Warn(e.Message, fields...)
	default:
		s.logger.Info(e.Message, fields...)
	}
}

// Info records an INFO entry.
func (s *Sink) Info(trainerID int, format string, args ...any) {
	s.Add(Entry{Level: LevelInfo, TrainerID: trainerID, Message: fmt.Sprintf(format, args...)})
}

// Warn records a WARN entry.
func (s *Sink) Warn(trainerID int, format string, args ...any) {
	s.Add(Entry{Level: LevelWarn, TrainerID: trainerID, Message: fmt.Sprintf(format, args...)})
}

// Error records an ERROR entry.
func (s *Sink) Error(trainerID int, format string, args ...any) {
	s.Add(Entry{Level: LevelError, TrainerID: trainerID, Message: fmt.Sprintf(format, args...)})
}

// Entries returns the recorded entries. The slice must not be modified.
func (s *Sink) Entries() []Entry {
	return s.entries
}

// Len returns the number of entries.
func (s *Sink) Len() int {
	return len(s.entries)
}

// Count returns the number of entries at level l.
func (s *Sink) Count(l Level) int {
	if int(l) >= len(s.counts) {
		return 0
	}
	return s.counts[l]
}

// HasErrors reports whether any ERROR entry was recorded.
func (s *Sink) HasErrors() bool {
	return s.counts[LevelError] > 0
}

// HasWarnings reports whether any WARN entry was recorded.
func (s *Sink) HasWarnings() bool {
	return s.counts[LevelWarn] > 0
}

// WriteTo writes one line per entry.
func (s *Sink) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	for _, e := range s.entries {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

// Hex formats b as uppercase space-separated hex pairs.
func Hex(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.Grow(len(b) * 3)
	for i, v := range b {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02X", v)
	}
	return sb.String()
}

// Preview formats at most n leading bytes of b as hex.
func Preview(b []byte, n int) string {
	if n < len(b) {
		b = b[:n]
	}
	return Hex(b)
}
