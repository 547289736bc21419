package editor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// ConsoleRecord is one log line kept for the Console panel.
type ConsoleRecord struct {
	Time    time.Time
	Level   slog.Level
	Message string
	Attrs   []slog.Attr
}

// String renders the record as "LEVEL message key=value ...".
func (r ConsoleRecord) String() string {
	var b strings.Builder
	b.WriteString(r.Level.String())
	b.WriteByte(' ')
	b.WriteString(r.Message)
	for _, a := range r.Attrs {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value.Resolve())
	}
	return b.String()
}

type consoleBuffer struct {
	mu       sync.Mutex
	records  []ConsoleRecord
	capacity int
}

// ConsoleHandler is a slog.Handler that keeps the most recent records in
// memory for the Console panel and passes every record on to next, if set.
// Handlers derived with WithAttrs or WithGroup share the same buffer.
type ConsoleHandler struct {
	buf    *consoleBuffer
	level  slog.Leveler
	next   slog.Handler
	attrs  []slog.Attr
	groups []string
}

// NewConsoleHandler keeps up to capacity records at slog.LevelInfo and above.
func NewConsoleHandler(capacity int, next slog.Handler) *ConsoleHandler {
	if capacity < 1 {
		capacity = 1
	}
	return &ConsoleHandler{
		buf:   &consoleBuffer{capacity: capacity},
		level: slog.LevelInfo,
		next:  next,
	}
}

// SetLevel changes the minimum level recorded in the console.
func (h *ConsoleHandler) SetLevel(level slog.Leveler) {
	h.level = level
}

func (h *ConsoleHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if level >= h.level.Level() {
		return true
	}
	return h.next != nil && h.next.Enabled(ctx, level)
}

func (h *ConsoleHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= h.level.Level() {
		rec := ConsoleRecord{
			Time:    r.Time,
			Level:   r.Level,
			Message: r.Message,
			Attrs:   make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs()),
		}
		rec.Attrs = append(rec.Attrs, h.attrs...)
		prefix := h.groupPrefix()
		r.Attrs(func(a slog.Attr) bool {
			a.Key = prefix + a.Key
			rec.Attrs = append(rec.Attrs, a)
			return true
		})
		h.buf.add(rec)
	}

	if h.next != nil && h.next.Enabled(ctx, r.Level) {
		return h.next.Handle(ctx, r)
	}
	return nil
}

func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	prefix := h.groupPrefix()
	clone.attrs = append([]slog.Attr(nil), h.attrs...)
	for _, a := range attrs {
		a.Key = prefix + a.Key
		clone.attrs = append(clone.attrs, a)
	}
	if h.next != nil {
		clone.next = h.next.WithAttrs(attrs)
	}
	return &clone
}

func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string(nil), h.groups...), name)
	if h.next != nil {
		clone.next = h.next.WithGroup(name)
	}
	return &clone
}

// Records returns a copy of the buffered records, oldest first.
func (h *ConsoleHandler) Records() []ConsoleRecord {
	h.buf.mu.Lock()
	defer h.buf.mu.Unlock()
	return append([]ConsoleRecord(nil), h.buf.records...)
}

func (h *ConsoleHandler) Clear() {
	h.buf.mu.Lock()
	h.buf.records = nil
	h.buf.mu.Unlock()
}

func (h *ConsoleHandler) groupPrefix() string {
	if len(h.groups) == 0 {
		return ""
	}
	return strings.Join(h.groups, ".") + "."
}

func (b *consoleBuffer) add(r ConsoleRecord) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records = append(b.records, r)
	if over := len(b.records) - b.capacity; over > 0 {
		b.records = append(b.records[:0], b.records[over:]...)
	}
}
