package logging

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// LogEntry is the JSON shape pushed to the frontend log viewer.
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
}

// BroadcastHandler wraps another slog.Handler, keeps a ring of recent
// entries for the log viewer, and forwards entries to an EventEmitter
// once the frontend has subscribed.
type BroadcastHandler struct {
	inner slog.Handler

	mu      sync.Mutex
	ring    []LogEntry
	next    int
	filled  bool
	emitter *EventEmitter
}

func NewBroadcastHandler(inner slog.Handler, ringSize int) *BroadcastHandler {
	if ringSize < 1 {
		ringSize = 1
	}
	return &BroadcastHandler{
		inner: inner,
		ring:  make([]LogEntry, ringSize),
	}
}

// SetEmitter attaches the emitter used to push entries to the frontend.
func (h *BroadcastHandler) SetEmitter(e *EventEmitter) {
	h.mu.Lock()
	h.emitter = e
	h.mu.Unlock()
}

func (h *BroadcastHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *BroadcastHandler) Handle(ctx context.Context, r slog.Record) error {
	entry := LogEntry{
		Timestamp: r.Time.Format(time.RFC3339Nano),
		Level:     levelName(r.Level),
		Message:   formatMessage(r),
	}

	h.mu.Lock()
	h.ring[h.next] = entry
	h.next = (h.next + 1) % len(h.ring)
	if h.next == 0 {
		h.filled = true
	}
	emitter := h.emitter
	h.mu.Unlock()

	if emitter != nil {
		emitter.Emit(entry)
	}

	return h.inner.Handle(ctx, r)
}

func (h *BroadcastHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h
}

func (h *BroadcastHandler) WithGroup(name string) slog.Handler {
	return h
}

// Recent returns up to n of the most recent entries, oldest first.
func (h *BroadcastHandler) Recent(n int) []LogEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	var ordered []LogEntry
	if h.filled {
		ordered = append(ordered, h.ring[h.next:]...)
		ordered = append(ordered, h.ring[:h.next]...)
	} else {
		ordered = append(ordered, h.ring[:h.next]...)
	}

	if n > 0 && len(ordered) > n {
		ordered = ordered[len(ordered)-n:]
	}
	return ordered
}

func levelName(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

func formatMessage(r slog.Record) string {
	message := r.Message
	r.Attrs(func(a slog.Attr) bool {
		message += fmt.Sprintf(" %s=%v", a.Key, a.Value)
		return true
	})
	return message
}
