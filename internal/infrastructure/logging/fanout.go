package logging

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/edgenode-io/edgenode/internal/infrastructure/config"
)

// Fanout is a slog.Handler that duplicates records to a set of handlers.
//
// Handlers can be added at runtime, which is how the broker log mirror is
// attached after the first successful MQTT connect. A failing secondary
// handler never suppresses the primary output; errors are joined and
// returned to slog, which discards them.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Fanout struct {
	mu       sync.RWMutex
	handlers []slog.Handler
}

// NewFanout creates a fanout over the given handlers.
func NewFanout(handlers ...slog.Handler) *Fanout {
	return &Fanout{handlers: handlers}
}

// Add attaches another handler to the fanout.
func (f *Fanout) Add(h slog.Handler) {
	f.mu.Lock()
	f.handlers = append(f.handlers, h)
	f.mu.Unlock()
}

// Enabled reports whether any handler is enabled for the level.
func (f *Fanout) Enabled(ctx context.Context, level slog.Level) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, h := range f.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle passes the record to every enabled handler.
func (f *Fanout) Handle(ctx context.Context, record slog.Record) error {
	f.mu.RLock()
	handlers := f.handlers
	f.mu.RUnlock()

	var errs []error
	for _, h := range handlers {
		if !h.Enabled(ctx, record.Level) {
			continue
		}
		if err := h.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WithAttrs returns a fanout whose handlers carry the additional attributes.
func (f *Fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		out[i] = h.WithAttrs(attrs)
	}
	return NewFanout(out...)
}

// WithGroup returns a fanout whose handlers open the given group.
func (f *Fanout) WithGroup(name string) slog.Handler {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		out[i] = h.WithGroup(name)
	}
	return NewFanout(out...)
}

// NewMirrored builds a Logger on a Fanout so additional handlers (such as
// the broker log mirror) can be attached later via the returned fanout.
func NewMirrored(cfg config.LoggingConfig, version string) (*Logger, *Fanout) {
	base := New(cfg, version)
	fanout := NewFanout(base.Handler())
	return &Logger{Logger: slog.New(fanout)}, fanout
}
