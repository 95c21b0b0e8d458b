package toolstream

import (
	"context"
	"log/slog"
	"time"
)

// Middleware wraps a Handler with cross-cutting behavior (logging,
// recovery, timeout).
type Middleware func(Handler) Handler

// WithLogging returns a middleware that logs start, end, duration, and
// errors of each dispatch.
func WithLogging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next Handler) Handler {
		return &loggingHandler{handlerBase: handlerBase{next: next}, logger: logger}
	}
}

// WithRecovery returns a middleware that recovers panics and returns a
// SystemError.
func WithRecovery() Middleware {
	return func(next Handler) Handler {
		return &recoveryHandler{handlerBase{next: next}}
	}
}

// WithTimeoutMiddleware returns a middleware that enforces a per-handler
// timeout. Named with "Middleware" suffix to avoid collision with the
// HandlerOption WithTimeout. When both the dispatcher default timeout and
// this middleware apply, the effective timeout is the minimum of the two
// (inner context cancels first).
func WithTimeoutMiddleware(d time.Duration) Middleware {
	return func(next Handler) Handler {
		return &timeoutHandler{handlerBase: handlerBase{next: next}, timeout: d}
	}
}

// handlerBase delegates Handler and HandlerMetadata to the wrapped
// handler; used by middleware wrappers.
type handlerBase struct{ next Handler }

func (b *handlerBase) Name() ToolName      { return b.next.Name() }
func (b *handlerBase) Description() string { return b.next.Description() }

func (b *handlerBase) Timeout() time.Duration {
	if hm, ok := b.next.(HandlerMetadata); ok {
		return hm.Timeout()
	}
	return 0
}
func (b *handlerBase) Tags() []string {
	if hm, ok := b.next.(HandlerMetadata); ok {
		return hm.Tags()
	}
	return nil
}
func (b *handlerBase) Version() string {
	if hm, ok := b.next.(HandlerMetadata); ok {
		return hm.Version()
	}
	return ""
}
func (b *handlerBase) IsDangerous() bool {
	if hm, ok := b.next.(HandlerMetadata); ok {
		return hm.IsDangerous()
	}
	return false
}
func (b *handlerBase) ArgHint() string {
	if hm, ok := b.next.(HandlerMetadata); ok {
		return hm.ArgHint()
	}
	return ""
}

// Parameters delegates to the wrapped handler's schema when it has one,
// so middleware does not hide a handler from the catalog export.
func (b *handlerBase) Parameters() map[string]any {
	if hs, ok := b.next.(HandlerSchema); ok {
		return hs.Parameters()
	}
	return nil
}

type loggingHandler struct {
	handlerBase
	logger *slog.Logger
}

func (m *loggingHandler) Invoke(ctx context.Context, argument string) (DispatchResult, error) {
	m.logger.Info("dispatch start", "tool", m.next.Name())
	start := time.Now()
	res, err := m.next.Invoke(ctx, argument)
	dur := time.Since(start)
	if err != nil {
		m.logger.Error("dispatch error", "tool", m.next.Name(), "duration", dur, "error", err)
		return nil, err
	}
	m.logger.Info("dispatch end", "tool", m.next.Name(), "duration", dur)
	return res, nil
}

type recoveryHandler struct{ handlerBase }

func (r *recoveryHandler) Invoke(ctx context.Context, argument string) (res DispatchResult, err error) {
	defer func() {
		if p := recover(); p != nil {
			res = nil
			err = &SystemError{Err: &panicError{p: p}}
		}
	}()
	return r.next.Invoke(ctx, argument)
}

type timeoutHandler struct {
	handlerBase
	timeout time.Duration
}

func (t *timeoutHandler) Timeout() time.Duration {
	if t.timeout > 0 {
		return t.timeout
	}
	return t.handlerBase.Timeout()
}

func (t *timeoutHandler) Invoke(ctx context.Context, argument string) (DispatchResult, error) {
	if t.timeout <= 0 {
		return t.next.Invoke(ctx, argument)
	}
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.Invoke(ctx, argument)
}

// Use stores the given middlewares and reapplies them from scratch to all
// registered handlers (onion order: first middleware is outermost).
// Handlers registered after Use also get these middlewares applied.
// Calling Use multiple times replaces the chain and rewraps from raw
// handlers, avoiding double-wrapping.
func (d *Dispatcher) Use(middlewares ...Middleware) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.middlewares = middlewares
	for name, raw := range d.rawHandlers {
		h := raw
		for i := len(middlewares) - 1; i >= 0; i-- {
			h = middlewares[i](h)
		}
		d.handlers[name] = h
	}
}
