package toolstream

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"
)

// Dispatcher holds handlers and dispatches directives to them with
// timeout, semaphore, and optional panic recovery. At-most-once per
// ToolName per response is guaranteed upstream by the Scanner's
// de-duplication; the Dispatcher itself never retries a failed call.
type Dispatcher struct {
	handlers    map[ToolName]Handler // wrapped with middlewares, used by Dispatch
	rawHandlers map[ToolName]Handler // unwrapped, used by Use() to re-apply middlewares from scratch
	aliases     map[ToolName]ToolName
	sem         chan struct{}
	opts        dispatcherOptions
	done        chan struct{}
	running     sync.WaitGroup
	mu          sync.Mutex
	middlewares []Middleware
}

// NewDispatcher creates a Dispatcher with the given options.
func NewDispatcher(opts ...DispatcherOption) *Dispatcher {
	o := dispatcherOptions{
		timeout:        5 * time.Second,
		maxConcurrency: 10,
		recoverPanics:  true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	var sem chan struct{}
	if o.maxConcurrency > 0 {
		sem = make(chan struct{}, o.maxConcurrency)
	}
	return &Dispatcher{
		handlers:    make(map[ToolName]Handler),
		rawHandlers: make(map[ToolName]Handler),
		aliases:     make(map[ToolName]ToolName),
		sem:         sem,
		opts:        o,
		done:        make(chan struct{}),
	}
}

// Register adds a handler. Stored middlewares (see Use) are applied to the
// handler before registration. If a handler with the same name already
// exists, it is replaced. Safe for concurrent use with Dispatch and other
// Register calls.
func (d *Dispatcher) Register(h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	name := h.Name()
	d.rawHandlers[name] = h
	for i := len(d.middlewares) - 1; i >= 0; i-- {
		h = d.middlewares[i](h)
	}
	d.handlers[name] = h
}

// RegisterAlias makes alias dispatch to the handler registered under
// target (e.g. GUIDANCE → SEARCH). The alias is a distinct ToolName for
// scanning and de-duplication. Returns an error if target has no handler.
func (d *Dispatcher) RegisterAlias(alias, target ToolName) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.handlers[target]; !ok {
		return fmt.Errorf("alias %s: target %s: %w", alias, target, ErrHandlerNotFound)
	}
	d.aliases[alias] = target
	return nil
}

// Names returns every dispatchable name (registered handlers plus
// aliases), sorted. This is the closed set a Session's Scanner recognizes.
func (d *Dispatcher) Names() []ToolName {
	d.mu.Lock()
	defer d.mu.Unlock()
	names := make([]ToolName, 0, len(d.handlers)+len(d.aliases))
	for name := range d.handlers {
		names = append(names, name)
	}
	for alias := range d.aliases {
		names = append(names, alias)
	}
	slices.Sort(names)
	return names
}

// Handlers returns all registered handlers (aliases excluded), sorted by
// name for deterministic order (e.g. for exporting to the catalog).
func (d *Dispatcher) Handlers() []Handler {
	d.mu.Lock()
	defer d.mu.Unlock()
	names := make([]ToolName, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}
	slices.Sort(names)
	out := make([]Handler, 0, len(names))
	for _, name := range names {
		out = append(out, d.handlers[name])
	}
	return out
}

// Handler returns the handler bound to name, resolving aliases, or
// (nil, false) if no handler is registered.
func (d *Dispatcher) Handler(name ToolName) (Handler, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.resolveLocked(name)
}

func (d *Dispatcher) resolveLocked(name ToolName) (Handler, bool) {
	if target, ok := d.aliases[name]; ok {
		name = target
	}
	h, ok := d.handlers[name]
	return h, ok
}

// Dispatch runs one directive's handler and returns its result. A failed
// call is returned as a DispatchError; the caller decides how to surface
// it (typically an inline notice) and must not expect a retry. The
// after-dispatch hook (WithOnAfterDispatch) is always invoked via defer
// with the final Outcome.
func (d *Dispatcher) Dispatch(ctx context.Context, dir Directive) (res DispatchResult, err error) {
	d.mu.Lock()
	select {
	case <-d.done:
		d.mu.Unlock()
		return nil, ErrShutdown
	default:
	}
	handler, ok := d.resolveLocked(dir.Tool)
	if !ok {
		d.mu.Unlock()
		return nil, fmt.Errorf("%s: %w", dir.Tool, ErrHandlerNotFound)
	}
	d.running.Add(1)
	d.mu.Unlock()

	if err = d.acquireSemaphore(ctx); err != nil {
		d.running.Done()
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, err
	}
	defer d.releaseSemaphore()
	defer d.running.Done()

	timeout := d.opts.timeout
	if hm, ok := handler.(HandlerMetadata); ok && hm.Timeout() > 0 {
		timeout = hm.Timeout()
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	outcome := Outcome{Directive: dir}
	start := time.Now()
	// Ensure the after-dispatch hook always sees the final outcome.
	// The recover defer is registered after it so it runs first on panic
	// and sets outcome.Err before the hook fires.
	defer func() {
		outcome.Duration = time.Since(start)
		if d.opts.onAfter != nil {
			d.opts.onAfter(ctx, outcome)
		}
	}()
	if d.opts.recoverPanics {
		defer func() {
			if p := recover(); p != nil {
				outcome.Err = &DispatchError{Tool: dir.Tool, Err: &SystemError{Err: &panicError{p: p}}}
				res, err = nil, outcome.Err
			}
		}()
	}

	if d.opts.onBefore != nil {
		d.opts.onBefore(ctx, dir)
	}

	res, err = handler.Invoke(ctx, dir.Argument)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = ErrTimeout
		}
		err = &DispatchError{Tool: dir.Tool, Err: err}
		outcome.Err = err
		return nil, err
	}
	outcome.Result = res
	return res, nil
}

func (d *Dispatcher) acquireSemaphore(ctx context.Context) error {
	if d.sem == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	select {
	case d.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) releaseSemaphore() {
	if d.sem != nil {
		<-d.sem
	}
}

// Shutdown closes the dispatcher for new calls and waits for in-flight
// dispatches or ctx to cancel. Irreversible side effects already initiated
// by in-flight handlers are not rolled back.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	select {
	case <-d.done:
		d.mu.Unlock()
		return nil
	default:
		close(d.done)
	}
	d.mu.Unlock()
	done := make(chan struct{})
	go func() {
		d.running.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// panicError wraps a recovered panic value for SystemError; used by
// Dispatch and the WithRecovery middleware.
type panicError struct{ p any }

func (e *panicError) Error() string {
	return "panic: " + fmt.Sprint(e.p)
}
