package toolstream

import (
	"context"
	"time"
)

// scannerOptions hold optional Scanner settings.
type scannerOptions struct {
	fenced bool
}

// ScannerOption configures a Scanner.
type ScannerOption func(*scannerOptions)

// WithFencedFallback enables recognition of the fenced "```tool_code"
// block form some models substitute for the bracket syntax. The fallback
// fires only while no bracket directive has been recognized, and it does
// not change the display filter: fenced text is not stripped by Clean.
func WithFencedFallback() ScannerOption {
	return func(o *scannerOptions) {
		o.fenced = true
	}
}

// handlerOptions hold optional handler settings (timeout, tags, etc.).
type handlerOptions struct {
	timeout   time.Duration
	tags      []string
	version   string
	dangerous bool
	argHint   string
}

// HandlerOption configures a handler built with NewHandler or NewRawHandler.
type HandlerOption func(*handlerOptions)

// WithTimeout sets a per-handler timeout, overriding the dispatcher
// default for this tool.
func WithTimeout(d time.Duration) HandlerOption {
	return func(o *handlerOptions) {
		o.timeout = d
	}
}

// WithTags sets handler tags (metadata for discovery/orchestration).
func WithTags(tags ...string) HandlerOption {
	return func(o *handlerOptions) {
		o.tags = tags
	}
}

// WithVersion sets the handler version.
func WithVersion(version string) HandlerOption {
	return func(o *handlerOptions) {
		o.version = version
	}
}

// WithDangerous marks the handler's side effect as irreversible (e.g. an
// outbound emergency call). Orchestrators may require confirmation before
// dispatching, and the prompt catalog flags the tool.
func WithDangerous() HandlerOption {
	return func(o *handlerOptions) {
		o.dangerous = true
	}
}

// WithArgHint overrides the argument shape shown in the prompt catalog
// (defaults to the bound field names, comma-separated).
func WithArgHint(hint string) HandlerOption {
	return func(o *handlerOptions) {
		o.argHint = hint
	}
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*dispatcherOptions)

type dispatcherOptions struct {
	timeout        time.Duration
	maxConcurrency int
	recoverPanics  bool
	onBefore       func(context.Context, Directive)
	onAfter        func(context.Context, Outcome)
}

// WithDefaultTimeout sets the default execution timeout for dispatches.
func WithDefaultTimeout(d time.Duration) DispatcherOption {
	return func(o *dispatcherOptions) {
		o.timeout = d
	}
}

// WithMaxConcurrency limits concurrent dispatches (semaphore).
// Pass 0 or negative to disable the semaphore (unlimited concurrency).
func WithMaxConcurrency(n int) DispatcherOption {
	return func(o *dispatcherOptions) {
		o.maxConcurrency = n
	}
}

// WithRecoverPanics enables panic recovery in Dispatch (returns a
// DispatchError wrapping a SystemError).
func WithRecoverPanics(enable bool) DispatcherOption {
	return func(o *dispatcherOptions) {
		o.recoverPanics = enable
	}
}

// WithOnBeforeDispatch sets a hook called before each dispatch.
func WithOnBeforeDispatch(fn func(context.Context, Directive)) DispatcherOption {
	return func(o *dispatcherOptions) {
		o.onBefore = fn
	}
}

// WithOnAfterDispatch sets a hook called after each dispatch finishes
// (success or error) with the final Outcome.
func WithOnAfterDispatch(fn func(context.Context, Outcome)) DispatcherOption {
	return func(o *dispatcherOptions) {
		o.onAfter = fn
	}
}

// sessionOptions hold optional Session settings.
type sessionOptions struct {
	onError     func(Directive, error)
	scannerOpts []ScannerOption
}

// SessionOption configures a Session.
type SessionOption func(*sessionOptions)

// WithOnDispatchError sets a hook invoked when a dispatch launched by the
// session fails. The hook runs on the dispatching goroutine; keep it
// cheap (typically: enqueue an inline error notice for that one action).
func WithOnDispatchError(fn func(Directive, error)) SessionOption {
	return func(o *sessionOptions) {
		o.onError = fn
	}
}

// WithScannerOptions forwards options to the session's Scanner
// (e.g. WithFencedFallback).
func WithScannerOptions(opts ...ScannerOption) SessionOption {
	return func(o *sessionOptions) {
		o.scannerOpts = append(o.scannerOpts, opts...)
	}
}
