package toolstream

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"
)

// Session owns the parse state of one response generation: the scan
// buffer, the de-duplication set, and the in-flight dispatches it has
// launched. Create one per response; never share across concurrent
// responses. Concurrent chats each get their own Session.
//
// Feed, Text, Buffer, and Directives must be called from the consuming
// goroutine (Feed is not re-entrant). Dispatches run on their own
// goroutines and never block display: Text reflects only the buffer,
// regardless of dispatch progress or failure.
type Session struct {
	scanner    *Scanner
	dispatcher *Dispatcher
	ctx        context.Context
	cancel     context.CancelFunc
	onError    func(Directive, error)

	mu       sync.Mutex
	inflight sync.WaitGroup
	outcomes []Outcome
}

// NewSession creates a Session bound to ctx. The scanner's recognized
// set is the dispatcher's Names() at creation time; handlers registered
// afterwards are not picked up by this session.
func NewSession(ctx context.Context, d *Dispatcher, opts ...SessionOption) *Session {
	var o sessionOptions
	for _, opt := range opts {
		opt(&o)
	}
	ctx, cancel := context.WithCancel(ctx)
	return &Session{
		scanner:    NewScanner(d.Names(), o.scannerOpts...),
		dispatcher: d,
		ctx:        ctx,
		cancel:     cancel,
		onError:    o.onError,
	}
}

// Feed appends one token fragment, launches an asynchronous dispatch for
// each newly completed directive, and returns those directives. Distinct
// tools dispatch concurrently with each other and with continued token
// consumption; there is no ordering guarantee between them.
func (s *Session) Feed(fragment string) []Directive {
	completed := s.scanner.Feed(fragment)
	for _, dir := range completed {
		s.inflight.Add(1)
		go s.dispatchOne(dir)
	}
	return completed
}

func (s *Session) dispatchOne(dir Directive) {
	defer s.inflight.Done()
	start := time.Now()
	res, err := s.dispatcher.Dispatch(s.ctx, dir)
	outcome := Outcome{
		Directive: dir,
		Result:    res,
		Err:       err,
		Duration:  time.Since(start),
	}
	s.mu.Lock()
	s.outcomes = append(s.outcomes, outcome)
	s.mu.Unlock()
	if err != nil && s.onError != nil {
		s.onError(dir, err)
	}
}

// Text returns the user-visible projection of everything fed so far.
// Never blocks on dispatch.
func (s *Session) Text() string { return s.scanner.Text() }

// Buffer returns the raw concatenated stream text.
func (s *Session) Buffer() string { return s.scanner.Buffer() }

// Directives returns the directives recognized so far, in first-detected
// order.
func (s *Session) Directives() []Directive { return s.scanner.Directives() }

// Wait joins the dispatches launched by this session and returns their
// outcomes ordered by the directive's position in the buffer, so history
// reads in narrative order. Call once, at end-of-response, for logging or
// persisted history, never to gate display. If ctx cancels first, the
// outcomes are abandoned and ctx.Err() is returned.
func (s *Session) Wait(ctx context.Context) ([]Outcome, error) {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	s.mu.Lock()
	out := slices.Clone(s.outcomes)
	s.mu.Unlock()
	slices.SortFunc(out, func(a, b Outcome) int {
		return cmp.Compare(a.Directive.SourceStart, b.Directive.SourceStart)
	})
	return out, nil
}

// Cancel abandons the session: in-flight dispatches see their context
// cancelled, but external side effects already initiated (e.g. a phone
// call) are not rolled back. Safe to call more than once.
func (s *Session) Cancel() { s.cancel() }
