// Package toolstream parses and dispatches inline tool-call directives
// embedded in a streaming LLM response.
//
// # Overview
//
// Completion-style models request actions by emitting bracketed directives
// inside their natural-language output, e.g. [CHECK_SAFETY: Lisinopril,
// dizziness]. This package detects those directives incrementally as tokens
// arrive, invokes the matching handler at most once per tool per response,
// and strips directive syntax from the user-visible text, without ever
// blocking display on a dispatch.
//
// Pipeline: token stream → Session.Feed → Scanner (detects completed
// directives) → Dispatcher (invokes the registered Handler, concurrently) →
// Outcome history; in parallel, Session.Text projects the clean
// user-visible text via the display filter.
//
// # Key concepts
//
//   - One Session per response: the scan buffer and the per-tool
//     de-duplication set live and die with a single response generation.
//   - First occurrence wins: a tool name recognized twice in one response
//     is dispatched only once; the duplicate is silently suppressed.
//   - Display never waits: Clean strips every well-formed bracket tag,
//     known or unknown, regardless of dispatch outcome.
//   - No retries: a failed dispatch surfaces a DispatchError and the rest
//     of the response keeps streaming.
//
// See Scanner, Dispatcher, and Session for the core types, and NewHandler /
// NewRawHandler for registering capabilities.
//
// # Example
//
//	safety, err := toolstream.NewHandler(toolstream.ToolCheckSafety,
//	    "Check if a symptom is a known side effect of a medication.",
//	    func(ctx context.Context, a SafetyArgs) (SafetyReport, error) {
//	        return lookupOpenFDA(ctx, a.Medication, a.Symptom)
//	    })
//	if err != nil { ... }
//	disp := toolstream.NewDispatcher()
//	disp.Register(safety)
//	sess := toolstream.NewSession(ctx, disp)
//	for fragment := range tokens {
//	    sess.Feed(fragment)
//	    render(sess.Text())
//	}
//	outcomes, err := sess.Wait(ctx) // join dispatches for history only
package toolstream
