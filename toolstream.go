package toolstream

import (
	"context"
	"regexp"
	"time"
)

// ToolName identifies which external capability a directive requests.
// The set is closed: scanners only recognize names registered on the
// Dispatcher, and the Display Filter strips any directive-shaped tag
// regardless of registration.
type ToolName string

// wireNamePattern is the on-the-wire shape of a tool name: uppercase,
// underscore-separated. Must match the name group of tagPattern.
var wireNamePattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)

// Valid reports whether the name can appear in a directive tag.
func (n ToolName) Valid() bool {
	return wireNamePattern.MatchString(string(n))
}

// Directive is a structured action request recognized in the stream:
// one balanced [NAME: argument] span whose NAME matched a registered tool.
// Immutable once recognized.
type Directive struct {
	Tool     ToolName
	Argument string // argument text with surrounding whitespace trimmed

	// SourceStart and SourceEnd delimit the raw tag in the session buffer
	// (byte offsets; SourceStart points at '[', SourceEnd just past ']').
	SourceStart int
	SourceEnd   int
}

// DispatchResult is the opaque payload returned by a handler, typically
// JSON. It is attached to the session history; display correctness never
// depends on it.
type DispatchResult []byte

// Handler is the contract for a capability bound to one ToolName.
// It is provider-agnostic: the argument is the raw directive text
// (comma-separated positional values by convention), not JSON.
type Handler interface {
	Name() ToolName
	Description() string
	// Invoke performs the external call exactly once. It must honor ctx
	// cancellation; already-initiated irreversible side effects (an
	// outbound phone call, a sent message) are not rolled back.
	Invoke(ctx context.Context, argument string) (DispatchResult, error)
}

// HandlerMetadata is implemented by handlers created with NewHandler and
// NewRawHandler and provides optional per-handler settings. Dispatcher
// uses Timeout() to override its default execution timeout when set.
// ArgHint() is the human-readable argument shape shown in the prompt
// catalog (e.g. "med_name, symptom").
type HandlerMetadata interface {
	Timeout() time.Duration
	Tags() []string
	Version() string
	IsDangerous() bool
	ArgHint() string
}

// HandlerSchema is implemented by handlers that can describe their
// argument structure as a JSON Schema (NewHandler-built handlers do).
// Used by the catalog to export native tool definitions for providers
// that support structured tool calling.
type HandlerSchema interface {
	Parameters() map[string]any
}

// Outcome records one dispatch for the session history: the directive,
// the handler's result or error, and how long the call took.
type Outcome struct {
	Directive Directive
	Result    DispatchResult
	Err       error
	Duration  time.Duration
}
