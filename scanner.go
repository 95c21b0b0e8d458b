package toolstream

import (
	"regexp"
	"strings"
)

// tagPattern captures the name and argument of a complete bracket tag.
// A directive is complete only once its closing ']' is in the buffer;
// an open '[NAME:' with no ']' yet matches nothing and is reconsidered
// on the next Feed.
var tagPattern = regexp.MustCompile(`\[([A-Z][A-Z0-9_]*):([^\]]*)\]`)

// fencePattern is the fallback syntax some models substitute for the
// bracket form: a fenced block containing "NAME: args". Recognized only
// with WithFencedFallback and only while no bracket directive has been
// found.
var fencePattern = regexp.MustCompile("(?s)```(?:tool_code)?\\s*([A-Z][A-Z0-9_]*):\\s*(.+?)\\s*```")

// Scanner incrementally detects completed directives in a growing token
// buffer. One Scanner owns the parse state of exactly one response: the
// append-only buffer and the first-occurrence-wins set. It is not safe
// for concurrent use; Feed calls for a session must be serialized.
type Scanner struct {
	registered map[ToolName]struct{}
	buf        strings.Builder
	seen       map[ToolName]struct{}
	directives []Directive
	opts       scannerOptions
}

// NewScanner creates a Scanner that recognizes exactly the given tool
// names. The set is configured, never inferred: an unregistered name is
// invisible to the scanner even though Clean still strips its tag.
func NewScanner(names []ToolName, opts ...ScannerOption) *Scanner {
	var o scannerOptions
	for _, opt := range opts {
		opt(&o)
	}
	registered := make(map[ToolName]struct{}, len(names))
	for _, n := range names {
		registered[n] = struct{}{}
	}
	return &Scanner{
		registered: registered,
		seen:       make(map[ToolName]struct{}),
		opts:       o,
	}
}

// Feed appends fragment to the buffer and returns the directives newly
// completed by it, in left-to-right order of their closing bracket.
// A tool name already recognized in this session is suppressed: the
// dispatcher is never handed the same ToolName twice for one response.
// Fragments may be empty and may split a tag at any byte; scanning is
// synchronous and never blocks.
func (s *Scanner) Feed(fragment string) []Directive {
	s.buf.WriteString(fragment)
	buffer := s.buf.String()

	var completed []Directive
	for _, m := range tagPattern.FindAllStringSubmatchIndex(buffer, -1) {
		name := ToolName(buffer[m[2]:m[3]])
		if _, ok := s.registered[name]; !ok {
			continue
		}
		if _, dup := s.seen[name]; dup {
			continue
		}
		s.seen[name] = struct{}{}
		d := Directive{
			Tool:        name,
			Argument:    strings.TrimSpace(buffer[m[4]:m[5]]),
			SourceStart: m[0],
			SourceEnd:   m[1],
		}
		s.directives = append(s.directives, d)
		completed = append(completed, d)
	}

	if s.opts.fenced && len(s.directives) == 0 {
		if d, ok := s.scanFence(buffer); ok {
			s.seen[d.Tool] = struct{}{}
			s.directives = append(s.directives, d)
			completed = append(completed, d)
		}
	}
	return completed
}

// scanFence recognizes the first complete fenced tool block with a
// registered name. Later fences are ignored: the fallback exists for
// models that emit a single tool call per turn in the wrong syntax.
func (s *Scanner) scanFence(buffer string) (Directive, bool) {
	for _, m := range fencePattern.FindAllStringSubmatchIndex(buffer, -1) {
		name := ToolName(buffer[m[2]:m[3]])
		if _, ok := s.registered[name]; !ok {
			continue
		}
		return Directive{
			Tool:        name,
			Argument:    strings.TrimSpace(buffer[m[4]:m[5]]),
			SourceStart: m[0],
			SourceEnd:   m[1],
		}, true
	}
	return Directive{}, false
}

// Buffer returns the full concatenated text fed so far.
func (s *Scanner) Buffer() string { return s.buf.String() }

// Directives returns a copy of every directive recognized so far, in
// first-detected order.
func (s *Scanner) Directives() []Directive {
	out := make([]Directive, len(s.directives))
	copy(out, s.directives)
	return out
}

// Text returns the user-visible projection of the buffer (see Clean).
func (s *Scanner) Text() string { return Clean(s.buf.String()) }
