package toolstream

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Frame is one transport unit of the token stream: a line of JSON with
// either a token field (a text fragment for the scanner) or out-of-band
// fields the scanner ignores (e.g. an audio-ready event).
type Frame struct {
	// Token is the text fragment to feed. A pointer distinguishes an
	// absent token from a present-but-empty one; empty fragments are
	// legal and fed as-is.
	Token *string         `json:"token,omitempty"`
	Event string          `json:"event,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// HasToken reports whether the frame carries a text fragment.
func (f Frame) HasToken() bool { return f.Token != nil }

// FrameReader decodes line-delimited JSON frames from a stream transport
// (SSE data lines, websocket text messages piped through an io.Reader,
// a recorded transcript).
type FrameReader struct {
	scanner *bufio.Scanner
	line    int
}

// NewFrameReader wraps r. Lines are expected to be complete JSON objects;
// blank lines are skipped.
func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{scanner: bufio.NewScanner(r)}
}

// Next returns the next frame, io.EOF when the stream ends, or a decode
// error tagged with the offending line number. A decode error does not
// consume the reader; callers that want to tolerate garbage lines may
// call Next again.
func (r *FrameReader) Next() (Frame, error) {
	for r.scanner.Scan() {
		r.line++
		line := strings.TrimSpace(r.scanner.Text())
		if line == "" {
			continue
		}
		var f Frame
		if err := json.Unmarshal([]byte(line), &f); err != nil {
			return Frame{}, fmt.Errorf("frame line %d: %w", r.line, err)
		}
		return f, nil
	}
	if err := r.scanner.Err(); err != nil {
		return Frame{}, err
	}
	return Frame{}, io.EOF
}

// Pump reads frames from r until the stream ends, feeding every token
// fragment to the session. Out-of-band frames are skipped. Returns nil on
// end of stream, ctx.Err() if ctx cancels first, or the first transport
// error. Dispatches launched by the session keep running; join them with
// Session.Wait.
func Pump(ctx context.Context, r io.Reader, sess *Session) error {
	fr := NewFrameReader(r)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		f, err := fr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if f.HasToken() {
			sess.Feed(*f.Token)
		}
	}
}
