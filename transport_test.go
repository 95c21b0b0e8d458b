package toolstream

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameReader_Next(t *testing.T) {
	input := strings.Join([]string{
		`{"token": "Hello "}`,
		``,
		`{"event": "audio_ready"}`,
		`{"token": ""}`,
		`{"token": "world"}`,
	}, "\n")
	fr := NewFrameReader(strings.NewReader(input))

	f, err := fr.Next()
	require.NoError(t, err)
	require.True(t, f.HasToken())
	assert.Equal(t, "Hello ", *f.Token)

	f, err = fr.Next()
	require.NoError(t, err)
	assert.False(t, f.HasToken())
	assert.Equal(t, "audio_ready", f.Event)

	// Present-but-empty token is still a token.
	f, err = fr.Next()
	require.NoError(t, err)
	require.True(t, f.HasToken())
	assert.Equal(t, "", *f.Token)

	f, err = fr.Next()
	require.NoError(t, err)
	require.True(t, f.HasToken())
	assert.Equal(t, "world", *f.Token)

	_, err = fr.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestFrameReader_MalformedLine(t *testing.T) {
	input := "{\"token\": \"ok\"}\nnot json\n{\"token\": \"after\"}\n"
	fr := NewFrameReader(strings.NewReader(input))

	_, err := fr.Next()
	require.NoError(t, err)

	_, err = fr.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")

	// The reader is still usable after a garbage line.
	f, err := fr.Next()
	require.NoError(t, err)
	require.True(t, f.HasToken())
	assert.Equal(t, "after", *f.Token)
}

func TestPump_EndToEnd(t *testing.T) {
	var gotArg string
	disp := NewDispatcher()
	disp.Register(&minHandler{name: ToolCheckSafety, invoke: func(_ context.Context, arg string) (DispatchResult, error) {
		gotArg = arg
		return []byte(`{"listed": true}`), nil
	}})
	sess := NewSession(context.Background(), disp)

	transcript := strings.Join([]string{
		`{"token": "Checking "}`,
		`{"token": "[CHECK_SAFETY: Lisin"}`,
		`{"event": "audio_ready"}`,
		`{"token": "opril, dizziness]"}`,
		`{"token": " done."}`,
	}, "\n")
	require.NoError(t, Pump(context.Background(), strings.NewReader(transcript), sess))

	assert.Equal(t, "Checking  done.", sess.Text())
	outcomes, err := sess.Wait(context.Background())
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.Equal(t, "Lisinopril, dizziness", gotArg)
}

func TestPump_ContextCancelled(t *testing.T) {
	disp := NewDispatcher()
	sess := NewSession(context.Background(), disp)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Pump(ctx, strings.NewReader(`{"token": "x"}`), sess)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPump_TransportErrorSurfaces(t *testing.T) {
	disp := NewDispatcher()
	sess := NewSession(context.Background(), disp)
	err := Pump(context.Background(), strings.NewReader("garbage\n"), sess)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}
