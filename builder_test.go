package toolstream

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHandler_PositionalBinding(t *testing.T) {
	type Args struct {
		Medication string `json:"medication" arg:"med_name"`
		Symptom    string `json:"symptom" arg:"symptom"`
	}
	type Out struct {
		Med string `json:"med"`
		Sym string `json:"sym"`
	}
	h, err := NewHandler("CHECK_SAFETY", "Check med safety", func(_ context.Context, a Args) (Out, error) {
		return Out{Med: a.Medication, Sym: a.Symptom}, nil
	})
	require.NoError(t, err)

	res, err := h.Invoke(context.Background(), "Lisinopril, dizziness")
	require.NoError(t, err)
	var out Out
	require.NoError(t, json.Unmarshal(res, &out))
	assert.Equal(t, "Lisinopril", out.Med)
	assert.Equal(t, "dizziness", out.Sym)
}

func TestNewHandler_LastFieldAbsorbsRemainder(t *testing.T) {
	type Args struct {
		Query string `json:"query"`
	}
	var got string
	h, err := NewHandler("SEARCH", "Free text search", func(_ context.Context, a Args) (string, error) {
		got = a.Query
		return "ok", nil
	})
	require.NoError(t, err)
	_, err = h.Invoke(context.Background(), "diabetes, diet, and exercise")
	require.NoError(t, err)
	assert.Equal(t, "diabetes, diet, and exercise", got)
}

func TestNewHandler_NumericAndBoolFields(t *testing.T) {
	type Args struct {
		Hours  int     `json:"hours"`
		Rate   float64 `json:"rate"`
		Urgent bool    `json:"urgent"`
	}
	var got Args
	h, err := NewHandler("SIMULATE_ECG", "Simulate", func(_ context.Context, a Args) (string, error) {
		got = a
		return "ok", nil
	})
	require.NoError(t, err)
	_, err = h.Invoke(context.Background(), "10, 80.5, true")
	require.NoError(t, err)
	assert.Equal(t, Args{Hours: 10, Rate: 80.5, Urgent: true}, got)
}

func TestNewHandler_BindErrors(t *testing.T) {
	type Args struct {
		Days int `json:"days" arg:"days"`
	}
	h, err := NewHandler("GET_SUMMARIES", "Summaries", func(_ context.Context, a Args) (int, error) {
		return a.Days, nil
	})
	require.NoError(t, err)

	tests := []struct {
		name     string
		argument string
	}{
		{"missing required", ""},
		{"not an integer", "seven"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Invoke(context.Background(), tt.argument)
			require.Error(t, err)
			assert.True(t, IsBindError(err))
			assert.ErrorIs(t, err, ErrBind)
		})
	}
}

func TestNewHandler_OptionalField(t *testing.T) {
	type Args struct {
		Facility string `json:"facility" arg:"facility_type"`
		City     string `json:"city,omitempty" arg:"city,optional"`
	}
	var got Args
	h, err := NewHandler("LOCATE", "Locate", func(_ context.Context, a Args) (string, error) {
		got = a
		return "ok", nil
	})
	require.NoError(t, err)

	_, err = h.Invoke(context.Background(), "pharmacy")
	require.NoError(t, err)
	assert.Equal(t, Args{Facility: "pharmacy"}, got)

	_, err = h.Invoke(context.Background(), "pharmacy, Hamra")
	require.NoError(t, err)
	assert.Equal(t, Args{Facility: "pharmacy", City: "Hamra"}, got)
}

func TestNewHandler_SkippedField(t *testing.T) {
	type Args struct {
		Query   string `json:"query"`
		Derived string `json:"-" arg:"-"`
	}
	var got Args
	h, err := NewHandler("SEARCH", "Search", func(_ context.Context, a Args) (string, error) {
		got = a
		return "ok", nil
	})
	require.NoError(t, err)
	_, err = h.Invoke(context.Background(), "asthma, children")
	require.NoError(t, err)
	assert.Equal(t, "asthma, children", got.Query)
	assert.Empty(t, got.Derived)
}

func TestNewHandler_InvalidConstruction(t *testing.T) {
	type Args struct {
		X string `json:"x"`
	}
	_, err := NewHandler("lowercase", "Bad name", func(_ context.Context, _ Args) (string, error) {
		return "", nil
	})
	require.Error(t, err)

	_, err = NewHandler[Args, string]("SEARCH", "Nil fn", nil)
	require.Error(t, err)

	type BadArgs struct {
		Items []string `json:"items"`
	}
	_, err = NewHandler("SEARCH", "Unsupported field", func(_ context.Context, _ BadArgs) (string, error) {
		return "", nil
	})
	require.Error(t, err)

	_, err = NewHandler("SEARCH", "Non-struct args", func(_ context.Context, _ string) (string, error) {
		return "", nil
	})
	require.Error(t, err)
}

func TestNewHandler_SchemaAndHint(t *testing.T) {
	type Args struct {
		Medication string `json:"medication" arg:"med_name"`
		Symptom    string `json:"symptom" arg:"symptom"`
	}
	h, err := NewHandler("CHECK_SAFETY", "Check med safety", func(_ context.Context, _ Args) (string, error) {
		return "", nil
	})
	require.NoError(t, err)

	hm, ok := h.(HandlerMetadata)
	require.True(t, ok)
	assert.Equal(t, "med_name, symptom", hm.ArgHint())

	hs, ok := h.(HandlerSchema)
	require.True(t, ok)
	params := hs.Parameters()
	require.NotNil(t, params)
	assert.Equal(t, "object", params["type"])
	assert.Contains(t, params, "properties")
	assert.NotContains(t, params, "$schema")
}

func TestNewHandler_Options(t *testing.T) {
	type Args struct{}
	h, err := NewHandler("EMERGENCY_CALL", "Call emergency contacts",
		func(_ context.Context, _ Args) (string, error) { return "", nil },
		WithDangerous(), WithTags("emergency", "twilio"), WithVersion("2"), WithArgHint("user_id, reason"))
	require.NoError(t, err)
	hm, ok := h.(HandlerMetadata)
	require.True(t, ok)
	assert.True(t, hm.IsDangerous())
	assert.Equal(t, []string{"emergency", "twilio"}, hm.Tags())
	assert.Equal(t, "2", hm.Version())
	assert.Equal(t, "user_id, reason", hm.ArgHint())
}

func TestNewRawHandler(t *testing.T) {
	h, err := NewRawHandler("SET_GOAL", "Set a health goal", func(_ context.Context, argument string) (DispatchResult, error) {
		return json.Marshal(map[string]string{"goal": argument})
	})
	require.NoError(t, err)
	res, err := h.Invoke(context.Background(), "walk 8000 steps, daily")
	require.NoError(t, err)
	assert.JSONEq(t, `{"goal": "walk 8000 steps, daily"}`, string(res))

	// Raw handlers have no schema.
	hs, ok := h.(HandlerSchema)
	require.True(t, ok)
	assert.Nil(t, hs.Parameters())

	_, err = NewRawHandler("SET_GOAL", "Nil fn", nil)
	require.Error(t, err)
}

func TestNewHandler_HandlerErrorPassesThrough(t *testing.T) {
	type Args struct {
		Q string `json:"q"`
	}
	h, err := NewHandler("SEARCH", "Search", func(_ context.Context, _ Args) (string, error) {
		return "", assert.AnError
	})
	require.NoError(t, err)
	_, err = h.Invoke(context.Background(), "x")
	assert.ErrorIs(t, err, assert.AnError)
}
