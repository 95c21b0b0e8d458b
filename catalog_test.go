package toolstream

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_Definitions(t *testing.T) {
	type SafetyArgs struct {
		Medication string `json:"medication" arg:"med_name"`
		Symptom    string `json:"symptom" arg:"symptom"`
	}
	safety, err := NewHandler(ToolCheckSafety, "Check if a symptom is a side effect of a med.",
		func(_ context.Context, _ SafetyArgs) (string, error) { return "", nil })
	require.NoError(t, err)
	emergency, err := NewRawHandler(ToolEmergencyCall, "Call the patient's emergency contacts.",
		func(_ context.Context, _ string) (DispatchResult, error) { return nil, nil },
		WithDangerous(), WithArgHint("user_id, reason"))
	require.NoError(t, err)

	disp := NewDispatcher()
	disp.Register(emergency)
	disp.Register(safety)
	require.NoError(t, disp.RegisterAlias(ToolCallEmergency, ToolEmergencyCall))

	defs := disp.Definitions()
	require.Len(t, defs, 2) // aliases excluded
	// Sorted by name: CHECK_SAFETY < EMERGENCY_CALL.
	assert.Equal(t, ToolCheckSafety, defs[0].Name)
	assert.Equal(t, "med_name, symptom", defs[0].ArgHint)
	require.NotNil(t, defs[0].Parameters)
	assert.Equal(t, "object", defs[0].Parameters["type"])
	assert.False(t, defs[0].Dangerous)

	assert.Equal(t, ToolEmergencyCall, defs[1].Name)
	assert.Nil(t, defs[1].Parameters)
	assert.True(t, defs[1].Dangerous)
}

func TestPromptBlock(t *testing.T) {
	defs := []Definition{
		{Name: ToolCheckSafety, Description: "Check if a symptom is a side effect of a med.", ArgHint: "med_name, symptom"},
		{Name: ToolEmergencyCall, Description: "Call the patient's emergency contacts.", ArgHint: "user_id, reason", Dangerous: true},
		{Name: ToolGetBriefing, Description: "Weekly summary."},
	}
	want := "- [CHECK_SAFETY: med_name, symptom] -> Check if a symptom is a side effect of a med.\n" +
		"- [EMERGENCY_CALL: user_id, reason] -> Call the patient's emergency contacts. (irreversible)\n" +
		"- [GET_BRIEFING:] -> Weekly summary.\n"
	assert.Equal(t, want, PromptBlock(defs))
}

func TestPromptBlock_Empty(t *testing.T) {
	assert.Equal(t, "", PromptBlock(nil))
}
