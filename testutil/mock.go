// Package testutil provides test helpers for toolstream (e.g. MockHandler).
package testutil

import (
	"context"

	"github.com/Hafez-Al-Khatib/toolstream"
)

// MockHandler is a configurable Handler implementation for tests.
type MockHandler struct {
	NameVal  toolstream.ToolName
	DescVal  string
	InvokeFn func(ctx context.Context, argument string) (toolstream.DispatchResult, error)
}

// Name returns the tool name.
func (m *MockHandler) Name() toolstream.ToolName {
	if m.NameVal != "" {
		return m.NameVal
	}
	return "MOCK"
}

// Description returns the handler description.
func (m *MockHandler) Description() string {
	return m.DescVal
}

// Invoke runs InvokeFn if set, otherwise returns (nil, nil).
func (m *MockHandler) Invoke(ctx context.Context, argument string) (toolstream.DispatchResult, error) {
	if m.InvokeFn != nil {
		return m.InvokeFn(ctx, argument)
	}
	return nil, nil
}

// Ensure MockHandler implements Handler.
var _ toolstream.Handler = (*MockHandler)(nil)
