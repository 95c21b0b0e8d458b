package testutil

import (
	"time"

	"github.com/Hafez-Al-Khatib/toolstream"
)

// NewTestDispatcher returns a Dispatcher with long timeout and panic
// recovery enabled, suitable for tests.
func NewTestDispatcher(handlers ...toolstream.Handler) *toolstream.Dispatcher {
	disp := toolstream.NewDispatcher(
		toolstream.WithDefaultTimeout(30*time.Second),
		toolstream.WithRecoverPanics(true),
	)
	for _, h := range handlers {
		disp.Register(h)
	}
	return disp
}
