// Package nop provides a no-op analytics emitter for disabled mode and
// tests.
package nop

import (
	"context"

	"github.com/contextware/better-agents/pkg/analytics"
)

// Emitter is a no-op analytics emitter.
type Emitter struct{}

// NewEmitter creates a new no-op emitter.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// Emit validates input and otherwise does nothing.
func (e *Emitter) Emit(_ context.Context, event *analytics.Event) error {
	if event == nil {
		return analytics.ErrNilEvent
	}

	return nil
}

// Close is a no-op.
func (e *Emitter) Close() error {
	return nil
}
