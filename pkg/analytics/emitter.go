package analytics

import "context"

// Emitter delivers analytics events to a telemetry backend.
type Emitter interface {
	Emit(ctx context.Context, event *Event) error
	Close() error
}
