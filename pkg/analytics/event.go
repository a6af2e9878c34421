// Package analytics emits anonymous usage events for the CLI. Emission is
// best effort: delivery failures are logged and never interrupt a run.
package analytics

import (
	"os"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/contextware/better-agents/pkg/utils"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeRunCompleted is emitted after a scaffolding run finishes.
	EventTypeRunCompleted = "better_agents.run.completed"

	// EventTypeRunCancelled is emitted when the user aborts the
	// interactive prompts. A cancel is a deliberate choice, not a fault.
	EventTypeRunCancelled = "better_agents.run.cancelled"

	// EventTypeSkillAdded is emitted after a skill is added to an
	// existing project.
	EventTypeSkillAdded = "better_agents.skill.added"

	// EventTypeLaunched is emitted right before control is handed to a
	// coding assistant.
	EventTypeLaunched = "better_agents.assistant.launched"
)

// Event is one transport-neutral analytics payload.
type Event struct {
	SchemaVersion int            `json:"schema_version"`
	EventType     string         `json:"event_type"`
	EventID       string         `json:"event_id"`
	AnonymousID   string         `json:"anonymous_id"`
	EmittedAt     time.Time      `json:"emitted_at"`
	AppVersion    string         `json:"app_version"`
	OS            string         `json:"os"`
	Properties    map[string]any `json:"properties,omitempty"`
}

// NewEvent builds an event of the given type carrying props.
func NewEvent(eventType, anonymousID string, props map[string]any) *Event {
	return &Event{
		SchemaVersion: SchemaVersionV1,
		EventType:     eventType,
		EventID:       uuid.NewString(),
		AnonymousID:   anonymousID,
		EmittedAt:     time.Now().UTC(),
		AppVersion:    utils.Version,
		OS:            runtime.GOOS,
		Properties:    props,
	}
}

// NewAnonymousID generates a fresh anonymous installation id.
func NewAnonymousID() string {
	return uuid.NewString()
}

// Disabled reports whether analytics are off for this run, honoring both
// the config switch and the DO_NOT_TRACK convention.
func Disabled(configDisabled bool) bool {
	if configDisabled {
		return true
	}

	if v := os.Getenv("DO_NOT_TRACK"); v != "" && v != "0" {
		return true
	}

	return false
}
