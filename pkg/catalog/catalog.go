// Package catalog serves the remote skills catalog: a listing of named
// guidance bundles hosted in a GitHub repository, cached on disk so that
// repeated runs stay off the network.
package catalog

import (
	"time"

	"github.com/contextware/better-agents/pkg/mcpconfig"
)

// Skill describes one entry of the skills catalog.
type Skill struct {
	Name              string                      `json:"name"`
	Description       string                      `json:"description"`
	Created           string                      `json:"created,omitempty"`
	RequiredMCPServer string                      `json:"requiredMCPServer,omitempty"`
	Authentication    string                      `json:"authentication,omitempty"`
	MCPServers        map[string]mcpconfig.Server `json:"mcpServers,omitempty"`
	DependsOn         []string                    `json:"dependsOn,omitempty"`
	Tags              []string                    `json:"tags,omitempty"`
}

// Snapshot is one persisted catalog capture. A snapshot with zero skills is
// a valid result of a fetch, not a missing-cache sentinel.
type Snapshot struct {
	Timestamp int64   `json:"timestamp"` // epoch milliseconds
	Skills    []Skill `json:"skills"`
}

// Age returns how old the snapshot is relative to now.
func (s *Snapshot) Age(now time.Time) time.Duration {
	return now.Sub(time.UnixMilli(s.Timestamp))
}
