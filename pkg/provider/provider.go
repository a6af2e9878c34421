// Package provider defines the capability registry that drives project
// scaffolding. Every user-selectable choice (language, framework, coding
// assistant, LLM provider) is a registered Descriptor; commands resolve
// identifiers through Lookup and never switch on provider names directly.
package provider

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/contextware/better-agents/pkg/mcpconfig"
)

// Category groups descriptors by the choice they answer.
type Category string

const (
	CategoryLanguage  Category = "language"
	CategoryFramework Category = "framework"
	CategoryAssistant Category = "assistant"
	CategoryLLM       Category = "llm"
)

// Categories returns all registry categories in the order the new command
// prompts for them.
func Categories() []Category {
	return []Category{CategoryLanguage, CategoryFramework, CategoryAssistant, CategoryLLM}
}

// ProjectConfig is the flat set of choices a scaffolding run operates on.
// It is built once by the new command and passed by value; nothing mutates
// it after construction.
type ProjectConfig struct {
	Name      string
	Dir       string
	Language  string
	Framework string
	Assistant string
	LLM       string
	APIKey    string
	Goal      string
	Skills    []string
}

// KnowledgeSection is one ordered block of AGENTS.md guidance contributed by
// a provider.
type KnowledgeSection struct {
	Title string
	Body  string
}

// Availability is the structured result of probing for a provider's external
// tool. Probes never fail; a missing or broken tool sets Available false and
// explains itself in Detail.
type Availability struct {
	Available bool
	Version   string
	Detail    string
}

// Descriptor describes one provider within a category. Capability fields are
// optional: a nil field means the provider does not participate in that part
// of scaffolding.
type Descriptor struct {
	// ID is the identifier users select the provider by (e.g. "typescript").
	ID string

	// Category the descriptor is registered under.
	Category Category

	// DisplayName is shown in prompts and listings.
	DisplayName string

	// Knowledge returns ordered AGENTS.md sections for this provider.
	// Pure function of cfg: no I/O, never fails.
	Knowledge func(cfg ProjectConfig) []KnowledgeSection

	// MCPConfig returns MCP server entries the provider contributes to the
	// project's .mcp.json. Pure function of cfg.
	MCPConfig func(cfg ProjectConfig) map[string]mcpconfig.Server

	// Setup performs first-time setup in cfg.Dir. Must be idempotent:
	// re-running against an already-set-up project may rewrite files but
	// never corrupts or duplicates state.
	Setup func(ctx context.Context, cfg ProjectConfig) error

	// Available probes the environment for the provider's external tool.
	Available func(ctx context.Context) Availability

	// Launch hands the session to the provider's external program. It
	// either blocks until the program exits or replaces the process.
	Launch func(ctx context.Context, cfg ProjectConfig) error
}

var (
	registry     = make(map[Category]map[string]*Descriptor)
	registryLock sync.RWMutex
)

// Register adds a descriptor to the registry. It panics on a duplicate ID
// within a category: provider tables are wired at init time, so a collision
// is a programming error, not a runtime condition.
func Register(d *Descriptor) {
	registryLock.Lock()
	defer registryLock.Unlock()

	if d.ID == "" {
		panic("provider: Register called with empty ID")
	}

	byID, ok := registry[d.Category]
	if !ok {
		byID = make(map[string]*Descriptor)
		registry[d.Category] = byID
	}

	if _, exists := byID[d.ID]; exists {
		panic(fmt.Sprintf("provider: duplicate %s provider %q", d.Category, d.ID))
	}

	byID[d.ID] = d
}

// Lookup resolves a provider by category and identifier. Unknown identifiers
// return an *UnknownProviderError naming the accepted values.
func Lookup(category Category, id string) (*Descriptor, error) {
	registryLock.RLock()
	defer registryLock.RUnlock()

	if d, ok := registry[category][id]; ok {
		return d, nil
	}

	return nil, &UnknownProviderError{
		Category: category,
		ID:       id,
		Valid:    idsLocked(category),
	}
}

// Exists reports whether an identifier is registered under category.
func Exists(category Category, id string) bool {
	registryLock.RLock()
	defer registryLock.RUnlock()

	_, ok := registry[category][id]
	return ok
}

// IDs returns the sorted identifiers registered under category.
func IDs(category Category) []string {
	registryLock.RLock()
	defer registryLock.RUnlock()

	return idsLocked(category)
}

func idsLocked(category Category) []string {
	ids := make([]string, 0, len(registry[category]))
	for id := range registry[category] {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids
}

// All returns the descriptors registered under category, sorted by ID.
func All(category Category) []*Descriptor {
	registryLock.RLock()
	defer registryLock.RUnlock()

	out := make([]*Descriptor, 0, len(registry[category]))
	for _, id := range idsLocked(category) {
		out = append(out, registry[category][id])
	}

	return out
}

// UnknownProviderError reports an identifier with no registered descriptor.
type UnknownProviderError struct {
	Category Category
	ID       string
	Valid    []string
}

func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("unknown %s provider %q (valid: %s)",
		e.Category, e.ID, strings.Join(e.Valid, ", "))
}
