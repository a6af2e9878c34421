package config

const (
	defaultLanguage  = "typescript"
	defaultFramework = "none"
	defaultAssistant = "claude"
	defaultLLM       = "anthropic"

	defaultSkillsRepo = "contextware/agent-skills"
	defaultSkillsRef  = "main"
	defaultSkillsPath = "skills"
	defaultTTLHours   = 24

	defaultAnalyticsEndpoint = "https://telemetry.contextware.dev/v1/events"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Defaults: DefaultsConfig{
			Language:  defaultLanguage,
			Framework: defaultFramework,
			Assistant: defaultAssistant,
			LLM:       defaultLLM,
		},
		Skills: SkillsConfig{
			Repo:     defaultSkillsRepo,
			Ref:      defaultSkillsRef,
			Path:     defaultSkillsPath,
			TTLHours: defaultTTLHours,
		},
		Analytics: AnalyticsConfig{
			Endpoint: defaultAnalyticsEndpoint,
		},
	}
}
