package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/contextware/better-agents/pkg/dotdir"
)

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), and binds environment variables
// with the BETTER_AGENTS_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (BETTER_AGENTS_SKILLS_REPO, BETTER_AGENTS_DEFAULTS_LANGUAGE, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	// 1. Register all defaults from NewDefaultConfig().
	setViperDefaults(v)

	// 2. Config file discovery via dotdir resolution.
	v.SetConfigName("config")
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}
	v.AddConfigPath(target)

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// 3. Environment variables: BETTER_AGENTS_SKILLS_REPO, BETTER_AGENTS_ANALYTICS_DISABLED, etc.
	v.SetEnvPrefix("BETTER_AGENTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	// Defaults
	v.SetDefault("defaults.language", d.Defaults.Language)
	v.SetDefault("defaults.framework", d.Defaults.Framework)
	v.SetDefault("defaults.assistant", d.Defaults.Assistant)
	v.SetDefault("defaults.llm_provider", d.Defaults.LLM)

	// Skills catalog
	v.SetDefault("skills.repo", d.Skills.Repo)
	v.SetDefault("skills.ref", d.Skills.Ref)
	v.SetDefault("skills.path", d.Skills.Path)
	v.SetDefault("skills.ttl_hours", d.Skills.TTLHours)

	// Analytics
	v.SetDefault("analytics.disabled", d.Analytics.Disabled)
	v.SetDefault("analytics.endpoint", d.Analytics.Endpoint)
	v.SetDefault("analytics.anonymous_id", d.Analytics.AnonymousID)
}
