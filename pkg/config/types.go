package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent better-agents configuration stored as
// config.toml in the .better-agents/ directory. The TOML layout uses sections
// for logical grouping.
type Config struct {
	Version   int             `toml:"version"`
	Defaults  DefaultsConfig  `toml:"defaults"`
	Skills    SkillsConfig    `toml:"skills"`
	Analytics AnalyticsConfig `toml:"analytics"`
}

// DefaultsConfig holds the provider choices offered as prompt defaults by
// "better-agents new" and used directly in non-interactive runs when the
// corresponding flag is omitted.
type DefaultsConfig struct {
	Language  string `toml:"language,omitempty"`
	Framework string `toml:"framework,omitempty"`
	Assistant string `toml:"assistant,omitempty"`
	LLM       string `toml:"llm_provider,omitempty"`
}

// SkillsConfig holds the remote skills catalog location and cache policy.
// Repo is an "owner/name" GitHub slug; Path is the directory inside the repo
// whose subdirectories are the catalog entries.
type SkillsConfig struct {
	Repo     string `toml:"repo,omitempty"`
	Ref      string `toml:"ref,omitempty"`
	Path     string `toml:"path,omitempty"`
	TTLHours uint   `toml:"ttl_hours,omitempty"`
}

// AnalyticsConfig holds anonymous usage reporting settings. Disabled uses
// inverted polarity so the zero value keeps reporting on. DO_NOT_TRACK in
// the environment also turns reporting off regardless of this section.
type AnalyticsConfig struct {
	Disabled    bool   `toml:"disabled,omitempty"`
	Endpoint    string `toml:"endpoint,omitempty"`
	AnonymousID string `toml:"anonymous_id,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"defaults.language": {
		get: func(c *Config) string { return c.Defaults.Language },
		set: func(c *Config, v string) error { c.Defaults.Language = v; return nil },
	},
	"defaults.framework": {
		get: func(c *Config) string { return c.Defaults.Framework },
		set: func(c *Config, v string) error { c.Defaults.Framework = v; return nil },
	},
	"defaults.assistant": {
		get: func(c *Config) string { return c.Defaults.Assistant },
		set: func(c *Config, v string) error { c.Defaults.Assistant = v; return nil },
	},
	"defaults.llm_provider": {
		get: func(c *Config) string { return c.Defaults.LLM },
		set: func(c *Config, v string) error { c.Defaults.LLM = v; return nil },
	},
	"skills.repo": {
		get: func(c *Config) string { return c.Skills.Repo },
		set: func(c *Config, v string) error { c.Skills.Repo = v; return nil },
	},
	"skills.ref": {
		get: func(c *Config) string { return c.Skills.Ref },
		set: func(c *Config, v string) error { c.Skills.Ref = v; return nil },
	},
	"skills.path": {
		get: func(c *Config) string { return c.Skills.Path },
		set: func(c *Config, v string) error { c.Skills.Path = v; return nil },
	},
	"skills.ttl_hours": {
		get: func(c *Config) string {
			if c.Skills.TTLHours == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Skills.TTLHours), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for skills.ttl_hours: %w", err)
			}
			c.Skills.TTLHours = uint(n)
			return nil
		},
	},
	"analytics.disabled": {
		get: func(c *Config) string { return strconv.FormatBool(c.Analytics.Disabled) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid value for analytics.disabled: %w", err)
			}
			c.Analytics.Disabled = b
			return nil
		},
	},
	"analytics.endpoint": {
		get: func(c *Config) string { return c.Analytics.Endpoint },
		set: func(c *Config, v string) error { c.Analytics.Endpoint = v; return nil },
	},
	"analytics.anonymous_id": {
		get: func(c *Config) string { return c.Analytics.AnonymousID },
		set: func(c *Config, v string) error { c.Analytics.AnonymousID = v; return nil },
	},
}
