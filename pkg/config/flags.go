package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag.
// Commands reference flags by registry key rather than hard-coding names,
// shorthands, defaults, and descriptions inline, so a flag's spelling and
// its viper key cannot drift apart.
type Flag struct {
	// Name is the long flag name (e.g. "language").
	Name string

	// Shorthand is the one-letter short flag (e.g. "l"). Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "defaults.language").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet is a mapping of flag names to Flag structs that hold their name,
// shorthand, viper key, etc.
type FlagSet map[string]Flag

// Flag registry keys.
// Use these constants when calling AddStringFlag, AddUintFlag,
// and BindRegisteredFlags to avoid typos or drift from one command to another.
const (
	FlagLanguage   = "language"
	FlagFramework  = "framework"
	FlagAssistant  = "assistant"
	FlagLLM        = "llm"
	FlagSkillsRepo = "skills-repo"
	FlagSkillsRef  = "skills-ref"
	FlagSkillsPath = "skills-path"
	FlagCacheTTL   = "cache-ttl"
)

// AddStringFlag registers a string flag on cmd from the given FlagSet.
// The flag's name, shorthand, default, and description all come from the
// FlagSet entry so they cannot drift across commands.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultString(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().StringVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddUintFlag registers a uint flag on cmd from the given FlagSet.
func AddUintFlag(cmd *cobra.Command, fs FlagSet, registryKey string, target *uint) {
	def, ok := fs[registryKey]
	if !ok {
		return
	}

	defaultVal := defaultUint(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().UintVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().UintVar(target, def.Name, defaultVal, def.Description)
	}
}

// BindRegisteredFlags binds already-registered flags to viper using definitions
// from the given FlagSet. Call this in PreRunE after InitViper to connect flags
// to the viper precedence chain (flag > env > config file > default).
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, registryKeys []string) {
	for _, registryKey := range registryKeys {
		def, ok := fs[registryKey]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

// defaultString returns the default string value for a viper key from NewDefaultConfig.
func defaultString(viperKey string) string {
	v := viper.New()
	setViperDefaults(v)
	return v.GetString(viperKey)
}

// defaultUint returns the default uint value for a viper key from NewDefaultConfig.
func defaultUint(viperKey string) uint {
	v := viper.New()
	setViperDefaults(v)
	return v.GetUint(viperKey)
}

// Flags is the canonical flag registry of the new command.
var Flags = FlagSet{
	FlagLanguage: {
		Name:        "language",
		Shorthand:   "l",
		ViperKey:    "defaults.language",
		Description: "Project language (typescript, python, go)",
	},
	FlagFramework: {
		Name:        "framework",
		Shorthand:   "f",
		ViperKey:    "defaults.framework",
		Description: "Agent framework (langchain, crewai, mastra, pydantic-ai, vercel-ai, none)",
	},
	FlagAssistant: {
		Name:        "assistant",
		Shorthand:   "a",
		ViperKey:    "defaults.assistant",
		Description: "Coding assistant (claude, cursor, gemini, kilocode, opencode, codex)",
	},
	FlagLLM: {
		Name:        "llm",
		ViperKey:    "defaults.llm_provider",
		Description: "LLM provider (anthropic, openai, google, ollama)",
	},
	FlagSkillsRepo: {
		Name:        "skills-repo",
		ViperKey:    "skills.repo",
		Description: "GitHub repository holding the skills catalog (owner/name)",
	},
	FlagSkillsRef: {
		Name:        "skills-ref",
		ViperKey:    "skills.ref",
		Description: "Git ref of the skills catalog",
	},
	FlagSkillsPath: {
		Name:        "skills-path",
		ViperKey:    "skills.path",
		Description: "Directory inside the catalog repository that holds skills",
	},
	FlagCacheTTL: {
		Name:        "cache-ttl",
		ViperKey:    "skills.ttl_hours",
		Description: "Skills cache lifetime in hours",
	},
}
