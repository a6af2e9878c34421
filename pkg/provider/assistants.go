package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/contextware/better-agents/pkg/credentials"
	"github.com/contextware/better-agents/pkg/launcher"
)

func init() {
	Register(claudeAssistant)
	Register(cursorAssistant)
	Register(geminiAssistant)
	Register(kilocodeAssistant)
	Register(opencodeAssistant)
	Register(codexAssistant)
}

// llmEnv returns the environment entry carrying the resolved API key to a
// launched assistant, or nil when there is nothing to inject.
func llmEnv(cfg ProjectConfig) []string {
	if cfg.APIKey == "" {
		return nil
	}

	envVar := credentials.EnvVarForProvider(cfg.LLM)
	if envVar == "" {
		return nil
	}

	return []string{envVar + "=" + cfg.APIKey}
}

// launchBinary builds a Launch func that hands the session to bin inside the
// project directory with the API key injected.
func launchBinary(bin string, args ...string) func(ctx context.Context, cfg ProjectConfig) error {
	return func(ctx context.Context, cfg ProjectConfig) error {
		return launcher.Launch(ctx, launcher.Spec{
			Bin:  bin,
			Args: args,
			Dir:  cfg.Dir,
			Env:  llmEnv(cfg),
		})
	}
}

var claudeAssistant = &Descriptor{
	ID:          "claude",
	Category:    CategoryAssistant,
	DisplayName: "Claude Code",
	Setup: func(ctx context.Context, cfg ProjectConfig) error {
		return writeFileIfAbsent(filepath.Join(cfg.Dir, "CLAUDE.md"),
			"Project guidance lives in [AGENTS.md](AGENTS.md). Read it before making changes.\n")
	},
	Available: probeBinary("claude", "npm install -g @anthropic-ai/claude-code"),
	Launch:    launchBinary("claude"),
}

var cursorAssistant = &Descriptor{
	ID:          "cursor",
	Category:    CategoryAssistant,
	DisplayName: "Cursor",
	Setup: func(ctx context.Context, cfg ProjectConfig) error {
		rulesDir := filepath.Join(cfg.Dir, ".cursor", "rules")
		if err := os.MkdirAll(rulesDir, 0o755); err != nil {
			return fmt.Errorf("creating .cursor/rules: %w", err)
		}

		rule := `---
description: Project guidance
alwaysApply: true
---

Project guidance lives in AGENTS.md at the repository root. Read it before making changes.
`
		return writeFileIfAbsent(filepath.Join(rulesDir, "agents.mdc"), rule)
	},
	Available: probeBinary("cursor-agent", "curl https://cursor.com/install -fsS | bash"),
	Launch:    launchBinary("cursor-agent"),
}

var geminiAssistant = &Descriptor{
	ID:          "gemini",
	Category:    CategoryAssistant,
	DisplayName: "Gemini CLI",
	Setup: func(ctx context.Context, cfg ProjectConfig) error {
		// Point gemini-cli at AGENTS.md instead of its default GEMINI.md,
		// preserving any other settings already in the file.
		dir := filepath.Join(cfg.Dir, ".gemini")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating .gemini: %w", err)
		}

		path := filepath.Join(dir, "settings.json")
		settings := make(map[string]json.RawMessage)
		if data, err := os.ReadFile(path); err == nil {
			if err := json.Unmarshal(data, &settings); err != nil {
				return fmt.Errorf("parsing .gemini/settings.json: %w", err)
			}
		}

		name, err := json.Marshal("AGENTS.md")
		if err != nil {
			return err
		}
		settings["contextFileName"] = name

		out, err := json.MarshalIndent(settings, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding .gemini/settings.json: %w", err)
		}

		return os.WriteFile(path, append(out, '\n'), 0o644)
	},
	Available: probeBinary("gemini", "npm install -g @google/gemini-cli"),
	Launch:    launchBinary("gemini"),
}

var kilocodeAssistant = &Descriptor{
	ID:          "kilocode",
	Category:    CategoryAssistant,
	DisplayName: "Kilo Code",
	Setup: func(ctx context.Context, cfg ProjectConfig) error {
		rulesDir := filepath.Join(cfg.Dir, ".kilocode", "rules")
		if err := os.MkdirAll(rulesDir, 0o755); err != nil {
			return fmt.Errorf("creating .kilocode/rules: %w", err)
		}

		return writeFileIfAbsent(filepath.Join(rulesDir, "agents.md"),
			"Project guidance lives in AGENTS.md at the repository root. Read it before making changes.\n")
	},
	Available: probeBinary("kilocode", "npm install -g @kilocode/cli"),
	Launch:    launchBinary("kilocode"),
}

var opencodeAssistant = &Descriptor{
	ID:          "opencode",
	Category:    CategoryAssistant,
	DisplayName: "opencode",
	Setup: func(ctx context.Context, cfg ProjectConfig) error {
		// opencode reads AGENTS.md natively; the config file pins that and
		// survives users adding their own settings later.
		path := filepath.Join(cfg.Dir, "opencode.json")
		cfgMap := make(map[string]json.RawMessage)
		if data, err := os.ReadFile(path); err == nil {
			if err := json.Unmarshal(data, &cfgMap); err != nil {
				return fmt.Errorf("parsing opencode.json: %w", err)
			}
		}

		if _, ok := cfgMap["$schema"]; !ok {
			schema, err := json.Marshal("https://opencode.ai/config.json")
			if err != nil {
				return err
			}
			cfgMap["$schema"] = schema
		}

		if _, ok := cfgMap["instructions"]; !ok {
			instructions, err := json.Marshal([]string{"AGENTS.md"})
			if err != nil {
				return err
			}
			cfgMap["instructions"] = instructions
		}

		out, err := json.MarshalIndent(cfgMap, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding opencode.json: %w", err)
		}

		return os.WriteFile(path, append(out, '\n'), 0o644)
	},
	Available: probeBinary("opencode", "npm install -g opencode-ai"),
	Launch:    launchBinary("opencode"),
}

var codexAssistant = &Descriptor{
	ID:          "codex",
	Category:    CategoryAssistant,
	DisplayName: "Codex CLI",
	Setup: func(ctx context.Context, cfg ProjectConfig) error {
		// codex reads AGENTS.md natively. When the run resolved an OpenAI
		// key, patch it into ~/.codex/auth.json so the first launch does
		// not stop at a login prompt.
		if cfg.LLM != "openai" || cfg.APIKey == "" {
			return nil
		}

		data, path := credentials.ReadCodexAuthFile()
		if data == nil {
			return nil
		}

		updated, ok := credentials.PatchCodexAuthKey(data, cfg.APIKey)
		if !ok {
			return nil
		}

		return os.WriteFile(path, updated, 0o600)
	},
	Available: probeBinary("codex", "npm install -g @openai/codex"),
	Launch:    launchBinary("codex"),
}
