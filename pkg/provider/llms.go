package provider

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func init() {
	Register(anthropicLLM)
	Register(openaiLLM)
	Register(googleLLM)
	Register(ollamaLLM)
}

// upsertEnvLine sets KEY=value in the env file at path, replacing an
// existing assignment or appending a new one. Other lines are untouched, so
// repeated setup runs converge instead of duplicating entries.
func upsertEnvLine(path, key, value string) error {
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}

	line := key + "=" + value
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")

	replaced := false
	for i, l := range lines {
		if strings.HasPrefix(l, key+"=") {
			lines[i] = line
			replaced = true
			break
		}
	}
	if !replaced {
		if len(lines) == 1 && lines[0] == "" {
			lines[0] = line
		} else {
			lines = append(lines, line)
		}
	}

	content := strings.Join(lines, "\n") + "\n"

	return os.WriteFile(path, []byte(content), 0o600)
}

// setupKeyedLLM builds a Setup func for providers authenticated by an API
// key: .env.example always documents the variable, .env gets the real key
// only when the run resolved one.
func setupKeyedLLM(envVar string) func(ctx context.Context, cfg ProjectConfig) error {
	return func(ctx context.Context, cfg ProjectConfig) error {
		if err := upsertEnvLine(filepath.Join(cfg.Dir, ".env.example"), envVar, "your-key-here"); err != nil {
			return err
		}

		if cfg.APIKey == "" {
			return nil
		}

		return upsertEnvLine(filepath.Join(cfg.Dir, ".env"), envVar, cfg.APIKey)
	}
}

var anthropicLLM = &Descriptor{
	ID:          "anthropic",
	Category:    CategoryLLM,
	DisplayName: "Anthropic",
	Knowledge: func(cfg ProjectConfig) []KnowledgeSection {
		return []KnowledgeSection{{
			Title: "LLM: Anthropic",
			Body: strings.TrimSpace(`
- Default to claude-sonnet-4-20250514; keep the model id in one place so upgrades are a one-line change.
- Authentication: ANTHROPIC_API_KEY from the environment (loaded via .env).
- Docs: https://docs.anthropic.com`),
		}}
	},
	Setup: setupKeyedLLM("ANTHROPIC_API_KEY"),
}

var openaiLLM = &Descriptor{
	ID:          "openai",
	Category:    CategoryLLM,
	DisplayName: "OpenAI",
	Knowledge: func(cfg ProjectConfig) []KnowledgeSection {
		return []KnowledgeSection{{
			Title: "LLM: OpenAI",
			Body: strings.TrimSpace(`
- Default to gpt-4o; keep the model id in one place so upgrades are a one-line change.
- Authentication: OPENAI_API_KEY from the environment (loaded via .env).
- Docs: https://platform.openai.com/docs`),
		}}
	},
	Setup: setupKeyedLLM("OPENAI_API_KEY"),
}

var googleLLM = &Descriptor{
	ID:          "google",
	Category:    CategoryLLM,
	DisplayName: "Google Gemini",
	Knowledge: func(cfg ProjectConfig) []KnowledgeSection {
		return []KnowledgeSection{{
			Title: "LLM: Google Gemini",
			Body: strings.TrimSpace(`
- Default to gemini-2.5-pro; keep the model id in one place so upgrades are a one-line change.
- Authentication: GEMINI_API_KEY from the environment (loaded via .env).
- Docs: https://ai.google.dev/gemini-api/docs`),
		}}
	},
	Setup: setupKeyedLLM("GEMINI_API_KEY"),
}

var ollamaLLM = &Descriptor{
	ID:          "ollama",
	Category:    CategoryLLM,
	DisplayName: "Ollama",
	Knowledge: func(cfg ProjectConfig) []KnowledgeSection {
		return []KnowledgeSection{{
			Title: "LLM: Ollama",
			Body: strings.TrimSpace(`
- Runs models locally; no API key required.
- Start the daemon with ` + "`ollama serve`" + ` and pull a model such as llama3.3 before first use.
- Docs: https://github.com/ollama/ollama/tree/main/docs`),
		}}
	},
	Available: probeBinary("ollama", "https://ollama.com/download"),
}
