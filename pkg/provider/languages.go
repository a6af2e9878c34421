package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

func init() {
	Register(typescriptLanguage)
	Register(pythonLanguage)
	Register(goLanguage)
}

var typescriptLanguage = &Descriptor{
	ID:          "typescript",
	Category:    CategoryLanguage,
	DisplayName: "TypeScript",
	Knowledge: func(cfg ProjectConfig) []KnowledgeSection {
		return []KnowledgeSection{{
			Title: "Language: TypeScript",
			Body: strings.TrimSpace(`
- Runtime: Node.js 20+ with TypeScript in strict mode.
- Source lives under src/; the entry point is src/index.ts.
- Install dependencies with ` + "`npm install`" + `; run with ` + "`npm run dev`" + `.
- Keep agent prompts and tool definitions in dedicated modules rather than inline strings.
- Environment variables load from .env; never commit real keys.`),
		}}
	},
	Setup:     setupTypeScript,
	Available: probeBinary("node", "https://nodejs.org/en/download"),
}

var pythonLanguage = &Descriptor{
	ID:          "python",
	Category:    CategoryLanguage,
	DisplayName: "Python",
	Knowledge: func(cfg ProjectConfig) []KnowledgeSection {
		return []KnowledgeSection{{
			Title: "Language: Python",
			Body: strings.TrimSpace(`
- Runtime: Python 3.11+ managed through pyproject.toml.
- The entry point is main.py; keep agents and tools in separate modules as the project grows.
- Create a virtualenv and install with ` + "`pip install -e .`" + ` (or use uv).
- Type-hint public functions; agent behavior should be testable without network access.
- Environment variables load from .env; never commit real keys.`),
		}}
	},
	Setup:     setupPython,
	Available: probeBinary("python3", "https://www.python.org/downloads/"),
}

var goLanguage = &Descriptor{
	ID:          "go",
	Category:    CategoryLanguage,
	DisplayName: "Go",
	Knowledge: func(cfg ProjectConfig) []KnowledgeSection {
		return []KnowledgeSection{{
			Title: "Language: Go",
			Body: strings.TrimSpace(`
- Module-based layout; the entry point is main.go.
- Build with ` + "`go build ./...`" + ` and test with ` + "`go test ./...`" + `.
- Return explicit errors from tool and agent functions; avoid panics in agent loops.
- Environment variables load from the process environment; never commit real keys.`),
		}}
	},
	Setup:     setupGo,
	Available: probeBinary("go", "https://go.dev/dl/"),
}

// packageJSON is the subset of package.json the scaffold writes. Map fields
// marshal with sorted keys, so output is deterministic.
type packageJSON struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Private         bool              `json:"private"`
	Type            string            `json:"type"`
	Scripts         map[string]string `json:"scripts"`
	Dependencies    map[string]string `json:"dependencies,omitempty"`
	DevDependencies map[string]string `json:"devDependencies"`
}

func setupTypeScript(ctx context.Context, cfg ProjectConfig) error {
	if err := os.MkdirAll(filepath.Join(cfg.Dir, "src"), 0o755); err != nil {
		return fmt.Errorf("creating src dir: %w", err)
	}

	pkg := packageJSON{
		Name:    cfg.Name,
		Version: "0.1.0",
		Private: true,
		Type:    "module",
		Scripts: map[string]string{
			"dev":   "tsx src/index.ts",
			"build": "tsc",
		},
		Dependencies: tsDependencies(cfg),
		DevDependencies: map[string]string{
			"typescript":  "^5.6.0",
			"tsx":         "^4.19.0",
			"@types/node": "^22.0.0",
		},
	}

	pkgPath := filepath.Join(cfg.Dir, "package.json")
	if _, err := os.Stat(pkgPath); os.IsNotExist(err) {
		data, err := json.MarshalIndent(pkg, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding package.json: %w", err)
		}
		if err := os.WriteFile(pkgPath, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("writing package.json: %w", err)
		}
	}

	if err := writeFileIfAbsent(filepath.Join(cfg.Dir, "tsconfig.json"), tsconfigTemplate); err != nil {
		return fmt.Errorf("writing tsconfig.json: %w", err)
	}

	if err := writeFileIfAbsent(filepath.Join(cfg.Dir, "src", "index.ts"), tsEntryTemplate); err != nil {
		return fmt.Errorf("writing src/index.ts: %w", err)
	}

	return writeGitignore(cfg.Dir, []string{"node_modules/", "dist/", ".env"})
}

// tsDependencies maps the chosen framework and LLM provider onto npm
// packages for the generated package.json.
func tsDependencies(cfg ProjectConfig) map[string]string {
	deps := make(map[string]string)

	switch cfg.Framework {
	case "langchain":
		deps["langchain"] = "^0.3.0"
		deps["@langchain/core"] = "^0.3.0"
	case "mastra":
		deps["@mastra/core"] = "^0.10.0"
	case "vercel-ai":
		deps["ai"] = "^4.0.0"
	}

	switch cfg.LLM {
	case "anthropic":
		deps["@anthropic-ai/sdk"] = "^0.39.0"
	case "openai":
		deps["openai"] = "^4.80.0"
	case "google":
		deps["@google/genai"] = "^0.7.0"
	case "ollama":
		deps["ollama"] = "^0.5.0"
	}

	return deps
}

const tsconfigTemplate = `{
  "compilerOptions": {
    "target": "ES2022",
    "module": "NodeNext",
    "moduleResolution": "NodeNext",
    "strict": true,
    "outDir": "dist",
    "rootDir": "src",
    "esModuleInterop": true,
    "skipLibCheck": true
  },
  "include": ["src"]
}
`

const tsEntryTemplate = `async function main() {
  // TODO: build your agent here. AGENTS.md describes the project conventions.
  console.log("agent ready");
}

main().catch((err) => {
  console.error(err);
  process.exit(1);
});
`

func setupPython(ctx context.Context, cfg ProjectConfig) error {
	pyprojectPath := filepath.Join(cfg.Dir, "pyproject.toml")
	if _, err := os.Stat(pyprojectPath); os.IsNotExist(err) {
		content := renderPyproject(cfg)
		if err := os.WriteFile(pyprojectPath, []byte(content), 0o644); err != nil {
			return fmt.Errorf("writing pyproject.toml: %w", err)
		}
	}

	if err := writeFileIfAbsent(filepath.Join(cfg.Dir, "main.py"), pyEntryTemplate); err != nil {
		return fmt.Errorf("writing main.py: %w", err)
	}

	return writeGitignore(cfg.Dir, []string{".venv/", "__pycache__/", "*.egg-info/", ".env"})
}

// pyDependencies maps the chosen framework and LLM provider onto PyPI
// requirement strings for the generated pyproject.toml.
func pyDependencies(cfg ProjectConfig) []string {
	var deps []string

	switch cfg.Framework {
	case "langchain":
		deps = append(deps, "langchain>=0.3")
	case "crewai":
		deps = append(deps, "crewai>=0.80")
	case "pydantic-ai":
		deps = append(deps, "pydantic-ai>=0.1")
	}

	switch cfg.LLM {
	case "anthropic":
		deps = append(deps, "anthropic>=0.40")
	case "openai":
		deps = append(deps, "openai>=1.60")
	case "google":
		deps = append(deps, "google-genai>=1.0")
	case "ollama":
		deps = append(deps, "ollama>=0.4")
	}

	sort.Strings(deps)

	return deps
}

func renderPyproject(cfg ProjectConfig) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[project]\nname = %q\nversion = \"0.1.0\"\nrequires-python = \">=3.11\"\n", cfg.Name)

	deps := pyDependencies(cfg)
	if len(deps) == 0 {
		b.WriteString("dependencies = []\n")
		return b.String()
	}

	b.WriteString("dependencies = [\n")
	for _, d := range deps {
		fmt.Fprintf(&b, "    %q,\n", d)
	}
	b.WriteString("]\n")

	return b.String()
}

const pyEntryTemplate = `def main() -> None:
    # TODO: build your agent here. AGENTS.md describes the project conventions.
    print("agent ready")


if __name__ == "__main__":
    main()
`

func setupGo(ctx context.Context, cfg ProjectConfig) error {
	gomodPath := filepath.Join(cfg.Dir, "go.mod")
	if _, err := os.Stat(gomodPath); os.IsNotExist(err) {
		content := fmt.Sprintf("module %s\n\ngo 1.25\n", cfg.Name)
		if err := os.WriteFile(gomodPath, []byte(content), 0o644); err != nil {
			return fmt.Errorf("writing go.mod: %w", err)
		}
	}

	if err := writeFileIfAbsent(filepath.Join(cfg.Dir, "main.go"), goEntryTemplate); err != nil {
		return fmt.Errorf("writing main.go: %w", err)
	}

	return writeGitignore(cfg.Dir, []string{"bin/", ".env"})
}

const goEntryTemplate = `package main

import "fmt"

func main() {
	// TODO: build your agent here. AGENTS.md describes the project conventions.
	fmt.Println("agent ready")
}
`

// writeGitignore appends missing entries to .gitignore, creating it when
// absent. Existing user entries are preserved.
func writeGitignore(dir string, entries []string) error {
	path := filepath.Join(dir, ".gitignore")

	existing := make(map[string]bool)
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading .gitignore: %w", err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		existing[strings.TrimSpace(line)] = true
	}

	var missing []string
	for _, e := range entries {
		if !existing[e] {
			missing = append(missing, e)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	content := string(data)
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += strings.Join(missing, "\n") + "\n"

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	return nil
}
