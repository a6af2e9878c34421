package provider

import "strings"

func init() {
	Register(langchainFramework)
	Register(crewaiFramework)
	Register(mastraFramework)
	Register(pydanticAIFramework)
	Register(vercelAIFramework)
	Register(noneFramework)
}

// frameworkLanguages maps each framework to the languages it ships SDKs for.
// The "none" framework works everywhere.
var frameworkLanguages = map[string][]string{
	"langchain":   {"typescript", "python"},
	"crewai":      {"python"},
	"mastra":      {"typescript"},
	"pydantic-ai": {"python"},
	"vercel-ai":   {"typescript"},
	"none":        {"typescript", "python", "go"},
}

// FrameworksFor returns the framework IDs compatible with a language, in
// registry order.
func FrameworksFor(language string) []string {
	var out []string
	for _, id := range IDs(CategoryFramework) {
		if FrameworkSupportsLanguage(id, language) {
			out = append(out, id)
		}
	}

	return out
}

// FrameworkSupportsLanguage reports whether the framework has an SDK for the
// given language.
func FrameworkSupportsLanguage(framework, language string) bool {
	for _, l := range frameworkLanguages[framework] {
		if l == language {
			return true
		}
	}

	return false
}

var langchainFramework = &Descriptor{
	ID:          "langchain",
	Category:    CategoryFramework,
	DisplayName: "LangChain",
	Knowledge: func(cfg ProjectConfig) []KnowledgeSection {
		return []KnowledgeSection{{
			Title: "Framework: LangChain",
			Body: strings.TrimSpace(`
- Compose agents from chat models, tools, and LangGraph-style graphs.
- Keep chains small and named; prefer explicit tool schemas over free-form prompts.
- Docs: https://docs.langchain.com`),
		}}
	},
}

var crewaiFramework = &Descriptor{
	ID:          "crewai",
	Category:    CategoryFramework,
	DisplayName: "CrewAI",
	Knowledge: func(cfg ProjectConfig) []KnowledgeSection {
		return []KnowledgeSection{{
			Title: "Framework: CrewAI",
			Body: strings.TrimSpace(`
- Model work as a crew of role-based agents with explicit tasks.
- Define each agent's role, goal, and backstory; wire tasks into a Crew.
- Docs: https://docs.crewai.com`),
		}}
	},
}

var mastraFramework = &Descriptor{
	ID:          "mastra",
	Category:    CategoryFramework,
	DisplayName: "Mastra",
	Knowledge: func(cfg ProjectConfig) []KnowledgeSection {
		return []KnowledgeSection{{
			Title: "Framework: Mastra",
			Body: strings.TrimSpace(`
- Agents, workflows, and tools are first-class Mastra primitives.
- Register agents with the Mastra instance; use workflows for multi-step logic.
- Docs: https://mastra.ai/docs`),
		}}
	},
}

var pydanticAIFramework = &Descriptor{
	ID:          "pydantic-ai",
	Category:    CategoryFramework,
	DisplayName: "Pydantic AI",
	Knowledge: func(cfg ProjectConfig) []KnowledgeSection {
		return []KnowledgeSection{{
			Title: "Framework: Pydantic AI",
			Body: strings.TrimSpace(`
- Agents are typed: declare result models with Pydantic and let validation drive retries.
- Tools are plain functions registered on the agent; keep them side-effect free where possible.
- Docs: https://ai.pydantic.dev`),
		}}
	},
}

var vercelAIFramework = &Descriptor{
	ID:          "vercel-ai",
	Category:    CategoryFramework,
	DisplayName: "Vercel AI SDK",
	Knowledge: func(cfg ProjectConfig) []KnowledgeSection {
		return []KnowledgeSection{{
			Title: "Framework: Vercel AI SDK",
			Body: strings.TrimSpace(`
- Use generateText/streamText with tool definitions for agent loops.
- Providers are swappable; keep model ids in one config module.
- Docs: https://ai-sdk.dev/docs`),
		}}
	},
}

// noneFramework is a real registered provider, not a sentinel: choosing it
// scaffolds a plain project with direct SDK calls and no framework sections.
var noneFramework = &Descriptor{
	ID:          "none",
	Category:    CategoryFramework,
	DisplayName: "No framework",
}
