package provider_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/contextware/better-agents/pkg/provider"
)

func TestProvider(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Provider Suite")
}

var _ = Describe("Registry", func() {
	It("resolves every registered identifier", func() {
		for _, category := range provider.Categories() {
			for _, id := range provider.IDs(category) {
				d, err := provider.Lookup(category, id)
				Expect(err).NotTo(HaveOccurred())
				Expect(d.ID).To(Equal(id))
				Expect(d.Category).To(Equal(category))
				Expect(d.DisplayName).NotTo(BeEmpty())
			}
		}
	})

	It("registers the expected languages", func() {
		Expect(provider.IDs(provider.CategoryLanguage)).To(Equal(
			[]string{"go", "python", "typescript"}))
	})

	It("registers the expected frameworks", func() {
		Expect(provider.IDs(provider.CategoryFramework)).To(Equal(
			[]string{"crewai", "langchain", "mastra", "none", "pydantic-ai", "vercel-ai"}))
	})

	It("registers the expected assistants", func() {
		Expect(provider.IDs(provider.CategoryAssistant)).To(Equal(
			[]string{"claude", "codex", "cursor", "gemini", "kilocode", "opencode"}))
	})

	It("registers the expected llm providers", func() {
		Expect(provider.IDs(provider.CategoryLLM)).To(Equal(
			[]string{"anthropic", "google", "ollama", "openai"}))
	})

	It("reports unknown identifiers with the accepted values", func() {
		_, err := provider.Lookup(provider.CategoryLanguage, "rust")
		Expect(err).To(HaveOccurred())

		var unknownErr *provider.UnknownProviderError
		Expect(errors.As(err, &unknownErr)).To(BeTrue())
		Expect(unknownErr.ID).To(Equal("rust"))
		Expect(unknownErr.Valid).To(Equal([]string{"go", "python", "typescript"}))
		Expect(err.Error()).To(ContainSubstring(`unknown language provider "rust"`))
		Expect(err.Error()).To(ContainSubstring("go, python, typescript"))
	})

	It("panics when an identifier is registered twice", func() {
		d := &provider.Descriptor{ID: "dup", Category: provider.Category("scratch")}
		provider.Register(d)
		Expect(func() { provider.Register(d) }).To(Panic())
	})

	It("panics on an empty identifier", func() {
		Expect(func() {
			provider.Register(&provider.Descriptor{Category: provider.CategoryLanguage})
		}).To(Panic())
	})

	It("reports existence", func() {
		Expect(provider.Exists(provider.CategoryAssistant, "claude")).To(BeTrue())
		Expect(provider.Exists(provider.CategoryAssistant, "emacs")).To(BeFalse())
	})

	It("returns descriptors in identifier order", func() {
		all := provider.All(provider.CategoryLLM)
		ids := make([]string, len(all))
		for i, d := range all {
			ids[i] = d.ID
		}
		Expect(ids).To(Equal([]string{"anthropic", "google", "ollama", "openai"}))
	})

	It("registers none as a real framework with no capabilities", func() {
		d, err := provider.Lookup(provider.CategoryFramework, "none")
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Knowledge).To(BeNil())
		Expect(d.Setup).To(BeNil())
		Expect(d.Launch).To(BeNil())
	})
})

var _ = Describe("Framework compatibility", func() {
	It("limits crewai to python", func() {
		Expect(provider.FrameworkSupportsLanguage("crewai", "python")).To(BeTrue())
		Expect(provider.FrameworkSupportsLanguage("crewai", "typescript")).To(BeFalse())
	})

	It("offers none for every language", func() {
		for _, lang := range provider.IDs(provider.CategoryLanguage) {
			Expect(provider.FrameworksFor(lang)).To(ContainElement("none"))
		}
	})

	It("lists typescript frameworks", func() {
		Expect(provider.FrameworksFor("typescript")).To(Equal(
			[]string{"langchain", "mastra", "none", "vercel-ai"}))
	})

	It("lists go frameworks", func() {
		Expect(provider.FrameworksFor("go")).To(Equal([]string{"none"}))
	})
})

var _ = Describe("Knowledge", func() {
	It("is pure and non-empty for every provider that exposes it", func() {
		cfg := provider.ProjectConfig{
			Name:      "demo",
			Language:  "typescript",
			Framework: "vercel-ai",
			Assistant: "claude",
			LLM:       "anthropic",
		}

		for _, category := range provider.Categories() {
			for _, d := range provider.All(category) {
				if d.Knowledge == nil {
					continue
				}
				sections := d.Knowledge(cfg)
				Expect(sections).NotTo(BeEmpty())
				for _, s := range sections {
					Expect(s.Title).NotTo(BeEmpty())
					Expect(s.Body).NotTo(BeEmpty())
				}
			}
		}
	})
})

var _ = Describe("Language setup", func() {
	var tmpDir string
	var ctx context.Context

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		ctx = context.Background()
	})

	cfgFor := func(language, framework, llm string) provider.ProjectConfig {
		return provider.ProjectConfig{
			Name:      "demo-agent",
			Dir:       tmpDir,
			Language:  language,
			Framework: framework,
			LLM:       llm,
		}
	}

	It("scaffolds a typescript project", func() {
		d, err := provider.Lookup(provider.CategoryLanguage, "typescript")
		Expect(err).NotTo(HaveOccurred())

		Expect(d.Setup(ctx, cfgFor("typescript", "vercel-ai", "anthropic"))).To(Succeed())

		pkg, err := os.ReadFile(filepath.Join(tmpDir, "package.json"))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(pkg)).To(ContainSubstring(`"demo-agent"`))
		Expect(string(pkg)).To(ContainSubstring(`"ai"`))
		Expect(string(pkg)).To(ContainSubstring("@anthropic-ai/sdk"))

		for _, f := range []string{"tsconfig.json", filepath.Join("src", "index.ts"), ".gitignore"} {
			_, err := os.Stat(filepath.Join(tmpDir, f))
			Expect(err).NotTo(HaveOccurred(), f)
		}
	})

	It("does not clobber user edits on re-run", func() {
		d, err := provider.Lookup(provider.CategoryLanguage, "typescript")
		Expect(err).NotTo(HaveOccurred())

		cfg := cfgFor("typescript", "none", "openai")
		Expect(d.Setup(ctx, cfg)).To(Succeed())

		edited := filepath.Join(tmpDir, "src", "index.ts")
		Expect(os.WriteFile(edited, []byte("// user code\n"), 0o644)).To(Succeed())

		Expect(d.Setup(ctx, cfg)).To(Succeed())

		content, err := os.ReadFile(edited)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(content)).To(Equal("// user code\n"))
	})

	It("scaffolds a python project with framework dependencies", func() {
		d, err := provider.Lookup(provider.CategoryLanguage, "python")
		Expect(err).NotTo(HaveOccurred())

		Expect(d.Setup(ctx, cfgFor("python", "crewai", "openai"))).To(Succeed())

		pyproject, err := os.ReadFile(filepath.Join(tmpDir, "pyproject.toml"))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(pyproject)).To(ContainSubstring("crewai"))
		Expect(string(pyproject)).To(ContainSubstring("openai"))

		_, err = os.Stat(filepath.Join(tmpDir, "main.py"))
		Expect(err).NotTo(HaveOccurred())
	})

	It("scaffolds a go project", func() {
		d, err := provider.Lookup(provider.CategoryLanguage, "go")
		Expect(err).NotTo(HaveOccurred())

		Expect(d.Setup(ctx, cfgFor("go", "none", "ollama"))).To(Succeed())

		gomod, err := os.ReadFile(filepath.Join(tmpDir, "go.mod"))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(gomod)).To(HavePrefix("module demo-agent"))
	})

	It("appends missing gitignore entries without duplicating", func() {
		d, err := provider.Lookup(provider.CategoryLanguage, "go")
		Expect(err).NotTo(HaveOccurred())

		gitignore := filepath.Join(tmpDir, ".gitignore")
		Expect(os.WriteFile(gitignore, []byte("bin/\ncustom/\n"), 0o644)).To(Succeed())

		cfg := cfgFor("go", "none", "ollama")
		Expect(d.Setup(ctx, cfg)).To(Succeed())
		Expect(d.Setup(ctx, cfg)).To(Succeed())

		content, err := os.ReadFile(gitignore)
		Expect(err).NotTo(HaveOccurred())
		Expect(strings.Count(string(content), "bin/")).To(Equal(1))
		Expect(strings.Count(string(content), ".env")).To(Equal(1))
		Expect(string(content)).To(ContainSubstring("custom/"))
	})
})

var _ = Describe("LLM setup", func() {
	var tmpDir string
	var ctx context.Context

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		ctx = context.Background()
	})

	It("writes the key into .env and documents it in .env.example", func() {
		d, err := provider.Lookup(provider.CategoryLLM, "anthropic")
		Expect(err).NotTo(HaveOccurred())

		cfg := provider.ProjectConfig{Dir: tmpDir, LLM: "anthropic", APIKey: "sk-ant-test"}
		Expect(d.Setup(ctx, cfg)).To(Succeed())

		env, err := os.ReadFile(filepath.Join(tmpDir, ".env"))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(env)).To(ContainSubstring("ANTHROPIC_API_KEY=sk-ant-test"))

		example, err := os.ReadFile(filepath.Join(tmpDir, ".env.example"))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(example)).To(ContainSubstring("ANTHROPIC_API_KEY=your-key-here"))
	})

	It("replaces the key on re-run instead of duplicating", func() {
		d, err := provider.Lookup(provider.CategoryLLM, "openai")
		Expect(err).NotTo(HaveOccurred())

		Expect(d.Setup(ctx, provider.ProjectConfig{Dir: tmpDir, LLM: "openai", APIKey: "sk-old"})).To(Succeed())
		Expect(d.Setup(ctx, provider.ProjectConfig{Dir: tmpDir, LLM: "openai", APIKey: "sk-new"})).To(Succeed())

		env, err := os.ReadFile(filepath.Join(tmpDir, ".env"))
		Expect(err).NotTo(HaveOccurred())
		Expect(strings.Count(string(env), "OPENAI_API_KEY=")).To(Equal(1))
		Expect(string(env)).To(ContainSubstring("OPENAI_API_KEY=sk-new"))
	})

	It("skips .env when no key was resolved", func() {
		d, err := provider.Lookup(provider.CategoryLLM, "google")
		Expect(err).NotTo(HaveOccurred())

		Expect(d.Setup(ctx, provider.ProjectConfig{Dir: tmpDir, LLM: "google"})).To(Succeed())

		_, err = os.Stat(filepath.Join(tmpDir, ".env"))
		Expect(os.IsNotExist(err)).To(BeTrue())

		_, err = os.Stat(filepath.Join(tmpDir, ".env.example"))
		Expect(err).NotTo(HaveOccurred())
	})

	It("leaves unrelated env lines alone", func() {
		envPath := filepath.Join(tmpDir, ".env")
		Expect(os.WriteFile(envPath, []byte("CUSTOM=1\n"), 0o600)).To(Succeed())

		d, err := provider.Lookup(provider.CategoryLLM, "anthropic")
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Setup(ctx, provider.ProjectConfig{Dir: tmpDir, LLM: "anthropic", APIKey: "sk-x"})).To(Succeed())

		env, err := os.ReadFile(envPath)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(env)).To(ContainSubstring("CUSTOM=1"))
		Expect(string(env)).To(ContainSubstring("ANTHROPIC_API_KEY=sk-x"))
	})

	It("requires no setup for ollama", func() {
		d, err := provider.Lookup(provider.CategoryLLM, "ollama")
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Setup).To(BeNil())
	})
})

var _ = Describe("Assistant setup", func() {
	var tmpDir string
	var ctx context.Context

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		ctx = context.Background()
	})

	It("writes a CLAUDE.md pointer for claude", func() {
		d, err := provider.Lookup(provider.CategoryAssistant, "claude")
		Expect(err).NotTo(HaveOccurred())

		Expect(d.Setup(ctx, provider.ProjectConfig{Dir: tmpDir})).To(Succeed())

		content, err := os.ReadFile(filepath.Join(tmpDir, "CLAUDE.md"))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(content)).To(ContainSubstring("AGENTS.md"))
	})

	It("writes a cursor rule", func() {
		d, err := provider.Lookup(provider.CategoryAssistant, "cursor")
		Expect(err).NotTo(HaveOccurred())

		Expect(d.Setup(ctx, provider.ProjectConfig{Dir: tmpDir})).To(Succeed())

		content, err := os.ReadFile(filepath.Join(tmpDir, ".cursor", "rules", "agents.mdc"))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(content)).To(ContainSubstring("alwaysApply: true"))
	})

	It("points gemini at AGENTS.md while preserving existing settings", func() {
		geminiDir := filepath.Join(tmpDir, ".gemini")
		Expect(os.MkdirAll(geminiDir, 0o755)).To(Succeed())
		existing := `{"theme": "dark"}`
		Expect(os.WriteFile(filepath.Join(geminiDir, "settings.json"), []byte(existing), 0o644)).To(Succeed())

		d, err := provider.Lookup(provider.CategoryAssistant, "gemini")
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Setup(ctx, provider.ProjectConfig{Dir: tmpDir})).To(Succeed())

		content, err := os.ReadFile(filepath.Join(geminiDir, "settings.json"))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(content)).To(ContainSubstring(`"contextFileName": "AGENTS.md"`))
		Expect(string(content)).To(ContainSubstring(`"theme": "dark"`))
	})

	It("writes opencode.json once and keeps user instructions", func() {
		d, err := provider.Lookup(provider.CategoryAssistant, "opencode")
		Expect(err).NotTo(HaveOccurred())

		existing := `{"instructions": ["CUSTOM.md"]}`
		Expect(os.WriteFile(filepath.Join(tmpDir, "opencode.json"), []byte(existing), 0o644)).To(Succeed())

		Expect(d.Setup(ctx, provider.ProjectConfig{Dir: tmpDir})).To(Succeed())

		content, err := os.ReadFile(filepath.Join(tmpDir, "opencode.json"))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(content)).To(ContainSubstring("CUSTOM.md"))
		Expect(string(content)).To(ContainSubstring("$schema"))
	})

	It("does nothing for codex without an openai key", func() {
		d, err := provider.Lookup(provider.CategoryAssistant, "codex")
		Expect(err).NotTo(HaveOccurred())

		Expect(d.Setup(ctx, provider.ProjectConfig{Dir: tmpDir, LLM: "anthropic"})).To(Succeed())

		entries, err := os.ReadDir(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(BeEmpty())
	})

	It("exposes availability probes for every assistant", func() {
		for _, d := range provider.All(provider.CategoryAssistant) {
			Expect(d.Available).NotTo(BeNil(), d.ID)
			Expect(d.Launch).NotTo(BeNil(), d.ID)
		}
	})

	It("reports a missing binary as unavailable with an install hint", func() {
		d, err := provider.Lookup(provider.CategoryAssistant, "kilocode")
		Expect(err).NotTo(HaveOccurred())

		// Empty PATH guarantees the lookup fails regardless of the host.
		origPath := os.Getenv("PATH")
		Expect(os.Setenv("PATH", "")).To(Succeed())
		DeferCleanup(func() { os.Setenv("PATH", origPath) })

		avail := d.Available(ctx)
		Expect(avail.Available).To(BeFalse())
		Expect(avail.Detail).To(ContainSubstring("kilocode"))
		Expect(avail.Detail).To(ContainSubstring("install"))
	})
})
