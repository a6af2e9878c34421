package newcmder

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/contextware/better-agents/pkg/catalog"
	"github.com/contextware/better-agents/pkg/provider"
)

func TestNewCmd(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "New Command Suite")
}

var _ = Describe("NewNewCmd", func() {
	It("creates a command with the expected use", func() {
		cmd := NewNewCmd()
		Expect(cmd.Use).To(Equal("new [directory]"))
	})

	It("registers identifier flags from the shared registry", func() {
		cmd := NewNewCmd()

		language := cmd.Flags().Lookup("language")
		Expect(language).NotTo(BeNil())
		Expect(language.Shorthand).To(Equal("l"))
		Expect(language.DefValue).To(Equal("typescript"))

		framework := cmd.Flags().Lookup("framework")
		Expect(framework).NotTo(BeNil())
		Expect(framework.Shorthand).To(Equal("f"))

		assistant := cmd.Flags().Lookup("assistant")
		Expect(assistant).NotTo(BeNil())
		Expect(assistant.Shorthand).To(Equal("a"))

		Expect(cmd.Flags().Lookup("llm")).NotTo(BeNil())
	})

	It("registers run flags", func() {
		cmd := NewNewCmd()

		for _, name := range []string{"api-key", "goal", "skills", "refresh-skills", "yes", "skip-install", "launch", "skills-repo", "skills-ref", "skills-path", "cache-ttl"} {
			Expect(cmd.Flags().Lookup(name)).NotTo(BeNil(), "missing flag %s", name)
		}
	})
})

var _ = Describe("validateChoices", func() {
	valid := func() *projectChoices {
		return &projectChoices{
			Dir:       "proj",
			Language:  "typescript",
			Framework: "vercel-ai",
			Assistant: "claude",
			LLM:       "anthropic",
		}
	}

	It("accepts a registered set of identifiers", func() {
		Expect(validateChoices(valid())).To(Succeed())
	})

	It("rejects an unknown language naming the accepted values", func() {
		ch := valid()
		ch.Language = "rust"

		err := validateChoices(ch)
		Expect(err).To(HaveOccurred())

		var unknown *provider.UnknownProviderError
		Expect(err).To(BeAssignableToTypeOf(unknown))
		Expect(err.Error()).To(ContainSubstring("rust"))
		Expect(err.Error()).To(ContainSubstring("typescript"))
	})

	It("rejects a framework that does not support the language", func() {
		ch := valid()
		ch.Language = "go"
		ch.Framework = "crewai"

		err := validateChoices(ch)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("does not support go"))
	})

	It("rejects an empty directory", func() {
		ch := valid()
		ch.Dir = ""
		Expect(validateChoices(ch)).NotTo(Succeed())
	})
})

var _ = Describe("validatePinned", func() {
	It("ignores invalid values that are not pinned", func() {
		ch := &projectChoices{Language: "not-a-language"}
		Expect(validatePinned(ch, wizardSkips{})).To(Succeed())
	})

	It("rejects an invalid pinned language", func() {
		ch := &projectChoices{Language: "not-a-language"}
		Expect(validatePinned(ch, wizardSkips{language: true})).NotTo(Succeed())
	})

	It("checks framework compatibility only when both are pinned", func() {
		ch := &projectChoices{Language: "go", Framework: "crewai"}

		Expect(validatePinned(ch, wizardSkips{framework: true})).To(Succeed())
		Expect(validatePinned(ch, wizardSkips{language: true, framework: true})).NotTo(Succeed())
	})
})

var _ = Describe("matchDocs", func() {
	all := []catalog.Skill{
		{Name: "hubspot", Description: "CRM"},
		{Name: "slack", Description: "Chat"},
	}

	It("returns descriptors for selected names in selection order", func() {
		docs := matchDocs(all, []string{"slack", "hubspot"})
		Expect(docs).To(HaveLen(2))
		Expect(docs[0].Name).To(Equal("slack"))
		Expect(docs[1].Name).To(Equal("hubspot"))
	})

	It("drops names the catalog does not know", func() {
		docs := matchDocs(all, []string{"hubspot", "linear"})
		Expect(docs).To(HaveLen(1))
		Expect(docs[0].Name).To(Equal("hubspot"))
	})

	It("returns nothing for an empty selection", func() {
		Expect(matchDocs(all, nil)).To(BeEmpty())
	})
})

var _ = Describe("projectChoices", func() {
	It("derives the project name from the directory", func() {
		ch := &projectChoices{Dir: filepath.Join("some", "path", "my-agent")}
		Expect(ch.projectConfig().Name).To(Equal("my-agent"))
	})
})

var _ = Describe("running new non-interactively", func() {
	var tmp string

	BeforeEach(func() {
		tmp = GinkgoT().TempDir()
		GinkgoT().Setenv("DO_NOT_TRACK", "1")
	})

	It("scaffolds a full project with --yes", func() {
		dir := filepath.Join(tmp, "support-agent")

		out := &bytes.Buffer{}
		cmd := NewNewCmd()
		cmd.PersistentFlags().Bool("debug", false, "")
		cmd.PersistentFlags().String("config-dir", filepath.Join(tmp, "cfg"), "")
		cmd.SetOut(out)
		cmd.SetArgs([]string{dir, "--yes", "--goal", "Answer support tickets"})

		Expect(cmd.Execute()).To(Succeed())

		for _, name := range []string{"package.json", "AGENTS.md", ".mcp.json", "better-agents.yaml"} {
			_, err := os.Stat(filepath.Join(dir, name))
			Expect(err).NotTo(HaveOccurred(), "missing %s", name)
		}

		content, err := os.ReadFile(filepath.Join(dir, "AGENTS.md"))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(content)).To(ContainSubstring("Answer support tickets"))
	})

	It("fails without a directory argument", func() {
		out := &bytes.Buffer{}
		cmd := NewNewCmd()
		cmd.PersistentFlags().Bool("debug", false, "")
		cmd.PersistentFlags().String("config-dir", filepath.Join(tmp, "cfg"), "")
		cmd.SetOut(out)
		cmd.SetErr(out)
		cmd.SetArgs([]string{"--yes"})

		Expect(cmd.Execute()).NotTo(Succeed())
	})

	It("fails fast on an unknown pinned identifier", func() {
		out := &bytes.Buffer{}
		cmd := NewNewCmd()
		cmd.PersistentFlags().Bool("debug", false, "")
		cmd.PersistentFlags().String("config-dir", filepath.Join(tmp, "cfg"), "")
		cmd.SetOut(out)
		cmd.SetErr(out)
		cmd.SetArgs([]string{filepath.Join(tmp, "p"), "--yes", "--language", "cobol"})

		err := cmd.Execute()
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("cobol"))
	})
})
