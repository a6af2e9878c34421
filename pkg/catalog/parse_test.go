package catalog_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/contextware/better-agents/pkg/catalog"
)

var _ = Describe("ParseSkillDoc", func() {
	It("reads all recognized frontmatter fields", func() {
		doc := `---
name: hubspot
description: Connect HubSpot CRM data to your agent.
created: 2025-11-02
requiredMCPServer: hubspot
authentication: Requires a HubSpot private app token.
mcpServers:
  hubspot:
    command: npx
    args:
      - -y
      - "@hubspot/mcp-server"
    env:
      HUBSPOT_TOKEN: ""
dependsOn:
  - crm-basics
tags:
  - crm
  - sales
---

# HubSpot

Body text.
`
		sk := catalog.ParseSkillDoc("hubspot", doc)

		Expect(sk.Name).To(Equal("hubspot"))
		Expect(sk.Description).To(Equal("Connect HubSpot CRM data to your agent."))
		Expect(sk.Created).To(Equal("2025-11-02"))
		Expect(sk.RequiredMCPServer).To(Equal("hubspot"))
		Expect(sk.Authentication).To(ContainSubstring("private app token"))
		Expect(sk.DependsOn).To(Equal([]string{"crm-basics"}))
		Expect(sk.Tags).To(Equal([]string{"crm", "sales"}))

		Expect(sk.MCPServers).To(HaveKey("hubspot"))
		srv := sk.MCPServers["hubspot"]
		Expect(srv.Command).To(Equal("npx"))
		Expect(srv.Args).To(Equal([]string{"-y", "@hubspot/mcp-server"}))
		Expect(srv.Env).To(HaveKey("HUBSPOT_TOKEN"))
	})

	It("falls back to the first line of the Purpose section", func() {
		doc := `# Slack

## Purpose

Send and read Slack messages from your agent.
More detail on a second line.
`
		sk := catalog.ParseSkillDoc("slack", doc)
		Expect(sk.Description).To(Equal("Send and read Slack messages from your agent."))
	})

	It("matches section headings case-insensitively at any level", func() {
		doc := "### PURPOSE\n\nDoes the thing.\n"
		Expect(catalog.ParseSkillDoc("x", doc).Description).To(Equal("Does the thing."))
	})

	It("falls back to the Summary section when there is no Purpose", func() {
		doc := `# Asana

## Summary

Manage Asana tasks and projects.
`
		sk := catalog.ParseSkillDoc("asana", doc)
		Expect(sk.Description).To(Equal("Manage Asana tasks and projects."))
	})

	It("reads a section lead out of a list", func() {
		doc := "## Purpose\n\n- Track linear issues.\n- Close them too.\n"
		Expect(catalog.ParseSkillDoc("linear", doc).Description).To(Equal("Track linear issues."))
	})

	It("derives the description from the name as a last resort", func() {
		sk := catalog.ParseSkillDoc("google_drive-sync", "# No useful sections\n")
		Expect(sk.Description).To(Equal("google drive sync"))
	})

	It("does not read a lead line from a later section", func() {
		doc := "## Purpose\n\n## Usage\n\nRun the installer.\n"
		sk := catalog.ParseSkillDoc("gap", doc)
		Expect(sk.Description).To(Equal("gap"))
	})

	It("tolerates malformed frontmatter", func() {
		doc := "---\n::: not yaml :::\n---\n\n## Purpose\n\nStill parsed.\n"
		sk := catalog.ParseSkillDoc("tolerant", doc)
		Expect(sk.Name).To(Equal("tolerant"))
		Expect(sk.Description).To(Equal("Still parsed."))
	})

	It("treats unterminated frontmatter as body", func() {
		doc := "---\nname: broken\n\n## Purpose\n\nNever closed above.\n"
		sk := catalog.ParseSkillDoc("broken", doc)
		Expect(sk.Name).To(Equal("broken"))
		Expect(sk.Description).To(Equal("Never closed above."))
	})

	It("prefers the frontmatter name over the entry name", func() {
		doc := "---\nname: HubSpot CRM\n---\n\n## Purpose\n\nCRM access.\n"
		sk := catalog.ParseSkillDoc("hubspot", doc)
		Expect(sk.Name).To(Equal("HubSpot CRM"))
	})
})
