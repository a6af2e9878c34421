package catalog

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"

	"github.com/contextware/better-agents/pkg/mcpconfig"
)

// docMeta is the recognized frontmatter of a SKILL.md document.
type docMeta struct {
	Name              string                      `yaml:"name"`
	Description       string                      `yaml:"description"`
	Created           string                      `yaml:"created"`
	RequiredMCPServer string                      `yaml:"requiredMCPServer"`
	Authentication    string                      `yaml:"authentication"`
	MCPServers        map[string]mcpconfig.Server `yaml:"mcpServers"`
	DependsOn         []string                    `yaml:"dependsOn"`
	Tags              []string                    `yaml:"tags"`
}

// ParseSkillDoc builds a Skill from a SKILL.md document. Extraction is
// tolerant: unreadable frontmatter or missing fields leave the affected
// fields empty instead of failing the whole skill.
//
// The description comes from the frontmatter when present, then from the
// first line of a Purpose section, then a Summary section, and finally from
// the entry name with separators spelled out.
func ParseSkillDoc(name, doc string) Skill {
	meta, body := splitFrontmatter(doc)

	var fm docMeta
	if meta != "" {
		_ = yaml.Unmarshal([]byte(meta), &fm)
	}

	sk := Skill{
		Name:              name,
		Description:       fm.Description,
		Created:           fm.Created,
		RequiredMCPServer: fm.RequiredMCPServer,
		Authentication:    fm.Authentication,
		MCPServers:        fm.MCPServers,
		DependsOn:         fm.DependsOn,
		Tags:              fm.Tags,
	}
	if fm.Name != "" {
		sk.Name = fm.Name
	}

	if sk.Description == "" {
		sk.Description = describeBody(body)
	}
	if sk.Description == "" {
		sk.Description = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	}

	return sk
}

// splitFrontmatter separates a leading YAML frontmatter block from the
// document body. Documents without frontmatter yield meta == "".
func splitFrontmatter(doc string) (meta, body string) {
	if !strings.HasPrefix(doc, "---\n") {
		return "", doc
	}

	meta, body, ok := strings.Cut(doc[4:], "\n---\n")
	if !ok {
		// Unterminated frontmatter, treat the whole document as body.
		return "", doc
	}

	return meta, body
}

// describeBody finds a description line in the document body: the lead line
// of a Purpose section, else the lead line of a Summary section.
func describeBody(body string) string {
	src := []byte(body)
	root := goldmark.DefaultParser().Parse(text.NewReader(src))

	if lead := sectionLead(root, src, "purpose"); lead != "" {
		return lead
	}

	return sectionLead(root, src, "summary")
}

// sectionLead returns the first non-empty line under the first heading
// titled title (any level, case-insensitive), or "" when no such section
// exists or it is empty.
func sectionLead(root ast.Node, src []byte, title string) string {
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok || !strings.EqualFold(strings.TrimSpace(headingText(h, src)), title) {
			continue
		}

		for sib := h.NextSibling(); sib != nil; sib = sib.NextSibling() {
			if _, next := sib.(*ast.Heading); next {
				break
			}
			if line := firstLine(sib, src); line != "" {
				return line
			}
		}

		break
	}

	return ""
}

func headingText(h *ast.Heading, src []byte) string {
	var b strings.Builder
	var walk func(n ast.Node)
	walk = func(n ast.Node) {
		if t, ok := n.(*ast.Text); ok {
			b.Write(t.Segment.Value(src))
			return
		}
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			walk(c)
		}
	}
	walk(h)

	return b.String()
}

// firstLine returns the first non-empty source line covered by a block
// node, descending into containers such as lists and block quotes.
func firstLine(n ast.Node, src []byte) string {
	if n.Type() != ast.TypeBlock {
		return ""
	}

	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		if line := strings.TrimSpace(string(seg.Value(src))); line != "" {
			return line
		}
	}

	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if line := firstLine(c, src); line != "" {
			return line
		}
	}

	return ""
}
