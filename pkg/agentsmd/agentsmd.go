// Package agentsmd generates the AGENTS.md guidance document of a
// scaffolded project and keeps user-written sections intact across
// regenerations.
package agentsmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/contextware/better-agents/pkg/catalog"
	"github.com/contextware/better-agents/pkg/provider"
)

// FileName is the guidance document written at the project root.
const FileName = "AGENTS.md"

const (
	generatedStartMarker = "<!-- better-agents:generated:start -->"
	generatedEndMarker   = "<!-- better-agents:generated:end -->"
)

// Document is the assembled input for one AGENTS.md rendering. Sections
// arrive in presentation order; the generator does not reorder them.
type Document struct {
	ProjectName string
	Goal        string
	Sections    []provider.KnowledgeSection
	Skills      []catalog.Skill
}

// Generator renders AGENTS.md content.
type Generator struct {
	tmpl *template.Template
}

// NewGenerator creates an AGENTS.md generator.
func NewGenerator() (*Generator, error) {
	tmpl, err := template.New("agentsmd").Parse(agentsMDTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing AGENTS.md template: %w", err)
	}

	return &Generator{tmpl: tmpl}, nil
}

// Generate renders the generated block for doc, markers included.
func (g *Generator) Generate(doc Document) (string, error) {
	var buf bytes.Buffer
	if err := g.tmpl.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("rendering AGENTS.md: %w", err)
	}

	return buf.String(), nil
}

// WriteToProject writes dir/AGENTS.md. Content outside the generated
// markers survives: an existing custom tail is carried over, and a
// hand-written file without markers is kept in full below the generated
// block.
func (g *Generator) WriteToProject(dir string, doc Document) error {
	content, err := g.Generate(doc)
	if err != nil {
		return err
	}

	path := filepath.Join(dir, FileName)

	existing, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return os.WriteFile(path, []byte(content+defaultCustomSection), 0o644)
		}
		return fmt.Errorf("reading existing %s: %w", FileName, err)
	}

	custom := customContent(string(existing))
	if strings.TrimSpace(custom) == "" {
		custom = defaultCustomSection
	}

	return os.WriteFile(path, []byte(content+custom), 0o644)
}

// customContent returns everything after the generated block. A document
// without markers is entirely user-written and returned whole.
func customContent(content string) string {
	_, after, ok := strings.Cut(content, generatedEndMarker)
	if !ok {
		return "\n\n" + strings.TrimRight(content, "\n") + "\n"
	}

	return after
}
