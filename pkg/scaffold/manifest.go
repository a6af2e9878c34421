package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/contextware/better-agents/pkg/provider"
)

// ManifestFileName is the project manifest written into every generated
// project. The launch command reads it to recover the assistant choice.
const ManifestFileName = "better-agents.yaml"

const manifestVersion = 1

// Manifest records the choices a project was generated with.
type Manifest struct {
	Version   int       `yaml:"version"`
	Name      string    `yaml:"name"`
	Language  string    `yaml:"language"`
	Framework string    `yaml:"framework"`
	Assistant string    `yaml:"assistant"`
	LLM       string    `yaml:"llm_provider"`
	Goal      string    `yaml:"goal,omitempty"`
	Skills    []string  `yaml:"skills,omitempty"`
	CreatedAt time.Time `yaml:"created_at"`
}

// ReadManifest loads the manifest of a generated project.
func ReadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestFileName)

	data, err := os.ReadFile(path) // #nosec G304 -- path is the caller's project directory.
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s not found in %s; this directory was not generated by better-agents", ManifestFileName, dir)
		}
		return nil, fmt.Errorf("reading %s: %w", ManifestFileName, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ManifestFileName, err)
	}

	return &m, nil
}

// writeManifest writes the manifest, keeping the original creation time
// when one is already on disk.
func writeManifest(dir string, cfg provider.ProjectConfig) error {
	m := Manifest{
		Version:   manifestVersion,
		Name:      cfg.Name,
		Language:  cfg.Language,
		Framework: cfg.Framework,
		Assistant: cfg.Assistant,
		LLM:       cfg.LLM,
		Goal:      cfg.Goal,
		Skills:    cfg.Skills,
		CreatedAt: time.Now().UTC(),
	}

	if existing, err := ReadManifest(dir); err == nil && !existing.CreatedAt.IsZero() {
		m.CreatedAt = existing.CreatedAt
	}

	data, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", ManifestFileName, err)
	}

	if err := os.WriteFile(filepath.Join(dir, ManifestFileName), data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", ManifestFileName, err)
	}

	return nil
}
