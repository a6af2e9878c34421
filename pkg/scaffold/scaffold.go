// Package scaffold orchestrates project generation: provider setup steps,
// the guidance and MCP documents, the project manifest, version control,
// and skill installation.
package scaffold

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/contextware/better-agents/pkg/agentsmd"
	"github.com/contextware/better-agents/pkg/catalog"
	"github.com/contextware/better-agents/pkg/git"
	"github.com/contextware/better-agents/pkg/installer"
	"github.com/contextware/better-agents/pkg/logger"
	"github.com/contextware/better-agents/pkg/mcpconfig"
	"github.com/contextware/better-agents/pkg/provider"
)

// StepFunc runs one named scaffolding step. The new command passes a
// spinner-backed implementation; the default runs the step silently.
type StepFunc func(msg string, fn func() error) error

func runDirect(_ string, fn func() error) error {
	return fn()
}

// Result reports what a scaffolding run produced. Warnings carry non-fatal
// conditions the user should see on their own visual channel.
type Result struct {
	Dir      string
	Warnings []string
}

// Scaffolder generates projects.
type Scaffolder struct {
	installer   *installer.Installer
	step        StepFunc
	checkNode   func(ctx context.Context) error
	skipInstall bool
	log         *slog.Logger
}

// Option configures a Scaffolder.
type Option func(*Scaffolder)

// WithInstaller replaces the skill installer.
func WithInstaller(inst *installer.Installer) Option {
	return func(s *Scaffolder) { s.installer = inst }
}

// WithSteps reports each scaffolding step through step.
func WithSteps(step StepFunc) Option {
	return func(s *Scaffolder) { s.step = step }
}

// WithLogger sets the scaffolder logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Scaffolder) { s.log = log }
}

// WithNodeCheck replaces the Node.js toolchain probe that gates skill
// installation.
func WithNodeCheck(fn func(ctx context.Context) error) Option {
	return func(s *Scaffolder) { s.checkNode = fn }
}

// WithSkipInstall disables skill installation. Selected skills still land
// in the generated documents and manifest.
func WithSkipInstall(skip bool) Option {
	return func(s *Scaffolder) { s.skipInstall = skip }
}

// New creates a Scaffolder.
func New(opts ...Option) *Scaffolder {
	s := &Scaffolder{
		installer: installer.New(),
		step:      runDirect,
		checkNode: installer.CheckNode,
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// providerSet holds the four resolved descriptors of a run.
type providerSet struct {
	language  *provider.Descriptor
	framework *provider.Descriptor
	llm       *provider.Descriptor
	assistant *provider.Descriptor
}

// ordered returns the descriptors in setup order. The LLM runs before the
// assistant so credentials are on disk when assistant setup reads them.
func (p *providerSet) ordered() []*provider.Descriptor {
	return []*provider.Descriptor{p.language, p.framework, p.llm, p.assistant}
}

// resolveProviders validates every identifier against the registry before
// any file is touched.
func resolveProviders(cfg provider.ProjectConfig) (*providerSet, error) {
	language, err := provider.Lookup(provider.CategoryLanguage, cfg.Language)
	if err != nil {
		return nil, err
	}

	framework, err := provider.Lookup(provider.CategoryFramework, cfg.Framework)
	if err != nil {
		return nil, err
	}

	if !provider.FrameworkSupportsLanguage(cfg.Framework, cfg.Language) {
		return nil, fmt.Errorf("framework %q does not support %s (frameworks for %s: %s)",
			cfg.Framework, cfg.Language, cfg.Language,
			strings.Join(provider.FrameworksFor(cfg.Language), ", "))
	}

	llm, err := provider.Lookup(provider.CategoryLLM, cfg.LLM)
	if err != nil {
		return nil, err
	}

	assistant, err := provider.Lookup(provider.CategoryAssistant, cfg.Assistant)
	if err != nil {
		return nil, err
	}

	return &providerSet{
		language:  language,
		framework: framework,
		llm:       llm,
		assistant: assistant,
	}, nil
}

// Run generates the project described by cfg. skillDocs are the catalog
// descriptors of the selected skills that could be resolved; cfg.Skills may
// name more, and every name is still handed to the installer.
//
// Re-running over an existing project is safe: setup steps are idempotent
// and user edits to generated documents survive.
func (s *Scaffolder) Run(ctx context.Context, cfg provider.ProjectConfig, skillDocs []catalog.Skill) (*Result, error) {
	providers, err := resolveProviders(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Name == "" {
		cfg.Name = filepath.Base(cfg.Dir)
	}

	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating project directory: %w", err)
	}

	result := &Result{Dir: cfg.Dir}

	for _, p := range providers.ordered() {
		if p.Setup == nil {
			continue
		}
		if err := s.step("Setting up "+p.DisplayName, func() error { return p.Setup(ctx, cfg) }); err != nil {
			return nil, fmt.Errorf("%s setup: %w", p.DisplayName, err)
		}
	}

	if err := s.step("Writing "+agentsmd.FileName, func() error {
		return s.writeGuidance(cfg, providers, skillDocs)
	}); err != nil {
		return nil, err
	}

	if err := s.step("Writing "+mcpconfig.FileName, func() error {
		return mcpconfig.WriteServers(cfg.Dir, collectServers(cfg, providers, skillDocs))
	}); err != nil {
		return nil, err
	}

	if err := s.step("Writing "+ManifestFileName, func() error {
		return writeManifest(cfg.Dir, cfg)
	}); err != nil {
		return nil, err
	}

	if !git.IsRepo(cfg.Dir) {
		if err := git.Init(ctx, cfg.Dir); err != nil {
			s.log.Debug("git init failed", "dir", cfg.Dir, "error", err)
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("could not initialize a git repository (%v); run git init manually", err))
		}
	}

	if len(cfg.Skills) > 0 && !s.skipInstall {
		result.Warnings = append(result.Warnings, s.installSkills(ctx, cfg)...)
	}

	return result, nil
}

// UpdateDocs rewrites the generated documents of an existing project
// without re-running provider setup, version control, or installation.
// The skill add command uses it after growing the skill set.
func (s *Scaffolder) UpdateDocs(cfg provider.ProjectConfig, skillDocs []catalog.Skill) error {
	providers, err := resolveProviders(cfg)
	if err != nil {
		return err
	}

	if cfg.Name == "" {
		cfg.Name = filepath.Base(cfg.Dir)
	}

	if err := s.writeGuidance(cfg, providers, skillDocs); err != nil {
		return err
	}

	if err := mcpconfig.WriteServers(cfg.Dir, collectServers(cfg, providers, skillDocs)); err != nil {
		return err
	}

	return writeManifest(cfg.Dir, cfg)
}

func (s *Scaffolder) writeGuidance(cfg provider.ProjectConfig, providers *providerSet, skillDocs []catalog.Skill) error {
	gen, err := agentsmd.NewGenerator()
	if err != nil {
		return err
	}

	var sections []provider.KnowledgeSection
	for _, p := range providers.ordered() {
		if p.Knowledge == nil {
			continue
		}
		sections = append(sections, p.Knowledge(cfg)...)
	}

	return gen.WriteToProject(cfg.Dir, agentsmd.Document{
		ProjectName: cfg.Name,
		Goal:        cfg.Goal,
		Sections:    sections,
		Skills:      skillDocs,
	})
}

// collectServers merges provider MCP contributions with the servers the
// selected skills require. Later entries win under the same name, with
// skills last so a skill's pinned server configuration prevails.
func collectServers(cfg provider.ProjectConfig, providers *providerSet, skillDocs []catalog.Skill) map[string]mcpconfig.Server {
	servers := make(map[string]mcpconfig.Server)
	for _, p := range providers.ordered() {
		if p.MCPConfig == nil {
			continue
		}
		for name, srv := range p.MCPConfig(cfg) {
			servers[name] = srv
		}
	}

	for _, sk := range skillDocs {
		for name, srv := range sk.MCPServers {
			servers[name] = srv
		}
	}

	return servers
}

func (s *Scaffolder) installSkills(ctx context.Context, cfg provider.ProjectConfig) []string {
	if err := s.checkNode(ctx); err != nil {
		return []string{fmt.Sprintf("skipping skill installation: %v", err)}
	}

	var failed []string
	err := s.step(fmt.Sprintf("Installing %d skill(s)", len(cfg.Skills)), func() error {
		failed = s.installer.Install(ctx, cfg.Dir, cfg.Skills)
		return nil
	})
	if err != nil {
		return []string{err.Error()}
	}

	if warning := installer.Warning(failed); warning != "" {
		return []string{warning}
	}

	return nil
}
