package newcmder

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/contextware/better-agents/pkg/catalog"
	"github.com/contextware/better-agents/pkg/credentials"
	"github.com/contextware/better-agents/pkg/provider"
	"github.com/contextware/better-agents/pkg/utils"
)

// projectChoices accumulates the run's choices while flags, config, and
// prompts are merged. It becomes an immutable ProjectConfig once complete.
type projectChoices struct {
	Dir       string
	Language  string
	Framework string
	Assistant string
	LLM       string
	APIKey    string
	Goal      string
	Skills    []string
}

func (ch *projectChoices) projectConfig() provider.ProjectConfig {
	return provider.ProjectConfig{
		Name:      filepath.Base(ch.Dir),
		Dir:       ch.Dir,
		Language:  ch.Language,
		Framework: ch.Framework,
		Assistant: ch.Assistant,
		LLM:       ch.LLM,
		APIKey:    ch.APIKey,
		Goal:      ch.Goal,
		Skills:    ch.Skills,
	}
}

// wizardSkips marks choices that arrived explicitly via flag and must not
// be prompted for again. Values that merely came from config or environment
// still prompt, preselected.
type wizardSkips struct {
	language  bool
	framework bool
	assistant bool
	llm       bool
	goal      bool
	skills    bool
}

// runWizard prompts for everything not pinned by a flag. Prompt order is
// name, identifiers, goal, API key, then skill selection. A user abort
// surfaces as huh.ErrUserAborted.
func (c *newCommander) runWizard(ctx context.Context, ch *projectChoices, skips wizardSkips, svc *catalog.Service, configDir string) error {
	if err := c.runIdentityForm(ctx, ch, skips); err != nil {
		return err
	}

	if err := c.runKeyPrompt(ctx, ch, configDir); err != nil {
		return err
	}

	if !skips.skills {
		if err := c.runSkillPicker(ctx, ch, svc); err != nil {
			return err
		}
	}

	return nil
}

func (c *newCommander) runIdentityForm(ctx context.Context, ch *projectChoices, skips wizardSkips) error {
	var name string

	var fields []huh.Field
	if ch.Dir == "" {
		fields = append(fields, huh.NewInput().
			Title("Project name").
			Placeholder("my-agent").
			Value(&name).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("project name is required")
				}
				return nil
			}))
	}

	if !skips.language {
		fields = append(fields, huh.NewSelect[string]().
			Title("Language").
			Options(descriptorOptions(provider.CategoryLanguage)...).
			Value(&ch.Language))
	}

	if !skips.framework {
		fields = append(fields, huh.NewSelect[string]().
			Title("Agent framework").
			OptionsFunc(func() []huh.Option[string] {
				return frameworkOptions(ch.Language)
			}, &ch.Language).
			Value(&ch.Framework))
	}

	if !skips.assistant {
		fields = append(fields, huh.NewSelect[string]().
			Title("Coding assistant").
			Options(descriptorOptions(provider.CategoryAssistant)...).
			Value(&ch.Assistant))
	}

	if !skips.llm {
		fields = append(fields, huh.NewSelect[string]().
			Title("LLM provider").
			Options(descriptorOptions(provider.CategoryLLM)...).
			Value(&ch.LLM))
	}

	if !skips.goal {
		fields = append(fields, huh.NewInput().
			Title("What should this agent do?").
			Placeholder("Answer support tickets using our product docs").
			Value(&ch.Goal))
	}

	if len(fields) == 0 {
		return nil
	}

	form := huh.NewForm(huh.NewGroup(fields...))
	if err := form.RunWithContext(ctx); err != nil {
		return err
	}

	if ch.Dir == "" {
		ch.Dir = utils.Slug(name)
	}

	return nil
}

// runKeyPrompt asks for an API key when the chosen LLM needs one and none
// was resolvable from the flag, environment, or credentials store. The
// prompt is skippable: an empty answer scaffolds without a key.
func (c *newCommander) runKeyPrompt(ctx context.Context, ch *projectChoices, configDir string) error {
	if ch.APIKey != "" {
		return nil
	}

	envVar := credentials.EnvVarForProvider(ch.LLM)
	if envVar == "" {
		return nil
	}

	if mgr, err := credentials.NewManager(configDir); err == nil {
		if key, _, err := mgr.Resolve(ch.LLM); err == nil && key != "" {
			ch.APIKey = key
			return nil
		}
	}

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title(fmt.Sprintf("API key for %s", ch.LLM)).
			Description(fmt.Sprintf("Written to .env as %s. Leave empty to skip.", envVar)).
			EchoMode(huh.EchoModePassword).
			Value(&ch.APIKey),
	))

	return form.RunWithContext(ctx)
}

// runSkillPicker offers the catalog as a multi-select. Choosing skills
// interactively also records them in the goal text so the generated
// guidance mentions them.
func (c *newCommander) runSkillPicker(ctx context.Context, ch *projectChoices, svc *catalog.Service) error {
	skills := svc.Skills(ctx, c.refreshSkills)
	if len(skills) == 0 {
		return nil
	}

	options := make([]huh.Option[string], 0, len(skills))
	for _, sk := range skills {
		label := sk.Name
		if sk.Description != "" {
			label = fmt.Sprintf("%s (%s)", sk.Name, utils.Truncate(sk.Description, 48))
		}
		options = append(options, huh.NewOption(label, sk.Name))
	}

	var selected []string
	form := huh.NewForm(huh.NewGroup(
		huh.NewMultiSelect[string]().
			Title("Skills to install").
			Description("Space toggles, enter confirms. Skip with enter.").
			Options(options...).
			Value(&selected),
	))
	if err := form.RunWithContext(ctx); err != nil {
		return err
	}

	if len(selected) == 0 {
		return nil
	}

	ch.Skills = append(ch.Skills, selected...)

	note := "This project uses the following skills: " + strings.Join(selected, ", ") + "."
	if ch.Goal == "" {
		ch.Goal = note
	} else {
		ch.Goal = note + "\n\n" + ch.Goal
	}

	return nil
}

func descriptorOptions(category provider.Category) []huh.Option[string] {
	descriptors := provider.All(category)
	options := make([]huh.Option[string], 0, len(descriptors))
	for _, d := range descriptors {
		options = append(options, huh.NewOption(d.DisplayName, d.ID))
	}

	return options
}

func frameworkOptions(language string) []huh.Option[string] {
	ids := provider.FrameworksFor(language)
	options := make([]huh.Option[string], 0, len(ids))
	for _, id := range ids {
		label := id
		if d, err := provider.Lookup(provider.CategoryFramework, id); err == nil {
			label = d.DisplayName
		}
		options = append(options, huh.NewOption(label, id))
	}

	return options
}
