// Package newcmder provides the new command for scaffolding agent projects.
package newcmder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/contextware/better-agents/pkg/analytics"
	"github.com/contextware/better-agents/pkg/analytics/nop"
	"github.com/contextware/better-agents/pkg/catalog"
	"github.com/contextware/better-agents/pkg/cliui"
	"github.com/contextware/better-agents/pkg/config"
	"github.com/contextware/better-agents/pkg/credentials"
	"github.com/contextware/better-agents/pkg/dotdir"
	"github.com/contextware/better-agents/pkg/logger"
	"github.com/contextware/better-agents/pkg/provider"
	"github.com/contextware/better-agents/pkg/scaffold"
)

const newLongDesc string = `Scaffold a new AI agent project.

Creates the project directory with language tooling, agent guidance
(AGENTS.md), MCP server configuration (.mcp.json), and a project
manifest (better-agents.yaml). Selected skills from the catalog are
installed via npx and folded into the generated guidance.

Choices resolve from flags, then BETTER_AGENTS_* environment variables,
then .better-agents/config.toml, then built-in defaults. Anything still
undecided is prompted for when stdin is a terminal; --yes skips every
prompt and takes the resolved values as final.

Examples:
  better-agents new my-agent
  better-agents new my-agent --language python --framework crewai
  better-agents new my-agent --yes --skills hubspot,slack
  better-agents new my-agent --launch`

const newShortDesc string = "Scaffold a new AI agent project"

const debugLogName = "debug.log"

type newCommander struct {
	language   string
	framework  string
	assistant  string
	llm        string
	skillsRepo string
	skillsRef  string
	skillsPath string
	cacheTTL   uint

	apiKey        string
	goal          string
	skills        []string
	refreshSkills bool
	yes           bool
	skipInstall   bool
	launch        bool
}

func NewNewCmd() *cobra.Command {
	cmder := &newCommander{}

	cmd := &cobra.Command{
		Use:   "new [directory]",
		Short: newShortDesc,
		Long:  newLongDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd, args)
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagLanguage, &cmder.language)
	config.AddStringFlag(cmd, config.Flags, config.FlagFramework, &cmder.framework)
	config.AddStringFlag(cmd, config.Flags, config.FlagAssistant, &cmder.assistant)
	config.AddStringFlag(cmd, config.Flags, config.FlagLLM, &cmder.llm)
	config.AddStringFlag(cmd, config.Flags, config.FlagSkillsRepo, &cmder.skillsRepo)
	config.AddStringFlag(cmd, config.Flags, config.FlagSkillsRef, &cmder.skillsRef)
	config.AddStringFlag(cmd, config.Flags, config.FlagSkillsPath, &cmder.skillsPath)
	config.AddUintFlag(cmd, config.Flags, config.FlagCacheTTL, &cmder.cacheTTL)

	cmd.Flags().StringVar(&cmder.apiKey, "api-key", "", "API key for the chosen LLM provider")
	cmd.Flags().StringVar(&cmder.goal, "goal", "", "One-line description of what the agent should do")
	cmd.Flags().StringSliceVar(&cmder.skills, "skills", nil, "Skills to install (comma-separated catalog names)")
	cmd.Flags().BoolVar(&cmder.refreshSkills, "refresh-skills", false, "Refetch the skills catalog, ignoring the cache")
	cmd.Flags().BoolVarP(&cmder.yes, "yes", "y", false, "Skip prompts and accept resolved values")
	cmd.Flags().BoolVar(&cmder.skipInstall, "skip-install", false, "Record selected skills without installing them")
	cmd.Flags().BoolVar(&cmder.launch, "launch", false, "Hand the terminal to the coding assistant after scaffolding")

	return cmd
}

func (c *newCommander) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	debug, err := cmd.Flags().GetBool("debug")
	if err != nil {
		return fmt.Errorf("could not get debug flag: %w", err)
	}
	configDir, err := cmd.Flags().GetString("config-dir")
	if err != nil {
		return fmt.Errorf("could not get config-dir flag: %w", err)
	}

	log := c.buildLogger(debug, configDir)

	v, err := config.InitViper(configDir)
	if err != nil {
		return err
	}
	config.BindRegisteredFlags(v, cmd, config.Flags, []string{
		config.FlagLanguage,
		config.FlagFramework,
		config.FlagAssistant,
		config.FlagLLM,
		config.FlagSkillsRepo,
		config.FlagSkillsRef,
		config.FlagSkillsPath,
		config.FlagCacheTTL,
	})

	choices := &projectChoices{
		Language:  v.GetString("defaults.language"),
		Framework: v.GetString("defaults.framework"),
		Assistant: v.GetString("defaults.assistant"),
		LLM:       v.GetString("defaults.llm_provider"),
		Goal:      c.goal,
		APIKey:    c.apiKey,
		Skills:    c.skills,
	}
	if len(args) == 1 {
		choices.Dir = args[0]
	}

	skips := wizardSkips{
		language:  cmd.Flags().Changed(config.Flags[config.FlagLanguage].Name),
		framework: cmd.Flags().Changed(config.Flags[config.FlagFramework].Name),
		assistant: cmd.Flags().Changed(config.Flags[config.FlagAssistant].Name),
		llm:       cmd.Flags().Changed(config.Flags[config.FlagLLM].Name),
		goal:      cmd.Flags().Changed("goal"),
		skills:    cmd.Flags().Changed("skills"),
	}
	if err := validatePinned(choices, skips); err != nil {
		return err
	}

	emitter, anonymousID := c.emitter(configDir, v, log)
	defer emitter.Close()

	svc, err := c.catalogService(v, configDir, log)
	if err != nil {
		return err
	}

	interactive := !c.yes && term.IsTerminal(int(os.Stdin.Fd()))
	if interactive {
		if err := c.runWizard(ctx, choices, skips, svc, configDir); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				fmt.Fprintf(out, "\n  %s Cancelled. No files were written.\n", cliui.DimStyle.Render("●"))
				c.emit(ctx, log, emitter, analytics.NewEvent(analytics.EventTypeRunCancelled, anonymousID, nil))
				return nil
			}
			return err
		}
	} else if choices.Dir == "" {
		return errors.New("directory argument is required when running non-interactively")
	}

	if err := validateChoices(choices); err != nil {
		return err
	}

	cfg := choices.projectConfig()
	if cfg.APIKey == "" {
		cfg.APIKey = c.resolveStoredKey(cfg.LLM, configDir, log)
	}

	// Only touch the catalog when skills are in play.
	var docs []catalog.Skill
	if len(cfg.Skills) > 0 {
		docs = matchDocs(svc.Skills(ctx, c.refreshSkills), cfg.Skills)
	}

	fmt.Fprintf(out, "\n  Creating %s\n\n", cliui.NameStyle.Render(cfg.Name))

	start := time.Now()
	sc := scaffold.New(
		scaffold.WithLogger(log),
		scaffold.WithSkipInstall(c.skipInstall),
		scaffold.WithSteps(func(msg string, fn func() error) error {
			return cliui.Step(out, msg, fn)
		}),
	)

	result, err := sc.Run(ctx, cfg, docs)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "  %s %s\n", cliui.WarnMark, cliui.WarnStyle.Render(w))
	}

	c.printSummary(out, cfg, elapsed)

	c.emit(ctx, log, emitter, analytics.NewEvent(analytics.EventTypeRunCompleted, anonymousID, map[string]any{
		"language":    cfg.Language,
		"framework":   cfg.Framework,
		"assistant":   cfg.Assistant,
		"llm":         cfg.LLM,
		"skills":      len(cfg.Skills),
		"duration_ms": elapsed.Milliseconds(),
		"launched":    c.launch,
	}))

	if c.launch {
		return c.launchAssistant(ctx, log, emitter, anonymousID, cfg)
	}

	return nil
}

// buildLogger returns the run logger: pretty output on stderr, plus a JSON
// copy in .better-agents/debug.log when --debug is set.
func (c *newCommander) buildLogger(debug bool, configDir string) *slog.Logger {
	pretty := logger.New(
		logger.WithDebug(debug),
		logger.WithPretty(true),
		logger.WithWriter(os.Stderr),
	)
	if !debug {
		return pretty
	}

	target, err := dotdir.NewManager().Target(configDir)
	if err != nil {
		return pretty
	}
	f, err := os.OpenFile(filepath.Join(target, debugLogName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return pretty
	}

	return logger.Multi(pretty, logger.New(
		logger.WithDebug(true),
		logger.WithJSON(true),
		logger.WithWriter(f),
	))
}

// emitter builds the analytics emitter for this run, minting and persisting
// the anonymous installation id on first use.
func (c *newCommander) emitter(configDir string, v *viper.Viper, log *slog.Logger) (analytics.Emitter, string) {
	if analytics.Disabled(v.GetBool("analytics.disabled")) {
		return nop.NewEmitter(), ""
	}

	anonymousID := v.GetString("analytics.anonymous_id")
	if anonymousID == "" {
		anonymousID = analytics.NewAnonymousID()
		if err := persistAnonymousID(configDir, anonymousID); err != nil {
			log.Debug("could not persist anonymous id", "error", err)
		}
	}

	return analytics.NewHTTPEmitter(v.GetString("analytics.endpoint")), anonymousID
}

func persistAnonymousID(configDir, id string) error {
	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return err
	}

	cfg, err := cfger.LoadConfig()
	if err != nil {
		return err
	}
	if cfg.Analytics.AnonymousID != "" {
		return nil
	}

	cfg.Analytics.AnonymousID = id
	return cfger.SaveConfig(cfg)
}

func (c *newCommander) emit(ctx context.Context, log *slog.Logger, emitter analytics.Emitter, event *analytics.Event) {
	if err := emitter.Emit(ctx, event); err != nil {
		log.Debug("analytics emit failed", "event", event.EventType, "error", err)
	}
}

func (c *newCommander) catalogService(v *viper.Viper, configDir string, log *slog.Logger) (*catalog.Service, error) {
	target, err := dotdir.NewManager().Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving cache dir: %w", err)
	}

	source := catalog.NewClient(
		v.GetString("skills.repo"),
		v.GetString("skills.ref"),
		v.GetString("skills.path"),
	)
	store := catalog.NewFileStore(target, log)
	ttl := time.Duration(v.GetUint("skills.ttl_hours")) * time.Hour

	return catalog.NewService(source, store, catalog.WithTTL(ttl), catalog.WithLogger(log)), nil
}

// resolveStoredKey falls back to the credentials store (env var first, then
// credentials.toml) when no key arrived via flag or prompt.
func (c *newCommander) resolveStoredKey(llm, configDir string, log *slog.Logger) string {
	mgr, err := credentials.NewManager(configDir)
	if err != nil {
		log.Debug("could not open credentials store", "error", err)
		return ""
	}

	key, source, err := mgr.Resolve(llm)
	if err != nil {
		log.Debug("could not resolve credentials", "provider", llm, "error", err)
		return ""
	}
	if key != "" {
		log.Debug("resolved API key", "provider", llm, "source", source)
	}

	return key
}

// validatePinned rejects invalid flag-supplied identifiers before any
// prompt renders or network call runs. Values that came from config or
// environment are left for the wizard to correct.
func validatePinned(ch *projectChoices, skips wizardSkips) error {
	if skips.language {
		if _, err := provider.Lookup(provider.CategoryLanguage, ch.Language); err != nil {
			return err
		}
	}
	if skips.framework {
		if _, err := provider.Lookup(provider.CategoryFramework, ch.Framework); err != nil {
			return err
		}
	}
	if skips.language && skips.framework && !provider.FrameworkSupportsLanguage(ch.Framework, ch.Language) {
		return fmt.Errorf("framework %q does not support %s (frameworks for %s: %s)",
			ch.Framework, ch.Language, ch.Language,
			strings.Join(provider.FrameworksFor(ch.Language), ", "))
	}
	if skips.assistant {
		if _, err := provider.Lookup(provider.CategoryAssistant, ch.Assistant); err != nil {
			return err
		}
	}
	if skips.llm {
		if _, err := provider.Lookup(provider.CategoryLLM, ch.LLM); err != nil {
			return err
		}
	}

	return nil
}

// validateChoices checks every identifier against the provider registry
// before any file is written.
func validateChoices(ch *projectChoices) error {
	if ch.Dir == "" {
		return errors.New("project directory cannot be empty")
	}

	if _, err := provider.Lookup(provider.CategoryLanguage, ch.Language); err != nil {
		return err
	}
	if _, err := provider.Lookup(provider.CategoryFramework, ch.Framework); err != nil {
		return err
	}
	if !provider.FrameworkSupportsLanguage(ch.Framework, ch.Language) {
		return fmt.Errorf("framework %q does not support %s (frameworks for %s: %s)",
			ch.Framework, ch.Language, ch.Language,
			strings.Join(provider.FrameworksFor(ch.Language), ", "))
	}
	if _, err := provider.Lookup(provider.CategoryAssistant, ch.Assistant); err != nil {
		return err
	}
	if _, err := provider.Lookup(provider.CategoryLLM, ch.LLM); err != nil {
		return err
	}

	return nil
}

// matchDocs returns the catalog descriptors for the selected names. Names
// absent from the catalog are still installed; they just carry no doc.
func matchDocs(all []catalog.Skill, names []string) []catalog.Skill {
	if len(names) == 0 {
		return nil
	}

	byName := make(map[string]catalog.Skill, len(all))
	for _, sk := range all {
		byName[sk.Name] = sk
	}

	var docs []catalog.Skill
	for _, name := range names {
		if sk, ok := byName[name]; ok {
			docs = append(docs, sk)
		}
	}

	return docs
}

func (c *newCommander) printSummary(out io.Writer, cfg provider.ProjectConfig, elapsed time.Duration) {
	fmt.Fprintf(out, "\n  %s Project ready in %s %s\n\n",
		cliui.SuccessMark,
		cliui.NameStyle.Render(cfg.Dir),
		cliui.StepStyle.Render(fmt.Sprintf("(%s)", cliui.FormatDuration(elapsed))),
	)

	fmt.Fprintf(out, "  %s %s\n", cliui.KeyStyle.Render("Language: "), cliui.ValueStyle.Render(cfg.Language))
	fmt.Fprintf(out, "  %s %s\n", cliui.KeyStyle.Render("Framework:"), cliui.ValueStyle.Render(cfg.Framework))
	fmt.Fprintf(out, "  %s %s\n", cliui.KeyStyle.Render("Assistant:"), cliui.ValueStyle.Render(cfg.Assistant))
	fmt.Fprintf(out, "  %s %s\n", cliui.KeyStyle.Render("LLM:      "), cliui.ValueStyle.Render(cfg.LLM))
	if len(cfg.Skills) > 0 {
		fmt.Fprintf(out, "  %s %s\n", cliui.KeyStyle.Render("Skills:   "), cliui.ValueStyle.Render(strings.Join(cfg.Skills, ", ")))
	}

	if !c.launch {
		fmt.Fprintf(out, "\n  Next steps:\n")
		fmt.Fprintf(out, "    cd %s\n", cfg.Dir)
		fmt.Fprintf(out, "    better-agents launch\n\n")
	}
}

func (c *newCommander) launchAssistant(ctx context.Context, log *slog.Logger, emitter analytics.Emitter, anonymousID string, cfg provider.ProjectConfig) error {
	assistant, err := provider.Lookup(provider.CategoryAssistant, cfg.Assistant)
	if err != nil {
		return err
	}
	if assistant.Launch == nil {
		return fmt.Errorf("assistant %q does not support launching", cfg.Assistant)
	}

	c.emit(ctx, log, emitter, analytics.NewEvent(analytics.EventTypeLaunched, anonymousID, map[string]any{
		"assistant": cfg.Assistant,
		"from":      "new",
	}))
	// Flush before the process image may be replaced.
	emitter.Close()

	if err := assistant.Launch(ctx, cfg); err != nil {
		return fmt.Errorf("launching %s: %w\n\nStart it manually inside %s", assistant.DisplayName, err, cfg.Dir)
	}

	return nil
}
