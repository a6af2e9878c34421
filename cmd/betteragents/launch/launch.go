// Package launchcmder provides the launch command for handing the terminal
// to a project's coding assistant.
package launchcmder

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/contextware/better-agents/pkg/analytics"
	"github.com/contextware/better-agents/pkg/analytics/nop"
	"github.com/contextware/better-agents/pkg/cliui"
	"github.com/contextware/better-agents/pkg/config"
	"github.com/contextware/better-agents/pkg/logger"
	"github.com/contextware/better-agents/pkg/provider"
	"github.com/contextware/better-agents/pkg/scaffold"
)

const (
	launchLongDesc = `Launch the project's coding assistant in this terminal.

Reads the assistant from better-agents.yaml, or takes one explicitly.
The assistant takes over the terminal session; better-agents gets out
of the way.

Examples:
  better-agents launch
  better-agents launch claude
  better-agents launch opencode --dir ./support-agent
`
	launchShortDesc = "Hand the terminal to a coding assistant"
)

type launchCommander struct {
	dir string
}

func NewLaunchCmd() *cobra.Command {
	cmder := &launchCommander{}

	cmd := &cobra.Command{
		Use:   "launch [assistant]",
		Short: launchShortDesc,
		Long:  launchLongDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			assistant := ""
			if len(args) == 1 {
				assistant = strings.ToLower(strings.TrimSpace(args[0]))
			}
			return cmder.run(cmd, assistant)
		},
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return provider.IDs(provider.CategoryAssistant), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
	}

	cmd.Flags().StringVar(&cmder.dir, "dir", ".", "Project directory to launch in")

	return cmd
}

func (c *launchCommander) run(cmd *cobra.Command, assistantID string) error {
	ctx := cmd.Context()

	debug, err := cmd.Flags().GetBool("debug")
	if err != nil {
		return fmt.Errorf("could not get debug flag: %w", err)
	}
	configDir, err := cmd.Flags().GetString("config-dir")
	if err != nil {
		return fmt.Errorf("could not get config-dir flag: %w", err)
	}

	log := logger.New(
		logger.WithDebug(debug),
		logger.WithPretty(true),
		logger.WithWriter(os.Stderr),
	)

	cfg := provider.ProjectConfig{Dir: c.dir, Assistant: assistantID}

	manifest, err := scaffold.ReadManifest(c.dir)
	switch {
	case err == nil:
		cfg.Name = manifest.Name
		cfg.Language = manifest.Language
		cfg.Framework = manifest.Framework
		cfg.LLM = manifest.LLM
		cfg.Goal = manifest.Goal
		cfg.Skills = manifest.Skills
		if cfg.Assistant == "" {
			cfg.Assistant = manifest.Assistant
		}
	case assistantID == "":
		// Without a manifest we have no assistant to fall back on.
		return fmt.Errorf("%w\n\nPass one explicitly: better-agents launch <assistant>", err)
	default:
		log.Debug("no manifest found, launching with bare config", "dir", c.dir, "error", err)
	}

	assistant, err := provider.Lookup(provider.CategoryAssistant, cfg.Assistant)
	if err != nil {
		return err
	}
	if assistant.Launch == nil {
		return fmt.Errorf("assistant %q does not support launching", cfg.Assistant)
	}

	emitter, anonymousID := launchEmitter(configDir)
	if err := emitter.Emit(ctx, analytics.NewEvent(analytics.EventTypeLaunched, anonymousID, map[string]any{
		"assistant": cfg.Assistant,
		"from":      "launch",
	})); err != nil {
		log.Debug("analytics emit failed", "error", err)
	}
	// Flush before the process image may be replaced.
	emitter.Close()

	fmt.Fprintf(cmd.OutOrStdout(), "  %s Launching %s in %s\n",
		cliui.SuccessMark,
		cliui.NameStyle.Render(assistant.DisplayName),
		cliui.ValueStyle.Render(c.dir),
	)

	if err := assistant.Launch(ctx, cfg); err != nil {
		return fmt.Errorf("launching %s: %w\n\nStart it manually inside %s", assistant.DisplayName, err, c.dir)
	}

	return nil
}

// launchEmitter builds the analytics emitter from stored configuration.
func launchEmitter(configDir string) (analytics.Emitter, string) {
	v, err := config.InitViper(configDir)
	if err != nil {
		return nop.NewEmitter(), ""
	}
	if analytics.Disabled(v.GetBool("analytics.disabled")) {
		return nop.NewEmitter(), ""
	}

	anonymousID := v.GetString("analytics.anonymous_id")
	if anonymousID == "" {
		anonymousID = analytics.NewAnonymousID()
	}

	return analytics.NewHTTPEmitter(v.GetString("analytics.endpoint")), anonymousID
}
