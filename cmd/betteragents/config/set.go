package configcmder

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/contextware/better-agents/pkg/cliui"
	"github.com/contextware/better-agents/pkg/config"
	"github.com/contextware/better-agents/pkg/provider"
)

const setLongDesc string = `Set a configuration value.

Sets the given key to the provided value in the config.toml file
stored in the .better-agents/ directory. Keys use dotted notation
matching the TOML section structure.

Valid keys:
  defaults.language, defaults.framework,
  defaults.assistant, defaults.llm_provider,
  skills.repo, skills.ref, skills.path, skills.ttl_hours,
  analytics.disabled, analytics.endpoint, analytics.anonymous_id

Examples:
  better-agents config set defaults.language python
  better-agents config set defaults.framework crewai
  better-agents config set skills.ttl_hours 48`

const setShortDesc string = "Set a configuration value"

// defaultsCategories maps the defaults.* keys to the registry category their
// value must come from. Values for other keys are free-form.
var defaultsCategories = map[string]provider.Category{
	"defaults.language":     provider.CategoryLanguage,
	"defaults.framework":    provider.CategoryFramework,
	"defaults.assistant":    provider.CategoryAssistant,
	"defaults.llm_provider": provider.CategoryLLM,
}

func newSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: setShortDesc,
		Long:  setLongDesc,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runSet(args[0], args[1], configDir)
		},
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return config.ValidConfigKeys(), cobra.ShellCompDirectiveNoFileComp
			}
			if len(args) == 1 {
				if category, ok := defaultsCategories[args[0]]; ok {
					return provider.IDs(category), cobra.ShellCompDirectiveNoFileComp
				}
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
	}

	return cmd
}

func runSet(key, value, configDir string) error {
	if !config.IsValidConfigKey(key) {
		return fmt.Errorf("unknown config key: %q\n\nValid keys: %s",
			key, strings.Join(config.ValidConfigKeys(), ", "))
	}

	// Catch registry typos at set time instead of at the next scaffold.
	if category, ok := defaultsCategories[key]; ok {
		if _, err := provider.Lookup(category, value); err != nil {
			return err
		}
	}

	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	target := cfger.GetTarget()
	if target != "" {
		fmt.Printf("\n  %s %s\n\n",
			cliui.KeyStyle.Render("Config file:"),
			cliui.DimStyle.Render(target),
		)
	} else {
		fmt.Printf("\n  %s\n\n", cliui.DimStyle.Render("No config file found. Using defaults."))
	}

	err = cfger.SetConfigValue(key, value)
	if err != nil {
		return err
	}

	fmt.Printf("  %s Set %s = %s\n\n",
		cliui.SuccessMark,
		cliui.KeyStyle.Render(key),
		cliui.ValueStyle.Render(value),
	)
	return nil
}
