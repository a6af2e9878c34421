// Package configcmder provides the config command for managing persistent
// better-agents configuration stored in the .better-agents/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent better-agents configuration.

Configuration is stored as config.toml in the .better-agents/ directory and
provides default values for command flags. CLI flags always take precedence
over config file values.

Keys use dotted notation matching the TOML section structure:
  defaults.language, defaults.framework,
  defaults.assistant, defaults.llm_provider,
  skills.repo, skills.ref, skills.path, skills.ttl_hours,
  analytics.disabled, analytics.endpoint, analytics.anonymous_id

Use subcommands to get, set, or list configuration values:
  better-agents config set <key> <value>    Set a configuration value
  better-agents config get <key>            Get a configuration value
  better-agents config list                 List all configuration values

Examples:
  better-agents config set defaults.language python
  better-agents config set defaults.assistant claude
  better-agents config get skills.repo
  better-agents config list`

const configShortDesc string = "Manage persistent better-agents configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
