// Package skillcmder provides the `better-agents skill` CLI commands for
// listing, inspecting, browsing, and installing catalog skills.
package skillcmder

import "github.com/spf13/cobra"

// NewSkillCmd creates the parent skill command.
func NewSkillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skill",
		Short: "List, inspect, and install skills from the catalog",
		Long: `Work with the remote skills catalog. Skills are reusable bundles of
agent guidance and MCP server configuration, listed from a GitHub
repository and cached locally for 24 hours.

Examples:
  better-agents skill list
  better-agents skill list --refresh
  better-agents skill info hubspot
  better-agents skill browse
  better-agents skill add hubspot slack`,
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newInfoCmd())
	cmd.AddCommand(newBrowseCmd())
	cmd.AddCommand(newAddCmd())

	return cmd
}
