// Package betteragentscmder
package betteragentscmder

import (
	"github.com/spf13/cobra"

	authcmder "github.com/contextware/better-agents/cmd/betteragents/auth"
	configcmder "github.com/contextware/better-agents/cmd/betteragents/config"
	doctorcmder "github.com/contextware/better-agents/cmd/betteragents/doctor"
	initcmder "github.com/contextware/better-agents/cmd/betteragents/init"
	launchcmder "github.com/contextware/better-agents/cmd/betteragents/launch"
	newcmder "github.com/contextware/better-agents/cmd/betteragents/new"
	providerscmder "github.com/contextware/better-agents/cmd/betteragents/providers"
	skillcmder "github.com/contextware/better-agents/cmd/betteragents/skill"
	versioncmder "github.com/contextware/better-agents/cmd/version"
)

const betterAgentsLongDesc string = `Better Agents scaffolds AI agent projects with best practices built in.

Create a project using:
  better-agents new my-agent     Scaffold a new agent project
  better-agents launch           Hand the terminal to the project's assistant

Work with the skills catalog using:
  better-agents skill list       List available skills
  better-agents skill browse     Browse the catalog interactively
  better-agents skill add        Install skills into an existing project`

const betterAgentsShortDesc string = "Better Agents - AI agent project scaffolding"

func NewBetterAgentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "better-agents",
		Short:        betterAgentsShortDesc,
		Long:         betterAgentsLongDesc,
		SilenceUsage: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .better-agents directory location")

	// Add subcommands
	cmd.AddCommand(newcmder.NewNewCmd())
	cmd.AddCommand(skillcmder.NewSkillCmd())
	cmd.AddCommand(launchcmder.NewLaunchCmd())
	cmd.AddCommand(doctorcmder.NewDoctorCmd())
	cmd.AddCommand(providerscmder.NewProvidersCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(authcmder.NewAuthCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
