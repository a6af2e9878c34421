package skillcmder

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/contextware/better-agents/pkg/catalog"
	"github.com/contextware/better-agents/pkg/cliui"
	"github.com/contextware/better-agents/pkg/mcpconfig"
)

type infoCommander struct {
	refresh bool
}

func newInfoCmd() *cobra.Command {
	cmder := &infoCommander{}

	cmd := &cobra.Command{
		Use:   "info <name>",
		Short: "Show the details of one catalog skill",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd, args[0])
		},
		ValidArgsFunction: func(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return cachedSkillNames(cmd), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
	}

	cmd.Flags().BoolVar(&cmder.refresh, "refresh", false, "Refetch the catalog, ignoring the cache")

	return cmd
}

func (c *infoCommander) run(cmd *cobra.Command, name string) error {
	svc, _, err := catalogService(cmd)
	if err != nil {
		return err
	}

	if c.refresh {
		// Warm the cache with a forced fetch so Find sees fresh data.
		svc.Skills(cmd.Context(), true)
	}

	sk, ok := svc.Find(cmd.Context(), name)
	if !ok {
		return fmt.Errorf("skill %q not found in the catalog\n\nList available skills with: better-agents skill list", name)
	}

	rendered, err := cliui.RenderMarkdown(skillMarkdown(sk))
	if err != nil {
		// Fall back to the raw document when the renderer cannot run.
		fmt.Fprintln(cmd.OutOrStdout(), skillMarkdown(sk))
		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), rendered)
	return nil
}

// skillMarkdown lays the descriptor out as a markdown document for
// glamour rendering.
func skillMarkdown(sk catalog.Skill) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", sk.Name)
	if sk.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", sk.Description)
	}

	if sk.RequiredMCPServer != "" {
		fmt.Fprintf(&b, "- **MCP server**: %s\n", sk.RequiredMCPServer)
	}
	if sk.Authentication != "" {
		fmt.Fprintf(&b, "- **Authentication**: %s\n", sk.Authentication)
	}
	if len(sk.DependsOn) > 0 {
		fmt.Fprintf(&b, "- **Depends on**: %s\n", strings.Join(sk.DependsOn, ", "))
	}
	if len(sk.Tags) > 0 {
		fmt.Fprintf(&b, "- **Tags**: %s\n", strings.Join(sk.Tags, ", "))
	}
	if sk.Created != "" {
		fmt.Fprintf(&b, "- **Created**: %s\n", sk.Created)
	}

	if len(sk.MCPServers) > 0 {
		fmt.Fprintf(&b, "\n## MCP Servers\n\n")
		for _, name := range sortedServerNames(sk.MCPServers) {
			fmt.Fprintf(&b, "- `%s`: %s\n", name, serverSummary(sk.MCPServers[name]))
		}
	}

	fmt.Fprintf(&b, "\nInstall with: `better-agents skill add %s`\n", sk.Name)

	return b.String()
}

func serverSummary(srv mcpconfig.Server) string {
	if srv.URL != "" {
		return srv.URL
	}
	if len(srv.Args) > 0 {
		return srv.Command + " " + strings.Join(srv.Args, " ")
	}
	return srv.Command
}
