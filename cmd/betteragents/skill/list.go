package skillcmder

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

type listCommander struct {
	refresh bool
}

func newListCmd() *cobra.Command {
	cmder := &listCommander{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List skills available in the catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	cmd.Flags().BoolVar(&cmder.refresh, "refresh", false, "Refetch the catalog, ignoring the cache")

	return cmd
}

func (c *listCommander) run(cmd *cobra.Command) error {
	svc, _, err := catalogService(cmd)
	if err != nil {
		return err
	}

	skills := svc.Skills(cmd.Context(), c.refresh)
	if len(skills) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No skills available. The catalog may be unreachable; try again with --refresh.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDESCRIPTION\tMCP SERVER\tTAGS")
	for _, sk := range skills {
		desc := sk.Description
		if len(desc) > 60 {
			desc = desc[:57] + "..."
		}
		desc = strings.ReplaceAll(desc, "\n", " ")
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", sk.Name, desc, sk.RequiredMCPServer, strings.Join(sk.Tags, ", "))
	}
	return w.Flush()
}
