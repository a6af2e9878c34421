// Package providerscmder provides the providers command for listing the
// scaffolding registry.
package providerscmder

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/contextware/better-agents/pkg/provider"
)

const (
	providersLongDesc = `List the providers better-agents can scaffold with.

Every language, framework, coding assistant, and LLM provider the new
command accepts comes from this registry.

Examples:
  better-agents providers
  better-agents providers --category framework
`
	providersShortDesc = "List registered providers"
)

type providersCommander struct {
	category string
}

func NewProvidersCmd() *cobra.Command {
	cmder := &providersCommander{}

	cmd := &cobra.Command{
		Use:   "providers",
		Short: providersShortDesc,
		Long:  providersLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	cmd.Flags().StringVarP(&cmder.category, "category", "c", "", "Only list one category (language, framework, assistant, llm)")
	_ = cmd.RegisterFlagCompletionFunc("category", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return categoryNames(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func (c *providersCommander) run(cmd *cobra.Command) error {
	categories := provider.Categories()

	if c.category != "" {
		wanted := provider.Category(strings.ToLower(strings.TrimSpace(c.category)))
		if !validCategory(wanted) {
			return fmt.Errorf("unknown category %q (valid: %s)", c.category, strings.Join(categoryNames(), ", "))
		}
		categories = []provider.Category{wanted}
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tID\tNAME")
	for _, category := range categories {
		for _, d := range provider.All(category) {
			fmt.Fprintf(w, "%s\t%s\t%s\n", category, d.ID, d.DisplayName)
		}
	}
	return w.Flush()
}

func validCategory(c provider.Category) bool {
	for _, category := range provider.Categories() {
		if category == c {
			return true
		}
	}
	return false
}

func categoryNames() []string {
	names := make([]string, 0, len(provider.Categories()))
	for _, category := range provider.Categories() {
		names = append(names, string(category))
	}
	return names
}
