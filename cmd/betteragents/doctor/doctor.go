// Package doctorcmder provides the doctor command, a read-only environment
// report for scaffolded projects.
package doctorcmder

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/contextware/better-agents/pkg/cliui"
	"github.com/contextware/better-agents/pkg/credentials"
	"github.com/contextware/better-agents/pkg/installer"
	"github.com/contextware/better-agents/pkg/provider"
)

const (
	doctorLongDesc = `Check the local environment for the tools better-agents relies on.

Probes every registered provider's external tool, reports which LLM API
keys are resolvable, and verifies the Node.js runtime the skills
installer needs. Doctor only reports; it never changes anything and
always exits zero.
`
	doctorShortDesc = "Report on locally available tools and credentials"
)

// sectionTitles maps registry categories to report headings. Categories
// whose providers carry no probes produce no section.
var sectionTitles = map[provider.Category]string{
	provider.CategoryLanguage:  "Languages",
	provider.CategoryFramework: "Frameworks",
	provider.CategoryAssistant: "Coding assistants",
	provider.CategoryLLM:       "LLM providers",
}

func NewDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: doctorShortDesc,
		Long:  doctorLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, err := cmd.Flags().GetString("config-dir")
			if err != nil {
				return fmt.Errorf("could not get config-dir flag: %w", err)
			}

			run(cmd.Context(), cmd.OutOrStdout(), configDir)
			return nil
		},
	}
}

// run prints the full report. Findings land in the output, never in an
// error: a broken environment is doctor's subject, not its failure.
func run(ctx context.Context, out io.Writer, configDir string) {
	for _, category := range provider.Categories() {
		printProbes(ctx, out, category)
	}
	printKeys(out, configDir)
	printInstaller(ctx, out)
}

func printProbes(ctx context.Context, out io.Writer, category provider.Category) {
	descriptors := probed(provider.All(category))
	if len(descriptors) == 0 {
		return
	}

	fmt.Fprintf(out, "\n  %s\n", cliui.HeaderStyle.Render(sectionTitles[category]))

	width := nameWidth(descriptors)
	for _, d := range descriptors {
		availability := d.Available(ctx)

		mark := cliui.FailMark
		detail := cliui.WarnStyle.Render(availability.Detail)
		if availability.Available {
			mark = cliui.SuccessMark
			detail = cliui.DimStyle.Render(availability.Version)
		}

		fmt.Fprintf(out, "  %s %-*s %s\n", mark, width, d.DisplayName, detail)
	}
}

func printKeys(out io.Writer, configDir string) {
	fmt.Fprintf(out, "\n  %s\n", cliui.HeaderStyle.Render("API keys"))

	manager, err := credentials.NewManager(configDir)
	if err != nil {
		fmt.Fprintf(out, "  %s %s\n", cliui.WarnMark, cliui.WarnStyle.Render(fmt.Sprintf("cannot read credentials: %v", err)))
		return
	}

	providers := credentials.SupportedProviders()
	width := 0
	for _, p := range providers {
		width = max(width, len(p))
	}

	for _, p := range providers {
		key, source, err := manager.Resolve(p)

		switch {
		case err != nil:
			fmt.Fprintf(out, "  %s %-*s %s\n", cliui.WarnMark, width, p, cliui.WarnStyle.Render(err.Error()))
		case key == "":
			fmt.Fprintf(out, "  %s %-*s %s\n", cliui.FailMark, width, p,
				cliui.DimStyle.Render(fmt.Sprintf("not set (export %s or run: better-agents auth %s)", credentials.EnvVarForProvider(p), p)))
		default:
			fmt.Fprintf(out, "  %s %-*s %s\n", cliui.SuccessMark, width, p,
				cliui.DimStyle.Render(fmt.Sprintf("found (%s)", source)))
		}
	}
}

func printInstaller(ctx context.Context, out io.Writer) {
	fmt.Fprintf(out, "\n  %s\n", cliui.HeaderStyle.Render("Skills installer"))

	if err := installer.CheckNode(ctx); err != nil {
		fmt.Fprintf(out, "  %s %s\n", cliui.FailMark, cliui.WarnStyle.Render(err.Error()))
		return
	}

	fmt.Fprintf(out, "  %s %s\n", cliui.SuccessMark, cliui.DimStyle.Render("node is new enough for npx skills"))
}

// probed filters a category down to descriptors that can be checked.
func probed(descriptors []*provider.Descriptor) []*provider.Descriptor {
	out := make([]*provider.Descriptor, 0, len(descriptors))
	for _, d := range descriptors {
		if d.Available != nil {
			out = append(out, d)
		}
	}
	return out
}

func nameWidth(descriptors []*provider.Descriptor) int {
	width := 0
	for _, d := range descriptors {
		width = max(width, len(d.DisplayName))
	}
	return width
}
