package skillcmder

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/contextware/better-agents/pkg/analytics"
	"github.com/contextware/better-agents/pkg/analytics/nop"
	"github.com/contextware/better-agents/pkg/catalog"
	"github.com/contextware/better-agents/pkg/cliui"
	"github.com/contextware/better-agents/pkg/config"
	"github.com/contextware/better-agents/pkg/installer"
	"github.com/contextware/better-agents/pkg/provider"
	"github.com/contextware/better-agents/pkg/scaffold"
)

const addLongDesc string = `Install skills into an existing scaffolded project.

Skills install sequentially via npx; a failing skill never aborts the
others, and every failure is reported at the end with the manual
command to finish the job. The project's AGENTS.md, .mcp.json, and
better-agents.yaml are updated to include the new skills.

Examples:
  better-agents skill add hubspot
  better-agents skill add hubspot slack --dir ./my-agent`

type addCommander struct {
	dir     string
	refresh bool
}

func newAddCmd() *cobra.Command {
	cmder := &addCommander{}

	cmd := &cobra.Command{
		Use:   "add <name>...",
		Short: "Install skills into an existing project",
		Long:  addLongDesc,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd, args)
		},
		ValidArgsFunction: func(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return cachedSkillNames(cmd), cobra.ShellCompDirectiveNoFileComp
		},
	}

	cmd.Flags().StringVar(&cmder.dir, "dir", ".", "Project directory")
	cmd.Flags().BoolVar(&cmder.refresh, "refresh", false, "Refetch the catalog, ignoring the cache")

	return cmd
}

func (c *addCommander) run(cmd *cobra.Command, names []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	manifest, err := scaffold.ReadManifest(c.dir)
	if err != nil {
		return err
	}

	var added []string
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if slices.Contains(manifest.Skills, name) || slices.Contains(added, name) {
			fmt.Fprintf(out, "  %s %s is already installed\n", cliui.DimStyle.Render("●"), name)
			continue
		}
		added = append(added, name)
	}
	if len(added) == 0 {
		fmt.Fprintln(out, "Nothing to add.")
		return nil
	}

	svc, log, err := catalogService(cmd)
	if err != nil {
		return err
	}

	merged := append(slices.Clone(manifest.Skills), added...)
	docs := matchDocs(svc.Skills(ctx, c.refresh), merged)

	configDir, _ := cmd.Flags().GetString("config-dir")
	emitter, anonymousID := addEmitter(configDir)
	defer emitter.Close()

	var warnings []string
	if err := installer.CheckNode(ctx); err != nil {
		warnings = append(warnings, fmt.Sprintf("skipping skill installation: %v", err))
	} else {
		var failed []string
		err := cliui.Step(out, fmt.Sprintf("Installing %d skill(s)", len(added)), func() error {
			failed = installer.New(installer.WithLogger(log)).Install(ctx, c.dir, added)
			return nil
		})
		if err != nil {
			return err
		}
		if warning := installer.Warning(failed); warning != "" {
			warnings = append(warnings, warning)
		}
	}

	cfg := provider.ProjectConfig{
		Name:      manifest.Name,
		Dir:       c.dir,
		Language:  manifest.Language,
		Framework: manifest.Framework,
		Assistant: manifest.Assistant,
		LLM:       manifest.LLM,
		Goal:      manifest.Goal,
		Skills:    merged,
	}

	if err := cliui.Step(out, "Updating project documents", func() error {
		return scaffold.New(scaffold.WithLogger(log)).UpdateDocs(cfg, docs)
	}); err != nil {
		return err
	}

	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "  %s %s\n", cliui.WarnMark, cliui.WarnStyle.Render(w))
	}

	if err := emitter.Emit(ctx, analytics.NewEvent(analytics.EventTypeSkillAdded, anonymousID, map[string]any{
		"skills": len(added),
	})); err != nil {
		log.Debug("analytics emit failed", "error", err)
	}

	fmt.Fprintf(out, "\n  %s Added %s\n", cliui.SuccessMark, cliui.NameStyle.Render(strings.Join(added, ", ")))
	return nil
}

// matchDocs returns the catalog descriptors for the given names, in name
// order. Names missing from the catalog are installed without a doc.
func matchDocs(all []catalog.Skill, names []string) []catalog.Skill {
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

// addEmitter builds the analytics emitter from stored configuration.
func addEmitter(configDir string) (analytics.Emitter, string) {
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
