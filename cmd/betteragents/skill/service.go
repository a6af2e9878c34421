package skillcmder

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/contextware/better-agents/pkg/catalog"
	"github.com/contextware/better-agents/pkg/config"
	"github.com/contextware/better-agents/pkg/dotdir"
	"github.com/contextware/better-agents/pkg/logger"
)

// catalogService wires the catalog service from the resolved settings:
// BETTER_AGENTS_* environment variables, config.toml, then defaults.
func catalogService(cmd *cobra.Command) (*catalog.Service, *slog.Logger, error) {
	debug, _ := cmd.Flags().GetBool("debug")
	configDir, _ := cmd.Flags().GetString("config-dir")

	log := logger.New(
		logger.WithDebug(debug),
		logger.WithPretty(true),
		logger.WithWriter(os.Stderr),
	)

	v, err := config.InitViper(configDir)
	if err != nil {
		return nil, nil, err
	}

	target, err := dotdir.NewManager().Target(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving cache dir: %w", err)
	}

	source := catalog.NewClient(
		v.GetString("skills.repo"),
		v.GetString("skills.ref"),
		v.GetString("skills.path"),
	)
	store := catalog.NewFileStore(target, log)
	ttl := time.Duration(v.GetUint("skills.ttl_hours")) * time.Hour

	return catalog.NewService(source, store, catalog.WithTTL(ttl), catalog.WithLogger(log)), log, nil
}

// cachedSkillNames returns skill names from the on-disk snapshot without
// touching the network. Used for shell completion.
func cachedSkillNames(cmd *cobra.Command) []string {
	configDir, _ := cmd.Flags().GetString("config-dir")

	target, err := dotdir.NewManager().Target(configDir)
	if err != nil {
		return nil
	}

	snap := catalog.NewFileStore(target, logger.Nop()).Load()
	if snap == nil {
		return nil
	}

	names := make([]string, 0, len(snap.Skills))
	for _, sk := range snap.Skills {
		names = append(names, sk.Name)
	}

	return names
}
