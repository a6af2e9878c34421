// Package initcmder provides the init command for initializing a local
// .better-agents directory in the current working directory.
package initcmder

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/contextware/better-agents/pkg/config"
)

const (
	dirName = ".better-agents"

	remoteFetchTimeout = 30 * time.Second
)

const initLongDesc string = `Initialize a new .better-agents/ directory in the current working directory.

Creates a local .better-agents/ directory that takes precedence over the
default ~/.better-agents/ directory for configuration, credentials, and the
cached skills catalog.

This is useful for keeping separate defaults per project, or for checking a
team's shared settings into a repo.

A preset seeds config.toml with defaults for one stack. Presets are either
a built-in name or a URL to a raw config.toml (for sharing one config
across a team).

Examples:
  better-agents init
  better-agents init --preset python
  better-agents init --preset https://example.com/team/config.toml`

const initShortDesc string = "Initialize a local .better-agents/ directory"

type initCommander struct {
	preset string
}

func NewInitCmd() *cobra.Command {
	cmder := &initCommander{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: initShortDesc,
		Long:  initLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&cmder.preset, "preset", "", "Seed config.toml from a preset name or URL")
	_ = cmd.RegisterFlagCompletionFunc("preset", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return config.ValidPresetNames(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func (c *initCommander) run(ctx context.Context) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	dir := filepath.Join(cwd, dirName)

	info, statErr := os.Stat(dir)
	alreadyInitialized := statErr == nil && info.IsDir()

	// Re-running without a preset leaves an initialized directory alone.
	if alreadyInitialized && c.preset == "" {
		fmt.Printf("Already initialized: %s\n", dir)
		return nil
	}

	// Resolve before creating anything so a bad preset leaves no trace.
	cfg, err := resolvePreset(ctx, c.preset)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating .better-agents directory: %w", err)
	}

	cfger, err := config.NewConfiger(dir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfger.SaveConfig(cfg); err != nil {
		return err
	}

	if alreadyInitialized {
		fmt.Printf("Updated config from preset %q: %s\n", c.preset, cfger.GetTarget())
		return nil
	}

	fmt.Printf("Initialized .better-agents directory: %s\n", dir)
	return nil
}

// resolvePreset returns the config to seed. An empty preset means stock
// defaults; a URL is fetched and parsed; anything else must be a built-in
// preset name.
func resolvePreset(ctx context.Context, preset string) (*config.Config, error) {
	switch {
	case preset == "":
		return config.NewDefaultConfig(), nil

	case strings.HasPrefix(preset, "http://") || strings.HasPrefix(preset, "https://"):
		return fetchRemoteConfig(ctx, preset)

	default:
		return config.PresetConfig(preset)
	}
}

func fetchRemoteConfig(ctx context.Context, url string) (*config.Config, error) {
	client := &http.Client{Timeout: remoteFetchTimeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching remote config: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching remote config: HTTP %d from %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading remote config: %w", err)
	}

	return config.ParseConfigTOML(data)
}
