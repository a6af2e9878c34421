// Package installer applies catalog skills to a generated project by
// driving the external skills package installer, one skill at a time.
package installer

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/contextware/better-agents/pkg/logger"
)

// defaultTimeout bounds a single skill install. An install that exceeds it
// is terminated and recorded as failed; the remaining skills still run.
const defaultTimeout = 30 * time.Second

// minNodeVersion is the oldest Node.js release the skills installer
// supports.
var minNodeVersion = semver.MustParse("18.0.0")

// Runner executes one install command to completion. The default runner
// shells out to the real installer; tests substitute a fake.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) error
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- the installer invocation is fixed; only the skill name varies.
	cmd.Dir = dir

	if out, err := cmd.CombinedOutput(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(out)))
	}

	return nil
}

// Installer installs skills into a project directory.
type Installer struct {
	runner  Runner
	timeout time.Duration
	log     *slog.Logger
}

// Option configures an Installer.
type Option func(*Installer)

// WithRunner replaces the process runner.
func WithRunner(r Runner) Option {
	return func(i *Installer) { i.runner = r }
}

// WithTimeout replaces the per-skill time budget.
func WithTimeout(d time.Duration) Option {
	return func(i *Installer) { i.timeout = d }
}

// WithLogger sets the installer logger.
func WithLogger(log *slog.Logger) Option {
	return func(i *Installer) { i.log = log }
}

// New creates an Installer.
func New(opts ...Option) *Installer {
	i := &Installer{
		runner:  execRunner{},
		timeout: defaultTimeout,
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(i)
	}

	return i
}

// Install applies the named skills to dir in order, one installer process
// per skill. Installs run sequentially so progress stays linear and two
// installs never race on shared project files. A failed or timed-out skill
// is recorded and the loop moves on; the returned slice names every skill
// that did not install.
func (i *Installer) Install(ctx context.Context, dir string, skills []string) []string {
	var failed []string
	for _, name := range skills {
		if err := i.installOne(ctx, dir, name); err != nil {
			i.log.Debug("skill install failed", "skill", name, "error", err)
			failed = append(failed, name)
			continue
		}
		i.log.Debug("skill installed", "skill", name)
	}

	return failed
}

func (i *Installer) installOne(ctx context.Context, dir, name string) error {
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	return i.runner.Run(ctx, dir, "npx", "skills", "add", name, "--yes")
}

// Warning renders the aggregated failure message for a finished install
// run, or "" when every skill installed.
func Warning(failed []string) string {
	if len(failed) == 0 {
		return ""
	}

	return fmt.Sprintf("could not install %s; run `npx skills add <name>` manually inside the project",
		strings.Join(failed, ", "))
}

// CheckNode verifies that a Node.js toolchain new enough for the skills
// installer is on PATH.
func CheckNode(ctx context.Context) error {
	nodeBin, err := exec.LookPath("node")
	if err != nil {
		return fmt.Errorf("skill installation requires Node.js: %w", err)
	}

	out, err := exec.CommandContext(ctx, nodeBin, "--version").Output()
	if err != nil {
		return fmt.Errorf("checking node version: %w", err)
	}

	return CheckNodeVersion(strings.TrimSpace(string(out)))
}

// CheckNodeVersion validates a raw "node --version" string such as
// "v22.3.0" against the installer's minimum.
func CheckNodeVersion(raw string) error {
	version, err := semver.NewVersion(strings.TrimPrefix(raw, "v"))
	if err != nil {
		return fmt.Errorf("parsing node version %q: %w", raw, err)
	}

	if version.LessThan(minNodeVersion) {
		return fmt.Errorf("node %s is too old for the skills installer; need %s or newer", version, minNodeVersion)
	}

	return nil
}
