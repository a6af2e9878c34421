package main

import (
	"context"
	"fmt"

	"dagger/better-agents/internal/dagger"
)

const golangciLintVersion = "v2.8.0"

// lintOpts returns the common GolangcilintOpts used by both CheckLint and FixLint.
// It layers golangci-lint on top of goContainer() so the Go caches are already
// in place.
func (b *BetterAgents) lintOpts() dagger.GolangcilintOpts {
	base := b.goContainer().
		WithExec([]string{
			"go",
			"install",
			fmt.Sprintf("github.com/golangci/golangci-lint/v2/cmd/golangci-lint@%s", golangciLintVersion),
		})

	return dagger.GolangcilintOpts{
		BaseCtr: base,
		Config:  b.Source.File(".golangci.yml"),
	}
}

// CheckLint runs golangci-lint against the better-agents source code without
// applying fixes.
func (b *BetterAgents) CheckLint(ctx context.Context) (string, error) {
	return dag.Golangcilint(b.Source, b.lintOpts()).Check(ctx)
}

// FixLint runs golangci-lint against the better-agents source code with --fix,
// applying automatic fixes where possible, and returns the modified source
// directory.
func (b *BetterAgents) FixLint(ctx context.Context) *dagger.Directory {
	return dag.Golangcilint(b.Source, b.lintOpts()).Lint()
}
