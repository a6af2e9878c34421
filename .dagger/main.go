// Better Agents CI/CD
//
// Package main provides reproducible builds and tests locally and in GitHub actions.
// It is the main harness for handling nearly all dev operations.
package main

import (
	"context"

	"dagger/better-agents/internal/dagger"
)

// BetterAgents is the main module for the Better Agents CI/CD pipeline
type BetterAgents struct {
	// Project source directory
	//
	// +private
	Source *dagger.Directory
}

// New creates a new BetterAgents CI/CD module instance
func New(
	// Project source directory.
	//
	// +defaultPath="/"
	// +ignore=[".git", ".direnv", ".devenv", "build", "tmp"]
	source *dagger.Directory,
) *BetterAgents {
	return &BetterAgents{
		Source: source,
	}
}

// goContainer returns a Debian Bookworm-based Go container with the module
// caches mounted and the project source at /src.
//
// It is the shared foundation for tests, builds, and linting.
func (b *BetterAgents) goContainer() *dagger.Container {
	return dag.Container().
		From("golang:1.25-bookworm").
		WithEnvVariable("CGO_ENABLED", "0").
		WithEnvVariable("PATH", "/go/bin:$PATH", dagger.ContainerWithEnvVariableOpts{Expand: true}).
		WithMountedCache("/go/pkg/mod", dag.CacheVolume("go-mod")).
		WithMountedCache("/root/.cache/go-build", dag.CacheVolume("go-build")).
		WithWorkdir("/src").
		WithDirectory("/src", b.Source)
}

// Test runs the better-agents unit tests via "go test"
func (b *BetterAgents) Test(ctx context.Context) (string, error) {
	return b.goContainer().
		WithExec([]string{"go", "test", "-v", "./..."}).
		Stdout(ctx)
}
