// Package launcher hands the terminal over to an external coding assistant
// process.
package launcher

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Spec describes the external program that takes over the session.
type Spec struct {
	// Bin is the program name, resolved against PATH.
	Bin string

	// Args are passed through verbatim.
	Args []string

	// Dir is the working directory for the program. Empty means inherit.
	Dir string

	// Env entries (KEY=VALUE) appended to the inherited environment.
	Env []string
}

// String renders the spec as a copy-pasteable shell command for error
// messages and remediation hints.
func (s Spec) String() string {
	return strings.Join(append([]string{s.Bin}, s.Args...), " ")
}

// Run spawns the program and blocks until it exits, inheriting the
// terminal's stdio.
func Run(ctx context.Context, spec Spec) error {
	// #nosec G204 -- launch targets are restricted to registered assistant binaries.
	cmd := exec.CommandContext(ctx, spec.Bin, spec.Args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	cmd.Dir = spec.Dir
	cmd.Env = append(os.Environ(), spec.Env...)

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("running %s: %w", spec.Bin, err)
	}

	return nil
}
