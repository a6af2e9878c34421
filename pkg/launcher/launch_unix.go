//go:build !windows

package launcher

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"syscall"
)

// Launch replaces the current process with the program described by spec via
// execve. On success it does not return.
func Launch(ctx context.Context, spec Spec) error {
	path, err := exec.LookPath(spec.Bin)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", spec.Bin, err)
	}

	if spec.Dir != "" {
		if err := os.Chdir(spec.Dir); err != nil {
			return fmt.Errorf("entering %s: %w", spec.Dir, err)
		}
	}

	argv := append([]string{spec.Bin}, spec.Args...)
	env := append(os.Environ(), spec.Env...)

	// #nosec G204 -- launch targets are restricted to registered assistant binaries.
	if err := syscall.Exec(path, argv, env); err != nil {
		return fmt.Errorf("replacing process with %s: %w", spec.Bin, err)
	}

	return nil
}
