//go:build windows

package launcher

import "context"

// Launch starts the program and blocks until it exits. Windows has no
// execve-style process replacement, so hand-off is spawn-and-wait.
func Launch(ctx context.Context, spec Spec) error {
	return Run(ctx, spec)
}
