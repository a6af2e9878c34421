package provider

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// probeTimeout caps how long a single availability check may spend on
// "<tool> --version".
const probeTimeout = 5 * time.Second

// probeBinary builds an Available func that looks for bin on PATH and, when
// found, records the first line of "bin --version" output.
func probeBinary(bin, installHint string) func(ctx context.Context) Availability {
	return func(ctx context.Context) Availability {
		if _, err := exec.LookPath(bin); err != nil {
			return Availability{
				Detail: fmt.Sprintf("%s not found in PATH; install with: %s", bin, installHint),
			}
		}

		ctx, cancel := context.WithTimeout(ctx, probeTimeout)
		defer cancel()

		out, err := exec.CommandContext(ctx, bin, "--version").Output()
		if err != nil {
			// The binary exists; a failing --version probe still counts
			// as available, just without a version string.
			return Availability{Available: true}
		}

		version, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")

		return Availability{Available: true, Version: version}
	}
}

// writeFileIfAbsent writes content to path unless a file already exists
// there. Setup operations use it so re-running scaffolding never clobbers
// user edits.
func writeFileIfAbsent(path, content string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	return os.WriteFile(path, []byte(content), 0o644)
}
