package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// CommandRunner executes an external collaborator process and blocks until
// it returns. A non-nil error means the process failed.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// ExecRunner runs collaborators as real child processes, inheriting the
// given output sinks so their logs interleave with the orchestrator's.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Run implements CommandRunner.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = r.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = r.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// resolveEntry turns a configured entry point into a command name and
// leading arguments. An empty entry point falls back to the running binary
// invoking its own subcommand, so the pipeline works without any external
// scripts configured. Own-binary children get the parent's --config
// forwarded so both sides resolve the same workspace paths; external
// entries ("python3 review_chunk.py") are invoked with the contract
// arguments only and may carry arguments of their own.
func resolveEntry(entry, subcommand, cfgFile string) (string, []string, error) {
	if strings.TrimSpace(entry) != "" {
		fields := strings.Fields(entry)
		return fields[0], fields[1:], nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", nil, fmt.Errorf("locating own binary: %w", err)
	}
	args := []string{subcommand}
	if cfgFile != "" {
		args = append(args, "--config", cfgFile)
	}
	return exe, args, nil
}
