// Package command abstracts process execution behind a small interface so
// the nft and systemctl call sites can be exercised with mocks.
package command

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes external commands. Every call takes a context; the
// ruleset activation path relies on the context deadline to kill a hung
// child process.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
	RunInput(ctx context.Context, input string, name string, args ...string) error
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// RealRunner executes commands via os/exec.
type RealRunner struct{}

// DefaultRunner is the runner used by production constructors.
var DefaultRunner Runner = &RealRunner{}

// Run executes a command without capturing output.
func (r *RealRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("command %s failed: %w: %s", name, err, string(out))
	}
	return nil
}

// Output executes a command and returns its stdout.
func (r *RealRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// RunInput executes a command with input via stdin.
func (r *RealRunner) RunInput(ctx context.Context, input string, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = strings.NewReader(input)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("command %s failed: %w: %s", name, err, string(out))
	}
	return nil
}
