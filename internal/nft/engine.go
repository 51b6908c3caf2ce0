// Package nft wraps the nft(8) binary behind the narrow engine surface the
// apply state machine needs: list, syntax-check, activate, and restore.
// Rule syntax is never parsed here; validation is delegated entirely to the
// engine's own dry run.
package nft

import (
	"context"
	"fmt"
	"os"

	"grimm.is/nftapply/internal/command"
)

// Engine drives nftables through the nft binary.
type Engine struct {
	runner command.Runner
}

// NewEngine creates an engine using the given runner. A nil runner falls
// back to the real one.
func NewEngine(r command.Runner) *Engine {
	if r == nil {
		r = command.DefaultRunner
	}
	return &Engine{runner: r}
}

// ListRuleset returns the live kernel ruleset verbatim.
func (e *Engine) ListRuleset(ctx context.Context) (string, error) {
	output, err := e.runner.Output(ctx, "nft", "list", "ruleset")
	if err != nil {
		return "", fmt.Errorf("failed to list ruleset: %w", err)
	}
	return string(output), nil
}

// CheckFile dry-runs the ruleset file without touching the live ruleset.
func (e *Engine) CheckFile(ctx context.Context, path string) error {
	if err := e.runner.Run(ctx, "nft", "-c", "-f", path); err != nil {
		return fmt.Errorf("dry run failed: %w", err)
	}
	return nil
}

// ApplyFile loads the ruleset file into the kernel. nft -f is a single
// atomic transaction; the kernel holds either the old or the new ruleset,
// never a partial mix. The context deadline kills a hung load.
func (e *Engine) ApplyFile(ctx context.Context, path string) error {
	if err := e.runner.Run(ctx, "nft", "-f", path); err != nil {
		return fmt.Errorf("failed to apply ruleset: %w", err)
	}
	return nil
}

// FlushAndLoadFile resets the live ruleset and loads the file's contents
// verbatim. Used for rollback: the snapshot was captured with
// `nft list ruleset`, which carries no reset directive of its own.
func (e *Engine) FlushAndLoadFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	if err := e.runner.Run(ctx, "nft", "flush", "ruleset"); err != nil {
		return fmt.Errorf("failed to flush ruleset: %w", err)
	}

	if err := e.runner.RunInput(ctx, string(data), "nft", "-f", "-"); err != nil {
		return fmt.Errorf("failed to restore ruleset: %w", err)
	}
	return nil
}
