// Package guard toggles intrusion-prevention services (fail2ban and
// friends) around the ruleset transition. Such services insert their own
// rules and ban reconnecting operators, which would confound the
// confirmation test. Every operation here is best-effort by contract; the
// caller decides to ignore errors, this package just reports them.
package guard

import (
	"context"
	"fmt"

	"grimm.is/nftapply/internal/command"
)

// Systemd controls units through systemctl.
type Systemd struct {
	runner command.Runner
}

// NewSystemd creates a controller using the given runner. A nil runner
// falls back to the real one.
func NewSystemd(r command.Runner) *Systemd {
	if r == nil {
		r = command.DefaultRunner
	}
	return &Systemd{runner: r}
}

// IsEnabled reports whether the unit is enabled. systemctl exits non-zero
// for disabled, masked, and unknown units alike; all of those mean "leave
// this unit alone".
func (s *Systemd) IsEnabled(ctx context.Context, unit string) bool {
	return s.runner.Run(ctx, "systemctl", "--quiet", "is-enabled", unit) == nil
}

// IsActive reports whether the unit is currently running.
func (s *Systemd) IsActive(ctx context.Context, unit string) bool {
	return s.runner.Run(ctx, "systemctl", "--quiet", "is-active", unit) == nil
}

// Stop stops the unit.
func (s *Systemd) Stop(ctx context.Context, unit string) error {
	if err := s.runner.Run(ctx, "systemctl", "stop", unit); err != nil {
		return fmt.Errorf("failed to stop %s: %w", unit, err)
	}
	return nil
}

// Start starts the unit. systemctl start is idempotent on a running unit,
// so callers may start unconditionally.
func (s *Systemd) Start(ctx context.Context, unit string) error {
	if err := s.runner.Run(ctx, "systemctl", "start", unit); err != nil {
		return fmt.Errorf("failed to start %s: %w", unit, err)
	}
	return nil
}
