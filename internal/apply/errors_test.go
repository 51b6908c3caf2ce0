package apply

import (
	"errors"
	"fmt"
	"testing"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"not root", ErrNotRoot, ExitNotRoot},
		{"wrapped not root", fmt.Errorf("%w (euid 1000)", ErrNotRoot), ExitNotRoot},
		{"destination unreadable", ErrUnreadableDestination, ExitUnreadableDestination},
		{"source unreadable", ErrUnreadableSource, ExitUnreadableSource},
		{"invalid ruleset", fmt.Errorf("%w: dry run failed", ErrInvalidRuleset), ExitInvalidRuleset},
		{"apply timeout", ErrApplyTimeout, ExitApplyFailed},
		{"apply failed", ErrApplyFailed, ExitApplyFailed},
		{"confirmation denied", ErrConfirmationDenied, ExitConfirmationDenied},
		{"unclassified", errors.New("boom"), ExitFailure},
		{"rollback failure alone", ErrRollbackFailed, ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodeKeepsTriggerOnRollbackFailure(t *testing.T) {
	trigger := fmt.Errorf("%w: answered %q", ErrConfirmationDenied, "n")
	joined := errors.Join(trigger, fmt.Errorf("%w: flush failed", ErrRollbackFailed))

	if got := ExitCode(joined); got != ExitConfirmationDenied {
		t.Errorf("ExitCode(joined) = %d, want %d", got, ExitConfirmationDenied)
	}
	if !errors.Is(joined, ErrRollbackFailed) {
		t.Error("joined error should still report the rollback failure")
	}

	trigger = fmt.Errorf("%w after 15s", ErrApplyTimeout)
	joined = errors.Join(trigger, ErrRollbackFailed)
	if got := ExitCode(joined); got != ExitApplyFailed {
		t.Errorf("ExitCode(joined) = %d, want %d", got, ExitApplyFailed)
	}
}
