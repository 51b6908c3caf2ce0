package apply

import "errors"

// Process exit codes. These are part of the CLI contract and are consumed
// by scripts wrapping nftapply, so their values must stay stable.
const (
	ExitOK                    = 0
	ExitFailure               = 1
	ExitUsage                 = 2
	ExitNotRoot               = 3
	ExitUnreadableDestination = 4
	ExitUnreadableSource      = 5
	ExitInvalidRuleset        = 6
	ExitApplyFailed           = 7
	ExitConfirmationDenied    = 8
)

// Sentinel errors returned (usually wrapped) by [Manager.Run]. Callers
// classify failures with errors.Is rather than string matching.
var (
	// ErrNotRoot means the effective UID is not 0.
	ErrNotRoot = errors.New("must be run as root")

	// ErrUnreadableDestination means the live configuration file could
	// not be opened for reading.
	ErrUnreadableDestination = errors.New("cannot read destination file")

	// ErrUnreadableSource means the candidate file could not be opened
	// for reading.
	ErrUnreadableSource = errors.New("cannot read source file")

	// ErrInvalidRuleset means the candidate failed the engine's dry run.
	ErrInvalidRuleset = errors.New("candidate ruleset rejected")

	// ErrApplyTimeout means activation did not finish within the window.
	ErrApplyTimeout = errors.New("activation timed out")

	// ErrApplyFailed means the engine reported an error during activation.
	ErrApplyFailed = errors.New("activation failed")

	// ErrConfirmationDenied means the operator did not affirm the new
	// ruleset within the window, or answered anything but "y".
	ErrConfirmationDenied = errors.New("changes not confirmed")

	// ErrRollbackFailed is joined onto the triggering error when the
	// restore of the snapshot itself fails. The live ruleset may be in
	// an inconsistent state when this is present.
	ErrRollbackFailed = errors.New("rollback failed")
)

// ExitCode maps an error from [Manager.Run] to the process exit code for
// that failure class. Trigger errors are matched before anything joined
// onto them, so a rollback failure never masks the code of the condition
// that caused the rollback. A nil error maps to ExitOK and an error
// outside the taxonomy maps to ExitFailure.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrNotRoot):
		return ExitNotRoot
	case errors.Is(err, ErrUnreadableDestination):
		return ExitUnreadableDestination
	case errors.Is(err, ErrUnreadableSource):
		return ExitUnreadableSource
	case errors.Is(err, ErrInvalidRuleset):
		return ExitInvalidRuleset
	case errors.Is(err, ErrApplyTimeout), errors.Is(err, ErrApplyFailed):
		return ExitApplyFailed
	case errors.Is(err, ErrConfirmationDenied):
		return ExitConfirmationDenied
	default:
		return ExitFailure
	}
}
