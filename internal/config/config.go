// Package config resolves the settings for a single apply run.
// Precedence: built-in defaults, then the optional tool config file, then
// command-line flags. The resolved Run value is immutable once the state
// machine starts; it is passed by value and never updated mid-run.
package config

import (
	"fmt"
	"time"

	"grimm.is/nftapply/internal/brand"
)

// DefaultTimeout bounds both the ruleset activation and the confirmation
// read. Fifteen seconds matches the upstream contract.
const DefaultTimeout = 15 * time.Second

// DefaultGuardServices are the intrusion-prevention units quiesced around
// the transition window. fail2ban inserts its own rules and bans the very
// reconnects the confirmation gate depends on.
var DefaultGuardServices = []string{"fail2ban"}

// Run holds the resolved configuration for one apply run.
type Run struct {
	// SourceFile is the candidate ruleset to activate.
	SourceFile string
	// DestinationFile is the persistent ruleset, overwritten only after a
	// confirmed apply.
	DestinationFile string
	// BackupDir receives the rollback snapshot and the archive entries.
	BackupDir string
	// Timeout bounds the activation call and the confirmation read.
	Timeout time.Duration
	// GuardServices are systemd units stopped during the transition.
	GuardServices []string
	// ProbeTarget, when set, is pinged after activation as an advisory
	// connectivity check. Never gates the run.
	ProbeTarget string
	// ShowDiff prints a unified diff of the active vs. candidate file
	// before activation.
	ShowDiff bool
}

// Defaults returns the built-in configuration.
func Defaults() Run {
	return Run{
		SourceFile:      brand.DefaultSourceFile,
		DestinationFile: brand.DefaultDestinationFile,
		BackupDir:       brand.DefaultBackupDir,
		Timeout:         DefaultTimeout,
		GuardServices:   append([]string(nil), DefaultGuardServices...),
	}
}

// Validate reports configuration errors that make a run impossible.
func (r Run) Validate() error {
	if r.SourceFile == "" {
		return fmt.Errorf("source file must not be empty")
	}
	if r.DestinationFile == "" {
		return fmt.Errorf("destination file must not be empty")
	}
	if r.BackupDir == "" {
		return fmt.Errorf("backup directory must not be empty")
	}
	if r.Timeout < time.Second {
		return fmt.Errorf("timeout must be at least 1 second, got %s", r.Timeout)
	}
	return nil
}
