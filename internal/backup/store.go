// Package backup manages the rollback snapshot and the archive of accepted
// rulesets. The snapshot is a single well-known file holding the live
// ruleset captured before activation; archive entries are permanent,
// timestamped copies of every candidate that survived the confirmation gate.
package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"grimm.is/nftapply/internal/clock"
)

const (
	// snapshotName is the fixed snapshot filename inside the backup dir.
	// Exactly one snapshot exists at a time; its presence means a
	// transition is in flight or was abandoned.
	snapshotName = "nftables.conf.bak"

	// archivePrefix and archiveTimeLayout yield names like
	// nftables-installed-2026-08-25_14h03m12s.nft
	archivePrefix     = "nftables-installed-"
	archiveSuffix     = ".nft"
	archiveTimeLayout = "2006-01-02_15h04m05s"
)

// Store persists snapshots and archive entries under a backup directory.
type Store struct {
	dir string
	clk clock.Clock
}

// NewStore creates a store rooted at dir. A nil clk falls back to the
// real clock.
func NewStore(dir string, clk clock.Clock) *Store {
	if clk == nil {
		clk = &clock.RealClock{}
	}
	return &Store{dir: dir, clk: clk}
}

// Dir returns the backup directory.
func (s *Store) Dir() string {
	return s.dir
}

// EnsureDir creates the backup directory if it doesn't exist. Idempotent;
// an existing directory is not an error.
func (s *Store) EnsureDir() error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}
	return nil
}

// SnapshotPath returns the fixed snapshot location, derived from the
// backup directory.
func (s *Store) SnapshotPath() string {
	return filepath.Join(s.dir, snapshotName)
}

// HasSnapshot reports whether a snapshot file currently exists.
func (s *Store) HasSnapshot() bool {
	_, err := os.Stat(s.SnapshotPath())
	return err == nil
}

// SnapshotAge returns how long ago the snapshot was written. Useful for
// telling an in-flight transition from one abandoned days ago.
func (s *Store) SnapshotAge() (time.Duration, error) {
	info, err := os.Stat(s.SnapshotPath())
	if err != nil {
		return 0, fmt.Errorf("failed to stat snapshot: %w", err)
	}
	return s.clk.Since(info.ModTime()), nil
}

// WriteSnapshot stores the live ruleset text verbatim at the snapshot path,
// replacing any stale snapshot from an abandoned run.
func (s *Store) WriteSnapshot(ruleset string) error {
	if err := os.WriteFile(s.SnapshotPath(), []byte(ruleset), 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot returns the snapshot contents.
func (s *Store) ReadSnapshot() (string, error) {
	data, err := os.ReadFile(s.SnapshotPath())
	if err != nil {
		return "", fmt.Errorf("failed to read snapshot: %w", err)
	}
	return string(data), nil
}

// RemoveSnapshot deletes the snapshot file. Called on successful commit and
// successful rollback; never called when a syntax check aborts the run, so
// the snapshot stays available for manual recovery.
func (s *Store) RemoveSnapshot() error {
	if err := os.Remove(s.SnapshotPath()); err != nil {
		return fmt.Errorf("failed to remove snapshot: %w", err)
	}
	return nil
}

// Archive copies the accepted candidate into a new timestamped entry and
// returns the entry path. Entries are append-only; nothing here ever
// deletes them.
func (s *Store) Archive(candidatePath string) (string, error) {
	data, err := os.ReadFile(candidatePath)
	if err != nil {
		return "", fmt.Errorf("failed to read candidate for archive: %w", err)
	}

	name := archivePrefix + s.clk.Now().Format(archiveTimeLayout) + archiveSuffix
	entryPath := filepath.Join(s.dir, name)

	if err := os.WriteFile(entryPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write archive entry: %w", err)
	}
	return entryPath, nil
}
