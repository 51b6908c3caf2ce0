package apply

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"grimm.is/nftapply/internal/backup"
	"grimm.is/nftapply/internal/clock"
	"grimm.is/nftapply/internal/config"
	"grimm.is/nftapply/internal/logging"
)

// RulesetEngine is the packet-filter surface the workflow drives. It is
// satisfied by [grimm.is/nftapply/internal/nft.Engine].
type RulesetEngine interface {
	// ListRuleset returns the live ruleset verbatim.
	ListRuleset(ctx context.Context) (string, error)
	// CheckFile dry-runs the file without touching the live ruleset.
	CheckFile(ctx context.Context, path string) error
	// ApplyFile atomically loads the file into the live ruleset.
	ApplyFile(ctx context.Context, path string) error
	// FlushAndLoadFile resets the live ruleset and loads the file verbatim.
	FlushAndLoadFile(ctx context.Context, path string) error
}

// RulesetInspector is optionally implemented by engines that can
// summarize the live ruleset. The summary is logged after activation and
// never influences the outcome.
type RulesetInspector interface {
	LiveSummary(ctx context.Context) (string, error)
}

// GuardController manages the auxiliary guard services (intrusion
// prevention daemons) quiesced around activation.
type GuardController interface {
	IsEnabled(ctx context.Context, unit string) bool
	IsActive(ctx context.Context, unit string) bool
	Stop(ctx context.Context, unit string) error
	Start(ctx context.Context, unit string) error
}

// Manager drives one apply run from validation through commit or
// rollback. A Manager is good for a single Run call; it assumes one
// operator and one in-flight run per host, and takes no lock on the
// snapshot path.
type Manager struct {
	cfg    config.Run
	engine RulesetEngine
	guards GuardController
	store  *backup.Store
	log    *logging.Logger

	in   io.Reader
	out  io.Writer
	euid func() int

	state State
}

// NewManager creates a manager for one apply run. A nil logger falls
// back to the default configuration.
func NewManager(cfg config.Run, engine RulesetEngine, guards GuardController, store *backup.Store, logger *logging.Logger) *Manager {
	if logger == nil {
		logger = logging.New(logging.DefaultConfig()).WithComponent("apply")
	}
	return &Manager{
		cfg:    cfg,
		engine: engine,
		guards: guards,
		store:  store,
		log:    logger,
		in:     os.Stdin,
		out:    os.Stdout,
		euid:   os.Geteuid,
		state:  StateInit,
	}
}

// State returns the phase the run has reached.
func (m *Manager) State() State { return m.state }

// Run executes the apply sequence. The returned error, if any, wraps one
// of the package sentinels so callers can derive the exit code with
// [ExitCode]. The live ruleset is mutated at most twice: once by
// activation and, on a post-activation failure, once by rollback.
func (m *Manager) Run(ctx context.Context) error {
	start := clock.Now()

	if euid := m.euid(); euid != 0 {
		return m.fail(fmt.Errorf("%w (euid %d)", ErrNotRoot, euid))
	}
	if err := checkReadable(m.cfg.DestinationFile); err != nil {
		return m.fail(fmt.Errorf("%w: %v", ErrUnreadableDestination, err))
	}
	m.setState(StateValidated)

	if err := m.store.EnsureDir(); err != nil {
		return m.fail(fmt.Errorf("failed to create backup directory: %w", err))
	}
	if m.store.HasSnapshot() {
		age, aerr := m.store.SnapshotAge()
		if aerr != nil {
			m.log.Warn("overwriting snapshot left behind by an earlier run", "path", m.store.SnapshotPath())
		} else {
			m.log.Warn("overwriting snapshot left behind by an earlier run",
				"path", m.store.SnapshotPath(), "age", age.Round(time.Second))
		}
	}

	live, err := m.engine.ListRuleset(ctx)
	if err != nil {
		return m.fail(err)
	}
	if err := m.store.WriteSnapshot(live); err != nil {
		return m.fail(fmt.Errorf("failed to write snapshot: %w", err))
	}
	m.setState(StateSnapshotted)
	m.log.Debug("live ruleset snapshotted", "path", m.store.SnapshotPath())

	if err := checkReadable(m.cfg.SourceFile); err != nil {
		return m.fail(fmt.Errorf("%w: %v", ErrUnreadableSource, err))
	}

	if err := m.engine.CheckFile(ctx, m.cfg.SourceFile); err != nil {
		// The snapshot stays behind on purpose so the previous ruleset
		// can still be restored by hand.
		return m.fail(fmt.Errorf("%w: %v", ErrInvalidRuleset, err))
	}

	if err := normalizeCandidate(m.cfg.SourceFile); err != nil {
		return m.fail(err)
	}

	if m.cfg.ShowDiff {
		m.printDiff()
	}

	m.quiesceGuards(ctx)
	defer m.resumeGuards()

	m.setState(StateActivating)
	if err := m.activate(ctx); err != nil {
		return m.rollbackAfter(err)
	}
	m.inspectLive(ctx)
	m.probe()

	m.setState(StateConfirmPending)
	if err := confirm(m.in, m.out, m.cfg.Timeout); err != nil {
		return m.rollbackAfter(err)
	}

	entry, err := m.store.Archive(m.cfg.SourceFile)
	if err != nil {
		return m.fail(fmt.Errorf("failed to archive candidate: %w", err))
	}
	m.log.Info("candidate archived", "entry", entry)

	if err := copyFile(m.cfg.SourceFile, m.cfg.DestinationFile); err != nil {
		return m.fail(fmt.Errorf("failed to install candidate: %w", err))
	}
	if err := m.store.RemoveSnapshot(); err != nil {
		m.log.Warn("failed to remove snapshot", "path", m.store.SnapshotPath(), "error", err)
	}

	m.setState(StateCommitted)
	fmt.Fprintf(m.out, "Configuration committed to %s.\n", m.cfg.DestinationFile)
	m.log.Info("apply complete", "duration", clock.Since(start).Round(time.Millisecond))
	return nil
}

// activate loads the candidate under the configured wall-clock limit.
// The engine call races the deadline in a goroutine; when the deadline
// wins, the context kills the underlying process and the result is a
// timeout no matter how the call would have ended.
func (m *Manager) activate(ctx context.Context) error {
	m.log.Info("activating candidate", "source", m.cfg.SourceFile, "timeout", m.cfg.Timeout)

	actx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- m.engine.ApplyFile(actx, m.cfg.SourceFile) }()

	select {
	case err := <-done:
		if err == nil {
			return nil
		}
		if actx.Err() == context.DeadlineExceeded || errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w after %s", ErrApplyTimeout, m.cfg.Timeout)
		}
		return fmt.Errorf("%w: %v", ErrApplyFailed, err)
	case <-actx.Done():
		return fmt.Errorf("%w after %s", ErrApplyTimeout, m.cfg.Timeout)
	}
}

// rollbackAfter restores the snapshot after trigger aborted the run past
// activation. The trigger decides the exit code; a failure during the
// restore is joined onto it and never replaces it. The restore gets a
// fresh bounded context because the surrounding one may already be dead.
func (m *Manager) rollbackAfter(trigger error) error {
	m.log.Error("rolling back", "reason", trigger)
	fmt.Fprintln(m.out, "Rolling back to the previous ruleset.")

	rctx, cancel := context.WithTimeout(context.Background(), m.cfg.Timeout)
	defer cancel()

	if err := m.engine.FlushAndLoadFile(rctx, m.store.SnapshotPath()); err != nil {
		m.setState(StateFailed)
		return errors.Join(trigger, fmt.Errorf("%w: %v", ErrRollbackFailed, err))
	}
	if err := m.store.RemoveSnapshot(); err != nil {
		m.log.Warn("failed to remove snapshot", "path", m.store.SnapshotPath(), "error", err)
	}

	m.setState(StateRolledBack)
	m.log.Info("previous ruleset restored")
	return trigger
}

// quiesceGuards stops every enabled, active guard service for the
// duration of the confirmation window. Failures are logged and swallowed.
func (m *Manager) quiesceGuards(ctx context.Context) {
	for _, unit := range m.cfg.GuardServices {
		if !m.guards.IsEnabled(ctx, unit) || !m.guards.IsActive(ctx, unit) {
			continue
		}
		if err := m.guards.Stop(ctx, unit); err != nil {
			m.log.Warn("failed to stop guard service", "unit", unit, "error", err)
			continue
		}
		m.log.Info("guard service stopped", "unit", unit)
	}
}

// resumeGuards starts every enabled guard service again, whether or not
// this run stopped it. Start is idempotent under systemd, and failures
// are logged and swallowed. Runs on a fresh context so it still works
// when the run's context has been cancelled.
func (m *Manager) resumeGuards() {
	ctx := context.Background()
	for _, unit := range m.cfg.GuardServices {
		if !m.guards.IsEnabled(ctx, unit) {
			continue
		}
		if err := m.guards.Start(ctx, unit); err != nil {
			m.log.Warn("failed to restart guard service", "unit", unit, "error", err)
		}
	}
}

// inspectLive logs a one-line summary of the freshly activated ruleset
// when the engine can produce one.
func (m *Manager) inspectLive(ctx context.Context) {
	insp, ok := m.engine.(RulesetInspector)
	if !ok {
		return
	}
	summary, err := insp.LiveSummary(ctx)
	if err != nil {
		m.log.Debug("ruleset summary unavailable", "error", err)
		return
	}
	m.log.Info("ruleset active", "summary", summary)
}

// probe pings the configured target after activation. The result is
// informational; only the operator's answer decides the outcome.
func (m *Manager) probe() {
	if m.cfg.ProbeTarget == "" {
		return
	}
	if err := probeFunc(m.cfg.ProbeTarget); err != nil {
		m.log.Warn("connectivity probe failed", "target", m.cfg.ProbeTarget, "error", err)
		fmt.Fprintf(m.out, "Warning: probe of %s failed: %v\n", m.cfg.ProbeTarget, err)
		return
	}
	m.log.Info("connectivity probe succeeded", "target", m.cfg.ProbeTarget)
}

// printDiff shows what the candidate changes against the installed
// configuration. Purely informational; any error only skips the preview.
func (m *Manager) printDiff() {
	current, err := os.ReadFile(m.cfg.DestinationFile)
	if err != nil {
		m.log.Debug("diff skipped", "error", err)
		return
	}
	candidate, err := os.ReadFile(m.cfg.SourceFile)
	if err != nil {
		m.log.Debug("diff skipped", "error", err)
		return
	}
	text, err := unifiedDiff(string(current), string(candidate), m.cfg.DestinationFile, m.cfg.SourceFile)
	if err != nil {
		m.log.Debug("diff skipped", "error", err)
		return
	}
	if text == "" {
		fmt.Fprintln(m.out, "No changes against the installed configuration.")
		return
	}
	fmt.Fprint(m.out, text)
}

func (m *Manager) fail(err error) error {
	m.setState(StateFailed)
	return err
}

func (m *Manager) setState(s State) {
	m.state = s
	m.log.Debug("state change", "state", s.String())
}

// checkReadable verifies the file can be opened for reading. Missing
// files and permission problems both surface here.
func checkReadable(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	return f.Close()
}

// copyFile copies src over dst, keeping dst's existing mode when dst is
// already present.
func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	mode := os.FileMode(0644)
	if info, err := os.Stat(dst); err == nil {
		mode = info.Mode().Perm()
	}
	return os.WriteFile(dst, data, mode)
}
