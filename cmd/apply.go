package cmd

import (
	"context"

	"github.com/google/uuid"

	"grimm.is/nftapply/internal/apply"
	"grimm.is/nftapply/internal/backup"
	"grimm.is/nftapply/internal/config"
	"grimm.is/nftapply/internal/guard"
	"grimm.is/nftapply/internal/i18n"
	"grimm.is/nftapply/internal/logging"
	"grimm.is/nftapply/internal/nft"
)

// Printer is the global message printer for the CLI
var Printer = i18n.NewCLIPrinter()

// The real collaborators must satisfy the workflow contracts.
var (
	_ apply.RulesetEngine    = (*nft.Engine)(nil)
	_ apply.RulesetInspector = (*nft.Engine)(nil)
	_ apply.GuardController  = (*guard.Systemd)(nil)
)

// newEngine is overridable for tests.
var newEngine = func() *nft.Engine { return nft.NewEngine(nil) }

// RunApply wires the real collaborators and drives one apply run. The
// returned error is already classified; main derives the exit code from
// it with [apply.ExitCode].
func RunApply(cfg config.Run, verbose bool) error {
	logCfg := logging.DefaultConfig()
	if verbose {
		logCfg.Level = logging.LevelDebug
	}
	logger := logging.New(logCfg)
	logging.SetDefault(logger)

	log := logger.WithComponent("apply").With("run", uuid.NewString())
	log.Debug("starting",
		"source", cfg.SourceFile,
		"destination", cfg.DestinationFile,
		"backup_dir", cfg.BackupDir,
		"timeout", cfg.Timeout)

	store := backup.NewStore(cfg.BackupDir, nil)
	mgr := apply.NewManager(cfg, newEngine(), guard.NewSystemd(nil), store, log)
	return mgr.Run(context.Background())
}
