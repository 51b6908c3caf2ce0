package cmd

import (
	"context"
	"fmt"
	"os"

	"grimm.is/nftapply/internal/apply"
	"grimm.is/nftapply/internal/config"
	"grimm.is/nftapply/internal/logging"
)

// RunCheck dry-runs the candidate ruleset against the engine without
// touching the live ruleset, the installed configuration or the backups.
func RunCheck(cfg config.Run, verbose bool) error {
	logCfg := logging.DefaultConfig()
	if verbose {
		logCfg.Level = logging.LevelDebug
	}
	logging.SetDefault(logging.New(logCfg))

	f, err := os.Open(cfg.SourceFile)
	if err != nil {
		return fmt.Errorf("%w: %v", apply.ErrUnreadableSource, err)
	}
	f.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	if err := newEngine().CheckFile(ctx, cfg.SourceFile); err != nil {
		return fmt.Errorf("%w: %v", apply.ErrInvalidRuleset, err)
	}

	Printer.Printf("Syntax OK: %s\n", cfg.SourceFile)
	return nil
}
