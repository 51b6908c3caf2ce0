// Package apply implements the safe apply workflow for nftapply.
//
// # Overview
//
// This package drives a candidate nftables ruleset through validation,
// snapshotting, activation and an interactive confirmation gate. Every
// failure after activation rolls the live ruleset back to the snapshot
// taken beforehand, so a bad candidate can never strand the host.
//
// # Architecture
//
//	candidate file → validate → snapshot → activate → confirm → commit
//	                              │            │         │
//	                              │            └─────────┴──→ rollback
//	                              └──→ kept on syntax failure
//
// # Key Types
//
//   - [Manager]: Orchestrates the apply sequence and owns the run state
//   - [RulesetEngine]: nft operations the workflow depends on
//   - [GuardController]: service manager used to quiesce guard daemons
//   - [State]: phase the current run has reached
//
// # Exit Codes
//
// Errors returned by [Manager.Run] map to process exit codes via
// [ExitCode]. Rollback failures are joined onto the triggering error and
// never change the code the trigger already earned.
//
// # Example
//
//	mgr := apply.NewManager(cfg, engine, guards, store, nil)
//	if err := mgr.Run(ctx); err != nil {
//		fmt.Fprintf(os.Stderr, "E: %v\n", err)
//		os.Exit(apply.ExitCode(err))
//	}
package apply
