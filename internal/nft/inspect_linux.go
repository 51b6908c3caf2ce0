//go:build linux
// +build linux

package nft

import (
	"context"
	"fmt"

	"github.com/google/nftables"
)

// LiveSummary reports a one-line count of tables and chains in the live
// ruleset, read directly over netlink rather than through the nft binary.
// Advisory output for the operator deciding at the confirmation gate.
func (e *Engine) LiveSummary(ctx context.Context) (string, error) {
	conn, err := nftables.New()
	if err != nil {
		return "", fmt.Errorf("failed to open netlink connection: %w", err)
	}

	tables, err := conn.ListTables()
	if err != nil {
		return "", fmt.Errorf("failed to list tables: %w", err)
	}
	chains, err := conn.ListChains()
	if err != nil {
		return "", fmt.Errorf("failed to list chains: %w", err)
	}

	return fmt.Sprintf("%d tables, %d chains", len(tables), len(chains)), nil
}
