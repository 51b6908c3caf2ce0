//go:build !linux
// +build !linux

package nft

import (
	"context"
	"errors"
)

// LiveSummary is unavailable off Linux; nftables state lives in the Linux
// kernel.
func (e *Engine) LiveSummary(ctx context.Context) (string, error) {
	return "", errors.New("ruleset inspection requires Linux")
}
