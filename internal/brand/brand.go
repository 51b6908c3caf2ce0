// Package brand provides centralized identity constants for the tool.
// Keeping name, default paths, and build metadata in one place means the
// CLI surface, logs, and docs all agree on what the binary calls itself.
package brand

import "os"

// Product identity.
const (
	Name            = "nftapply"
	LowerName       = "nftapply"
	Description     = "safely apply an nftables ruleset with automatic rollback"
	ConfigEnvPrefix = "NFTAPPLY"
)

// Default filesystem layout. The candidate/destination/backup paths are part
// of the CLI contract; the tool config file only supplies optional defaults.
const (
	DefaultSourceFile      = "/etc/nftables-candidate.conf"
	DefaultDestinationFile = "/etc/nftables.conf"
	DefaultBackupDir       = "/etc/nftables"
	DefaultConfigFile      = "/etc/nftapply.hcl"
)

// Build metadata, set at build time via -ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// GetConfigFile returns the tool config file path, checking env first.
// Priority: NFTAPPLY_CONFIG > DefaultConfigFile.
func GetConfigFile() string {
	if path := os.Getenv(ConfigEnvPrefix + "_CONFIG"); path != "" {
		return path
	}
	return DefaultConfigFile
}
