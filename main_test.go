package main

import (
	"os"
	"path/filepath"
	"testing"

	"grimm.is/nftapply/internal/apply"
	"grimm.is/nftapply/internal/brand"
)

func TestRunUsageExitCodes(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"help long", []string{"--help"}, apply.ExitUsage},
		{"help short", []string{"-h"}, apply.ExitUsage},
		{"version long", []string{"--version"}, apply.ExitUsage},
		{"version short", []string{"-V"}, apply.ExitUsage},
		{"unknown flag", []string{"--bogus"}, apply.ExitUsage},
		{"positional argument", []string{"stray"}, apply.ExitUsage},
		{"malformed timeout", []string{"-t", "soon"}, apply.ExitUsage},
		{"zero timeout", []string{"-t", "0", "-n"}, apply.ExitUsage},
		{"negative timeout", []string{"-t", "-3", "-n"}, apply.ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(brand.ConfigEnvPrefix+"_CONFIG", filepath.Join(t.TempDir(), "none.hcl"))
			if got := run(tt.args); got != tt.want {
				t.Errorf("run(%v) = %d, want %d", tt.args, got, tt.want)
			}
		})
	}
}

func TestRunCheckMissingSource(t *testing.T) {
	t.Setenv(brand.ConfigEnvPrefix+"_CONFIG", filepath.Join(t.TempDir(), "none.hcl"))

	missing := filepath.Join(t.TempDir(), "missing.conf")
	if got := run([]string{"-n", "-s", missing}); got != apply.ExitUnreadableSource {
		t.Errorf("run(-n -s <missing>) = %d, want %d", got, apply.ExitUnreadableSource)
	}
}

func TestRunExplicitConfigFileErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		missing := filepath.Join(dir, "none.hcl")
		if got := run([]string{"-c", missing, "-n"}); got != apply.ExitFailure {
			t.Errorf("run(-c <missing>) = %d, want %d", got, apply.ExitFailure)
		}
	})

	t.Run("malformed file", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.hcl")
		if err := os.WriteFile(bad, []byte("timeout_seconds = {"), 0644); err != nil {
			t.Fatal(err)
		}
		if got := run([]string{"-c", bad, "-n"}); got != apply.ExitFailure {
			t.Errorf("run(-c <malformed>) = %d, want %d", got, apply.ExitFailure)
		}
	})
}
