package nft

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"

	"grimm.is/nftapply/internal/command"
)

func TestListRuleset(t *testing.T) {
	mockRunner := new(command.MockRunner)
	engine := NewEngine(mockRunner)

	ruleset := "table inet filter {\n}\n"
	mockRunner.On("Output", "nft", "list", "ruleset").Return([]byte(ruleset), nil)

	got, err := engine.ListRuleset(context.Background())
	if err != nil {
		t.Fatalf("ListRuleset() error = %v", err)
	}
	if got != ruleset {
		t.Errorf("ListRuleset() = %q, want verbatim %q", got, ruleset)
	}

	mockRunner.AssertExpectations(t)
}

func TestListRuleset_Error(t *testing.T) {
	mockRunner := new(command.MockRunner)
	engine := NewEngine(mockRunner)

	mockRunner.On("Output", "nft", "list", "ruleset").Return(nil, os.ErrPermission)

	if _, err := engine.ListRuleset(context.Background()); err == nil {
		t.Error("ListRuleset() = nil, want error")
	}
}

func TestCheckFile(t *testing.T) {
	mockRunner := new(command.MockRunner)
	engine := NewEngine(mockRunner)

	mockRunner.On("Run", "nft", "-c", "-f", "/tmp/candidate.nft").Return(nil)

	if err := engine.CheckFile(context.Background(), "/tmp/candidate.nft"); err != nil {
		t.Errorf("CheckFile() error = %v", err)
	}

	mockRunner.AssertExpectations(t)
}

func TestCheckFile_InvalidSyntax(t *testing.T) {
	mockRunner := new(command.MockRunner)
	engine := NewEngine(mockRunner)

	mockRunner.On("Run", "nft", "-c", "-f", "/tmp/broken.nft").Return(os.ErrInvalid)

	err := engine.CheckFile(context.Background(), "/tmp/broken.nft")
	if err == nil {
		t.Fatal("CheckFile() = nil, want error")
	}
	if !strings.Contains(err.Error(), "dry run failed") {
		t.Errorf("CheckFile() error = %v, want dry run failure", err)
	}
}

func TestApplyFile(t *testing.T) {
	mockRunner := new(command.MockRunner)
	engine := NewEngine(mockRunner)

	mockRunner.On("Run", "nft", "-f", "/tmp/candidate.nft").Return(nil)

	if err := engine.ApplyFile(context.Background(), "/tmp/candidate.nft"); err != nil {
		t.Errorf("ApplyFile() error = %v", err)
	}

	mockRunner.AssertExpectations(t)
}

func TestFlushAndLoadFile(t *testing.T) {
	mockRunner := new(command.MockRunner)
	engine := NewEngine(mockRunner)

	snapshot := filepath.Join(t.TempDir(), "nftables.conf.bak")
	content := "table inet filter {\n\tchain input {\n\t}\n}\n"
	if err := os.WriteFile(snapshot, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	mockRunner.On("Run", "nft", "flush", "ruleset").Return(nil)
	mockRunner.On("RunInput", content, "nft", "-f", "-").Return(nil)

	if err := engine.FlushAndLoadFile(context.Background(), snapshot); err != nil {
		t.Fatalf("FlushAndLoadFile() error = %v", err)
	}

	mockRunner.AssertExpectations(t)
}

func TestFlushAndLoadFile_MissingSnapshot(t *testing.T) {
	mockRunner := new(command.MockRunner)
	engine := NewEngine(mockRunner)

	err := engine.FlushAndLoadFile(context.Background(), "/does/not/exist.bak")
	if err == nil {
		t.Fatal("FlushAndLoadFile() = nil, want read error")
	}
	// The flush must not run when the snapshot cannot be read.
	mockRunner.AssertNotCalled(t, "Run", "nft", "flush", "ruleset")
}

func TestFlushAndLoadFile_FlushFails(t *testing.T) {
	mockRunner := new(command.MockRunner)
	engine := NewEngine(mockRunner)

	snapshot := filepath.Join(t.TempDir(), "nftables.conf.bak")
	if err := os.WriteFile(snapshot, []byte("table ip nat {}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	mockRunner.On("Run", "nft", "flush", "ruleset").Return(os.ErrPermission)

	if err := engine.FlushAndLoadFile(context.Background(), snapshot); err == nil {
		t.Error("FlushAndLoadFile() = nil, want flush error")
	}
	mockRunner.AssertNotCalled(t, "RunInput", mock.Anything, "nft", "-f", "-")
}
