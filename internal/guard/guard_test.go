package guard

import (
	"context"
	"errors"
	"testing"

	"grimm.is/nftapply/internal/command"
)

func TestIsEnabled(t *testing.T) {
	tests := []struct {
		name   string
		runErr error
		want   bool
	}{
		{"enabled unit", nil, true},
		{"disabled unit", errors.New("exit status 1"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRunner := new(command.MockRunner)
			mockRunner.On("Run", "systemctl", "--quiet", "is-enabled", "fail2ban").Return(tt.runErr)

			s := NewSystemd(mockRunner)
			if got := s.IsEnabled(context.Background(), "fail2ban"); got != tt.want {
				t.Errorf("IsEnabled() = %v, want %v", got, tt.want)
			}
			mockRunner.AssertExpectations(t)
		})
	}
}

func TestIsActive(t *testing.T) {
	mockRunner := new(command.MockRunner)
	mockRunner.On("Run", "systemctl", "--quiet", "is-active", "fail2ban").Return(nil)

	s := NewSystemd(mockRunner)
	if !s.IsActive(context.Background(), "fail2ban") {
		t.Error("IsActive() = false, want true")
	}
	mockRunner.AssertExpectations(t)
}

func TestStopAndStart(t *testing.T) {
	mockRunner := new(command.MockRunner)
	mockRunner.On("Run", "systemctl", "stop", "fail2ban").Return(nil)
	mockRunner.On("Run", "systemctl", "start", "fail2ban").Return(nil)

	s := NewSystemd(mockRunner)
	ctx := context.Background()

	if err := s.Stop(ctx, "fail2ban"); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
	if err := s.Start(ctx, "fail2ban"); err != nil {
		t.Errorf("Start() error = %v", err)
	}
	mockRunner.AssertExpectations(t)
}

func TestStop_WrapsError(t *testing.T) {
	mockRunner := new(command.MockRunner)
	mockRunner.On("Run", "systemctl", "stop", "crowdsec").Return(errors.New("unit not found"))

	s := NewSystemd(mockRunner)
	err := s.Stop(context.Background(), "crowdsec")
	if err == nil {
		t.Fatal("Stop() = nil, want error")
	}
}
