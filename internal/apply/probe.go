package apply

import (
	"fmt"
	"time"

	probing "github.com/prometheus-community/pro-bing"
)

// probeFunc checks reachability of a target after activation. Overridable
// for tests. The probe is advisory only: the confirmation gate, not the
// probe, decides whether the ruleset survives.
var probeFunc = func(target string) error {
	pinger, err := probing.NewPinger(target)
	if err != nil {
		return fmt.Errorf("failed to create pinger: %w", err)
	}

	pinger.Count = 1
	pinger.Timeout = 2 * time.Second
	pinger.SetPrivileged(false)

	if err := pinger.Run(); err != nil {
		return err
	}

	if pinger.Statistics().PacketsRecv == 0 {
		return fmt.Errorf("no reply from %s", target)
	}
	return nil
}
