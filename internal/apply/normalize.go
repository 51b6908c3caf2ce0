package apply

import (
	"fmt"
	"os"
	"strings"
)

// flushDirective resets the engine to an empty ruleset. A candidate that
// starts with it fully replaces the live rules; one that does not would
// merge into whatever is already loaded.
const flushDirective = "flush ruleset"

// startsWithFlush reports whether the first effective line of data, the
// first line that is neither blank nor a # comment, is the flush directive.
func startsWithFlush(data []byte) bool {
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		return trimmed == flushDirective
	}
	return false
}

// normalizeCandidate rewrites the candidate file in place, prepending the
// flush directive when it is missing. The file mode is preserved. Files
// that already start with the directive are left untouched.
func normalizeCandidate(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read candidate: %w", err)
	}
	if startsWithFlush(data) {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat candidate: %w", err)
	}
	out := append([]byte(flushDirective+"\n"), data...)
	if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to rewrite candidate: %w", err)
	}
	return nil
}
