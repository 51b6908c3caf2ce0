package apply

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
)

// affirmative is the only answer that keeps the new ruleset. Everything
// else, including silence, rolls back.
const affirmative = "y"

type answer struct {
	text string
	err  error
}

// confirm prompts on w and waits up to timeout for an answer on r. It
// returns nil only for an affirmative answer. Empty input, any other
// text, a read error and a timeout all count as denial; the returned
// error wraps ErrConfirmationDenied and says which it was.
//
// The read itself cannot be cancelled, so it runs in a goroutine raced
// against the deadline. An answer that arrives after the deadline loses
// the race and is treated as if it never came.
func confirm(r io.Reader, w io.Writer, timeout time.Duration) error {
	fmt.Fprintf(w, "Changes applied. Confirm within %s or they will be rolled back [y/N]: ", timeout)

	ch := make(chan answer, 1)
	go func() {
		line, err := bufio.NewReader(r).ReadString('\n')
		ch <- answer{text: line, err: err}
	}()

	select {
	case a := <-ch:
		got := strings.TrimSpace(a.text)
		if got == affirmative {
			return nil
		}
		if a.err != nil && got == "" {
			return fmt.Errorf("%w: %v", ErrConfirmationDenied, a.err)
		}
		return fmt.Errorf("%w: answered %q", ErrConfirmationDenied, got)
	case <-time.After(timeout):
		return fmt.Errorf("%w: no answer within %s", ErrConfirmationDenied, timeout)
	}
}
