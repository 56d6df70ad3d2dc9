package workflow

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Countdown shows a bounded, interruptible countdown before a fully
// automated commit-and-push run proceeds. It returns true when interrupted
// by a keypress or context cancellation; callers map that to exit code 130.
func Countdown(ctx context.Context, out io.Writer, in io.Reader, seconds int) bool {
	if seconds <= 0 {
		return false
	}

	keypress := make(chan struct{}, 1)
	go func() {
		buf := make([]byte, 1)
		if _, err := in.Read(buf); err == nil {
			keypress <- struct{}{}
		}
	}()

	for remaining := seconds; remaining > 0; remaining-- {
		fmt.Fprintf(out, "\rAuto-committing and pushing in %ds (press any key to abort)...", remaining)

		select {
		case <-keypress:
			fmt.Fprintln(out, "\naborted")
			return true
		case <-ctx.Done():
			fmt.Fprintln(out, "\naborted")
			return true
		case <-time.After(time.Second):
		}
	}

	fmt.Fprintln(out)
	return false
}
