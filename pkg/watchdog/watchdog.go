package watchdog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

var ErrStalled = errors.New("watchdog: no readings")

// NewWatchdog returns a loop that fails with ErrStalled when input stays
// quiet for a whole timeout. It returns nil once ctx is done or input is
// closed.
func NewWatchdog[T any](ctx context.Context, name string, timeout time.Duration, input <-chan T) func() error {
	return func() error {
		t := time.NewTimer(timeout)
		defer t.Stop()
		slog.Debug("watchdog started", "name", name, "timeout", timeout)
		for {
			select {
			case <-ctx.Done():
				return nil
			case _, ok := <-input:
				if !ok {
					return nil
				}
				t.Reset(timeout)
			case <-t.C:
				slog.Error("watchdog timeout", "name", name, "timeout", timeout)
				return fmt.Errorf("%w from %s for %s", ErrStalled, name, timeout)
			}
		}
	}
}
