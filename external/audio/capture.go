package audio

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	maxConsecutiveReadErrors = 50
	readErrorPause           = 10 * time.Millisecond
)

// capture calls read until ctx ends or running reports false, calling store
// after every successful read. A failed read is logged once per streak and
// retried after pause; the take ends with an error once
// maxConsecutiveReadErrors reads in a row have failed.
func capture(ctx context.Context, read func() error, running func() bool, store func() bool, pause time.Duration) error {
	failures := 0
	for ctx.Err() == nil {
		if err := read(); err != nil {
			if !running() {
				return nil
			}
			failures++
			if failures == 1 {
				slog.Warn("failed to read audio stream", "error", err)
			}
			if failures >= maxConsecutiveReadErrors {
				return fmt.Errorf("audio stream read failed %d times in a row: %w", failures, err)
			}
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(pause):
			}
			continue
		}
		failures = 0
		if !store() {
			return nil
		}
	}
	return nil
}
