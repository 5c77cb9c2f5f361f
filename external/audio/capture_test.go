package audio

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errDeviceGone = errors.New("device unplugged")

func alwaysRunning() bool { return true }

func TestCapture_PersistentReadErrorEndsTake(t *testing.T) {
	reads := 0
	read := func() error {
		reads++
		return errDeviceGone
	}
	store := func() bool {
		t.Fatal("store must not run after a failed read")
		return false
	}

	err := capture(context.Background(), read, alwaysRunning, store, time.Microsecond)
	if !errors.Is(err, errDeviceGone) {
		t.Fatalf("expected read error, got %v", err)
	}
	if reads != maxConsecutiveReadErrors {
		t.Fatalf("expected %d reads, got %d", maxConsecutiveReadErrors, reads)
	}
}

func TestCapture_SuccessResetsFailureStreak(t *testing.T) {
	reads, stored := 0, 0
	read := func() error {
		reads++
		// Fail every other read; the streak never reaches the limit.
		if reads%2 == 0 {
			return errDeviceGone
		}
		return nil
	}
	store := func() bool {
		stored++
		return stored < maxConsecutiveReadErrors
	}

	if err := capture(context.Background(), read, alwaysRunning, store, time.Microsecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored != maxConsecutiveReadErrors {
		t.Fatalf("expected %d stored buffers, got %d", maxConsecutiveReadErrors, stored)
	}
}

func TestCapture_ErrorAfterStopIsIgnored(t *testing.T) {
	reads := 0
	read := func() error {
		reads++
		return errDeviceGone
	}
	stopped := func() bool { return false }

	if err := capture(context.Background(), read, stopped, func() bool { return true }, time.Microsecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reads != 1 {
		t.Fatalf("expected a single read, got %d", reads)
	}
}

func TestCapture_CanceledContextStopsBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	read := func() error {
		cancel()
		return errDeviceGone
	}

	if err := capture(ctx, read, alwaysRunning, func() bool { return true }, time.Hour); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
