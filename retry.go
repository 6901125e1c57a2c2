package rtkaller

import (
	"context"
	"time"
)

// pollUntil repeatedly calls fn every interval until it reports done=true,
// ctx is cancelled, or maxAttempts is exhausted (0 means unbounded: the
// caller relies on ctx for a deadline instead). It returns the last error
// seen from fn, or ctx.Err() if the context was the reason for stopping.
//
// This generalizes the teacher's waitCQETimeoutPoll/WaitCQEContext shape
// (non-blocking check, short sleep, loop until deadline or context
// cancellation) into the debugger backend's rendezvous polling loops
// (spec.md §4.6: wait-task-ready at 5ms/600 retries, monitor at 50ms/200
// retries, crash-info at 200ms/100 retries, and the 5ms/10s memory-access
// retry wrapper).
func pollUntil(ctx context.Context, interval time.Duration, maxAttempts int, fn func(attempt int) (done bool, err error)) error {
	var lastErr error
	for attempt := 0; maxAttempts == 0 || attempt < maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		done, err := fn(attempt)
		if done {
			return err
		}
		lastErr = err

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}
