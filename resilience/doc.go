// Package resilience provides bounded-wait execution for health probes.
//
// A Timeout runs an operation in its own goroutine and returns as soon as
// the operation finishes or its budget elapses, whichever comes first. The
// operation's context is cancelled when the budget elapses, but the caller
// never waits for the operation to observe that cancellation: an operation
// that ignores its context keeps running in the background while the
// caller moves on.
//
// # Usage
//
//	err := resilience.ExecuteWithTimeout(ctx, 2*time.Second, func(ctx context.Context) error {
//	    return db.PingContext(ctx)
//	})
//	if errors.Is(err, resilience.ErrTimeout) {
//	    // budget exceeded
//	}
package resilience
