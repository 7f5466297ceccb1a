// Package httputil provides HTTP plumbing shared by the registry clients.
//
// # Retry
//
// [Retry] re-runs an operation with exponential backoff when it fails with a
// [RetryableError]. Registry clients wrap transient failures (connection
// errors, timeouts, 5xx and 429 responses) with [Retryable]; everything else
// is returned immediately.
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    return fetch(ctx)
//	})
//
// # Limiter
//
// [Limiter] is the single gate every outbound registry call passes through.
// It caps the number of in-flight calls across all repositories being
// analyzed and spaces call starts by a minimum interval:
//
//	lim := httputil.NewLimiter(10, 100*time.Millisecond)
//	err := lim.Do(ctx, func(ctx context.Context) error {
//	    return fetch(ctx)
//	})
//
// Waiting for a slot honours context cancellation.
package httputil
