package extract

import (
	"context"
	"time"
)

// DefaultRetries is the number of attempts for extraction calls.
const DefaultRetries = 3

// retryDo runs fn up to attempts times, sleeping backoff between failures.
// It returns the first success or the last error. A cancelled context stops
// retrying immediately. Callers must not use this around duplicate checks or
// persistence; only the external extraction call is retried.
func retryDo(ctx context.Context, attempts int, backoff time.Duration, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return err
}
