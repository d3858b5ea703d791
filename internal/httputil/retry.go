// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the outbound clients.
package httputil

import (
	"context"
	"io"
	"math"
	"net/http"
	"time"
)

// RetryBaseDelay is the unit duration for backoff waits. Tests override
// this to avoid real sleeps.
var RetryBaseDelay = time.Second

const defaultMaxAttempts = 3

// DoWithRetry executes an HTTP request with bounded retries. Server errors
// (status >= 500) are retried with exponential backoff: the wait after
// attempt n is (2^n + 1) * RetryBaseDelay, so 2 s, 3 s, 5 s with the
// default unit. Transport errors are retried with a 2^n * RetryBaseDelay
// wait. Any response below 500 — including 4xx client errors — is returned
// immediately: a malformed request will not converge by retrying.
//
// When maxAttempts is 0 the default (3) is used. The last 5xx response or
// transport error is returned after exhaustion. If the context is cancelled
// during a backoff wait the function returns ctx.Err().
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxAttempts int) (*http.Response, error) {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			lastErr = err
			if attempt == maxAttempts-1 {
				return nil, lastErr
			}
			if waitErr := wait(ctx, backoff(attempt, 0)); waitErr != nil {
				return nil, waitErr
			}
			continue
		}

		if resp.StatusCode < http.StatusInternalServerError {
			return resp, nil
		}

		// Exhausted attempts — return the 5xx response as-is.
		if attempt == maxAttempts-1 {
			return resp, nil
		}

		// Drain and close the body before retrying.
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if waitErr := wait(ctx, backoff(attempt, 1)); waitErr != nil {
			return nil, waitErr
		}
	}
	return nil, lastErr
}

// backoff returns the wait after the given zero-based attempt: (2^n + extra)
// units.
func backoff(attempt, extra int) time.Duration {
	steps := math.Pow(2, float64(attempt)) + float64(extra)
	return time.Duration(steps) * RetryBaseDelay
}

func wait(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
