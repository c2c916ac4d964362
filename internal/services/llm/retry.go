package llm

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

type retryPolicy struct {
	attempts int
	base     time.Duration
	ceiling  time.Duration
	sleep    func(time.Duration)
}

func defaultRetryPolicy() retryPolicy {
	return retryPolicy{attempts: 5, base: time.Second, ceiling: 10 * time.Second}
}

// retryable reports whether err is transient: a blank reply, a network
// timeout, or an HTTP 408, 429 or 5xx.
func retryable(err error) bool {
	var blank *blankReplyError
	if errors.As(err, &blank) {
		return true
	}
	var herr *httpError
	if errors.As(err, &herr) {
		return herr.code == http.StatusRequestTimeout ||
			herr.code == http.StatusTooManyRequests ||
			herr.code >= http.StatusInternalServerError
	}
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}

// next decides whether attempt (1-based) may be followed by another and how
// long to wait. A server Retry-After wins over the computed backoff.
func (p retryPolicy) next(ctx context.Context, err error, attempt int) (time.Duration, bool) {
	if ctx.Err() != nil || attempt >= max(p.attempts, 1) {
		return 0, false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || !retryable(err) {
		return 0, false
	}
	var herr *httpError
	if errors.As(err, &herr) && herr.retryAfter > 0 {
		return p.clamp(herr.retryAfter), true
	}
	return p.backoff(attempt), true
}

// backoff is base << (attempt-1), clamped to the ceiling.
func (p retryPolicy) backoff(attempt int) time.Duration {
	if p.base <= 0 {
		return 0
	}
	shift := min(attempt-1, 30)
	return p.clamp(p.base << shift)
}

func (p retryPolicy) clamp(d time.Duration) time.Duration {
	switch {
	case d < 0:
		return 0
	case p.ceiling > 0 && d > p.ceiling:
		return p.ceiling
	}
	return d
}

func (p retryPolicy) wait(ctx context.Context, d time.Duration) error {
	if p.sleep != nil || d <= 0 {
		if d > 0 {
			p.sleep(d)
		}
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// parseRetryAfter reads delta-seconds or an HTTP date.
func parseRetryAfter(value string) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(value); err == nil {
		return time.Duration(n) * time.Second, n >= 0
	}
	when, err := http.ParseTime(value)
	if err != nil {
		return 0, false
	}
	d := time.Until(when)
	return d, d > 0
}
