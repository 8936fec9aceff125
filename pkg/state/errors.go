package state

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
	"time"

	apperr "github.com/matzehuels/tickergrid/pkg/errors"
)

// RetryableError marks a backend failure as transient.
type RetryableError struct{ Err error }

// Retryable marks err as transient. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err, or anything it wraps, was marked with
// [Retryable].
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// RetryPolicy bounds the retries of a backend write.
type RetryPolicy struct {
	// Attempts is the total number of calls, including the first.
	Attempts int
	// Delay is the wait before the first retry. Later waits double it.
	Delay time.Duration
}

// DefaultRetry is the policy of [RetryWithBackoff]: three attempts, waiting
// 200ms and then 400ms.
var DefaultRetry = RetryPolicy{Attempts: 3, Delay: 200 * time.Millisecond}

// Do calls fn until it succeeds, fails without the [Retryable] mark, the
// attempts run out or ctx is done. The error returned is never marked
// retryable.
func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	attempts := max(1, p.Attempts)
	delay := p.Delay
	var err error
	for i := range attempts {
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	var re *RetryableError
	if errors.As(err, &re) {
		return re.Err
	}
	return err
}

// RetryWithBackoff runs fn under [DefaultRetry].
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return DefaultRetry.Do(ctx, fn)
}

// retryTransient runs fn under [DefaultRetry], marking the failures that
// classify accepts as retryable.
func retryTransient(ctx context.Context, classify func(error) bool, fn func() error) error {
	return RetryWithBackoff(ctx, func() error {
		err := fn()
		if err != nil && classify(err) {
			return Retryable(err)
		}
		return err
	})
}

// transient reports whether err looks like a dropped or refused connection.
// Cancellation never is.
func transient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, io.EOF) || errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne)
}

// backendErr annotates a failed backend call. Failures that classify accepts
// carry [apperr.ErrCodeNetwork] so callers can tell an unreachable server from
// a rejected request.
func backendErr(err error, classify func(error) bool, format string, args ...any) error {
	if classify(err) {
		return apperr.Wrap(apperr.ErrCodeNetwork, err, format, args...)
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
