package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
)

// Policy bounds how many times an operation runs and how long to wait
// between runs.
type Policy struct {
	// Attempts is the total number of runs, the first one included.
	Attempts int
	// Delay is the fixed wait between two consecutive runs.
	Delay time.Duration
	// Retryable decides whether a failure is worth another attempt.
	// Nil uses DefaultRetryable.
	Retryable func(err error) bool
	// OnRetry is called after a failed attempt, before waiting.
	OnRetry func(attempt int, err error, wait time.Duration)
}

// DefaultPolicy runs an operation up to three times, two seconds apart.
func DefaultPolicy() Policy {
	return Policy{
		Attempts: 3,
		Delay:    2 * time.Second,
	}
}

// Validate checks the attempt and delay bounds.
func (p Policy) Validate() error {
	err := validation.ValidateStruct(&p,
		validation.Field(&p.Attempts, validation.Required, validation.Min(1)),
		validation.Field(&p.Delay, validation.Min(time.Duration(0))),
	)
	if err != nil {
		return goerrors.FromOzzoValidation(err, "invalid retry policy")
	}
	return nil
}

// DefaultRetryable retries every failure except those that declare
// themselves permanent through IsRetryable() == false, and context
// cancellation.
func DefaultRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var classified interface{ IsRetryable() bool }
	if errors.As(err, &classified) {
		return classified.IsRetryable()
	}
	return true
}

// Do runs op until it succeeds or the policy gives up.
//
// A success returns at once. A failure on the last attempt is returned inside
// an *ExhaustedError carrying the last failure. A failure the policy does not
// consider retryable is returned unchanged. If ctx ends while waiting, the
// context error is returned together with the last failure.
func Do[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if err := p.Validate(); err != nil {
		return zero, err
	}

	retryable := p.Retryable
	if retryable == nil {
		retryable = DefaultRetryable
	}

	for attempt := 1; ; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		if !retryable(err) {
			return zero, err
		}
		if attempt >= p.Attempts {
			return zero, &ExhaustedError{Attempts: attempt, Last: err}
		}

		if p.OnRetry != nil {
			p.OnRetry(attempt, err, p.Delay)
		}
		if waitErr := wait(ctx, p.Delay); waitErr != nil {
			return zero, fmt.Errorf("retry interrupted after attempt %d: %w (last error: %w)", attempt, waitErr, err)
		}
	}
}

// Run is Do for operations without a result.
func Run(ctx context.Context, p Policy, op func(ctx context.Context) error) error {
	_, err := Do(ctx, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
