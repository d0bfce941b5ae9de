package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_ExhaustionReturnsLastFailure(t *testing.T) {
	calls := 0
	var failures []error

	_, err := Do(context.Background(), Policy{Attempts: 3}, func(ctx context.Context) (int, error) {
		calls++
		failure := errors.New("x")
		failures = append(failures, failure)
		return 0, failure
	})

	assert.Equal(t, 3, calls)
	require.Len(t, failures, 3)

	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 3, exhausted.Attempts)
	assert.Same(t, failures[2], exhausted.Last)
	assert.ErrorIs(t, err, failures[2])
	assert.NotErrorIs(t, err, failures[0])
	assert.EqualError(t, exhausted.Last, "x")
}

func TestDo_SucceedsEarly(t *testing.T) {
	calls := 0

	got, err := Do(context.Background(), Policy{Attempts: 3}, func(ctx context.Context) ([][]any, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("database is locked")
		}
		return [][]any{{int64(1), "a"}}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, [][]any{{int64(1), "a"}}, got)
}

func TestDo_SingleAttempt(t *testing.T) {
	calls := 0
	boom := errors.New("no such table: users")

	_, err := Do(context.Background(), Policy{Attempts: 1, Delay: time.Hour}, func(ctx context.Context) (int, error) {
		calls++
		return 0, boom
	})

	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, boom)
	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 1, exhausted.Attempts)
}

func TestDo_WaitsBetweenAttempts(t *testing.T) {
	delay := 15 * time.Millisecond
	start := time.Now()

	_, _ = Do(context.Background(), Policy{Attempts: 3, Delay: delay}, func(ctx context.Context) (int, error) {
		return 0, errors.New("busy")
	})

	assert.GreaterOrEqual(t, time.Since(start), 2*delay)
}

func TestDo_OnRetryHook(t *testing.T) {
	var attempts []int
	p := Policy{
		Attempts: 3,
		Delay:    time.Millisecond,
		OnRetry: func(attempt int, err error, wait time.Duration) {
			attempts = append(attempts, attempt)
			assert.Equal(t, time.Millisecond, wait)
		},
	}

	_, _ = Do(context.Background(), p, func(ctx context.Context) (int, error) {
		return 0, errors.New("busy")
	})

	assert.Equal(t, []int{1, 2}, attempts, "no hook after the final attempt")
}

func TestDo_NonRetryableStopsImmediately(t *testing.T) {
	calls := 0
	permanent := goerrors.NewNonRetryable("malformed statement", goerrors.CategoryBadInput)

	_, err := Do(context.Background(), Policy{Attempts: 5}, func(ctx context.Context) (int, error) {
		calls++
		return 0, permanent
	})

	assert.Equal(t, 1, calls)
	assert.Same(t, permanent, err)
}

func TestDo_CustomClassifier(t *testing.T) {
	transient := errors.New("database is locked")
	calls := 0
	p := Policy{
		Attempts:  4,
		Retryable: func(err error) bool { return errors.Is(err, transient) },
	}

	_, err := Do(context.Background(), p, func(ctx context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, transient
		}
		return 0, errors.New("constraint failed")
	})

	assert.Equal(t, 3, calls)
	assert.EqualError(t, err, "constraint failed")
}

func TestDo_ContextCancelledDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	boom := errors.New("busy")
	calls := 0

	p := Policy{
		Attempts: 5,
		Delay:    time.Hour,
		OnRetry:  func(int, error, time.Duration) { cancel() },
	}

	_, err := Do(ctx, p, func(ctx context.Context) (int, error) {
		calls++
		return 0, boom
	})

	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, boom)
}

func TestDo_InvalidPolicy(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
		field  string
	}{
		{name: "zero attempts", policy: Policy{Attempts: 0}, field: "Attempts"},
		{name: "negative attempts", policy: Policy{Attempts: -2}, field: "Attempts"},
		{name: "negative delay", policy: Policy{Attempts: 1, Delay: -time.Second}, field: "Delay"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			_, err := Do(context.Background(), tt.policy, func(ctx context.Context) (int, error) {
				called = true
				return 1, nil
			})

			require.Error(t, err)
			assert.False(t, called)
			assert.True(t, goerrors.IsValidation(err))
			fields, ok := goerrors.GetValidationErrors(err)
			require.True(t, ok)
			require.Len(t, fields, 1)
			assert.Equal(t, tt.field, fields[0].Field)
		})
	}
}

func TestExhaustedError_Classification(t *testing.T) {
	err := Run(context.Background(), Policy{Attempts: 2}, func(ctx context.Context) error {
		return errors.New("disk I/O error")
	})

	assert.True(t, goerrors.IsCategory(err, goerrors.CategoryOperation))
	var rich *goerrors.Error
	require.ErrorAs(t, err, &rich)
	assert.Equal(t, TextCodeExhausted, rich.TextCode)
	assert.Contains(t, err.Error(), "gave up after 2 attempt(s): disk I/O error")
}

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, 3, p.Attempts)
	assert.Equal(t, 2*time.Second, p.Delay)
	assert.NoError(t, p.Validate())
}

func TestDefaultRetryable(t *testing.T) {
	assert.True(t, DefaultRetryable(errors.New("anything")))
	assert.True(t, DefaultRetryable(goerrors.NewRetryableOperation("busy")))
	assert.False(t, DefaultRetryable(goerrors.NewNonRetryable("bad", goerrors.CategoryValidation)))
	assert.False(t, DefaultRetryable(context.Canceled))
}
