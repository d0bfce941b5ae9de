package scope

import (
	"errors"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

var (
	errNoOpener  = errors.New("scope has no opener")
	errNilHandle = errors.New("opener returned a nil handle")
)

// AcquireError reports that a handle could not be opened. The operation was
// not invoked and nothing needs releasing.
type AcquireError struct {
	// Scope is the name of the scope that failed.
	Scope string
	err   *goerrors.Error
}

func newAcquireError(scope string, cause error) *AcquireError {
	return &AcquireError{
		Scope: scope,
		err: &goerrors.Error{
			Category:  goerrors.CategoryExternal,
			TextCode:  "ACQUIRE_FAILED",
			Message:   "acquire connection for scope " + scope,
			Source:    cause,
			Timestamp: time.Now(),
			Location:  goerrors.Here(),
			Severity:  goerrors.SeverityError,
		},
	}
}

func (e *AcquireError) Error() string {
	return e.err.Error()
}

// IsRetryable reports false: a scope that cannot open a handle is not
// retried by the retry package's default classifier.
func (e *AcquireError) IsRetryable() bool {
	return false
}

// Unwrap exposes the go-errors value, whose own Unwrap reaches the cause.
func (e *AcquireError) Unwrap() error {
	return e.err
}

// IsAcquireError reports whether err is or wraps an *AcquireError.
func IsAcquireError(err error) bool {
	var acquireErr *AcquireError
	return errors.As(err, &acquireErr)
}
