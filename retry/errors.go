package retry

import (
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// TextCodeExhausted tags errors returned when every attempt failed.
const TextCodeExhausted = "RETRY_EXHAUSTED"

// ExhaustedError is returned by Do when the last allowed attempt failed.
// errors.Is and errors.As see both the go-errors classification (category
// operation) and the last failure.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("[%s:%s] gave up after %d attempt(s): %v",
		goerrors.CategoryOperation, TextCodeExhausted, e.Attempts, e.Last)
}

// Unwrap returns the classification and the last failure.
func (e *ExhaustedError) Unwrap() []error {
	return []error{e.classification(), e.Last}
}

func (e *ExhaustedError) classification() *goerrors.Error {
	return &goerrors.Error{
		Category:  goerrors.CategoryOperation,
		TextCode:  TextCodeExhausted,
		Message:   fmt.Sprintf("gave up after %d attempt(s)", e.Attempts),
		Metadata:  map[string]any{"attempts": e.Attempts},
		Timestamp: time.Now(),
		Severity:  goerrors.SeverityError,
	}
}
