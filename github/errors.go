package github

import (
	"fmt"
	"net/http"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// StatusError is returned when the API answers with a non 2xx status.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

// Unwrap classifies the failure using the HTTP status. Server errors are
// reported as external, client errors keep their specific category.
func (e *StatusError) Unwrap() error {
	category := goerrors.CategoryExternal
	if e.StatusCode < 500 {
		category = goerrors.HTTPStatusToCategory(e.StatusCode)
	}
	return &goerrors.Error{
		Category:  category,
		Code:      e.StatusCode,
		TextCode:  goerrors.HTTPStatusToTextCode(e.StatusCode),
		Message:   http.StatusText(e.StatusCode),
		Metadata:  map[string]any{"url": e.URL},
		Timestamp: time.Now(),
		Severity:  goerrors.SeverityError,
	}
}

// IsRetryable reports whether repeating the request may succeed: server
// errors and rate limiting are, other client errors are not.
func (e *StatusError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}
