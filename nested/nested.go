// Package nested reads values out of decoded JSON style maps by key path.
package nested

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// KeyError reports the first key of a path that could not be resolved.
type KeyError struct {
	Key string
	// Path is the full path that was requested.
	Path []string
}

// Error returns the missing key quoted, e.g. "b".
func (e *KeyError) Error() string {
	return strconv.Quote(e.Key)
}

// Unwrap classifies the failure as not_found.
func (e *KeyError) Unwrap() error {
	return &goerrors.Error{
		Category:  goerrors.CategoryNotFound,
		Message:   "missing key " + strconv.Quote(e.Key) + " in path " + strings.Join(e.Path, "."),
		Metadata:  map[string]any{"key": e.Key, "path": e.Path},
		Timestamp: time.Now(),
		Severity:  goerrors.SeverityWarning,
	}
}

// Access walks m along path and returns the value found at the end. An empty
// path returns m itself. When a key is missing, or an intermediate value is
// not a map, it returns a *KeyError naming that key.
func Access(m map[string]any, path ...string) (any, error) {
	var current any = m
	for _, key := range path {
		next, ok := lookup(current, key)
		if !ok {
			return nil, &KeyError{Key: key, Path: append([]string(nil), path...)}
		}
		current = next
	}
	return current, nil
}

// Get is Access with the result converted to T. A value of another type is
// reported as a validation error.
func Get[T any](m map[string]any, path ...string) (T, error) {
	var zero T
	v, err := Access(m, path...)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, goerrors.New(
			fmt.Sprintf("value at %s has type %T", strings.Join(path, "."), v),
			goerrors.CategoryValidation,
		)
	}
	return typed, nil
}

func lookup(current any, key string) (any, bool) {
	switch m := current.(type) {
	case map[string]any:
		v, ok := m[key]
		return v, ok
	case nil:
		return nil, false
	}

	rv := reflect.ValueOf(current)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	v := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
	if !v.IsValid() {
		return nil, false
	}
	return v.Interface(), true
}
