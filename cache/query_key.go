package cache

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// QueryArg is the named argument that, when present, is used as the cache
// key.
const QueryArg = "query"

// QueryVerbs lists the leading tokens that mark a positional string argument
// as SQL text.
var QueryVerbs = []string{"select", "insert", "update", "delete", "with"}

// QueryKey derives the cache key for a call from its arguments.
//
// A non-nil named "query" argument always wins: a string is used verbatim,
// any other value is rendered with fmt.Sprint. Otherwise positional
// arguments are scanned in order and the first string whose trimmed,
// lower-cased text starts with one of QueryVerbs is used. The key is the
// original text, not the normalised form, so "SELECT 1" and "select 1" are
// different entries.
//
// ok is false when no argument qualifies; callers must then skip caching.
func QueryKey(named map[string]any, positional []any) (key string, ok bool) {
	if q, found := named[QueryArg]; found && q != nil {
		if s, isString := q.(string); isString {
			return s, true
		}
		return fmt.Sprint(q), true
	}

	for _, arg := range positional {
		s, isString := arg.(string)
		if !isString {
			continue
		}
		if LooksLikeQuery(s) {
			return s, true
		}
	}

	return "", false
}

// LooksLikeQuery reports whether s starts with one of QueryVerbs, ignoring
// case and surrounding whitespace.
func LooksLikeQuery(s string) bool {
	normalized := strings.ToLower(strings.TrimSpace(s))
	for _, verb := range QueryVerbs {
		if strings.HasPrefix(normalized, verb) {
			return true
		}
	}
	return false
}

// Fingerprint returns a short, stable hex digest of key for log lines, where
// the full query text would be noisy.
func Fingerprint(key string) string {
	return strconv.FormatUint(xxhash.Sum64String(key), 16)
}
