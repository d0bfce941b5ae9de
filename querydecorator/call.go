package querydecorator

import (
	"maps"
	"slices"

	"github.com/goliatone/go-query-decorators/cache"
)

// Call carries the arguments of a decorated invocation. Stages read it but
// never change it; the operation receives exactly what the caller passed.
type Call struct {
	Positional []any
	Named      map[string]any
}

// Args builds a Call from positional arguments.
func Args(positional ...any) Call {
	return Call{Positional: positional}
}

// NamedQuery builds a Call whose named "query" argument is query.
func NamedQuery(query string, positional ...any) Call {
	return Call{
		Positional: positional,
		Named:      map[string]any{cache.QueryArg: query},
	}
}

// With returns a copy of c with the named argument set.
func (c Call) With(name string, value any) Call {
	named := maps.Clone(c.Named)
	if named == nil {
		named = make(map[string]any, 1)
	}
	named[name] = value
	return Call{Positional: slices.Clone(c.Positional), Named: named}
}

// Arg returns a named argument.
func (c Call) Arg(name string) (any, bool) {
	v, ok := c.Named[name]
	return v, ok
}

// Query returns the SQL text found in the call, if any. See cache.QueryKey.
func (c Call) Query() (string, bool) {
	return cache.QueryKey(c.Named, c.Positional)
}

// QueryArgs returns the positional arguments that are not the query text
// itself, ready to be bound to placeholders.
func (c Call) QueryArgs() []any {
	if c.Named[cache.QueryArg] != nil {
		return c.Positional
	}
	query, ok := c.Query()
	if !ok {
		return c.Positional
	}
	args := make([]any, 0, len(c.Positional))
	skipped := false
	for _, arg := range c.Positional {
		if s, isString := arg.(string); isString && !skipped && s == query {
			skipped = true
			continue
		}
		args = append(args, arg)
	}
	return args
}
