package store

import (
	"context"
	"database/sql"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// Row is one result row, column values in select order.
type Row []any

// ResultSet is an ordered list of rows.
type ResultSet []Row

// Result is a ResultSet with its column names.
type Result struct {
	Columns []string
	Rows    ResultSet
}

// Querier runs a statement that returns rows. scope.Handle, bun.Conn and
// *bun.DB all satisfy it.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Execer runs a statement that returns no rows.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Query runs query and collects every row along with the column names.
func Query(ctx context.Context, q Querier, query string, args ...any) (Result, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return Result{}, operationError(err, "query failed", query)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return Result{}, operationError(err, "read columns", query)
	}

	set := ResultSet{}
	for rows.Next() {
		values := make(Row, len(columns))
		targets := make([]any, len(columns))
		for i := range values {
			targets[i] = &values[i]
		}
		if err := rows.Scan(targets...); err != nil {
			return Result{}, operationError(err, "scan row", query)
		}
		set = append(set, values)
	}
	if err := rows.Err(); err != nil {
		return Result{}, operationError(err, "iterate rows", query)
	}

	return Result{Columns: columns, Rows: set}, nil
}

// FetchAll runs query and returns every row. An empty result is an empty,
// non-nil ResultSet.
func FetchAll(ctx context.Context, q Querier, query string, args ...any) (ResultSet, error) {
	res, err := Query(ctx, q, query, args...)
	if err != nil {
		return nil, err
	}
	return res.Rows, nil
}

// FetchOne returns the first row. When there is none the error has category
// not_found and wraps sql.ErrNoRows.
func FetchOne(ctx context.Context, q Querier, query string, args ...any) (Row, error) {
	set, err := FetchAll(ctx, q, query, args...)
	if err != nil {
		return nil, err
	}
	if len(set) == 0 {
		return nil, &goerrors.Error{
			Category:  goerrors.CategoryNotFound,
			Message:   "no rows",
			Source:    sql.ErrNoRows,
			Metadata:  map[string]any{"query": query},
			Timestamp: time.Now(),
			Location:  goerrors.Here(),
			Severity:  goerrors.SeverityWarning,
		}
	}
	return set[0], nil
}

// Exec runs a statement and reports the number of affected rows.
func Exec(ctx context.Context, e Execer, query string, args ...any) (int64, error) {
	res, err := e.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, operationError(err, "exec failed", query)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, operationError(err, "rows affected", query)
	}
	return n, nil
}

func operationError(err error, message, query string) error {
	return &goerrors.Error{
		Category:  goerrors.CategoryOperation,
		Message:   message,
		Source:    err,
		Metadata:  map[string]any{"query": query},
		Timestamp: time.Now(),
		Location:  goerrors.Here(),
		Severity:  goerrors.SeverityError,
	}
}
