package testsupport

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-query-decorators/scope"
	"github.com/goliatone/go-query-decorators/store"
)

// FixtureSeed makes FakeUsers deterministic across test runs.
const FixtureSeed int64 = 42

// SQLiteDSN returns the path of a fresh sqlite file inside t.TempDir().
func SQLiteDSN(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "users.db")
}

// SeededOpener creates a sqlite database holding n fake users and returns an
// opener for it together with the inserted users. The pool is closed when the
// test ends.
func SeededOpener(t *testing.T, n int, opts ...store.Option) (*store.Opener, []store.User) {
	t.Helper()

	opener, err := store.NewOpener(SQLiteDSN(t), opts...)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = opener.Close() })

	users := store.FakeUsers(FixtureSeed, n)
	if err := store.Seed(context.Background(), opener.DB(), users); err != nil {
		t.Fatalf("failed to seed test database: %v", err)
	}
	return opener, users
}

// SeededScope is SeededOpener wrapped in a scope.Scope.
func SeededScope(t *testing.T, n int, opts ...scope.Option) (*scope.Scope, []store.User) {
	t.Helper()

	opener, users := SeededOpener(t, n)
	return scope.New(opener, opts...), users
}

// UserRows converts users to the rows "SELECT * FROM users" returns.
func UserRows(users []store.User) store.ResultSet {
	rows := make(store.ResultSet, 0, len(users))
	for _, u := range users {
		rows = append(rows, u.Row())
	}
	return rows
}

// UsersOlderThan filters users by age, keeping order.
func UsersOlderThan(users []store.User, age int64) []store.User {
	var out []store.User
	for _, u := range users {
		if u.Age > age {
			out = append(out, u)
		}
	}
	return out
}
