package store

import (
	"context"

	"github.com/brianvoe/gofakeit/v6"
	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// User is a row of the demo users table.
type User struct {
	bun.BaseModel `bun:"table:users"`

	ID    int64  `bun:"id,pk"`
	Name  string `bun:"name,notnull"`
	Email string `bun:"email,notnull"`
	Age   int64  `bun:"age,notnull"`
}

// Row returns the user as a Row in table column order.
func (u User) Row() Row {
	return Row{u.ID, u.Name, u.Email, u.Age}
}

// FakeUsers generates n users with ids 1..n. The same seed yields the same
// users; seed 0 picks a random one.
func FakeUsers(seed int64, n int) []User {
	faker := gofakeit.New(seed)
	users := make([]User, 0, n)
	for i := 1; i <= n; i++ {
		users = append(users, User{
			ID:    int64(i),
			Name:  faker.Name(),
			Email: faker.Email(),
			Age:   int64(faker.Number(18, 80)),
		})
	}
	return users
}

// CreateUsersTable creates the users table when missing.
func CreateUsersTable(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().
		Model((*User)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "create users table")
	}
	return nil
}

// Seed creates the users table, then replaces its rows with users in one
// transaction through the users repository.
func Seed(ctx context.Context, db *bun.DB, users []User) error {
	if err := CreateUsersTable(ctx, db); err != nil {
		return err
	}

	repo := NewUserRepository(db)
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := ReplaceUsers(ctx, tx, repo, users); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryOperation, "seed users table")
		}
		return nil
	})
}
