package store

import (
	"context"
	"encoding/binary"
	"strconv"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewUserRepository returns the bun repository of the users table.
//
// Users are keyed by integer ids. The repository handlers speak uuids, so
// GetID maps a non-zero id into the low eight bytes of a uuid and SetID
// leaves the record alone: ids are always assigned by the caller.
func NewUserRepository(db *bun.DB) repository.Repository[*User] {
	return repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User {
			return &User{}
		},
		GetID: func(u *User) uuid.UUID {
			return userUUID(u.ID)
		},
		SetID: func(*User, uuid.UUID) {},
		GetIdentifier: func() string {
			return "email"
		},
	})
}

func userUUID(id int64) uuid.UUID {
	var u uuid.UUID
	if id == 0 {
		return u
	}
	binary.BigEndian.PutUint64(u[8:], uint64(id))
	return u
}

// UserID formats an id for repository lookups such as GetByID.
func UserID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// clearAll is a delete criteria matching every row.
func clearAll(q *bun.DeleteQuery) *bun.DeleteQuery {
	return q.Where("1 = 1")
}

// ReplaceUsers deletes every user and inserts users through repo inside tx.
func ReplaceUsers(ctx context.Context, tx bun.IDB, repo repository.Repository[*User], users []User) error {
	if err := repo.DeleteWhereTx(ctx, tx, clearAll); err != nil {
		return err
	}
	if len(users) == 0 {
		return nil
	}

	records := make([]*User, len(users))
	for i, u := range users {
		records[i] = &u
	}
	_, err := repo.CreateManyTx(ctx, tx, records)
	return err
}
