package postgres

import (
	"context"

	"github.com/lalith-99/taskdeck/internal/db"
	"github.com/lalith-99/taskdeck/internal/repository"
)

// Conn is what the store needs from its database handle.
// *pgxpool.Pool satisfies it, and so does a pgxmock pool in tests.
type Conn interface {
	db.DBTX
	db.Beginner
}

// Store vends Postgres-backed repositories bound either to the pool or to
// a transaction.
type Store struct {
	pool Conn
}

func NewStore(pool Conn) *Store {
	return &Store{pool: pool}
}

// Repos returns repositories that run each statement on the pool.
func (s *Store) Repos() repository.Repos {
	return reposFor(s.pool)
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, r repository.Repos) error) error {
	return db.WithTx(ctx, s.pool, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, reposFor(tx))
	})
}

func reposFor(q db.DBTX) repository.Repos {
	return repository.Repos{
		Users:       NewUserStore(q),
		Sessions:    NewSessionStore(q),
		Workspaces:  NewWorkspaceStore(q),
		Memberships: NewMembershipStore(q),
		Tasks:       NewTaskStore(q),
		Assignees:   NewAssigneeStore(q),
		Media:       NewMediaStore(q),
	}
}
