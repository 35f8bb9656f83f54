package shared

import (
	"context"

	"seatsense/internal/infra/db"
)

// UnitOfWork scopes a group of repository calls to one transaction. The
// reconciler and sweeper rely on it so seat state and booking transitions
// commit (or roll back) together.
type UnitOfWork interface {
	// Within runs fn inside a read-committed transaction, retrying on
	// serialization failures.
	Within(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error

	// DB returns the non-transactional handle for single-statement reads.
	DB() db.DBTX
}
