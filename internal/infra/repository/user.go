package repository

import (
	"context"
	"errors"
	"time"

	"seatsense/internal/domain/user"
	"seatsense/internal/infra"
	"seatsense/internal/infra/db"
	"seatsense/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgErrCodeUniqueViolation = "23505"

type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func (r *UserRepository) Create(ctx context.Context, tx db.DBTX, u *user.User) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO users (id, email, username, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID(), u.Email(), u.Username(), u.PasswordHash(), string(u.Role()), u.CreatedAt())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrCodeUniqueViolation {
			return infra.WrapRepoErr("email already registered", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create user", err)
	}
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, tx db.DBTX, email string) (*user.User, error) {
	row := tx.QueryRow(ctx, `
		SELECT id, email, username, password_hash, role, created_at
		FROM users WHERE email = $1`, email)
	return scanUser(row, "failed to find user by email")
}

func (r *UserRepository) FindByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*user.User, error) {
	row := tx.QueryRow(ctx, `
		SELECT id, email, username, password_hash, role, created_at
		FROM users WHERE id = $1`, id)
	return scanUser(row, "failed to find user by id")
}

func scanUser(row rowScanner, msg string) (*user.User, error) {
	var (
		id                            uuid.UUID
		email, username, hash, role   string
		createdAt                     time.Time
	)
	if err := row.Scan(&id, &email, &username, &hash, &role, &createdAt); err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr(msg, err)
	}
	return user.Reconstruct(id, email, username, hash, user.Role(role), createdAt), nil
}
