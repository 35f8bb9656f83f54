//go:build unit || e2e

package builder

import (
	"time"

	domuser "seatsense/internal/domain/user"
)

type UserBuilder struct {
	Email        string
	Username     string
	PasswordHash string
	Role         domuser.Role
	Now          time.Time
}

func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		Email:        "test@example.com",
		Username:     "testuser",
		PasswordHash: "hashed_password",
		Role:         domuser.RoleUser,
		Now:          time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC),
	}
}

func (b *UserBuilder) With(mutate func(*UserBuilder)) *UserBuilder {
	mutate(b)
	return b
}

func (b *UserBuilder) BuildDomain() (*domuser.User, error) {
	return domuser.New(b.Email, b.Username, b.PasswordHash, b.Role, b.Now)
}
