package commands

import (
	"context"

	"seatsense/internal/domain/user"
	"seatsense/internal/infra"
	"seatsense/internal/infra/db"
	"seatsense/internal/pkg/clock"
	"seatsense/internal/pkg/errs"
	"seatsense/internal/pkg/jwt"
	"seatsense/internal/pkg/password"
	"seatsense/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrEmailTaken         = errs.New("email already registered")
	ErrInvalidCredentials = errs.New("invalid email or password")
	ErrUserNotFound       = errs.New("user not found")
	ErrInvalidUserInput   = errs.New("invalid registration input")
)

type AuthResult struct {
	UserID      uuid.UUID
	Email       string
	Username    string
	Role        user.Role
	AccessToken string
}

type AuthCommands interface {
	Register(ctx context.Context, email, username, rawPassword string) (*AuthResult, error)
	Login(ctx context.Context, email, rawPassword string) (*AuthResult, error)
	// Me reloads the authenticated user's profile; no new token is issued.
	Me(ctx context.Context, userID uuid.UUID) (*AuthResult, error)
}

type authCommandsImpl struct {
	uow      shared.UnitOfWork
	userRepo UserRepository
	jwtSvc   *jwt.Service
	clock    clock.Clock
}

func NewAuthCommands(
	uow shared.UnitOfWork,
	userRepo UserRepository,
	jwtSvc *jwt.Service,
	clk clock.Clock,
) AuthCommands {
	return &authCommandsImpl{
		uow:      uow,
		userRepo: userRepo,
		jwtSvc:   jwtSvc,
		clock:    clk,
	}
}

func (c *authCommandsImpl) Register(ctx context.Context, email, username, rawPassword string) (*AuthResult, error) {
	hash, err := password.Hash(rawPassword)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidUserInput)
	}

	u, err := user.New(email, username, hash, user.RoleUser, c.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidUserInput)
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := c.userRepo.Create(ctx, tx, u); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return ErrEmailTaken
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return c.issueToken(u)
}

func (c *authCommandsImpl) Login(ctx context.Context, email, rawPassword string) (*AuthResult, error) {
	u, err := c.userRepo.FindByEmail(ctx, c.uow.DB(), email)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if err := password.Compare(u.PasswordHash(), rawPassword); err != nil {
		return nil, ErrInvalidCredentials
	}

	return c.issueToken(u)
}

func (c *authCommandsImpl) Me(ctx context.Context, userID uuid.UUID) (*AuthResult, error) {
	u, err := c.userRepo.FindByID(ctx, c.uow.DB(), userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return &AuthResult{
		UserID:   u.ID(),
		Email:    u.Email(),
		Username: u.Username(),
		Role:     u.Role(),
	}, nil
}

func (c *authCommandsImpl) issueToken(u *user.User) (*AuthResult, error) {
	token, err := c.jwtSvc.GenerateToken(u.ID(), u.Role())
	if err != nil {
		return nil, errs.Wrap(err, "failed to sign access token")
	}
	return &AuthResult{
		UserID:      u.ID(),
		Email:       u.Email(),
		Username:    u.Username(),
		Role:        u.Role(),
		AccessToken: token,
	}, nil
}
