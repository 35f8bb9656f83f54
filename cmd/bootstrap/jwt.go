package bootstrap

import (
	"seatsense/internal/handler/middleware"
	"seatsense/internal/pkg/config"
	"seatsense/internal/pkg/jwt"

	"go.uber.org/fx"
)

var JWTModule = fx.Module("jwt",
	fx.Provide(
		NewJWTService,
		func(svc *jwt.Service) middleware.TokenValidator { return svc },
	),
)

func NewJWTService(cfg config.Config) *jwt.Service {
	return jwt.NewService(cfg.JWT.Secret, cfg.JWT.Duration)
}
