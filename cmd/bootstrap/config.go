package bootstrap

import (
	"seatsense/internal/pkg/config"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		loadConfig,
	),
)

// loadConfig reads a local .env first so development overrides win; a missing
// file is fine, containers inject the environment directly.
func loadConfig() (config.Config, error) {
	_ = godotenv.Load()
	return config.LoadConfig()
}
