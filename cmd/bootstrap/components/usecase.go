package components

import (
	"seatsense/internal/pkg/clock"
	"seatsense/internal/usecase/commands"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
		commands.NewAuthCommands,
		commands.NewBookingCommands,
		commands.NewOccupancyCommands,
		commands.NewSweepCommands,
		commands.NewSuggestionCommands,
		commands.NewTemperatureCommands,
		commands.NewEnergyCommands,
		commands.NewSeatAdminCommands,
	),
)
