package components

import (
	"seatsense/internal/infra/db"
	"seatsense/internal/infra/readstore"
	repo_impl "seatsense/internal/infra/repository"
	"seatsense/internal/infra/uow"
	"seatsense/internal/usecase/commands"
	"seatsense/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewDBTX,
		uow.NewPostgresUoW,
		fx.Annotate(
			repo_impl.NewSeatRepository,
			fx.As(new(commands.SeatRepository)),
		),
		fx.Annotate(
			repo_impl.NewRoomRepository,
			fx.As(new(commands.RoomRepository)),
		),
		fx.Annotate(
			repo_impl.NewBookingRepository,
			fx.As(new(commands.BookingRepository)),
		),
		fx.Annotate(
			repo_impl.NewUserRepository,
			fx.As(new(commands.UserRepository)),
		),
		fx.Annotate(
			repo_impl.NewTemperatureRepository,
			fx.As(new(commands.TemperatureRepository)),
		),
		fx.Annotate(
			repo_impl.NewEnergyRepository,
			fx.As(new(commands.EnergyRepository)),
		),
		fx.Annotate(
			repo_impl.NewSuggestionRepository,
			fx.As(new(commands.SuggestionRepository)),
		),
		// Read-side stores for queries
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(queries.BookingQueries)),
		),
		fx.Annotate(
			readstore.NewRegistryReadStore,
			fx.As(new(queries.RegistryQueries)),
		),
		fx.Annotate(
			readstore.NewStatsReadStore,
			fx.As(new(queries.StatsQueries)),
		),
		// The suggestion store serves reads and is the cache the write side
		// invalidates after a generation run.
		readstore.NewSuggestionReadStore,
		func(s *readstore.SuggestionReadStore) queries.SuggestionQueries { return s },
		func(s *readstore.SuggestionReadStore) commands.SuggestionCache { return s },
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
