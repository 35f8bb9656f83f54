package components

import (
	"seatsense/internal/handler"
	"seatsense/internal/handler/api"
	"seatsense/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewBookingHandler,
		api.NewRegistryHandler,
		api.NewDeviceHandler,
		api.NewSuggestionHandler,
		api.NewAdminHandler,
		middleware.NewAuthMiddleware,
		newHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

func newHandlers(
	auth *api.AuthHandler,
	booking *api.BookingHandler,
	registry *api.RegistryHandler,
	device *api.DeviceHandler,
	suggestion *api.SuggestionHandler,
	admin *api.AdminHandler,
) handler.Handlers {
	return handler.Handlers{
		Auth:       auth,
		Booking:    booking,
		Registry:   registry,
		Device:     device,
		Suggestion: suggestion,
		Admin:      admin,
	}
}
