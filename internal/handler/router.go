package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"seatsense/internal/domain/user"
	"seatsense/internal/handler/api"
	"seatsense/internal/handler/middleware"
	"seatsense/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Auth       *api.AuthHandler
	Booking    *api.BookingHandler
	Registry   *api.RegistryHandler
	Device     *api.DeviceHandler
	Suggestion *api.SuggestionHandler
	Admin      *api.AdminHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, logger *slog.Logger, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, h, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *slog.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(logger))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	adminOnly := authMiddleware.RequireRoleAtLeast(user.RoleAdmin)

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/register", Handler: h.Auth.Register},
				{Method: http.MethodPost, Path: "/login", Handler: h.Auth.Login},
			})

			authRequired := auth.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodGet, Path: "/me", Handler: h.Auth.Me},
			})
		}

		bookings := apiGroup.Group("/bookings")
		bookings.Use(authMiddleware.RequireAuth())
		{
			addRoutes(bookings, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Booking.Create},
				{Method: http.MethodGet, Path: "", Handler: h.Booking.ListMine},
				{Method: http.MethodPost, Path: "/checkin", Handler: h.Booking.CheckIn},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Booking.GetByID},
				{Method: http.MethodDelete, Path: "/:id", Handler: h.Booking.Cancel},
			})
		}

		seats := apiGroup.Group("/seats")
		seats.Use(authMiddleware.RequireAuth())
		{
			addRoutes(seats, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Registry.ListSeats},
				{Method: http.MethodGet, Path: "/:seatId/bookings", Handler: h.Booking.ListBySeat},
				{Method: http.MethodPut, Path: "/:seatId/active", Handler: h.Registry.SetSeatActive, Mw: []gin.HandlerFunc{adminOnly}},
			})
		}

		rooms := apiGroup.Group("/rooms")
		rooms.Use(authMiddleware.RequireAuth())
		{
			addRoutes(rooms, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Registry.ListRooms},
			})
		}

		devices := apiGroup.Group("/devices")
		devices.Use(authMiddleware.RequireAuth())
		{
			addRoutes(devices, []route{
				{Method: http.MethodPost, Path: "/occupancy", Handler: h.Device.ReportOccupancy},
				{Method: http.MethodPost, Path: "/temperature", Handler: h.Device.ReportTemperature},
			})
		}

		suggestions := apiGroup.Group("/suggestions")
		suggestions.Use(authMiddleware.RequireAuth())
		{
			addRoutes(suggestions, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Suggestion.List},
				{Method: http.MethodGet, Path: "/explain/:seatId", Handler: h.Suggestion.Explain},
				{Method: http.MethodPost, Path: "/generate", Handler: h.Suggestion.Generate, Mw: []gin.HandlerFunc{adminOnly}},
			})
		}

		admin := apiGroup.Group("/admin")
		admin.Use(authMiddleware.RequireAuth(), adminOnly)
		{
			addRoutes(admin, []route{
				{Method: http.MethodGet, Path: "/stats", Handler: h.Admin.Stats},
				{Method: http.MethodGet, Path: "/stats/temperature", Handler: h.Admin.TemperatureStats},
				{Method: http.MethodPost, Path: "/sweep", Handler: h.Admin.Sweep},
				{Method: http.MethodPost, Path: "/rooms/:id/energy", Handler: h.Admin.IssueEnergyCommand},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
