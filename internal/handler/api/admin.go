package api

import (
	"errors"
	"net/http"

	reqdto "seatsense/internal/handler/dto/request"
	resdto "seatsense/internal/handler/dto/response"
	"seatsense/internal/handler/httperr"
	"seatsense/internal/usecase/commands"
	"seatsense/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AdminHandler groups the operator-only surface: dashboards, the manual
// sweep trigger and room energy commands.
type AdminHandler struct {
	statsQueries   queries.StatsQueries
	sweepCommands  commands.SweepCommands
	energyCommands commands.EnergyCommands
}

func NewAdminHandler(
	statsQueries queries.StatsQueries,
	sweepCommands commands.SweepCommands,
	energyCommands commands.EnergyCommands,
) *AdminHandler {
	return &AdminHandler{
		statsQueries:   statsQueries,
		sweepCommands:  sweepCommands,
		energyCommands: energyCommands,
	}
}

// @Summary Admin dashboard stats
// @Description Booking counts by status, per-room occupancy and temperature aggregates
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} queries.AdminStatsView
// @Failure 403 {object} httperr.Response
// @Router /admin/stats [get]
func (h *AdminHandler) Stats(c *gin.Context) {
	view, err := h.statsQueries.AdminStats(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load stats", nil)
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary Temperature stats
// @Description Average, max and min temperature over the recent window
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} queries.TemperatureStatsView
// @Failure 403 {object} httperr.Response
// @Router /admin/stats/temperature [get]
func (h *AdminHandler) TemperatureStats(c *gin.Context) {
	view, err := h.statsQueries.TemperatureStats(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load temperature stats", nil)
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary Run expiry sweep
// @Description Close elapsed bookings now instead of waiting for the ticker
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} commands.SweepResult
// @Failure 403 {object} httperr.Response
// @Router /admin/sweep [post]
func (h *AdminHandler) Sweep(c *gin.Context) {
	result, err := h.sweepCommands.SweepExpired(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Sweep failed", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"completed": result.Completed,
		"expired":   result.Expired,
	})
}

// @Summary Issue energy command
// @Description Apply a lights, AC or target temperature command to a room
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Room ID"
// @Param request body reqdto.EnergyCommandRequest true "Energy command"
// @Success 200 {object} resdto.EnergyStateResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /admin/rooms/{id}/energy [post]
func (h *AdminHandler) IssueEnergyCommand(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid room ID format", nil)
		return
	}

	var req reqdto.EnergyCommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	state, err := h.energyCommands.Issue(c.Request.Context(), roomID, commands.EnergyCommandType(req.Command), req.Value)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrRoomNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Room not found", nil)
		case errors.Is(err, commands.ErrInvalidEnergyCommand):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid energy command", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to apply energy command", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromEnergyState(state))
}
