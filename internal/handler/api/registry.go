package api

import (
	"errors"
	"net/http"

	reqdto "seatsense/internal/handler/dto/request"
	"seatsense/internal/usecase/commands"
	"seatsense/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RegistryHandler serves the room and seat catalog plus the admin-only
// seat activation toggle.
type RegistryHandler struct {
	registryQueries   queries.RegistryQueries
	seatAdminCommands commands.SeatAdminCommands
}

func NewRegistryHandler(registryQueries queries.RegistryQueries, seatAdminCommands commands.SeatAdminCommands) *RegistryHandler {
	return &RegistryHandler{
		registryQueries:   registryQueries,
		seatAdminCommands: seatAdminCommands,
	}
}

// @Summary List seats
// @Description List seats, optionally filtered by room and activity
// @Tags registry
// @Produce json
// @Security BearerAuth
// @Param room_id query string false "Room ID filter"
// @Param active_only query bool false "Only active seats"
// @Success 200 {array} queries.SeatView
// @Failure 400 {object} map[string]string
// @Router /seats [get]
func (h *RegistryHandler) ListSeats(c *gin.Context) {
	var roomID *uuid.UUID
	if s := c.Query("room_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid room ID format",
			})
			return
		}
		roomID = &id
	}
	activeOnly := c.Query("active_only") == "true"

	views, err := h.registryQueries.ListSeats(c.Request.Context(), roomID, activeOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, views)
}

// @Summary List rooms
// @Description List all rooms
// @Tags registry
// @Produce json
// @Security BearerAuth
// @Success 200 {array} queries.RoomView
// @Router /rooms [get]
func (h *RegistryHandler) ListRooms(c *gin.Context) {
	views, err := h.registryQueries.ListRooms(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, views)
}

// @Summary Set seat activity
// @Description Activate or deactivate a seat; existing bookings are untouched
// @Tags registry
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param seatId path string true "Seat ID"
// @Param request body reqdto.SetSeatActiveRequest true "Activity toggle"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /seats/{seatId}/active [put]
func (h *RegistryHandler) SetSeatActive(c *gin.Context) {
	seatID, err := uuid.Parse(c.Param("seatId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid seat ID format",
		})
		return
	}

	var req reqdto.SetSeatActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	if err := h.seatAdminCommands.SetActive(c.Request.Context(), seatID, *req.IsActive); err != nil {
		switch {
		case errors.Is(err, commands.ErrSeatNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Seat not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
