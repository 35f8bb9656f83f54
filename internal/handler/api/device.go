package api

import (
	"errors"
	"net/http"

	reqdto "seatsense/internal/handler/dto/request"
	"seatsense/internal/handler/httperr"
	"seatsense/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

// DeviceHandler accepts sensor readings over HTTP for bridges that cannot
// reach the MQTT broker. Payloads match the broker topic schemas.
type DeviceHandler struct {
	occupancyCommands   commands.OccupancyCommands
	temperatureCommands commands.TemperatureCommands
}

func NewDeviceHandler(
	occupancyCommands commands.OccupancyCommands,
	temperatureCommands commands.TemperatureCommands,
) *DeviceHandler {
	return &DeviceHandler{
		occupancyCommands:   occupancyCommands,
		temperatureCommands: temperatureCommands,
	}
}

// @Summary Report occupancy
// @Description Apply one seat occupancy reading to the booking ledger
// @Tags devices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.OccupancyEventRequest true "Occupancy reading"
// @Success 202
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /devices/occupancy [post]
func (h *DeviceHandler) ReportOccupancy(c *gin.Context) {
	var req reqdto.OccupancyEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	ev := commands.OccupancyEvent{
		DeviceID:   req.DeviceID,
		IsOccupied: *req.IsOccupied,
	}
	if err := h.occupancyCommands.Apply(c.Request.Context(), ev); err != nil {
		switch {
		case errors.Is(err, commands.ErrUnknownDevice):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Unknown seat or device", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to apply occupancy reading", nil)
		}
		return
	}

	c.Status(http.StatusAccepted)
}

// @Summary Report temperature
// @Description Record one room temperature reading and return the HVAC hint
// @Tags devices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.TemperatureReadingRequest true "Temperature reading"
// @Success 200 {object} commands.HVACHint
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /devices/temperature [post]
func (h *DeviceHandler) ReportTemperature(c *gin.Context) {
	var req reqdto.TemperatureReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	hint, err := h.temperatureCommands.Ingest(c.Request.Context(), req.RoomID, *req.Temperature)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrRoomNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Room not found", nil)
		case errors.Is(err, commands.ErrInvalidTemperature):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Temperature must be a finite number", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to record temperature", nil)
		}
		return
	}

	c.JSON(http.StatusOK, hint)
}
