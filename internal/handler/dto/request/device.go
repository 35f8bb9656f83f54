package request

import (
	"github.com/google/uuid"
)

// Device payloads mirror the MQTT topic schemas, for bridges that report
// over HTTP instead of the broker.

type OccupancyEventRequest struct {
	DeviceID   string `json:"device_id" binding:"required"`
	IsOccupied *bool  `json:"is_occupied" binding:"required"`
}

type TemperatureReadingRequest struct {
	RoomID      uuid.UUID `json:"room_id" binding:"required"`
	Temperature *float64  `json:"temperature" binding:"required"`
}
