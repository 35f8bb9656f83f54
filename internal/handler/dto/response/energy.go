package response

import (
	"time"

	"seatsense/internal/usecase/commands"

	"github.com/google/uuid"
)

type EnergyStateResponse struct {
	RoomID            uuid.UUID `json:"room_id"`
	LightsOn          bool      `json:"lights_on"`
	ACOn              bool      `json:"ac_on"`
	TargetTemperature *float64  `json:"target_temperature,omitempty"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func FromEnergyState(s commands.EnergyState) *EnergyStateResponse {
	return &EnergyStateResponse{
		RoomID:            s.RoomID,
		LightsOn:          s.LightsOn,
		ACOn:              s.ACOn,
		TargetTemperature: s.TargetTemperature,
		UpdatedAt:         s.UpdatedAt,
	}
}
