package response

import (
	"github.com/google/uuid"
)

type BookingCreatedResponse struct {
	ID uuid.UUID `json:"id"`
}

type CheckInResponse struct {
	BookingID uuid.UUID `json:"booking_id"`
	Status    string    `json:"status"`
}
