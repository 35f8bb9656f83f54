package request

import (
	"time"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	SeatID    uuid.UUID `json:"seat_id" binding:"required"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
}

// CheckInRequest carries the seat identifier read from the QR code at the
// desk, not the internal seat id.
type CheckInRequest struct {
	SeatIdentifier uuid.UUID `json:"seat_identifier" binding:"required"`
}
