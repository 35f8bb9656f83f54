package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models returned to the handler layer. Denormalized on purpose: one
// row carries everything a response needs.

type BookingView struct {
	ID             uuid.UUID `json:"id"`
	SeatID         uuid.UUID `json:"seat_id"`
	SeatIdentifier uuid.UUID `json:"seat_identifier"`
	RoomName       string    `json:"room_name"`
	UserID         uuid.UUID `json:"user_id"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type SeatView struct {
	ID         uuid.UUID `json:"id"`
	Identifier uuid.UUID `json:"identifier"`
	RoomID     uuid.UUID `json:"room_id"`
	RoomName   string    `json:"room_name"`
	Floor      int       `json:"floor"`
	Exposure   string    `json:"exposure"`
	IsActive   bool      `json:"is_active"`
	IsOccupied bool      `json:"is_occupied"`
}

type RoomView struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Floor    int       `json:"floor"`
	Exposure string    `json:"exposure"`
}

type SuggestionView struct {
	SeatID         uuid.UUID `json:"seat_id"`
	SeatIdentifier uuid.UUID `json:"seat_identifier"`
	Date           string    `json:"date"`
	Score          float64   `json:"score"`
	Reason         string    `json:"reason"`
	IsRecommended  bool      `json:"is_recommended"`
}

type TemperatureStatsView struct {
	Average *float64 `json:"average_temperature"`
	Max     *float64 `json:"max_temperature"`
	Min     *float64 `json:"min_temperature"`
}

type RoomOccupancyView struct {
	RoomID        uuid.UUID `json:"room_id"`
	RoomName      string    `json:"room_name"`
	TotalSeats    int       `json:"total_seats"`
	OccupiedSeats int       `json:"occupied_seats"`
}

type AdminStatsView struct {
	BookingsByStatus map[string]int64     `json:"bookings_by_status"`
	RoomOccupancy    []RoomOccupancyView  `json:"room_occupancy"`
	Temperature      TemperatureStatsView `json:"temperature"`
}
