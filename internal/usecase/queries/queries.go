package queries

import (
	"context"
	"time"

	"seatsense/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrBookingNotFound = errs.New("booking not found")
	ErrForbidden       = errs.New("not allowed to read this booking")
)

// Read-side ports, implemented by infra/readstore. No state changes.

type BookingQueries interface {
	// GetByID enforces owner-or-admin access.
	GetByID(ctx context.Context, id, requesterID uuid.UUID, isAdmin bool) (*BookingView, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]BookingView, error)
	ListBySeat(ctx context.Context, seatID uuid.UUID, from, to time.Time) ([]BookingView, error)
}

type RegistryQueries interface {
	ListSeats(ctx context.Context, roomID *uuid.UUID, activeOnly bool) ([]SeatView, error)
	ListRooms(ctx context.Context) ([]RoomView, error)
}

type SuggestionQueries interface {
	// ListByDate returns the saved snapshot for the date, recommended and
	// highest scores first.
	ListByDate(ctx context.Context, date time.Time) ([]SuggestionView, error)
}

type StatsQueries interface {
	AdminStats(ctx context.Context) (*AdminStatsView, error)
	TemperatureStats(ctx context.Context) (*TemperatureStatsView, error)
}
