package commands

import (
	"context"
	"time"

	"seatsense/internal/domain/booking"
	"seatsense/internal/domain/seat"
	"seatsense/internal/domain/user"
	"seatsense/internal/infra/db"

	"github.com/google/uuid"
)

// Write-side ports. Every method takes a DBTX so a command can run several
// repository calls inside one unit of work.

type SeatRepository interface {
	FindByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*seat.Seat, error)
	FindByIdentifier(ctx context.Context, tx db.DBTX, identifier uuid.UUID) (*seat.Seat, error)
	// FindForUpdate locks the seat row for the rest of the transaction; the
	// per-seat critical section behind the overlap check.
	FindForUpdate(ctx context.Context, tx db.DBTX, id uuid.UUID) (*seat.Seat, error)
	SaveOccupancy(ctx context.Context, tx db.DBTX, seatID uuid.UUID, occupied bool, at time.Time) error
	SetActive(ctx context.Context, tx db.DBTX, seatID uuid.UUID, active bool, at time.Time) error
	ListActiveWithRooms(ctx context.Context, tx db.DBTX) ([]SeatWithRoom, error)
}

type RoomRepository interface {
	FindByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*seat.Room, error)
	HasConfirmedBookingAt(ctx context.Context, tx db.DBTX, roomID uuid.UUID, at time.Time) (bool, error)
}

type BookingRepository interface {
	Create(ctx context.Context, tx db.DBTX, b *booking.Booking) (uuid.UUID, error)
	FindByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*booking.Booking, error)
	// CountOverlapping counts bookings in an active status whose window
	// overlaps w, the creation-time conflict check.
	CountOverlapping(ctx context.Context, tx db.DBTX, seatID uuid.UUID, w booking.Window) (int64, error)
	// FindBySeatStatusAt returns the booking for the seat in the given
	// status whose window contains the instant, or KindNotFound.
	FindBySeatStatusAt(ctx context.Context, tx db.DBTX, seatID uuid.UUID, status booking.Status, at time.Time) (*booking.Booking, error)
	FindPendingForUser(ctx context.Context, tx db.DBTX, userID, seatID uuid.UUID, at time.Time) (*booking.Booking, error)
	// UpdateStatus persists a transition conditioned on the previous status,
	// so concurrent sweep/reconcile runs cannot double-apply.
	UpdateStatus(ctx context.Context, tx db.DBTX, b *booking.Booking, from booking.Status) error
	// CompleteExpired closes every confirmed booking whose window elapsed
	// and returns what was closed, with recipient data for notifications.
	CompleteExpired(ctx context.Context, tx db.DBTX, now time.Time) ([]ClosedBooking, error)
	// ExpirePending marks elapsed pending-checkin bookings as no-shows.
	ExpirePending(ctx context.Context, tx db.DBTX, now time.Time) (int64, error)
	CountByWeekdayHour(ctx context.Context, tx db.DBTX, seatID uuid.UUID, since time.Time, weekday, hour int) (int, error)
}

type UserRepository interface {
	Create(ctx context.Context, tx db.DBTX, u *user.User) error
	FindByEmail(ctx context.Context, tx db.DBTX, email string) (*user.User, error)
	FindByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*user.User, error)
}

type TemperatureRepository interface {
	Insert(ctx context.Context, tx db.DBTX, roomID uuid.UUID, temperature float64, at time.Time) error
	// AvgSince returns nil when the room has no readings in the window.
	AvgSince(ctx context.Context, tx db.DBTX, roomID uuid.UUID, since time.Time) (*float64, error)
}

type EnergyRepository interface {
	Upsert(ctx context.Context, tx db.DBTX, state EnergyState) error
	// FindByRoom returns KindNotFound when the room has no recorded state.
	FindByRoom(ctx context.Context, tx db.DBTX, roomID uuid.UUID) (*EnergyState, error)
}

type SuggestionRepository interface {
	DeleteByDate(ctx context.Context, tx db.DBTX, date time.Time) error
	InsertBatch(ctx context.Context, tx db.DBTX, rows []SuggestionRow) error
	MarkRecommended(ctx context.Context, tx db.DBTX, ids []uuid.UUID) error
}

// NotificationPublisher is the outbound boundary. Delivery is best-effort:
// callers publish after commit and only log failures.
type NotificationPublisher interface {
	Publish(ctx context.Context, n Notification) error
}

// SuggestionCache invalidates the cached snapshot after a generation run.
type SuggestionCache interface {
	Invalidate(ctx context.Context, date string) error
}

// Write-side snapshots prevent dependency on read-side query types.

type SeatWithRoom struct {
	Seat *seat.Seat
	Room *seat.Room
}

type EnergyState struct {
	RoomID            uuid.UUID
	LightsOn          bool
	ACOn              bool
	TargetTemperature *float64
	UpdatedAt         time.Time
}

func (s EnergyState) Powered() bool {
	return s.LightsOn || s.ACOn
}

type ClosedBooking struct {
	BookingID uuid.UUID
	SeatID    uuid.UUID
	UserID    uuid.UUID
	UserEmail string
	Username  string
	Window    booking.Window
}

type SuggestionRow struct {
	ID            uuid.UUID
	SeatID        uuid.UUID
	Date          time.Time
	Score         float64
	Reason        string
	IsRecommended bool
	CreatedAt     time.Time
}

type NotificationKind string

const (
	NotificationForceRelease     NotificationKind = "booking_force_released"
	NotificationBookingCompleted NotificationKind = "booking_completed"
)

type Notification struct {
	Kind        NotificationKind `json:"kind"`
	Recipient   string           `json:"recipient"`
	Username    string           `json:"username"`
	BookingID   uuid.UUID        `json:"booking_id"`
	SeatID      uuid.UUID        `json:"seat_id"`
	WindowStart time.Time        `json:"window_start"`
	WindowEnd   time.Time        `json:"window_end"`
}
