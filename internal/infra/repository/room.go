package repository

import (
	"context"
	"time"

	"seatsense/internal/domain/seat"
	"seatsense/internal/infra"
	"seatsense/internal/infra/db"
	"seatsense/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type RoomRepository struct{}

func NewRoomRepository() *RoomRepository {
	return &RoomRepository{}
}

func (r *RoomRepository) FindByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*seat.Room, error) {
	var (
		roomID         uuid.UUID
		name, exposure string
		floor          int
	)
	err := tx.QueryRow(ctx,
		`SELECT id, name, floor, sun_exposure FROM rooms WHERE id = $1`, id).
		Scan(&roomID, &name, &floor, &exposure)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("room not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find room by id", err)
	}
	return seat.ReconstructRoom(roomID, name, floor, seat.Exposure(exposure)), nil
}

// HasConfirmedBookingAt reports whether any seat in the room has a confirmed
// booking covering the instant. Drives the HVAC hint on temperature ingest.
func (r *RoomRepository) HasConfirmedBookingAt(ctx context.Context, tx db.DBTX, roomID uuid.UUID, at time.Time) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM bookings b
			JOIN seats s ON s.id = b.seat_id
			WHERE s.room_id = $1
			  AND b.status = 'confirmed'
			  AND b.start_time <= $2
			  AND b.end_time > $2
		)`, roomID, at).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check room bookings", err)
	}
	return exists, nil
}
