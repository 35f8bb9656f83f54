package repository

import (
	"context"
	"time"

	"seatsense/internal/domain/seat"
	"seatsense/internal/infra"
	"seatsense/internal/infra/db"
	"seatsense/internal/pkg/pgconv"
	"seatsense/internal/usecase/commands"

	"github.com/google/uuid"
)

type SeatRepository struct{}

func NewSeatRepository() *SeatRepository {
	return &SeatRepository{}
}

const seatColumns = `id, room_id, seat_identifier, is_active, is_occupied`

func (r *SeatRepository) FindByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*seat.Seat, error) {
	row := tx.QueryRow(ctx, `SELECT `+seatColumns+` FROM seats WHERE id = $1`, id)
	return scanSeat(row, "failed to find seat by id")
}

func (r *SeatRepository) FindByIdentifier(ctx context.Context, tx db.DBTX, identifier uuid.UUID) (*seat.Seat, error) {
	row := tx.QueryRow(ctx, `SELECT `+seatColumns+` FROM seats WHERE seat_identifier = $1`, identifier)
	return scanSeat(row, "failed to find seat by identifier")
}

// FindForUpdate takes a row lock; concurrent booking creation for the same
// seat serializes on it.
func (r *SeatRepository) FindForUpdate(ctx context.Context, tx db.DBTX, id uuid.UUID) (*seat.Seat, error) {
	row := tx.QueryRow(ctx, `SELECT `+seatColumns+` FROM seats WHERE id = $1 FOR UPDATE`, id)
	return scanSeat(row, "failed to lock seat")
}

func (r *SeatRepository) SaveOccupancy(ctx context.Context, tx db.DBTX, seatID uuid.UUID, occupied bool, at time.Time) error {
	tag, err := tx.Exec(ctx,
		`UPDATE seats SET is_occupied = $2, updated_at = $3 WHERE id = $1`,
		seatID, occupied, at)
	if err != nil {
		return infra.WrapRepoErr("failed to save seat occupancy", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("seat not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *SeatRepository) SetActive(ctx context.Context, tx db.DBTX, seatID uuid.UUID, active bool, at time.Time) error {
	tag, err := tx.Exec(ctx,
		`UPDATE seats SET is_active = $2, updated_at = $3 WHERE id = $1`,
		seatID, active, at)
	if err != nil {
		return infra.WrapRepoErr("failed to set seat active flag", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("seat not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *SeatRepository) ListActiveWithRooms(ctx context.Context, tx db.DBTX) ([]commands.SeatWithRoom, error) {
	rows, err := tx.Query(ctx, `
		SELECT s.id, s.room_id, s.seat_identifier, s.is_active, s.is_occupied,
		       r.id, r.name, r.floor, r.sun_exposure
		FROM seats s
		JOIN rooms r ON r.id = s.room_id
		WHERE s.is_active
		ORDER BY s.id`)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list active seats", err)
	}
	defer rows.Close()

	var result []commands.SeatWithRoom
	for rows.Next() {
		var (
			seatID, roomID, identifier uuid.UUID
			isActive, isOccupied       bool
			rID                        uuid.UUID
			name, exposure             string
			floor                      int
		)
		if err := rows.Scan(&seatID, &roomID, &identifier, &isActive, &isOccupied,
			&rID, &name, &floor, &exposure); err != nil {
			return nil, infra.WrapRepoErr("failed to scan seat row", err)
		}
		result = append(result, commands.SeatWithRoom{
			Seat: seat.Reconstruct(seatID, roomID, identifier, isActive, isOccupied),
			Room: seat.ReconstructRoom(rID, name, floor, seat.Exposure(exposure)),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate seat rows", err)
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSeat(row rowScanner, msg string) (*seat.Seat, error) {
	var (
		id, roomID, identifier uuid.UUID
		isActive, isOccupied   bool
	)
	if err := row.Scan(&id, &roomID, &identifier, &isActive, &isOccupied); err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("seat not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr(msg, err)
	}
	return seat.Reconstruct(id, roomID, identifier, isActive, isOccupied), nil
}
