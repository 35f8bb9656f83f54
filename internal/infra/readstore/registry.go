package readstore

import (
	"context"

	"seatsense/internal/infra"
	"seatsense/internal/infra/db"
	"seatsense/internal/usecase/queries"

	"github.com/google/uuid"
)

type RegistryReadStore struct {
	db db.DBTX
}

func NewRegistryReadStore(dbtx db.DBTX) *RegistryReadStore {
	return &RegistryReadStore{db: dbtx}
}

func (r *RegistryReadStore) ListSeats(ctx context.Context, roomID *uuid.UUID, activeOnly bool) ([]queries.SeatView, error) {
	rows, err := r.db.Query(ctx, `
		SELECT s.id, s.seat_identifier, s.room_id, r.name, r.floor, r.sun_exposure,
		       s.is_active, s.is_occupied
		FROM seats s
		JOIN rooms r ON r.id = s.room_id
		WHERE ($1::uuid IS NULL OR s.room_id = $1)
		  AND (NOT $2 OR s.is_active)
		ORDER BY r.name, s.id`, roomID, activeOnly)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list seats", err)
	}
	defer rows.Close()

	views := make([]queries.SeatView, 0)
	for rows.Next() {
		var v queries.SeatView
		if err := rows.Scan(&v.ID, &v.Identifier, &v.RoomID, &v.RoomName, &v.Floor,
			&v.Exposure, &v.IsActive, &v.IsOccupied); err != nil {
			return nil, infra.WrapRepoErr("failed to scan seat view", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate seat views", err)
	}
	return views, nil
}

func (r *RegistryReadStore) ListRooms(ctx context.Context) ([]queries.RoomView, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, floor, sun_exposure FROM rooms ORDER BY name`)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list rooms", err)
	}
	defer rows.Close()

	views := make([]queries.RoomView, 0)
	for rows.Next() {
		var v queries.RoomView
		if err := rows.Scan(&v.ID, &v.Name, &v.Floor, &v.Exposure); err != nil {
			return nil, infra.WrapRepoErr("failed to scan room view", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate room views", err)
	}
	return views, nil
}
