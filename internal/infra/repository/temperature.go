package repository

import (
	"context"
	"time"

	"seatsense/internal/infra"
	"seatsense/internal/infra/db"

	"github.com/google/uuid"
)

type TemperatureRepository struct{}

func NewTemperatureRepository() *TemperatureRepository {
	return &TemperatureRepository{}
}

func (r *TemperatureRepository) Insert(ctx context.Context, tx db.DBTX, roomID uuid.UUID, temperature float64, at time.Time) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO temperature_readings (room_id, temperature, recorded_at)
		VALUES ($1, $2, $3)`,
		roomID, temperature, at)
	if err != nil {
		return infra.WrapRepoErr("failed to insert temperature reading", err)
	}
	return nil
}

// AvgSince returns nil when the room has no readings in the window; the
// scorer then uses its neutral comfort value.
func (r *TemperatureRepository) AvgSince(ctx context.Context, tx db.DBTX, roomID uuid.UUID, since time.Time) (*float64, error) {
	var avg *float64
	err := tx.QueryRow(ctx, `
		SELECT AVG(temperature)
		FROM temperature_readings
		WHERE room_id = $1 AND recorded_at >= $2`,
		roomID, since).Scan(&avg)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to average temperature readings", err)
	}
	return avg, nil
}
