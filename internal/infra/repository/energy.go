package repository

import (
	"context"

	"seatsense/internal/infra"
	"seatsense/internal/infra/db"
	"seatsense/internal/pkg/pgconv"
	"seatsense/internal/usecase/commands"

	"github.com/google/uuid"
)

type EnergyRepository struct{}

func NewEnergyRepository() *EnergyRepository {
	return &EnergyRepository{}
}

// Upsert is last-writer-wins, one row per room.
func (r *EnergyRepository) Upsert(ctx context.Context, tx db.DBTX, state commands.EnergyState) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO room_energy_state (room_id, lights_on, ac_on, target_temperature, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (room_id) DO UPDATE
		SET lights_on = EXCLUDED.lights_on,
		    ac_on = EXCLUDED.ac_on,
		    target_temperature = EXCLUDED.target_temperature,
		    updated_at = EXCLUDED.updated_at`,
		state.RoomID, state.LightsOn, state.ACOn,
		pgconv.Float64PtrToPgtype(state.TargetTemperature), state.UpdatedAt)
	if err != nil {
		return infra.WrapRepoErr("failed to upsert room energy state", err)
	}
	return nil
}

func (r *EnergyRepository) FindByRoom(ctx context.Context, tx db.DBTX, roomID uuid.UUID) (*commands.EnergyState, error) {
	var state commands.EnergyState
	err := tx.QueryRow(ctx, `
		SELECT room_id, lights_on, ac_on, target_temperature, updated_at
		FROM room_energy_state WHERE room_id = $1`, roomID).
		Scan(&state.RoomID, &state.LightsOn, &state.ACOn, &state.TargetTemperature, &state.UpdatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("room energy state not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find room energy state", err)
	}
	return &state, nil
}
