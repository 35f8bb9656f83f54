package commands

import (
	"context"

	"seatsense/internal/infra"
	"seatsense/internal/infra/db"
	"seatsense/internal/pkg/clock"
	"seatsense/internal/pkg/errs"
	"seatsense/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrInvalidEnergyCommand = errs.New("invalid energy command")

type EnergyCommandType string

const (
	EnergyLightsOn       EnergyCommandType = "lights_on"
	EnergyLightsOff      EnergyCommandType = "lights_off"
	EnergyACOn           EnergyCommandType = "ac_on"
	EnergyACOff          EnergyCommandType = "ac_off"
	EnergySetTemperature EnergyCommandType = "set_temperature"
)

// EnergyCommands applies operator commands to the per-room energy state.
// The state is last-writer-wins and read-only to the scorer.
type EnergyCommands interface {
	Issue(ctx context.Context, roomID uuid.UUID, command EnergyCommandType, value *float64) (EnergyState, error)
}

type energyCommandsImpl struct {
	uow        shared.UnitOfWork
	roomRepo   RoomRepository
	energyRepo EnergyRepository
	clock      clock.Clock
}

func NewEnergyCommands(
	uow shared.UnitOfWork,
	roomRepo RoomRepository,
	energyRepo EnergyRepository,
	clk clock.Clock,
) EnergyCommands {
	return &energyCommandsImpl{
		uow:        uow,
		roomRepo:   roomRepo,
		energyRepo: energyRepo,
		clock:      clk,
	}
}

func (c *energyCommandsImpl) Issue(ctx context.Context, roomID uuid.UUID, command EnergyCommandType, value *float64) (EnergyState, error) {
	if command == EnergySetTemperature && value == nil {
		return EnergyState{}, ErrInvalidEnergyCommand
	}

	var result EnergyState
	err := c.uow.Within(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := c.roomRepo.FindByID(ctx, tx, roomID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrRoomNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		state := EnergyState{RoomID: roomID}
		if existing, err := c.energyRepo.FindByRoom(ctx, tx, roomID); err != nil {
			if !infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
		} else {
			state = *existing
		}

		switch command {
		case EnergyLightsOn:
			state.LightsOn = true
		case EnergyLightsOff:
			state.LightsOn = false
		case EnergyACOn:
			state.ACOn = true
		case EnergyACOff:
			state.ACOn = false
		case EnergySetTemperature:
			state.TargetTemperature = value
		default:
			return ErrInvalidEnergyCommand
		}
		state.UpdatedAt = c.clock.Now()

		if err := c.energyRepo.Upsert(ctx, tx, state); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		result = state
		return nil
	})
	if err != nil {
		return EnergyState{}, err
	}
	return result, nil
}
