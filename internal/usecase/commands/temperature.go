package commands

import (
	"context"
	"math"

	"seatsense/internal/domain/suggestion"
	"seatsense/internal/infra"
	"seatsense/internal/infra/db"
	"seatsense/internal/pkg/clock"
	"seatsense/internal/pkg/errs"
	"seatsense/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrRoomNotFound       = errs.New("room not found")
	ErrInvalidTemperature = errs.New("temperature reading is not a finite number")
)

// comfortTolerance is the dead band around the seasonal ideal before the
// HVAC hint asks for heating or cooling.
const comfortTolerance = 2.0

type HVACAction string

const (
	HVACOff  HVACAction = "off"
	HVACCool HVACAction = "cool"
	HVACHeat HVACAction = "heat"
)

// HVACHint is the advisory reply to a temperature reading: what the room's
// climate control should do given current occupancy. The energy boundary
// decides whether to act on it.
type HVACHint struct {
	RoomID   uuid.UUID  `json:"room_id"`
	Action   HVACAction `json:"hvac"`
	LightsOn bool       `json:"lights"`
}

type TemperatureCommands interface {
	// Ingest appends one reading and returns the HVAC hint for the room.
	Ingest(ctx context.Context, roomID uuid.UUID, temperature float64) (HVACHint, error)
}

type temperatureCommandsImpl struct {
	uow      shared.UnitOfWork
	roomRepo RoomRepository
	tempRepo TemperatureRepository
	clock    clock.Clock
}

func NewTemperatureCommands(
	uow shared.UnitOfWork,
	roomRepo RoomRepository,
	tempRepo TemperatureRepository,
	clk clock.Clock,
) TemperatureCommands {
	return &temperatureCommandsImpl{
		uow:      uow,
		roomRepo: roomRepo,
		tempRepo: tempRepo,
		clock:    clk,
	}
}

func (c *temperatureCommandsImpl) Ingest(ctx context.Context, roomID uuid.UUID, temperature float64) (HVACHint, error) {
	if math.IsNaN(temperature) || math.IsInf(temperature, 0) {
		return HVACHint{}, ErrInvalidTemperature
	}
	now := c.clock.Now()

	hint := HVACHint{RoomID: roomID, Action: HVACOff}
	err := c.uow.Within(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := c.roomRepo.FindByID(ctx, tx, roomID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrRoomNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if err := c.tempRepo.Insert(ctx, tx, roomID, temperature, now); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		occupiedRoom, err := c.roomRepo.HasConfirmedBookingAt(ctx, tx, roomID, now)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		// An empty room gets everything off, whatever the temperature.
		if !occupiedRoom {
			return nil
		}

		ideal := suggestion.IdealTemp(now.Month())
		switch {
		case temperature > ideal+comfortTolerance:
			hint.Action = HVACCool
		case temperature < ideal-comfortTolerance:
			hint.Action = HVACHeat
		default:
			hint.Action = HVACOff
		}
		hint.LightsOn = true
		return nil
	})
	if err != nil {
		return HVACHint{}, err
	}
	return hint, nil
}
