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

// SeatAdminCommands covers seat provisioning toggles. Deactivation stops
// new bookings but leaves existing ones to run their course.
type SeatAdminCommands interface {
	SetActive(ctx context.Context, seatID uuid.UUID, active bool) error
}

type seatAdminCommandsImpl struct {
	uow      shared.UnitOfWork
	seatRepo SeatRepository
	clock    clock.Clock
}

func NewSeatAdminCommands(uow shared.UnitOfWork, seatRepo SeatRepository, clk clock.Clock) SeatAdminCommands {
	return &seatAdminCommandsImpl{uow: uow, seatRepo: seatRepo, clock: clk}
}

func (c *seatAdminCommandsImpl) SetActive(ctx context.Context, seatID uuid.UUID, active bool) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := c.seatRepo.FindByID(ctx, tx, seatID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrSeatNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := c.seatRepo.SetActive(ctx, tx, seatID, active, c.clock.Now()); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}
