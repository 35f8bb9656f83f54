package commands

import (
	"context"
	"time"

	"seatsense/internal/domain/booking"
	"seatsense/internal/domain/seat"
	"seatsense/internal/infra"
	"seatsense/internal/infra/db"
	"seatsense/internal/pkg/clock"
	"seatsense/internal/pkg/errs"
	"seatsense/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrInvalidRange            = errs.New("invalid booking time range")
	ErrSeatNotFound            = errs.New("seat not found")
	ErrSeatUnavailable         = errs.New("seat not available for booking")
	ErrSeatConflict            = errs.New("overlapping booking exists for seat")
	ErrBookingNotFound         = errs.New("booking not found")
	ErrNoPendingBooking        = errs.New("no pending booking for seat and user")
	ErrNotBookingOwner         = errs.New("booking belongs to another user")
	ErrBookingAlreadyClosed    = errs.New("booking already in a terminal state")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

type BookingCommands interface {
	Create(ctx context.Context, userID, seatID uuid.UUID, start, end time.Time) (uuid.UUID, error)
	// CheckIn resolves the seat by its public identifier (QR code) or seat
	// id and confirms the caller's pending booking whose window contains
	// now.
	CheckIn(ctx context.Context, userID, seatRef uuid.UUID) (uuid.UUID, error)
	Cancel(ctx context.Context, userID, bookingID uuid.UUID) error
}

type bookingCommandsImpl struct {
	uow         shared.UnitOfWork
	seatRepo    SeatRepository
	bookingRepo BookingRepository
	clock       clock.Clock
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	seatRepo SeatRepository,
	bookingRepo BookingRepository,
	clk clock.Clock,
) BookingCommands {
	return &bookingCommandsImpl{
		uow:         uow,
		seatRepo:    seatRepo,
		bookingRepo: bookingRepo,
		clock:       clk,
	}
}

func (c *bookingCommandsImpl) Create(ctx context.Context, userID, seatID uuid.UUID, start, end time.Time) (uuid.UUID, error) {
	window, err := booking.NewWindow(start, end)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrInvalidRange)
	}

	var bookingID uuid.UUID
	err = c.uow.Within(ctx, func(ctx context.Context, tx db.DBTX) error {
		// The row lock serializes concurrent Create calls for the same seat,
		// closing the read-then-insert race on the overlap check.
		st, err := c.seatRepo.FindForUpdate(ctx, tx, seatID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrSeatNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if err := st.EnsureBookable(); err != nil {
			return ErrSeatUnavailable
		}

		overlapping, err := c.bookingRepo.CountOverlapping(ctx, tx, seatID, window)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if overlapping > 0 {
			return ErrSeatConflict
		}

		b := booking.NewBooking(seatID, userID, window, c.clock.Now())
		bookingID, err = c.bookingRepo.Create(ctx, tx, b)
		if err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return ErrSeatConflict
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return bookingID, nil
}

func (c *bookingCommandsImpl) CheckIn(ctx context.Context, userID, seatRef uuid.UUID) (uuid.UUID, error) {
	now := c.clock.Now()

	var bookingID uuid.UUID
	err := c.uow.Within(ctx, func(ctx context.Context, tx db.DBTX) error {
		st, err := c.resolveSeat(ctx, tx, seatRef)
		if err != nil {
			return err
		}

		b, err := c.bookingRepo.FindPendingForUser(ctx, tx, userID, st.ID(), now)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrNoPendingBooking
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if err := b.Confirm(now); err != nil {
			return ErrNoPendingBooking
		}

		if err := c.bookingRepo.UpdateStatus(ctx, tx, b, booking.StatusPendingCheckin); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		bookingID = b.ID()
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return bookingID, nil
}

// resolveSeat accepts the public identifier first and falls back to the
// seat id, the same resolution the occupancy ingest path uses.
func (c *bookingCommandsImpl) resolveSeat(ctx context.Context, tx db.DBTX, ref uuid.UUID) (*seat.Seat, error) {
	st, err := c.seatRepo.FindByIdentifier(ctx, tx, ref)
	if err == nil {
		return st, nil
	}
	if !infra.IsKind(err, infra.KindNotFound) {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	st, err = c.seatRepo.FindByID(ctx, tx, ref)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrSeatNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return st, nil
}

func (c *bookingCommandsImpl) Cancel(ctx context.Context, userID, bookingID uuid.UUID) error {
	now := c.clock.Now()

	return c.uow.Within(ctx, func(ctx context.Context, tx db.DBTX) error {
		b, err := c.bookingRepo.FindByID(ctx, tx, bookingID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrBookingNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if b.UserID() != userID {
			return ErrNotBookingOwner
		}

		from := b.Status()
		if err := b.Cancel(now); err != nil {
			return ErrBookingAlreadyClosed
		}

		if err := c.bookingRepo.UpdateStatus(ctx, tx, b, from); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}
