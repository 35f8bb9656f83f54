package commands

import (
	"context"
	"log/slog"
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

var ErrUnknownDevice = errs.New("unknown seat or device")

// OccupancyEvent is one sensor reading forwarded by a device bridge. The
// device id is the seat's public identifier; raw seat ids are accepted too
// for bench devices flashed before identifiers were introduced.
type OccupancyEvent struct {
	DeviceID   string `json:"device_id"`
	IsOccupied bool   `json:"is_occupied"`
}

type OccupancyCommands interface {
	// Apply reconciles one occupancy reading against the booking ledger.
	// Replaying the same event is a no-op.
	Apply(ctx context.Context, ev OccupancyEvent) error
}

type occupancyCommandsImpl struct {
	uow         shared.UnitOfWork
	seatRepo    SeatRepository
	bookingRepo BookingRepository
	userRepo    UserRepository
	publisher   NotificationPublisher
	clock       clock.Clock
	logger      *slog.Logger
}

func NewOccupancyCommands(
	uow shared.UnitOfWork,
	seatRepo SeatRepository,
	bookingRepo BookingRepository,
	userRepo UserRepository,
	publisher NotificationPublisher,
	clk clock.Clock,
	logger *slog.Logger,
) OccupancyCommands {
	return &occupancyCommandsImpl{
		uow:         uow,
		seatRepo:    seatRepo,
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
		publisher:   publisher,
		clock:       clk,
		logger:      logger,
	}
}

func (c *occupancyCommandsImpl) Apply(ctx context.Context, ev OccupancyEvent) error {
	deviceID, err := uuid.Parse(ev.DeviceID)
	if err != nil {
		return ErrUnknownDevice
	}
	now := c.clock.Now()

	// Seat state and the booking transition commit together; the
	// notification is published only after the commit succeeded.
	var released *Notification
	err = c.uow.Within(ctx, func(ctx context.Context, tx db.DBTX) error {
		released = nil

		st, err := c.resolveSeat(ctx, tx, deviceID)
		if err != nil {
			return err
		}

		if err := c.seatRepo.SaveOccupancy(ctx, tx, st.ID(), ev.IsOccupied, now); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		active, err := c.findBookingAt(ctx, tx, st.ID(), booking.StatusConfirmed, now)
		if err != nil {
			return err
		}

		if ev.IsOccupied {
			if active != nil {
				// Presence during a confirmed booking, nothing to reconcile.
				return nil
			}
			return c.promotePending(ctx, tx, st.ID(), now)
		}

		if active == nil {
			// Absence with no active booking is deliberately ignored.
			c.logger.Debug("occupancy clear with no active booking", "seat_id", st.ID())
			return nil
		}

		n, err := c.forceRelease(ctx, tx, active, now)
		if err != nil {
			return err
		}
		released = n
		return nil
	})
	if err != nil {
		return err
	}

	if released != nil {
		// Best-effort: a failed dispatch never rolls back the transition.
		if err := c.publisher.Publish(ctx, *released); err != nil {
			c.logger.Error("failed to publish force-release notification",
				"booking_id", released.BookingID, "error", err.Error())
		}
	}
	return nil
}

func (c *occupancyCommandsImpl) resolveSeat(ctx context.Context, tx db.DBTX, deviceID uuid.UUID) (*seat.Seat, error) {
	st, err := c.seatRepo.FindByIdentifier(ctx, tx, deviceID)
	if err == nil {
		return st, nil
	}
	if !infra.IsKind(err, infra.KindNotFound) {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	st, err = c.seatRepo.FindByID(ctx, tx, deviceID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrUnknownDevice
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return st, nil
}

func (c *occupancyCommandsImpl) findBookingAt(ctx context.Context, tx db.DBTX, seatID uuid.UUID, status booking.Status, at time.Time) (*booking.Booking, error) {
	b, err := c.bookingRepo.FindBySeatStatusAt(ctx, tx, seatID, status, at)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return b, nil
}

// promotePending is the implicit check-in by presence: someone sat down
// during their pending window without scanning the QR code.
func (c *occupancyCommandsImpl) promotePending(ctx context.Context, tx db.DBTX, seatID uuid.UUID, now time.Time) error {
	pending, err := c.findBookingAt(ctx, tx, seatID, booking.StatusPendingCheckin, now)
	if err != nil {
		return err
	}
	if pending == nil {
		return nil
	}

	if err := pending.Confirm(now); err != nil {
		return nil
	}
	if err := c.bookingRepo.UpdateStatus(ctx, tx, pending, booking.StatusPendingCheckin); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}

func (c *occupancyCommandsImpl) forceRelease(ctx context.Context, tx db.DBTX, b *booking.Booking, now time.Time) (*Notification, error) {
	if err := b.ForceRelease(now); err != nil {
		return nil, nil
	}
	if err := c.bookingRepo.UpdateStatus(ctx, tx, b, booking.StatusConfirmed); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	u, err := c.userRepo.FindByID(ctx, tx, b.UserID())
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	return &Notification{
		Kind:        NotificationForceRelease,
		Recipient:   u.Email(),
		Username:    u.Username(),
		BookingID:   b.ID(),
		SeatID:      b.SeatID(),
		WindowStart: b.Window().Start(),
		WindowEnd:   b.Window().End(),
	}, nil
}
