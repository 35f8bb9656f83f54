package commands

import (
	"context"
	"log/slog"

	"seatsense/internal/infra/db"
	"seatsense/internal/pkg/clock"
	"seatsense/internal/pkg/errs"
	"seatsense/internal/usecase/shared"
)

var ErrSweepFailed = errs.New("expiry sweep failed")

type SweepResult struct {
	Completed int
	Expired   int
}

// SweepCommands closes bookings whose window elapsed without a force
// release: confirmed ones complete (with a notification), pending ones
// expire as no-shows. Each transition is conditioned on the current status,
// so overlapping sweep runs are safe.
type SweepCommands interface {
	SweepExpired(ctx context.Context) (SweepResult, error)
}

type sweepCommandsImpl struct {
	uow         shared.UnitOfWork
	bookingRepo BookingRepository
	publisher   NotificationPublisher
	clock       clock.Clock
	logger      *slog.Logger
}

func NewSweepCommands(
	uow shared.UnitOfWork,
	bookingRepo BookingRepository,
	publisher NotificationPublisher,
	clk clock.Clock,
	logger *slog.Logger,
) SweepCommands {
	return &sweepCommandsImpl{
		uow:         uow,
		bookingRepo: bookingRepo,
		publisher:   publisher,
		clock:       clk,
		logger:      logger,
	}
}

func (c *sweepCommandsImpl) SweepExpired(ctx context.Context) (SweepResult, error) {
	now := c.clock.Now()

	var closed []ClosedBooking
	var expired int64
	err := c.uow.Within(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		closed, err = c.bookingRepo.CompleteExpired(ctx, tx, now)
		if err != nil {
			return errs.Mark(err, ErrSweepFailed)
		}

		expired, err = c.bookingRepo.ExpirePending(ctx, tx, now)
		if err != nil {
			return errs.Mark(err, ErrSweepFailed)
		}
		return nil
	})
	if err != nil {
		// Fatal for this iteration only; the next tick retries independently.
		return SweepResult{}, err
	}

	for _, cb := range closed {
		n := Notification{
			Kind:        NotificationBookingCompleted,
			Recipient:   cb.UserEmail,
			Username:    cb.Username,
			BookingID:   cb.BookingID,
			SeatID:      cb.SeatID,
			WindowStart: cb.Window.Start(),
			WindowEnd:   cb.Window.End(),
		}
		if err := c.publisher.Publish(ctx, n); err != nil {
			c.logger.Error("failed to publish completion notification",
				"booking_id", cb.BookingID, "error", err.Error())
		}
	}

	if len(closed) > 0 || expired > 0 {
		c.logger.Info("expiry sweep closed bookings",
			"completed", len(closed), "expired", expired)
	}

	return SweepResult{Completed: len(closed), Expired: int(expired)}, nil
}
