package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidRange      = errors.New("start time must be before end time")
	ErrInvalidStatus     = errors.New("invalid booking status")
	ErrTerminalState     = errors.New("booking is in a terminal state")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Booking is the aggregate for one seat reservation. All status changes go
// through the transition methods; a booking that reached a terminal status
// rejects every further transition.
type Booking struct {
	id        uuid.UUID
	seatID    uuid.UUID
	userID    uuid.UUID
	window    Window
	status    Status
	createdAt time.Time
	updatedAt time.Time
}

// NewBooking creates a pending-checkin booking. Seat availability and the
// overlap invariant are enforced by the command layer inside the creating
// transaction; the entity only owns window validity and the state machine.
func NewBooking(seatID, userID uuid.UUID, window Window, now time.Time) *Booking {
	return &Booking{
		id:        uuid.New(),
		seatID:    seatID,
		userID:    userID,
		window:    window,
		status:    StatusPendingCheckin,
		createdAt: now,
		updatedAt: now,
	}
}

func Reconstruct(
	id, seatID, userID uuid.UUID,
	window Window,
	status Status,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:        id,
		seatID:    seatID,
		userID:    userID,
		window:    window,
		status:    status,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (b *Booking) ID() uuid.UUID        { return b.id }
func (b *Booking) SeatID() uuid.UUID    { return b.seatID }
func (b *Booking) UserID() uuid.UUID    { return b.userID }
func (b *Booking) Window() Window       { return b.window }
func (b *Booking) Status() Status       { return b.status }
func (b *Booking) CreatedAt() time.Time { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

func (b *Booking) IsActive() bool {
	return b.status == StatusPendingCheckin || b.status == StatusConfirmed
}

// Confirm marks presence, either by explicit check-in or by a positive
// occupancy reading inside the window.
func (b *Booking) Confirm(now time.Time) error {
	if err := b.ensureTransition(StatusPendingCheckin); err != nil {
		return err
	}
	b.status = StatusConfirmed
	b.updatedAt = now
	return nil
}

// Complete closes a confirmed booking whose window has elapsed.
func (b *Booking) Complete(now time.Time) error {
	if err := b.ensureTransition(StatusConfirmed); err != nil {
		return err
	}
	b.status = StatusCompleted
	b.updatedAt = now
	return nil
}

// ForceRelease closes a confirmed booking after a sensor reported absence.
func (b *Booking) ForceRelease(now time.Time) error {
	if err := b.ensureTransition(StatusConfirmed); err != nil {
		return err
	}
	b.status = StatusForceReleased
	b.updatedAt = now
	return nil
}

// Cancel is the user-initiated exit from either active status.
func (b *Booking) Cancel(now time.Time) error {
	if b.status.IsTerminal() {
		return ErrTerminalState
	}
	b.status = StatusCancelled
	b.updatedAt = now
	return nil
}

// Expire marks a no-show: the window elapsed without any confirmation.
func (b *Booking) Expire(now time.Time) error {
	if err := b.ensureTransition(StatusPendingCheckin); err != nil {
		return err
	}
	b.status = StatusExpired
	b.updatedAt = now
	return nil
}

func (b *Booking) ensureTransition(from Status) error {
	if b.status.IsTerminal() {
		return ErrTerminalState
	}
	if b.status != from {
		return ErrInvalidTransition
	}
	return nil
}
