//go:build unit

package commands_test

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"seatsense/internal/domain/booking"
	"seatsense/internal/domain/seat"
	"seatsense/internal/pkg/clock"
	"seatsense/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

func newActiveSeat() *seat.Seat {
	return seat.Reconstruct(uuid.New(), uuid.New(), uuid.New(), true, false)
}

func mustWindow(t *testing.T, start, end time.Time) booking.Window {
	t.Helper()
	w, err := booking.NewWindow(start, end)
	require.NoError(t, err)
	return w
}

func TestBookingCommands_Create(t *testing.T) {
	ctx := context.Background()

	newSUT := func(seatRepo *fakeSeatRepo, bookingRepo *fakeBookingRepo) commands.BookingCommands {
		return commands.NewBookingCommands(fakeUoW{}, seatRepo, bookingRepo, clock.NewMockClock(testNow))
	}

	t.Run("creates a pending booking", func(t *testing.T) {
		st := newActiveSeat()
		seatRepo := newFakeSeatRepo().add(st)
		bookingRepo := newFakeBookingRepo()
		sut := newSUT(seatRepo, bookingRepo)

		userID := uuid.New()
		id, err := sut.Create(ctx, userID, st.ID(), testNow.Add(time.Hour), testNow.Add(3*time.Hour))
		require.NoError(t, err)

		created, ok := bookingRepo.bookings[id]
		require.True(t, ok)
		assert.Equal(t, booking.StatusPendingCheckin, created.Status())
		assert.Equal(t, userID, created.UserID())
		assert.Equal(t, st.ID(), created.SeatID())
	})

	t.Run("rejects an inverted window", func(t *testing.T) {
		st := newActiveSeat()
		sut := newSUT(newFakeSeatRepo().add(st), newFakeBookingRepo())

		_, err := sut.Create(ctx, uuid.New(), st.ID(), testNow.Add(time.Hour), testNow.Add(time.Hour))
		assert.ErrorIs(t, err, commands.ErrInvalidRange)
	})

	t.Run("rejects an unknown seat", func(t *testing.T) {
		sut := newSUT(newFakeSeatRepo(), newFakeBookingRepo())

		_, err := sut.Create(ctx, uuid.New(), uuid.New(), testNow.Add(time.Hour), testNow.Add(2*time.Hour))
		assert.ErrorIs(t, err, commands.ErrSeatNotFound)
	})

	t.Run("rejects a deactivated seat", func(t *testing.T) {
		st := seat.Reconstruct(uuid.New(), uuid.New(), uuid.New(), false, false)
		sut := newSUT(newFakeSeatRepo().add(st), newFakeBookingRepo())

		_, err := sut.Create(ctx, uuid.New(), st.ID(), testNow.Add(time.Hour), testNow.Add(2*time.Hour))
		assert.ErrorIs(t, err, commands.ErrSeatUnavailable)
	})

	t.Run("rejects an overlapping window", func(t *testing.T) {
		st := newActiveSeat()
		existing := booking.NewBooking(st.ID(), uuid.New(),
			mustWindow(t, testNow.Add(time.Hour), testNow.Add(3*time.Hour)), testNow)
		sut := newSUT(newFakeSeatRepo().add(st), newFakeBookingRepo().add(existing))

		_, err := sut.Create(ctx, uuid.New(), st.ID(), testNow.Add(2*time.Hour), testNow.Add(4*time.Hour))
		assert.ErrorIs(t, err, commands.ErrSeatConflict)
	})

	t.Run("allows back-to-back windows", func(t *testing.T) {
		st := newActiveSeat()
		existing := booking.NewBooking(st.ID(), uuid.New(),
			mustWindow(t, testNow.Add(time.Hour), testNow.Add(2*time.Hour)), testNow)
		sut := newSUT(newFakeSeatRepo().add(st), newFakeBookingRepo().add(existing))

		_, err := sut.Create(ctx, uuid.New(), st.ID(), testNow.Add(2*time.Hour), testNow.Add(3*time.Hour))
		assert.NoError(t, err)
	})

	t.Run("terminal bookings do not block new windows", func(t *testing.T) {
		st := newActiveSeat()
		cancelled := booking.NewBooking(st.ID(), uuid.New(),
			mustWindow(t, testNow.Add(time.Hour), testNow.Add(3*time.Hour)), testNow)
		require.NoError(t, cancelled.Cancel(testNow))
		sut := newSUT(newFakeSeatRepo().add(st), newFakeBookingRepo().add(cancelled))

		_, err := sut.Create(ctx, uuid.New(), st.ID(), testNow.Add(time.Hour), testNow.Add(3*time.Hour))
		assert.NoError(t, err)
	})

	t.Run("random interval sets reject exactly the overlapping windows", func(t *testing.T) {
		st := newActiveSeat()
		bookingRepo := newFakeBookingRepo()
		sut := newSUT(newFakeSeatRepo().add(st), bookingRepo)

		rng := rand.New(rand.NewSource(1))
		type span struct{ start, end time.Time }
		var accepted []span

		for i := 0; i < 250; i++ {
			start := testNow.Add(time.Duration(rng.Intn(72*4)) * 15 * time.Minute)
			end := start.Add(time.Duration(1+rng.Intn(16)) * 15 * time.Minute)

			conflict := false
			for _, sp := range accepted {
				if sp.start.Before(end) && sp.end.After(start) {
					conflict = true
					break
				}
			}

			_, err := sut.Create(ctx, uuid.New(), st.ID(), start, end)
			if conflict {
				assert.ErrorIs(t, err, commands.ErrSeatConflict, "window %v → %v", start, end)
				continue
			}
			require.NoError(t, err, "window %v → %v", start, end)
			accepted = append(accepted, span{start: start, end: end})
		}

		assert.Equal(t, len(accepted), len(bookingRepo.bookings))
	})
}

func TestBookingCommands_CheckIn(t *testing.T) {
	ctx := context.Background()

	t.Run("confirms the pending booking in window", func(t *testing.T) {
		st := newActiveSeat()
		userID := uuid.New()
		pending := booking.NewBooking(st.ID(), userID,
			mustWindow(t, testNow.Add(-time.Hour), testNow.Add(time.Hour)), testNow.Add(-2*time.Hour))
		bookingRepo := newFakeBookingRepo().add(pending)
		sut := commands.NewBookingCommands(fakeUoW{}, newFakeSeatRepo().add(st), bookingRepo, clock.NewMockClock(testNow))

		id, err := sut.CheckIn(ctx, userID, st.Identifier())
		require.NoError(t, err)
		assert.Equal(t, pending.ID(), id)
		assert.Equal(t, booking.StatusConfirmed, pending.Status())
	})

	t.Run("seat id works where the identifier would", func(t *testing.T) {
		st := newActiveSeat()
		userID := uuid.New()
		pending := booking.NewBooking(st.ID(), userID,
			mustWindow(t, testNow.Add(-time.Hour), testNow.Add(time.Hour)), testNow.Add(-2*time.Hour))
		sut := commands.NewBookingCommands(fakeUoW{}, newFakeSeatRepo().add(st),
			newFakeBookingRepo().add(pending), clock.NewMockClock(testNow))

		id, err := sut.CheckIn(ctx, userID, st.ID())
		require.NoError(t, err)
		assert.Equal(t, pending.ID(), id)
		assert.Equal(t, booking.StatusConfirmed, pending.Status())
	})

	t.Run("unknown identifier", func(t *testing.T) {
		sut := commands.NewBookingCommands(fakeUoW{}, newFakeSeatRepo(), newFakeBookingRepo(), clock.NewMockClock(testNow))

		_, err := sut.CheckIn(ctx, uuid.New(), uuid.New())
		assert.ErrorIs(t, err, commands.ErrSeatNotFound)
	})

	t.Run("no pending booking right now", func(t *testing.T) {
		st := newActiveSeat()
		userID := uuid.New()
		// Window starts in the future, so check-in at testNow finds nothing.
		pending := booking.NewBooking(st.ID(), userID,
			mustWindow(t, testNow.Add(time.Hour), testNow.Add(2*time.Hour)), testNow)
		sut := commands.NewBookingCommands(fakeUoW{}, newFakeSeatRepo().add(st),
			newFakeBookingRepo().add(pending), clock.NewMockClock(testNow))

		_, err := sut.CheckIn(ctx, userID, st.Identifier())
		assert.ErrorIs(t, err, commands.ErrNoPendingBooking)
	})

	t.Run("another user's pending booking is invisible", func(t *testing.T) {
		st := newActiveSeat()
		pending := booking.NewBooking(st.ID(), uuid.New(),
			mustWindow(t, testNow.Add(-time.Hour), testNow.Add(time.Hour)), testNow.Add(-2*time.Hour))
		sut := commands.NewBookingCommands(fakeUoW{}, newFakeSeatRepo().add(st),
			newFakeBookingRepo().add(pending), clock.NewMockClock(testNow))

		_, err := sut.CheckIn(ctx, uuid.New(), st.Identifier())
		assert.ErrorIs(t, err, commands.ErrNoPendingBooking)
	})
}

func TestBookingCommands_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("owner cancels an active booking", func(t *testing.T) {
		st := newActiveSeat()
		userID := uuid.New()
		b := booking.NewBooking(st.ID(), userID,
			mustWindow(t, testNow.Add(time.Hour), testNow.Add(2*time.Hour)), testNow)
		sut := commands.NewBookingCommands(fakeUoW{}, newFakeSeatRepo().add(st),
			newFakeBookingRepo().add(b), clock.NewMockClock(testNow))

		require.NoError(t, sut.Cancel(ctx, userID, b.ID()))
		assert.Equal(t, booking.StatusCancelled, b.Status())
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		st := newActiveSeat()
		b := booking.NewBooking(st.ID(), uuid.New(),
			mustWindow(t, testNow.Add(time.Hour), testNow.Add(2*time.Hour)), testNow)
		sut := commands.NewBookingCommands(fakeUoW{}, newFakeSeatRepo().add(st),
			newFakeBookingRepo().add(b), clock.NewMockClock(testNow))

		err := sut.Cancel(ctx, uuid.New(), b.ID())
		assert.ErrorIs(t, err, commands.ErrNotBookingOwner)
		assert.Equal(t, booking.StatusPendingCheckin, b.Status())
	})

	t.Run("closed booking stays closed", func(t *testing.T) {
		st := newActiveSeat()
		userID := uuid.New()
		b := booking.NewBooking(st.ID(), userID,
			mustWindow(t, testNow.Add(-2*time.Hour), testNow.Add(-time.Hour)), testNow.Add(-3*time.Hour))
		require.NoError(t, b.Expire(testNow))
		sut := commands.NewBookingCommands(fakeUoW{}, newFakeSeatRepo().add(st),
			newFakeBookingRepo().add(b), clock.NewMockClock(testNow))

		err := sut.Cancel(ctx, userID, b.ID())
		assert.ErrorIs(t, err, commands.ErrBookingAlreadyClosed)
	})

	t.Run("unknown booking", func(t *testing.T) {
		sut := commands.NewBookingCommands(fakeUoW{}, newFakeSeatRepo(), newFakeBookingRepo(), clock.NewMockClock(testNow))

		err := sut.Cancel(ctx, uuid.New(), uuid.New())
		assert.ErrorIs(t, err, commands.ErrBookingNotFound)
	})
}
