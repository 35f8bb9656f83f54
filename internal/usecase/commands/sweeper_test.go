//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"seatsense/internal/domain/booking"
	"seatsense/internal/domain/user"
	"seatsense/internal/pkg/clock"
	"seatsense/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepCommands_SweepExpired(t *testing.T) {
	ctx := context.Background()

	newSUT := func(bookingRepo *fakeBookingRepo, publisher *fakePublisher) commands.SweepCommands {
		return commands.NewSweepCommands(fakeUoW{}, bookingRepo, publisher,
			clock.NewMockClock(testNow), discardLogger())
	}

	t.Run("elapsed confirmed bookings complete with a notification", func(t *testing.T) {
		bookingRepo := newFakeBookingRepo()
		owner := user.Reconstruct(uuid.New(), "reader@example.com", "reader", "hash", user.RoleUser, testNow)
		bookingRepo.users[owner.ID()] = owner

		confirmed := booking.NewBooking(uuid.New(), owner.ID(),
			mustWindow(t, testNow.Add(-3*time.Hour), testNow.Add(-time.Hour)), testNow.Add(-4*time.Hour))
		require.NoError(t, confirmed.Confirm(testNow.Add(-2*time.Hour)))
		bookingRepo.add(confirmed)

		publisher := &fakePublisher{}
		result, err := newSUT(bookingRepo, publisher).SweepExpired(ctx)
		require.NoError(t, err)

		assert.Equal(t, commands.SweepResult{Completed: 1, Expired: 0}, result)
		assert.Equal(t, booking.StatusCompleted, confirmed.Status())
		require.Len(t, publisher.published, 1)
		assert.Equal(t, commands.NotificationBookingCompleted, publisher.published[0].Kind)
		assert.Equal(t, owner.Email(), publisher.published[0].Recipient)
	})

	t.Run("elapsed pending bookings expire silently", func(t *testing.T) {
		bookingRepo := newFakeBookingRepo()
		pending := booking.NewBooking(uuid.New(), uuid.New(),
			mustWindow(t, testNow.Add(-3*time.Hour), testNow.Add(-time.Hour)), testNow.Add(-4*time.Hour))
		bookingRepo.add(pending)

		publisher := &fakePublisher{}
		result, err := newSUT(bookingRepo, publisher).SweepExpired(ctx)
		require.NoError(t, err)

		assert.Equal(t, commands.SweepResult{Completed: 0, Expired: 1}, result)
		assert.Equal(t, booking.StatusExpired, pending.Status())
		assert.Empty(t, publisher.published)
	})

	t.Run("open windows are left alone", func(t *testing.T) {
		bookingRepo := newFakeBookingRepo()
		running := booking.NewBooking(uuid.New(), uuid.New(),
			mustWindow(t, testNow.Add(-time.Hour), testNow.Add(time.Hour)), testNow.Add(-2*time.Hour))
		require.NoError(t, running.Confirm(testNow.Add(-30*time.Minute)))
		bookingRepo.add(running)

		result, err := newSUT(bookingRepo, &fakePublisher{}).SweepExpired(ctx)
		require.NoError(t, err)

		assert.Equal(t, commands.SweepResult{}, result)
		assert.Equal(t, booking.StatusConfirmed, running.Status())
	})

	t.Run("second sweep finds nothing", func(t *testing.T) {
		bookingRepo := newFakeBookingRepo()
		pending := booking.NewBooking(uuid.New(), uuid.New(),
			mustWindow(t, testNow.Add(-3*time.Hour), testNow.Add(-time.Hour)), testNow.Add(-4*time.Hour))
		bookingRepo.add(pending)
		sut := newSUT(bookingRepo, &fakePublisher{})

		first, err := sut.SweepExpired(ctx)
		require.NoError(t, err)
		require.Equal(t, 1, first.Expired)

		second, err := sut.SweepExpired(ctx)
		require.NoError(t, err)
		assert.Equal(t, commands.SweepResult{}, second)
	})

	t.Run("publish failure does not fail the sweep", func(t *testing.T) {
		bookingRepo := newFakeBookingRepo()
		confirmed := booking.NewBooking(uuid.New(), uuid.New(),
			mustWindow(t, testNow.Add(-3*time.Hour), testNow.Add(-time.Hour)), testNow.Add(-4*time.Hour))
		require.NoError(t, confirmed.Confirm(testNow.Add(-2*time.Hour)))
		bookingRepo.add(confirmed)

		publisher := &fakePublisher{failErr: errors.New("broker down")}
		result, err := newSUT(bookingRepo, publisher).SweepExpired(ctx)
		require.NoError(t, err)

		assert.Equal(t, 1, result.Completed)
		assert.Equal(t, booking.StatusCompleted, confirmed.Status())
	})
}
