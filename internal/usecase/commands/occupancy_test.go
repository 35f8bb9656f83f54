//go:build unit

package commands_test

import (
	"context"
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

type occupancyFixture struct {
	seatRepo    *fakeSeatRepo
	bookingRepo *fakeBookingRepo
	userRepo    *fakeUserRepo
	publisher   *fakePublisher
	sut         commands.OccupancyCommands
}

func newOccupancyFixture() *occupancyFixture {
	f := &occupancyFixture{
		seatRepo:    newFakeSeatRepo(),
		bookingRepo: newFakeBookingRepo(),
		userRepo:    newFakeUserRepo(),
		publisher:   &fakePublisher{},
	}
	f.sut = commands.NewOccupancyCommands(
		fakeUoW{}, f.seatRepo, f.bookingRepo, f.userRepo, f.publisher,
		clock.NewMockClock(testNow), discardLogger(),
	)
	return f
}

func (f *occupancyFixture) withUser() *user.User {
	u := user.Reconstruct(uuid.New(), "reader@example.com", "reader", "hash", user.RoleUser, testNow)
	f.userRepo.add(u)
	return u
}

func event(deviceID uuid.UUID, occupied bool) commands.OccupancyEvent {
	return commands.OccupancyEvent{DeviceID: deviceID.String(), IsOccupied: occupied}
}

func TestOccupancyCommands_Apply(t *testing.T) {
	ctx := context.Background()

	t.Run("presence promotes a pending booking", func(t *testing.T) {
		f := newOccupancyFixture()
		st := newActiveSeat()
		f.seatRepo.add(st)
		pending := booking.NewBooking(st.ID(), uuid.New(),
			mustWindow(t, testNow.Add(-time.Hour), testNow.Add(time.Hour)), testNow.Add(-2*time.Hour))
		f.bookingRepo.add(pending)

		require.NoError(t, f.sut.Apply(ctx, event(st.Identifier(), true)))

		assert.Equal(t, booking.StatusConfirmed, pending.Status())
		assert.True(t, f.seatRepo.occupancy[st.ID()])
		assert.Empty(t, f.publisher.published)
	})

	t.Run("presence during a confirmed booking is a no-op", func(t *testing.T) {
		f := newOccupancyFixture()
		st := newActiveSeat()
		f.seatRepo.add(st)
		confirmed := booking.NewBooking(st.ID(), uuid.New(),
			mustWindow(t, testNow.Add(-time.Hour), testNow.Add(time.Hour)), testNow.Add(-2*time.Hour))
		require.NoError(t, confirmed.Confirm(testNow.Add(-30*time.Minute)))
		f.bookingRepo.add(confirmed)

		require.NoError(t, f.sut.Apply(ctx, event(st.Identifier(), true)))

		assert.Equal(t, booking.StatusConfirmed, confirmed.Status())
		assert.Empty(t, f.publisher.published)
	})

	t.Run("presence with no booking only records occupancy", func(t *testing.T) {
		f := newOccupancyFixture()
		st := newActiveSeat()
		f.seatRepo.add(st)

		require.NoError(t, f.sut.Apply(ctx, event(st.Identifier(), true)))

		assert.True(t, f.seatRepo.occupancy[st.ID()])
		assert.Empty(t, f.publisher.published)
	})

	t.Run("absence force releases a confirmed booking and notifies", func(t *testing.T) {
		f := newOccupancyFixture()
		st := newActiveSeat()
		f.seatRepo.add(st)
		owner := f.withUser()
		confirmed := booking.NewBooking(st.ID(), owner.ID(),
			mustWindow(t, testNow.Add(-time.Hour), testNow.Add(time.Hour)), testNow.Add(-2*time.Hour))
		require.NoError(t, confirmed.Confirm(testNow.Add(-30*time.Minute)))
		f.bookingRepo.add(confirmed)

		require.NoError(t, f.sut.Apply(ctx, event(st.Identifier(), false)))

		assert.Equal(t, booking.StatusForceReleased, confirmed.Status())
		require.Len(t, f.publisher.published, 1)
		n := f.publisher.published[0]
		assert.Equal(t, commands.NotificationForceRelease, n.Kind)
		assert.Equal(t, owner.Email(), n.Recipient)
		assert.Equal(t, confirmed.ID(), n.BookingID)
	})

	t.Run("absence with no active booking is ignored", func(t *testing.T) {
		f := newOccupancyFixture()
		st := newActiveSeat()
		f.seatRepo.add(st)

		require.NoError(t, f.sut.Apply(ctx, event(st.Identifier(), false)))

		assert.False(t, f.seatRepo.occupancy[st.ID()])
		assert.Empty(t, f.publisher.published)
	})

	t.Run("absence does not touch a pending booking", func(t *testing.T) {
		f := newOccupancyFixture()
		st := newActiveSeat()
		f.seatRepo.add(st)
		pending := booking.NewBooking(st.ID(), uuid.New(),
			mustWindow(t, testNow.Add(-time.Hour), testNow.Add(time.Hour)), testNow.Add(-2*time.Hour))
		f.bookingRepo.add(pending)

		require.NoError(t, f.sut.Apply(ctx, event(st.Identifier(), false)))

		assert.Equal(t, booking.StatusPendingCheckin, pending.Status())
		assert.Empty(t, f.publisher.published)
	})

	t.Run("replaying a presence event changes nothing", func(t *testing.T) {
		f := newOccupancyFixture()
		st := newActiveSeat()
		f.seatRepo.add(st)
		pending := booking.NewBooking(st.ID(), uuid.New(),
			mustWindow(t, testNow.Add(-time.Hour), testNow.Add(time.Hour)), testNow.Add(-2*time.Hour))
		f.bookingRepo.add(pending)

		require.NoError(t, f.sut.Apply(ctx, event(st.Identifier(), true)))
		updatesAfterFirst := f.bookingRepo.updateCalls

		require.NoError(t, f.sut.Apply(ctx, event(st.Identifier(), true)))

		assert.Equal(t, booking.StatusConfirmed, pending.Status())
		assert.Equal(t, updatesAfterFirst, f.bookingRepo.updateCalls)
	})

	t.Run("seat id works as a device id fallback", func(t *testing.T) {
		f := newOccupancyFixture()
		st := newActiveSeat()
		f.seatRepo.add(st)

		require.NoError(t, f.sut.Apply(ctx, event(st.ID(), true)))
		assert.True(t, f.seatRepo.occupancy[st.ID()])
	})

	t.Run("unknown device", func(t *testing.T) {
		f := newOccupancyFixture()

		err := f.sut.Apply(ctx, event(uuid.New(), true))
		assert.ErrorIs(t, err, commands.ErrUnknownDevice)
	})

	t.Run("malformed device id", func(t *testing.T) {
		f := newOccupancyFixture()

		err := f.sut.Apply(ctx, commands.OccupancyEvent{DeviceID: "desk-12", IsOccupied: true})
		assert.ErrorIs(t, err, commands.ErrUnknownDevice)
	})
}
