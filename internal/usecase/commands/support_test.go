//go:build unit

package commands_test

import (
	"context"
	"io"
	"log/slog"
	"time"

	"seatsense/internal/domain/booking"
	"seatsense/internal/domain/seat"
	"seatsense/internal/domain/user"
	"seatsense/internal/infra"
	"seatsense/internal/infra/db"
	"seatsense/internal/usecase/commands"

	"github.com/google/uuid"
)

// In-memory fakes for the write-side ports. Every method mirrors the SQL
// implementation's contract, including the error kinds usecases branch on.

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func notFound(msg string) error {
	return infra.WrapRepoErr(msg, nil, infra.KindNotFound)
}

type fakeUoW struct{}

func (fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return fn(ctx, nil)
}

func (fakeUoW) DB() db.DBTX { return nil }

type fakeSeatRepo struct {
	seats     map[uuid.UUID]*seat.Seat
	withRooms []commands.SeatWithRoom
	occupancy map[uuid.UUID]bool
}

func newFakeSeatRepo() *fakeSeatRepo {
	return &fakeSeatRepo{
		seats:     map[uuid.UUID]*seat.Seat{},
		occupancy: map[uuid.UUID]bool{},
	}
}

func (r *fakeSeatRepo) add(s *seat.Seat) *fakeSeatRepo {
	r.seats[s.ID()] = s
	return r
}

func (r *fakeSeatRepo) FindByID(_ context.Context, _ db.DBTX, id uuid.UUID) (*seat.Seat, error) {
	s, ok := r.seats[id]
	if !ok {
		return nil, notFound("seat not found")
	}
	return s, nil
}

func (r *fakeSeatRepo) FindByIdentifier(_ context.Context, _ db.DBTX, identifier uuid.UUID) (*seat.Seat, error) {
	for _, s := range r.seats {
		if s.Identifier() == identifier {
			return s, nil
		}
	}
	return nil, notFound("seat not found")
}

func (r *fakeSeatRepo) FindForUpdate(ctx context.Context, tx db.DBTX, id uuid.UUID) (*seat.Seat, error) {
	return r.FindByID(ctx, tx, id)
}

func (r *fakeSeatRepo) SaveOccupancy(_ context.Context, _ db.DBTX, seatID uuid.UUID, occupied bool, _ time.Time) error {
	r.occupancy[seatID] = occupied
	if s, ok := r.seats[seatID]; ok {
		s.SetOccupied(occupied)
	}
	return nil
}

func (r *fakeSeatRepo) SetActive(_ context.Context, _ db.DBTX, seatID uuid.UUID, active bool, _ time.Time) error {
	s, ok := r.seats[seatID]
	if !ok {
		return notFound("seat not found")
	}
	s.SetActive(active)
	return nil
}

func (r *fakeSeatRepo) ListActiveWithRooms(_ context.Context, _ db.DBTX) ([]commands.SeatWithRoom, error) {
	return r.withRooms, nil
}

type fakeRoomRepo struct {
	rooms       map[uuid.UUID]*seat.Room
	confirmedAt map[uuid.UUID]bool
}

func newFakeRoomRepo() *fakeRoomRepo {
	return &fakeRoomRepo{
		rooms:       map[uuid.UUID]*seat.Room{},
		confirmedAt: map[uuid.UUID]bool{},
	}
}

func (r *fakeRoomRepo) FindByID(_ context.Context, _ db.DBTX, id uuid.UUID) (*seat.Room, error) {
	room, ok := r.rooms[id]
	if !ok {
		return nil, notFound("room not found")
	}
	return room, nil
}

func (r *fakeRoomRepo) HasConfirmedBookingAt(_ context.Context, _ db.DBTX, roomID uuid.UUID, _ time.Time) (bool, error) {
	return r.confirmedAt[roomID], nil
}

type fakeBookingRepo struct {
	bookings     map[uuid.UUID]*booking.Booking
	users        map[uuid.UUID]*user.User
	recentCounts map[uuid.UUID]int
	annualCounts map[uuid.UUID]int
	updateCalls  int
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		bookings:     map[uuid.UUID]*booking.Booking{},
		users:        map[uuid.UUID]*user.User{},
		recentCounts: map[uuid.UUID]int{},
		annualCounts: map[uuid.UUID]int{},
	}
}

func (r *fakeBookingRepo) add(b *booking.Booking) *fakeBookingRepo {
	r.bookings[b.ID()] = b
	return r
}

func (r *fakeBookingRepo) Create(_ context.Context, _ db.DBTX, b *booking.Booking) (uuid.UUID, error) {
	r.bookings[b.ID()] = b
	return b.ID(), nil
}

func (r *fakeBookingRepo) FindByID(_ context.Context, _ db.DBTX, id uuid.UUID) (*booking.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, notFound("booking not found")
	}
	return b, nil
}

func (r *fakeBookingRepo) CountOverlapping(_ context.Context, _ db.DBTX, seatID uuid.UUID, w booking.Window) (int64, error) {
	var n int64
	for _, b := range r.bookings {
		if b.SeatID() == seatID && b.IsActive() && b.Window().Overlaps(w) {
			n++
		}
	}
	return n, nil
}

func (r *fakeBookingRepo) FindBySeatStatusAt(_ context.Context, _ db.DBTX, seatID uuid.UUID, status booking.Status, at time.Time) (*booking.Booking, error) {
	for _, b := range r.bookings {
		if b.SeatID() == seatID && b.Status() == status && b.Window().Contains(at) {
			return b, nil
		}
	}
	return nil, notFound("booking not found")
}

func (r *fakeBookingRepo) FindPendingForUser(_ context.Context, _ db.DBTX, userID, seatID uuid.UUID, at time.Time) (*booking.Booking, error) {
	for _, b := range r.bookings {
		if b.SeatID() == seatID && b.UserID() == userID &&
			b.Status() == booking.StatusPendingCheckin && b.Window().Contains(at) {
			return b, nil
		}
	}
	return nil, notFound("booking not found")
}

func (r *fakeBookingRepo) UpdateStatus(_ context.Context, _ db.DBTX, b *booking.Booking, _ booking.Status) error {
	if _, ok := r.bookings[b.ID()]; !ok {
		return infra.WrapRepoErr("stale status", nil, infra.KindConflict)
	}
	r.updateCalls++
	return nil
}

func (r *fakeBookingRepo) CompleteExpired(_ context.Context, _ db.DBTX, now time.Time) ([]commands.ClosedBooking, error) {
	var closed []commands.ClosedBooking
	for _, b := range r.bookings {
		if b.Status() != booking.StatusConfirmed || !b.Window().HasElapsed(now) {
			continue
		}
		if err := b.Complete(now); err != nil {
			continue
		}
		cb := commands.ClosedBooking{
			BookingID: b.ID(),
			SeatID:    b.SeatID(),
			UserID:    b.UserID(),
			Window:    b.Window(),
		}
		if u, ok := r.users[b.UserID()]; ok {
			cb.UserEmail = u.Email()
			cb.Username = u.Username()
		}
		closed = append(closed, cb)
	}
	return closed, nil
}

func (r *fakeBookingRepo) ExpirePending(_ context.Context, _ db.DBTX, now time.Time) (int64, error) {
	var n int64
	for _, b := range r.bookings {
		if b.Status() != booking.StatusPendingCheckin || !b.Window().HasElapsed(now) {
			continue
		}
		if err := b.Expire(now); err != nil {
			continue
		}
		n++
	}
	return n, nil
}

// CountByWeekdayHour splits on the window length: anything reaching back
// further than half a year is treated as the annual query.
func (r *fakeBookingRepo) CountByWeekdayHour(_ context.Context, _ db.DBTX, seatID uuid.UUID, since time.Time, _, _ int) (int, error) {
	if testNow.Sub(since) > 180*24*time.Hour {
		return r.annualCounts[seatID], nil
	}
	return r.recentCounts[seatID], nil
}

type fakeUserRepo struct {
	byID    map[uuid.UUID]*user.User
	byEmail map[string]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    map[uuid.UUID]*user.User{},
		byEmail: map[string]*user.User{},
	}
}

func (r *fakeUserRepo) add(u *user.User) *fakeUserRepo {
	r.byID[u.ID()] = u
	r.byEmail[u.Email()] = u
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, _ db.DBTX, u *user.User) error {
	if _, ok := r.byEmail[u.Email()]; ok {
		return infra.WrapRepoErr("duplicate email", nil, infra.KindDuplicateKey)
	}
	r.add(u)
	return nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, _ db.DBTX, email string) (*user.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, notFound("user not found")
	}
	return u, nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, _ db.DBTX, id uuid.UUID) (*user.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, notFound("user not found")
	}
	return u, nil
}

type fakeTemperatureRepo struct {
	avgs    map[uuid.UUID]*float64
	inserts int
}

func newFakeTemperatureRepo() *fakeTemperatureRepo {
	return &fakeTemperatureRepo{avgs: map[uuid.UUID]*float64{}}
}

func (r *fakeTemperatureRepo) Insert(_ context.Context, _ db.DBTX, _ uuid.UUID, _ float64, _ time.Time) error {
	r.inserts++
	return nil
}

func (r *fakeTemperatureRepo) AvgSince(_ context.Context, _ db.DBTX, roomID uuid.UUID, _ time.Time) (*float64, error) {
	return r.avgs[roomID], nil
}

type fakeEnergyRepo struct {
	states map[uuid.UUID]commands.EnergyState
}

func newFakeEnergyRepo() *fakeEnergyRepo {
	return &fakeEnergyRepo{states: map[uuid.UUID]commands.EnergyState{}}
}

func (r *fakeEnergyRepo) Upsert(_ context.Context, _ db.DBTX, state commands.EnergyState) error {
	r.states[state.RoomID] = state
	return nil
}

func (r *fakeEnergyRepo) FindByRoom(_ context.Context, _ db.DBTX, roomID uuid.UUID) (*commands.EnergyState, error) {
	state, ok := r.states[roomID]
	if !ok {
		return nil, notFound("energy state not found")
	}
	return &state, nil
}

type fakeSuggestionRepo struct {
	rows         []commands.SuggestionRow
	deletedDates []time.Time
	recommended  []uuid.UUID
}

func (r *fakeSuggestionRepo) DeleteByDate(_ context.Context, _ db.DBTX, date time.Time) error {
	r.deletedDates = append(r.deletedDates, date)
	r.rows = nil
	return nil
}

func (r *fakeSuggestionRepo) InsertBatch(_ context.Context, _ db.DBTX, rows []commands.SuggestionRow) error {
	r.rows = append(r.rows, rows...)
	return nil
}

func (r *fakeSuggestionRepo) MarkRecommended(_ context.Context, _ db.DBTX, ids []uuid.UUID) error {
	r.recommended = ids
	return nil
}

type fakePublisher struct {
	published []commands.Notification
	failErr   error
}

func (p *fakePublisher) Publish(_ context.Context, n commands.Notification) error {
	if p.failErr != nil {
		return p.failErr
	}
	p.published = append(p.published, n)
	return nil
}

type fakeCache struct {
	invalidated []string
}

func (c *fakeCache) Invalidate(_ context.Context, date string) error {
	c.invalidated = append(c.invalidated, date)
	return nil
}
