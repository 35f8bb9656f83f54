package repository

import (
	"context"
	"errors"
	"time"

	"seatsense/internal/domain/booking"
	"seatsense/internal/infra"
	"seatsense/internal/infra/db"
	"seatsense/internal/pkg/pgconv"
	"seatsense/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgErrCodeExclusionViolation fires if the schema carries a tstzrange
// exclusion constraint in addition to the row-lock guard.
const pgErrCodeExclusionViolation = "23P01"

type BookingRepository struct{}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{}
}

const bookingColumns = `id, seat_id, user_id, start_time, end_time, status, created_at, updated_at`

func (r *BookingRepository) Create(ctx context.Context, tx db.DBTX, b *booking.Booking) (uuid.UUID, error) {
	_, err := tx.Exec(ctx, `
		INSERT INTO bookings (id, seat_id, user_id, start_time, end_time, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		b.ID(), b.SeatID(), b.UserID(),
		b.Window().Start(), b.Window().End(),
		b.Status().String(), b.CreatedAt(), b.UpdatedAt())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrCodeExclusionViolation {
			return uuid.Nil, infra.WrapRepoErr("overlapping booking", err, infra.KindConflict)
		}
		return uuid.Nil, infra.WrapRepoErr("failed to create booking", err)
	}
	return b.ID(), nil
}

func (r *BookingRepository) FindByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*booking.Booking, error) {
	row := tx.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	return scanBooking(row, "failed to find booking by id")
}

func (r *BookingRepository) CountOverlapping(ctx context.Context, tx db.DBTX, seatID uuid.UUID, w booking.Window) (int64, error) {
	var count int64
	err := tx.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM bookings
		WHERE seat_id = $1
		  AND status IN ('pending_checkin', 'confirmed')
		  AND start_time < $3
		  AND end_time > $2`,
		seatID, w.Start(), w.End()).Scan(&count)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count overlapping bookings", err)
	}
	return count, nil
}

func (r *BookingRepository) FindBySeatStatusAt(ctx context.Context, tx db.DBTX, seatID uuid.UUID, status booking.Status, at time.Time) (*booking.Booking, error) {
	row := tx.QueryRow(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE seat_id = $1
		  AND status = $2
		  AND start_time <= $3
		  AND end_time > $3
		ORDER BY start_time
		LIMIT 1`,
		seatID, status.String(), at)
	return scanBooking(row, "failed to find booking by seat and status")
}

func (r *BookingRepository) FindPendingForUser(ctx context.Context, tx db.DBTX, userID, seatID uuid.UUID, at time.Time) (*booking.Booking, error) {
	row := tx.QueryRow(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE user_id = $1
		  AND seat_id = $2
		  AND status = 'pending_checkin'
		  AND start_time <= $3
		  AND end_time > $3
		ORDER BY start_time
		LIMIT 1`,
		userID, seatID, at)
	return scanBooking(row, "failed to find pending booking")
}

// UpdateStatus only writes when the stored status still matches the one the
// transition started from; a row already moved on is reported as conflict.
func (r *BookingRepository) UpdateStatus(ctx context.Context, tx db.DBTX, b *booking.Booking, from booking.Status) error {
	tag, err := tx.Exec(ctx, `
		UPDATE bookings
		SET status = $3, updated_at = $4
		WHERE id = $1 AND status = $2`,
		b.ID(), from.String(), b.Status().String(), b.UpdatedAt())
	if err != nil {
		return infra.WrapRepoErr("failed to update booking status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking status changed concurrently", nil, infra.KindConflict)
	}
	return nil
}

func (r *BookingRepository) CompleteExpired(ctx context.Context, tx db.DBTX, now time.Time) ([]commands.ClosedBooking, error) {
	rows, err := tx.Query(ctx, `
		WITH closed AS (
			UPDATE bookings
			SET status = 'completed', updated_at = $1
			WHERE status = 'confirmed' AND end_time <= $1
			RETURNING id, seat_id, user_id, start_time, end_time
		)
		SELECT c.id, c.seat_id, c.user_id, c.start_time, c.end_time, u.email, u.username
		FROM closed c
		JOIN users u ON u.id = c.user_id`, now)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to complete expired bookings", err)
	}
	defer rows.Close()

	var closed []commands.ClosedBooking
	for rows.Next() {
		var (
			cb         commands.ClosedBooking
			start, end time.Time
		)
		if err := rows.Scan(&cb.BookingID, &cb.SeatID, &cb.UserID, &start, &end, &cb.UserEmail, &cb.Username); err != nil {
			return nil, infra.WrapRepoErr("failed to scan closed booking", err)
		}
		w, err := booking.NewWindow(start, end)
		if err != nil {
			return nil, infra.WrapRepoErr("invalid stored booking window", err)
		}
		cb.Window = w
		closed = append(closed, cb)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate closed bookings", err)
	}
	return closed, nil
}

func (r *BookingRepository) ExpirePending(ctx context.Context, tx db.DBTX, now time.Time) (int64, error) {
	tag, err := tx.Exec(ctx, `
		UPDATE bookings
		SET status = 'expired', updated_at = $1
		WHERE status = 'pending_checkin' AND end_time <= $1`, now)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to expire pending bookings", err)
	}
	return tag.RowsAffected(), nil
}

// CountByWeekdayHour backs the occupancy-probability factor. date_part('dow')
// uses 0=Sunday, matching time.Weekday.
func (r *BookingRepository) CountByWeekdayHour(ctx context.Context, tx db.DBTX, seatID uuid.UUID, since time.Time, weekday, hour int) (int, error) {
	var count int
	err := tx.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM bookings
		WHERE seat_id = $1
		  AND start_time >= $2
		  AND date_part('dow', start_time) = $3
		  AND date_part('hour', start_time) = $4`,
		seatID, since, weekday, hour).Scan(&count)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count booking history", err)
	}
	return count, nil
}

func scanBooking(row rowScanner, msg string) (*booking.Booking, error) {
	var (
		id, seatID, userID   uuid.UUID
		start, end           time.Time
		status               string
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &seatID, &userID, &start, &end, &status, &createdAt, &updatedAt); err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr(msg, err)
	}

	w, err := booking.NewWindow(start, end)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid stored booking window", err)
	}
	st, err := booking.ParseStatus(status)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid stored booking status", err)
	}
	return booking.Reconstruct(id, seatID, userID, w, st, createdAt, updatedAt), nil
}
