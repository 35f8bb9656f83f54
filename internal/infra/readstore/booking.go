package readstore

import (
	"context"
	"time"

	"seatsense/internal/infra"
	"seatsense/internal/infra/db"
	"seatsense/internal/pkg/pgconv"
	"seatsense/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(dbtx db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: dbtx}
}

const bookingViewSelect = `
	SELECT b.id, b.seat_id, s.seat_identifier, r.name, b.user_id,
	       b.start_time, b.end_time, b.status, b.created_at, b.updated_at
	FROM bookings b
	JOIN seats s ON s.id = b.seat_id
	JOIN rooms r ON r.id = s.room_id`

func (r *BookingReadStore) GetByID(ctx context.Context, id, requesterID uuid.UUID, isAdmin bool) (*queries.BookingView, error) {
	row := r.db.QueryRow(ctx, bookingViewSelect+` WHERE b.id = $1`, id)

	view, err := scanBookingView(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, queries.ErrBookingNotFound
		}
		return nil, infra.WrapRepoErr("failed to find booking view", err)
	}
	if !isAdmin && view.UserID != requesterID {
		return nil, queries.ErrForbidden
	}
	return view, nil
}

func (r *BookingReadStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]queries.BookingView, error) {
	rows, err := r.db.Query(ctx, bookingViewSelect+`
		WHERE b.user_id = $1
		ORDER BY b.start_time DESC`, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings by user", err)
	}
	return collectBookingViews(rows)
}

func (r *BookingReadStore) ListBySeat(ctx context.Context, seatID uuid.UUID, from, to time.Time) ([]queries.BookingView, error) {
	rows, err := r.db.Query(ctx, bookingViewSelect+`
		WHERE b.seat_id = $1
		  AND b.start_time < $3
		  AND b.end_time > $2
		ORDER BY b.start_time`, seatID, from, to)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings by seat", err)
	}
	return collectBookingViews(rows)
}

func collectBookingViews(rows pgx.Rows) ([]queries.BookingView, error) {
	defer rows.Close()

	views := make([]queries.BookingView, 0)
	for rows.Next() {
		view, err := scanBookingView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking view", err)
		}
		views = append(views, *view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booking views", err)
	}
	return views, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBookingView(row rowScanner) (*queries.BookingView, error) {
	var v queries.BookingView
	err := row.Scan(&v.ID, &v.SeatID, &v.SeatIdentifier, &v.RoomName, &v.UserID,
		&v.StartTime, &v.EndTime, &v.Status, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
