//go:build unit || e2e

package builder

import (
	"time"

	dombooking "seatsense/internal/domain/booking"
	reqdto "seatsense/internal/handler/dto/request"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	SeatID    uuid.UUID
	UserID    uuid.UUID
	StartTime time.Time
	EndTime   time.Time
	Now       time.Time
}

func NewBookingBuilder() *BookingBuilder {
	now := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	return &BookingBuilder{
		SeatID:    uuid.New(),
		UserID:    uuid.New(),
		StartTime: now.Add(time.Hour),
		EndTime:   now.Add(3 * time.Hour),
		Now:       now,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) BuildDomain() (*dombooking.Booking, error) {
	window, err := dombooking.NewWindow(b.StartTime, b.EndTime)
	if err != nil {
		return nil, err
	}
	return dombooking.NewBooking(b.SeatID, b.UserID, window, b.Now), nil
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	return reqdto.CreateBookingRequest{
		SeatID:    b.SeatID,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
	}
}
