package seat

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrSeatInactive    = errors.New("seat is not bookable")
	ErrInvalidExposure = errors.New("invalid sun exposure")
)

// Seat is reference data plus the last-known physical state. Identifier is
// the stable public id printed on the seat's QR code; it never changes even
// if the seat row is re-provisioned.
type Seat struct {
	id         uuid.UUID
	roomID     uuid.UUID
	identifier uuid.UUID
	isActive   bool
	isOccupied bool
}

func New(roomID uuid.UUID) *Seat {
	return &Seat{
		id:         uuid.New(),
		roomID:     roomID,
		identifier: uuid.New(),
		isActive:   true,
	}
}

func Reconstruct(id, roomID, identifier uuid.UUID, isActive, isOccupied bool) *Seat {
	return &Seat{
		id:         id,
		roomID:     roomID,
		identifier: identifier,
		isActive:   isActive,
		isOccupied: isOccupied,
	}
}

func (s *Seat) ID() uuid.UUID         { return s.id }
func (s *Seat) RoomID() uuid.UUID     { return s.roomID }
func (s *Seat) Identifier() uuid.UUID { return s.identifier }
func (s *Seat) IsActive() bool        { return s.isActive }
func (s *Seat) IsOccupied() bool      { return s.isOccupied }

// EnsureBookable guards booking creation: an inactive seat accepts no new
// bookings regardless of its physical state.
func (s *Seat) EnsureBookable() error {
	if !s.isActive {
		return ErrSeatInactive
	}
	return nil
}

// SetOccupied applies a sensor reading, last write wins.
func (s *Seat) SetOccupied(occupied bool) {
	s.isOccupied = occupied
}

func (s *Seat) SetActive(active bool) {
	s.isActive = active
}

type Room struct {
	id       uuid.UUID
	name     string
	floor    int
	exposure Exposure
}

func NewRoom(name string, floor int, exposure Exposure) (*Room, error) {
	if !exposure.IsValid() {
		return nil, ErrInvalidExposure
	}
	return &Room{id: uuid.New(), name: name, floor: floor, exposure: exposure}, nil
}

func ReconstructRoom(id uuid.UUID, name string, floor int, exposure Exposure) *Room {
	return &Room{id: id, name: name, floor: floor, exposure: exposure}
}

func (r *Room) ID() uuid.UUID      { return r.id }
func (r *Room) Name() string       { return r.name }
func (r *Room) Floor() int         { return r.floor }
func (r *Room) Exposure() Exposure { return r.exposure }
