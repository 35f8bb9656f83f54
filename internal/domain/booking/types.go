package booking

type Status string

const (
	StatusPendingCheckin Status = "pending_checkin"
	StatusConfirmed      Status = "confirmed"
	StatusCompleted      Status = "completed"
	StatusForceReleased  Status = "force_released"
	StatusCancelled      Status = "cancelled"
	StatusExpired        Status = "expired"
)

// ActiveStatuses are the statuses that hold a seat: they participate in the
// overlap check and can still transition.
var ActiveStatuses = []Status{StatusPendingCheckin, StatusConfirmed}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPendingCheckin, StatusConfirmed, StatusCompleted,
		StatusForceReleased, StatusCancelled, StatusExpired:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusForceReleased, StatusCancelled, StatusExpired:
		return true
	default:
		return false
	}
}

// ParseStatus rejects unknown strings at the boundary so only the closed
// status set ever reaches the state machine.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
