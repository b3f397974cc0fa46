package schedule

import "github.com/neillmakeup/studio-api/internal/httperr"

// ===============================
// Reservation Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

func InitialStatus() Status {
	return StatusPending
}

// ParseStatus accepts the three known values. Any transition between them
// is allowed, an admin edit may move a cancelled booking back to pending.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return Status(s), nil
	}
	return "", httperr.ErrBusiness("invalid_status")
}

// Color is the calendar colour of a booking in the given status.
func (s Status) Color() string {
	switch s {
	case StatusConfirmed:
		return "#22c55e"
	case StatusCancelled:
		return "#ef4444"
	default:
		return "#facc15"
	}
}

const BlockedColor = "#a1a1aa"
