package booking

import "github.com/fitlifehq/gym-api/internal/httperr"

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
	StatusNoShow    Status = "no-show"
)

// CanCancel distinguishes the redundant cancel from other invalid states so
// the handler can report it precisely.
func CanCancel(current Status) error {
	if current == StatusCancelled {
		return httperr.ErrBusiness("already_cancelled")
	}
	if current != StatusConfirmed {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanComplete(current Status) error {
	if current != StatusConfirmed {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func InitialStatus() Status {
	return StatusConfirmed
}
