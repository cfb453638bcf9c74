package booking

import (
	"time"

	"github.com/fitlifehq/gym-api/internal/models"
)

func Cancel(b *models.Booking, reason string, now time.Time) error {
	if err := CanCancel(Status(b.Status)); err != nil {
		return err
	}

	b.Status = string(StatusCancelled)
	b.CancellationReason = reason
	b.CancelledAt = &now
	return nil
}

func Complete(b *models.Booking, now time.Time) error {
	if err := CanComplete(Status(b.Status)); err != nil {
		return err
	}

	b.Status = string(StatusCompleted)
	b.AttendedAt = &now
	return nil
}

// MarkNoShow records that the member never turned up. AttendedAt stays nil.
func MarkNoShow(b *models.Booking) error {
	if err := CanComplete(Status(b.Status)); err != nil {
		return err
	}

	b.Status = string(StatusNoShow)
	return nil
}
