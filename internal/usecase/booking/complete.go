package booking

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "github.com/fitlifehq/gym-api/internal/domain/booking"
	"github.com/fitlifehq/gym-api/internal/httperr"
	"github.com/fitlifehq/gym-api/internal/models"
)

type CompleteBooking struct {
	db *gorm.DB
}

func NewCompleteBooking(db *gorm.DB) *CompleteBooking {
	return &CompleteBooking{db: db}
}

// Execute records attendance for a confirmed booking: completed, or no-show
// when the member never turned up.
func (uc *CompleteBooking) Execute(ctx context.Context, bookingID uint, noShow bool, now time.Time) (*models.Booking, error) {
	var b models.Booking
	if err := uc.db.WithContext(ctx).First(&b, bookingID).Error; err != nil {
		return nil, httperr.ErrBusiness("booking_not_found")
	}

	var err error
	if noShow {
		err = domain.MarkNoShow(&b)
	} else {
		err = domain.Complete(&b, now)
	}
	if err != nil {
		return nil, err
	}

	if err := uc.db.WithContext(ctx).Save(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}
