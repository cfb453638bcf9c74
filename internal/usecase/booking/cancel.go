package booking

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "github.com/fitlifehq/gym-api/internal/domain/booking"
	"github.com/fitlifehq/gym-api/internal/httperr"
	"github.com/fitlifehq/gym-api/internal/models"
)

type CancelBooking struct {
	db *gorm.DB
}

func NewCancelBooking(db *gorm.DB) *CancelBooking {
	return &CancelBooking{db: db}
}

func (uc *CancelBooking) Execute(ctx context.Context, bookingID, callerID uint, reason string, now time.Time) (*models.Booking, error) {
	var b models.Booking
	if err := uc.db.WithContext(ctx).First(&b, bookingID).Error; err != nil {
		return nil, httperr.ErrBusiness("booking_not_found")
	}

	if b.MemberID != callerID {
		return nil, httperr.ErrBusiness("not_owner")
	}

	if err := domain.Cancel(&b, reason, now); err != nil {
		return nil, err
	}

	if err := uc.db.WithContext(ctx).Save(&b).Error; err != nil {
		return nil, err
	}

	// Floored decrement: cancelling can never take enrollment below zero,
	// and the state check above prevents a double decrement.
	if err := uc.db.WithContext(ctx).
		Model(&models.Class{}).
		Where("id = ? AND current_enrollment > 0", b.ClassID).
		UpdateColumn("current_enrollment", gorm.Expr("current_enrollment - 1")).Error; err != nil {
		return nil, err
	}

	return &b, nil
}
