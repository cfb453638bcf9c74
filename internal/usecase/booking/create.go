package booking

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "github.com/fitlifehq/gym-api/internal/domain/booking"
	"github.com/fitlifehq/gym-api/internal/httperr"
	"github.com/fitlifehq/gym-api/internal/models"
)

type CreateBookingInput struct {
	MemberID    uint
	ClassID     uint
	BookingDate time.Time
	StartTime   string
	EndTime     string
	Notes       string
}

type CreateBooking struct {
	db *gorm.DB
}

func NewCreateBooking(db *gorm.DB) *CreateBooking {
	return &CreateBooking{db: db}
}

func (uc *CreateBooking) Execute(ctx context.Context, in CreateBookingInput) (*models.Booking, error) {
	var class models.Class
	if err := uc.db.WithContext(ctx).First(&class, in.ClassID).Error; err != nil {
		return nil, httperr.ErrBusiness("class_not_found")
	}

	var existing int64
	if err := uc.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("member_id = ? AND class_id = ? AND booking_date = ? AND status IN ?",
			in.MemberID, in.ClassID, in.BookingDate,
			[]string{string(domain.StatusConfirmed), string(domain.StatusCompleted)}).
		Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, httperr.ErrBusiness("already_booked")
	}

	// Conditional increment so concurrent bookings can never push the class
	// past capacity. A read-then-write here would lose updates.
	res := uc.db.WithContext(ctx).
		Model(&models.Class{}).
		Where("id = ? AND current_enrollment < max_capacity", in.ClassID).
		UpdateColumn("current_enrollment", gorm.Expr("current_enrollment + 1"))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, httperr.ErrBusiness("class_full")
	}

	paymentStatus := "pending"
	if class.Price == 0 {
		paymentStatus = "paid"
	}

	b := &models.Booking{
		MemberID:      in.MemberID,
		ClassID:       in.ClassID,
		BookingDate:   in.BookingDate,
		StartTime:     in.StartTime,
		EndTime:       in.EndTime,
		Status:        string(domain.InitialStatus()),
		PaymentStatus: paymentStatus,
		PaymentAmount: class.Price,
		Notes:         in.Notes,
	}

	if err := uc.db.WithContext(ctx).Create(b).Error; err != nil {
		// give the seat back
		uc.db.WithContext(ctx).
			Model(&models.Class{}).
			Where("id = ? AND current_enrollment > 0", in.ClassID).
			UpdateColumn("current_enrollment", gorm.Expr("current_enrollment - 1"))
		return nil, err
	}

	if err := uc.db.WithContext(ctx).Preload("Class").Preload("Class.Trainer").First(b, b.ID).Error; err != nil {
		return nil, err
	}

	return b, nil
}
