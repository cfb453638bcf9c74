package models

import "time"

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	MemberID uint `gorm:"index:idx_bookings_member_date" json:"member_id"`
	Member   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	ClassID uint  `gorm:"index" json:"class_id"`
	Class   Class `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"class"`

	BookingDate time.Time `gorm:"index:idx_bookings_member_date" json:"booking_date"`
	StartTime   string    `gorm:"size:5" json:"start_time"`
	EndTime     string    `gorm:"size:5" json:"end_time"`

	Status        string  `gorm:"size:20;default:'confirmed'" json:"status"`
	PaymentStatus string  `gorm:"size:20;default:'pending'" json:"payment_status"`
	PaymentAmount float64 `json:"payment_amount"`

	Notes              string     `gorm:"size:255" json:"notes"`
	CancellationReason string     `gorm:"size:255" json:"cancellation_reason"`
	CancelledAt        *time.Time `json:"cancelled_at"`
	AttendedAt         *time.Time `json:"attended_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
