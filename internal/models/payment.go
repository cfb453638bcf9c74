package models

import "time"

const (
	PaymentPending   = "pending"
	PaymentSucceeded = "succeeded"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"
)

type Payment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"index" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	PlanID uint           `json:"plan_id"`
	Plan   MembershipPlan `gorm:"foreignKey:PlanID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"plan"`

	// Provider-side identifiers. IntentID is the order/intent handle created
	// up front; TransactionID is filled once the provider reports a charge.
	Provider      string `gorm:"size:20" json:"provider"`
	IntentID      string `gorm:"size:100;uniqueIndex" json:"intent_id"`
	TransactionID string `gorm:"size:100" json:"transaction_id"`

	Amount   float64 `json:"amount"`
	Currency string  `gorm:"size:3;default:'usd'" json:"currency"`
	Status   string  `gorm:"size:20;default:'pending'" json:"status"`

	Description string            `gorm:"size:255" json:"description"`
	Metadata    map[string]string `gorm:"serializer:json" json:"metadata"`

	RefundedAt *time.Time `json:"refunded_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
