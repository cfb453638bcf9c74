package models

import "time"

// MembershipPlan is a catalog entity, not a per-user subscription record.
type MembershipPlan struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:500" json:"description"`
	Type        string `gorm:"size:20;not null" json:"type"` // basic, premium, vip

	DurationMonths int     `json:"duration_months"`
	Price          float64 `json:"price"`

	Features []string `gorm:"serializer:json" json:"features"`

	ClassesPerWeek           int    `gorm:"default:0" json:"classes_per_week"` // 0 means unlimited
	PersonalTrainingSessions int    `gorm:"default:0" json:"personal_training_sessions"`
	GuestPasses              int    `gorm:"default:0" json:"guest_passes"`
	AccessHours              string `gorm:"size:20;default:'24/7'" json:"access_hours"`

	Active  bool `gorm:"default:true" json:"active"`
	Popular bool `gorm:"default:false" json:"popular"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
