package models

import "time"

type ScheduleSlot struct {
	DayOfWeek string `json:"day_of_week"`
	StartTime string `json:"start_time"` // "09:00"
	EndTime   string `json:"end_time"`
}

type Class struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:500" json:"description"`

	TrainerID uint `json:"trainer_id"`
	Trainer   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"trainer"`

	Category   string `gorm:"size:30;not null" json:"category"`
	Difficulty string `gorm:"size:20;default:'beginner'" json:"difficulty"`
	Duration   int    `json:"duration"`

	MaxCapacity       int `gorm:"default:20" json:"max_capacity"`
	CurrentEnrollment int `gorm:"default:0" json:"current_enrollment"`

	Schedule []ScheduleSlot `gorm:"serializer:json" json:"schedule"`

	Price  float64 `gorm:"default:0" json:"price"`
	Image  string  `gorm:"size:255" json:"image"`
	Active bool    `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
