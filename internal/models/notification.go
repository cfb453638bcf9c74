package models

import "time"

type Notification struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"index:idx_notifications_user_read" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Type    string `gorm:"size:30;not null" json:"type"`
	Title   string `gorm:"size:100" json:"title"`
	Message string `gorm:"size:500" json:"message"`

	Data map[string]any `gorm:"serializer:json" json:"data"`

	Read bool `gorm:"default:false;index:idx_notifications_user_read" json:"read"`

	CreatedAt time.Time `json:"created_at"`
}
