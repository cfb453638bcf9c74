package models

import "time"

// Exercise is a catalog entry in the exercise library.
type Exercise struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string `gorm:"size:500" json:"description"`

	Category     string   `gorm:"size:20;not null;index:idx_exercises_cat_diff" json:"category"`
	MuscleGroups []string `gorm:"serializer:json" json:"muscle_groups"`
	Equipment    []string `gorm:"serializer:json" json:"equipment"`
	Difficulty   string   `gorm:"size:20;not null;index:idx_exercises_cat_diff" json:"difficulty"`

	Instructions []string `gorm:"serializer:json" json:"instructions"`
	Tips         []string `gorm:"serializer:json" json:"tips"`

	Calories int  `json:"calories"`
	Approved bool `gorm:"default:false" json:"approved"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
