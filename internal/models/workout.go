package models

import "time"

type WorkoutExercise struct {
	Name       string  `json:"name"`
	Sets       int     `json:"sets,omitempty"`
	Reps       int     `json:"reps,omitempty"`
	WeightKg   float64 `json:"weight_kg,omitempty"`
	DurationMin int    `json:"duration_min,omitempty"`
	DistanceKm float64 `json:"distance_km,omitempty"`
	Calories   int     `json:"calories,omitempty"`
	Notes      string  `json:"notes,omitempty"`
}

type Workout struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"index:idx_workouts_user_date" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Title    string    `gorm:"size:100;not null" json:"title"`
	Date     time.Time `gorm:"index:idx_workouts_user_date" json:"date"`
	Type     string    `gorm:"size:20;not null" json:"type"`
	Duration int       `json:"duration"`

	Exercises     []WorkoutExercise `gorm:"serializer:json" json:"exercises"`
	TotalCalories int               `json:"total_calories"`
	Feeling       string            `gorm:"size:20" json:"feeling"`
	Notes         string            `gorm:"size:500" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	WorkoutTypeStrength    = "strength"
	WorkoutTypeCardio      = "cardio"
	WorkoutTypeFlexibility = "flexibility"
	WorkoutTypeSports      = "sports"
	WorkoutTypeOther       = "other"
)

func IsValidWorkoutType(t string) bool {
	switch t {
	case WorkoutTypeStrength, WorkoutTypeCardio, WorkoutTypeFlexibility, WorkoutTypeSports, WorkoutTypeOther:
		return true
	}
	return false
}
