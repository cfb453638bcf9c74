package models

import "time"

const (
	CriterionWorkoutCount    = "workout_count"
	CriterionCaloriesBurned  = "calories_burned"
	CriterionClassAttendance = "class_attendance"
	CriterionDuration        = "duration"
)

type Achievement struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
	Icon        string `gorm:"size:20" json:"icon"`
	Category    string `gorm:"size:20;not null" json:"category"`
	Points      int    `gorm:"default:10" json:"points"`
	Tier        string `gorm:"size:20;default:'bronze'" json:"tier"`

	CriterionType   string `gorm:"size:30;not null" json:"criterion_type"`
	CriterionTarget int    `gorm:"not null" json:"criterion_target"`

	Active bool `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserAchievement is an unlock record, created at most once per
// (user, achievement) and immutable afterwards.
type UserAchievement struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"uniqueIndex:idx_user_achievement" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	AchievementID uint        `gorm:"uniqueIndex:idx_user_achievement" json:"achievement_id"`
	Achievement   Achievement `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"achievement"`

	Progress   int       `json:"progress"`
	UnlockedAt time.Time `gorm:"autoCreateTime" json:"unlocked_at"`
}

const (
	PeriodAllTime = "all_time"
	PeriodMonthly = "monthly"
	PeriodWeekly  = "weekly"
)

// LeaderboardEntry holds one aggregate row per (user, period). It is updated
// incrementally, never recomputed from scratch.
type LeaderboardEntry struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"uniqueIndex:idx_leaderboard_user_period" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`

	Period string `gorm:"size:20;default:'all_time';uniqueIndex:idx_leaderboard_user_period;index:idx_leaderboard_period_points" json:"period"`

	TotalPoints   int `gorm:"default:0;index:idx_leaderboard_period_points" json:"total_points"`
	TotalWorkouts int `gorm:"default:0" json:"total_workouts"`
	TotalCalories int `gorm:"default:0" json:"total_calories"`
	TotalDuration int `gorm:"default:0" json:"total_duration"`

	CurrentStreak   int        `gorm:"default:0" json:"current_streak"`
	LongestStreak   int        `gorm:"default:0" json:"longest_streak"`
	LastWorkoutDate *time.Time `json:"last_workout_date"`

	Level int `gorm:"default:1" json:"level"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
