package models

import "time"

const (
	ChallengeCategoryCalories = "calories"
	ChallengeCategoryWorkouts = "workouts"
	ChallengeCategoryDuration = "duration"
)

type Challenge struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:500" json:"description"`
	Type        string `gorm:"size:20;default:'individual'" json:"type"`
	Category    string `gorm:"size:20;not null" json:"category"`

	GoalTarget int    `gorm:"not null" json:"goal_target"`
	GoalUnit   string `gorm:"size:20" json:"goal_unit"`

	StartDate time.Time `gorm:"index:idx_challenges_window" json:"start_date"`
	EndDate   time.Time `gorm:"index:idx_challenges_window" json:"end_date"`

	RewardPoints    int  `gorm:"default:0" json:"reward_points"`
	MaxParticipants int  `gorm:"default:0" json:"max_participants"` // 0 means unlimited
	Active          bool `gorm:"default:true" json:"active"`

	CreatedByID uint `json:"created_by_id"`
	CreatedBy   User `gorm:"foreignKey:CreatedByID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"created_by"`

	Participants []ChallengeParticipant `gorm:"constraint:OnDelete:CASCADE;" json:"participants"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ChallengeParticipant struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ChallengeID uint `gorm:"uniqueIndex:idx_challenge_participant" json:"challenge_id"`

	UserID uint `gorm:"uniqueIndex:idx_challenge_participant" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`

	Progress int `gorm:"default:0" json:"progress"`
	Rank     int `gorm:"default:0" json:"rank"`

	// Set when the goal is first reached so repeated progress updates never
	// re-award the challenge points.
	RewardClaimed bool `gorm:"default:false" json:"reward_claimed"`

	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`
}
