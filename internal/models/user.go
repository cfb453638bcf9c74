package models

import "time"

const (
	RoleMember  = "member"
	RoleTrainer = "trainer"
	RoleAdmin   = "admin"
)

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Role         string `gorm:"size:20;default:'member'" json:"role"`
	Avatar       string `gorm:"size:255" json:"avatar"`
	Active       bool   `gorm:"default:true" json:"active"`

	DateOfBirth  *time.Time `json:"date_of_birth"`
	Gender       string     `gorm:"size:20" json:"gender"`
	HeightCm     float64    `json:"height_cm"`
	WeightKg     float64    `json:"weight_kg"`
	FitnessLevel string     `gorm:"size:20;default:'beginner'" json:"fitness_level"`
	FitnessGoals []string   `gorm:"serializer:json" json:"fitness_goals"`

	MembershipType      string     `gorm:"size:20" json:"membership_type"`
	MembershipStatus    string     `gorm:"size:20;default:'none'" json:"membership_status"`
	MembershipStartDate *time.Time `json:"membership_start_date"`
	MembershipEndDate   *time.Time `json:"membership_end_date"`

	// Customer id on the configured payment provider, if one was created.
	ProviderCustomerID string `gorm:"size:100" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
