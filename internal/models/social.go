package models

import "time"

const (
	VisibilityPublic  = "public"
	VisibilityFriends = "friends"
	VisibilityPrivate = "private"
)

type SocialPost struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"index:idx_posts_user_created" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`

	Type string `gorm:"size:20;not null" json:"type"` // workout, achievement, milestone, status, media
	Text string `gorm:"size:1000" json:"text"`

	WorkoutID     *uint `json:"workout_id"`
	AchievementID *uint `json:"achievement_id"`

	MediaURL string `gorm:"size:255" json:"media_url"`

	Visibility string `gorm:"size:20;default:'public'" json:"visibility"`

	Likes    []PostLike    `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE;" json:"likes"`
	Comments []PostComment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE;" json:"comments"`

	Shares int `gorm:"default:0" json:"shares"`

	CreatedAt time.Time `gorm:"index:idx_posts_user_created" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PostLike struct {
	ID uint `gorm:"primaryKey" json:"id"`

	PostID uint `gorm:"uniqueIndex:idx_post_like" json:"post_id"`

	UserID uint `gorm:"uniqueIndex:idx_post_like" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`

	CreatedAt time.Time `json:"created_at"`
}

type PostComment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	PostID uint `gorm:"index" json:"post_id"`

	UserID uint `json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`

	Text string `gorm:"size:500;not null" json:"text"`

	CreatedAt time.Time `json:"created_at"`
}

// Follow is one directed edge, unique per ordered pair.
type Follow struct {
	ID uint `gorm:"primaryKey" json:"id"`

	FollowerID uint `gorm:"uniqueIndex:idx_follow_pair" json:"follower_id"`
	Follower   User `gorm:"foreignKey:FollowerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"follower"`

	FollowingID uint `gorm:"uniqueIndex:idx_follow_pair;index" json:"following_id"`
	Following   User `gorm:"foreignKey:FollowingID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"following"`

	CreatedAt time.Time `json:"created_at"`
}
