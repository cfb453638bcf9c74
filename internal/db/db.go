package db

import (
	"log"
	"time"

	"github.com/fitlifehq/gym-api/internal/config"
	"github.com/fitlifehq/gym-api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	return db
}

// Migrate is separate from NewDB so tests can run it against sqlite.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Workout{},
		&models.Class{},
		&models.Booking{},
		&models.MembershipPlan{},
		&models.Payment{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.LeaderboardEntry{},
		&models.Challenge{},
		&models.ChallengeParticipant{},
		&models.Notification{},
		&models.SocialPost{},
		&models.PostLike{},
		&models.PostComment{},
		&models.Follow{},
		&models.Exercise{},
		&models.AuditLog{},
	)
}
