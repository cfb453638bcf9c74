package recommend_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	dbpkg "github.com/fitlifehq/gym-api/internal/db"
	"github.com/fitlifehq/gym-api/internal/models"
	"github.com/fitlifehq/gym-api/internal/recommend"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := dbpkg.Migrate(database); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return database
}

func TestForUserPrefersGoalAndLevelMatches(t *testing.T) {
	db := setupTestDB(t)
	svc := recommend.NewService(db)

	user := models.User{
		Name: "ana", Email: "ana@test.local", PasswordHash: "x", Active: true,
		FitnessLevel: "beginner",
		FitnessGoals: []string{"build strength"},
	}
	require.NoError(t, db.Create(&user).Error)

	match := models.Exercise{Name: "Squat", Category: "strength", Difficulty: "beginner", Approved: true}
	mismatch := models.Exercise{Name: "Sprint", Category: "cardio", Difficulty: "advanced", Approved: true}
	unapproved := models.Exercise{Name: "Backflip", Category: "strength", Difficulty: "beginner", Approved: false}
	require.NoError(t, db.Create(&match).Error)
	require.NoError(t, db.Create(&mismatch).Error)
	require.NoError(t, db.Create(&unapproved).Error)

	recs, err := svc.ForUser(context.Background(), &user, time.Now())
	require.NoError(t, err)
	require.Len(t, recs, 2)

	// goal + level put the strength exercise ahead regardless of jitter
	assert.Equal(t, "Squat", recs[0].Exercise.Name)
	assert.NotEmpty(t, recs[0].Reasons)
	for _, r := range recs {
		assert.NotEqual(t, "Backflip", r.Exercise.Name)
	}
}

func TestForUserRewardsVariety(t *testing.T) {
	db := setupTestDB(t)
	svc := recommend.NewService(db)

	user := models.User{Name: "bia", Email: "bia@test.local", PasswordHash: "x", Active: true, FitnessLevel: "beginner"}
	require.NoError(t, db.Create(&user).Error)

	// the user trained nothing but strength recently
	w := models.Workout{UserID: user.ID, Title: "lift", Date: time.Now(), Type: "strength", Duration: 45}
	require.NoError(t, db.Create(&w).Error)

	stale := models.Exercise{Name: "Bench Press", Category: "strength", Difficulty: "intermediate", Approved: true}
	fresh := models.Exercise{Name: "Swim", Category: "cardio", Difficulty: "intermediate", Approved: true}
	require.NoError(t, db.Create(&stale).Error)
	require.NoError(t, db.Create(&fresh).Error)

	recs, err := svc.ForUser(context.Background(), &user, time.Now())
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "Swim", recs[0].Exercise.Name)
}

func TestForUserCapsAtFive(t *testing.T) {
	db := setupTestDB(t)
	svc := recommend.NewService(db)

	user := models.User{Name: "cai", Email: "cai@test.local", PasswordHash: "x", Active: true}
	require.NoError(t, db.Create(&user).Error)

	for i := 0; i < 8; i++ {
		ex := models.Exercise{Name: fmt.Sprintf("Exercise %d", i), Category: "strength", Difficulty: "beginner", Approved: true}
		require.NoError(t, db.Create(&ex).Error)
	}

	recs, err := svc.ForUser(context.Background(), &user, time.Now())
	require.NoError(t, err)
	assert.Len(t, recs, 5)
}
