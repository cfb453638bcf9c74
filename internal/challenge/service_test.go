package challenge_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fitlifehq/gym-api/internal/challenge"
	dbpkg "github.com/fitlifehq/gym-api/internal/db"
	"github.com/fitlifehq/gym-api/internal/httperr"
	"github.com/fitlifehq/gym-api/internal/models"
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

type fakeNotifier struct {
	events []string
}

func (f *fakeNotifier) Notify(userID uint, typ, title, message string, data map[string]any) {
	f.events = append(f.events, typ+":"+title)
}

type fakeAwarder struct {
	awards map[uint]int
}

func (f *fakeAwarder) AwardPoints(ctx context.Context, userID uint, delta int) error {
	if f.awards == nil {
		f.awards = map[uint]int{}
	}
	f.awards[userID] += delta
	return nil
}

func seedUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	u := models.User{Name: name, Email: name + "@test.local", PasswordHash: "x", Role: models.RoleMember, Active: true}
	require.NoError(t, db.Create(&u).Error)
	return &u
}

func seedChallenge(t *testing.T, db *gorm.DB, category string, goal, reward, maxParticipants int) *models.Challenge {
	t.Helper()
	now := time.Now()
	ch := models.Challenge{
		Name:            "Test Challenge",
		Category:        category,
		GoalTarget:      goal,
		StartDate:       now.AddDate(0, 0, -7),
		EndDate:         now.AddDate(0, 0, 7),
		RewardPoints:    reward,
		MaxParticipants: maxParticipants,
		Active:          true,
	}
	require.NoError(t, db.Create(&ch).Error)
	return &ch
}

func TestJoinGuards(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := challenge.NewService(db, &fakeNotifier{}, &fakeAwarder{})

	first := seedUser(t, db, "ana")
	second := seedUser(t, db, "bia")
	ch := seedChallenge(t, db, models.ChallengeCategoryWorkouts, 10, 0, 1)

	joined, err := svc.Join(ctx, ch.ID, first.ID)
	require.NoError(t, err)
	assert.Len(t, joined.Participants, 1)

	_, err = svc.Join(ctx, ch.ID, first.ID)
	assert.True(t, httperr.IsBusiness(err, "already_joined"))

	_, err = svc.Join(ctx, ch.ID, second.ID)
	assert.True(t, httperr.IsBusiness(err, "challenge_full"))

	_, err = svc.Join(ctx, 9999, first.ID)
	assert.True(t, httperr.IsBusiness(err, "challenge_not_found"))
}

func TestUpdateProgressAwardsExactlyOnce(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	notifier := &fakeNotifier{}
	awarder := &fakeAwarder{}
	svc := challenge.NewService(db, notifier, awarder)

	user := seedUser(t, db, "caio")
	ch := seedChallenge(t, db, models.ChallengeCategoryCalories, 100, 50, 0)
	_, err := svc.Join(ctx, ch.ID, user.ID)
	require.NoError(t, err)

	joinEvents := len(notifier.events)

	require.NoError(t, svc.UpdateProgress(ctx, ch.ID, user.ID, 100))
	assert.Equal(t, 50, awarder.awards[user.ID])
	assert.Len(t, notifier.events, joinEvents+1)

	// progress past the goal must not re-award
	require.NoError(t, svc.UpdateProgress(ctx, ch.ID, user.ID, 140))
	assert.Equal(t, 50, awarder.awards[user.ID])
	assert.Len(t, notifier.events, joinEvents+1)

	var p models.ChallengeParticipant
	require.NoError(t, db.Where("challenge_id = ? AND user_id = ?", ch.ID, user.ID).First(&p).Error)
	assert.True(t, p.RewardClaimed)
	assert.Equal(t, 140, p.Progress)
	assert.Equal(t, 1, p.Rank)
}

func TestUpdateProgressRequiresParticipation(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := challenge.NewService(db, &fakeNotifier{}, &fakeAwarder{})

	user := seedUser(t, db, "duda")
	ch := seedChallenge(t, db, models.ChallengeCategoryWorkouts, 10, 0, 0)

	err := svc.UpdateProgress(ctx, ch.ID, user.ID, 5)
	assert.True(t, httperr.IsBusiness(err, "not_a_participant"))
}

func TestRerankOrdersByProgress(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := challenge.NewService(db, &fakeNotifier{}, &fakeAwarder{})

	slow := seedUser(t, db, "ed")
	fast := seedUser(t, db, "fe")
	ch := seedChallenge(t, db, models.ChallengeCategoryDuration, 1000, 0, 0)
	_, err := svc.Join(ctx, ch.ID, slow.ID)
	require.NoError(t, err)
	_, err = svc.Join(ctx, ch.ID, fast.ID)
	require.NoError(t, err)

	require.NoError(t, svc.UpdateProgress(ctx, ch.ID, slow.ID, 40))
	require.NoError(t, svc.UpdateProgress(ctx, ch.ID, fast.ID, 90))

	var participants []models.ChallengeParticipant
	require.NoError(t, db.Where("challenge_id = ?", ch.ID).Order("rank ASC").Find(&participants).Error)
	require.Len(t, participants, 2)
	assert.Equal(t, fast.ID, participants[0].UserID)
	assert.Equal(t, 1, participants[0].Rank)
	assert.Equal(t, slow.ID, participants[1].UserID)
	assert.Equal(t, 2, participants[1].Rank)
}

func TestRecomputeForUserAggregatesWindow(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := challenge.NewService(db, &fakeNotifier{}, &fakeAwarder{})

	user := seedUser(t, db, "gus")
	ch := seedChallenge(t, db, models.ChallengeCategoryCalories, 1000, 0, 0)
	_, err := svc.Join(ctx, ch.ID, user.ID)
	require.NoError(t, err)

	now := time.Now()
	inWindow := []models.Workout{
		{UserID: user.ID, Title: "a", Date: now.AddDate(0, 0, -2), Type: models.WorkoutTypeCardio, Duration: 30, TotalCalories: 300},
		{UserID: user.ID, Title: "b", Date: now.AddDate(0, 0, -1), Type: models.WorkoutTypeCardio, Duration: 30, TotalCalories: 250},
	}
	require.NoError(t, db.Create(&inWindow).Error)

	outOfWindow := models.Workout{UserID: user.ID, Title: "c", Date: now.AddDate(0, 0, -30), Type: models.WorkoutTypeCardio, Duration: 30, TotalCalories: 999}
	require.NoError(t, db.Create(&outOfWindow).Error)

	require.NoError(t, svc.RecomputeForUser(ctx, user.ID, now))

	var p models.ChallengeParticipant
	require.NoError(t, db.Where("challenge_id = ? AND user_id = ?", ch.ID, user.ID).First(&p).Error)
	assert.Equal(t, 550, p.Progress)
}
