package workout

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/fitlifehq/gym-api/internal/httperr"
	"github.com/fitlifehq/gym-api/internal/models"
	"github.com/fitlifehq/gym-api/internal/timezone"
)

// A workout is worth auto-sharing when it crosses either threshold.
const (
	significantDuration = 60
	significantCalories = 500
)

type CreateWorkoutInput struct {
	UserID uint

	Title    string
	Date     time.Time
	Type     string
	Duration int

	Exercises     []models.WorkoutExercise
	TotalCalories int
	Feeling       string
	Notes         string

	// Share opts the caller in to an automatic social post for significant
	// workouts.
	Share bool
}

type StatsUpdater interface {
	UpdateWorkoutStats(ctx context.Context, userID uint, w *models.Workout) error
}

type ProgressRecomputer interface {
	RecomputeForUser(ctx context.Context, userID uint, now time.Time) error
}

type Notifier interface {
	Notify(userID uint, typ, title, message string, data map[string]any)
}

type CreateWorkout struct {
	db         *gorm.DB
	stats      StatsUpdater
	challenges ProgressRecomputer
	notifier   Notifier
	tz         string
}

func NewCreateWorkout(
	db *gorm.DB,
	stats StatsUpdater,
	challenges ProgressRecomputer,
	notifier Notifier,
	tz string,
) *CreateWorkout {
	return &CreateWorkout{
		db:         db,
		stats:      stats,
		challenges: challenges,
		notifier:   notifier,
		tz:         tz,
	}
}

func (uc *CreateWorkout) Execute(ctx context.Context, in CreateWorkoutInput) (*models.Workout, error) {
	if in.Title == "" || in.Duration <= 0 {
		return nil, httperr.ErrBusiness("invalid_workout")
	}
	if !models.IsValidWorkoutType(in.Type) {
		return nil, httperr.ErrBusiness("invalid_workout_type")
	}

	date := in.Date
	if date.IsZero() {
		date = timezone.NowIn(uc.tz)
	}

	w := &models.Workout{
		UserID:        in.UserID,
		Title:         in.Title,
		Date:          date,
		Type:          in.Type,
		Duration:      in.Duration,
		Exercises:     in.Exercises,
		TotalCalories: in.TotalCalories,
		Feeling:       in.Feeling,
		Notes:         in.Notes,
	}

	if err := uc.db.WithContext(ctx).Create(w).Error; err != nil {
		return nil, err
	}

	// Post-commit side effects. Each runs in its own failure boundary: a
	// panic or error in one is logged and never rolls back the workout or
	// stops the others.
	uc.runEffects(ctx, []effect{
		{"gamification", func() error {
			return uc.stats.UpdateWorkoutStats(ctx, in.UserID, w)
		}},
		{"challenge_progress", func() error {
			return uc.challenges.RecomputeForUser(ctx, in.UserID, timezone.NowIn(uc.tz))
		}},
		{"social_post", func() error {
			return uc.maybeSharePost(ctx, in, w)
		}},
		{"completion_notification", func() error {
			uc.notifier.Notify(in.UserID, "workout_milestone",
				"Workout Completed!",
				fmt.Sprintf("Great job! You completed %q and burned %d calories.", w.Title, w.TotalCalories),
				map[string]any{"workout_id": w.ID})
			return nil
		}},
	})

	return w, nil
}

type effect struct {
	name string
	run  func() error
}

func (uc *CreateWorkout) runEffects(ctx context.Context, effects []effect) {
	for _, e := range effects {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("workout side effect %s panicked: %v", e.name, r)
				}
			}()
			if err := e.run(); err != nil {
				log.Printf("workout side effect %s failed: %v", e.name, err)
			}
		}()
	}
}

func (uc *CreateWorkout) maybeSharePost(ctx context.Context, in CreateWorkoutInput, w *models.Workout) error {
	if !in.Share {
		return nil
	}
	significant := w.Duration >= significantDuration || w.TotalCalories >= significantCalories
	if !significant {
		return nil
	}

	post := models.SocialPost{
		UserID:     in.UserID,
		Type:       "workout",
		Text:       "Just completed an amazing workout!",
		WorkoutID:  &w.ID,
		Visibility: models.VisibilityPublic,
	}
	return uc.db.WithContext(ctx).Create(&post).Error
}
