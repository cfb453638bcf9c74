package gamification

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fitlifehq/gym-api/internal/models"
	"github.com/fitlifehq/gym-api/internal/timezone"
)

// Points awarded for logging any workout.
const WorkoutLogPoints = 10

// Notifier decouples the service from the notification stack.
type Notifier interface {
	Notify(userID uint, typ, title, message string, data map[string]any)
}

type Service struct {
	db       *gorm.DB
	notifier Notifier
	tz       string
}

func NewService(db *gorm.DB, notifier Notifier, tz string) *Service {
	return &Service{db: db, notifier: notifier, tz: tz}
}

// UpdateWorkoutStats folds one new workout into the caller's all-time
// leaderboard entry: counters, streak, the fixed log bonus, then an
// achievement pass.
func (s *Service) UpdateWorkoutStats(ctx context.Context, userID uint, w *models.Workout) error {
	today := timezone.DayStart(timezone.NowIn(s.tz))

	var entry models.LeaderboardEntry
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND period = ?", userID, models.PeriodAllTime).
		First(&entry).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		entry = models.LeaderboardEntry{
			UserID:          userID,
			Period:          models.PeriodAllTime,
			TotalWorkouts:   1,
			TotalCalories:   w.TotalCalories,
			TotalDuration:   w.Duration,
			CurrentStreak:   1,
			LongestStreak:   1,
			LastWorkoutDate: &today,
		}
		if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		updates := map[string]any{
			"total_workouts":    gorm.Expr("total_workouts + 1"),
			"total_calories":    gorm.Expr("total_calories + ?", w.TotalCalories),
			"total_duration":    gorm.Expr("total_duration + ?", w.Duration),
			"last_workout_date": today,
		}

		if entry.LastWorkoutDate == nil {
			updates["current_streak"] = 1
			if entry.LongestStreak < 1 {
				updates["longest_streak"] = 1
			}
		} else {
			switch gap := timezone.DaysBetween(entry.LastWorkoutDate.In(timezone.Location(s.tz)), today); {
			case gap == 1:
				next := entry.CurrentStreak + 1
				updates["current_streak"] = next
				if next > entry.LongestStreak {
					updates["longest_streak"] = next
				}
			case gap > 1:
				updates["current_streak"] = 1
			}
			// same calendar day: streak unchanged
		}

		if err := s.db.WithContext(ctx).
			Model(&models.LeaderboardEntry{}).
			Where("id = ?", entry.ID).
			Updates(updates).Error; err != nil {
			return err
		}
	}

	if err := s.AwardPoints(ctx, userID, WorkoutLogPoints); err != nil {
		return err
	}

	_, err = s.CheckAchievements(ctx, userID)
	return err
}

// AwardPoints upserts the all-time entry, adds delta and recomputes the
// level as floor(totalPoints/100)+1.
func (s *Service) AwardPoints(ctx context.Context, userID uint, delta int) error {
	entry := models.LeaderboardEntry{
		UserID:      userID,
		Period:      models.PeriodAllTime,
		TotalPoints: delta,
		Level:       delta/100 + 1,
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "period"}},
		DoUpdates: clause.Assignments(map[string]any{
			"total_points": gorm.Expr("total_points + ?", delta),
		}),
	}).Create(&entry).Error
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).
		Model(&models.LeaderboardEntry{}).
		Where("user_id = ? AND period = ?", userID, models.PeriodAllTime).
		Update("level", gorm.Expr("total_points / 100 + 1")).Error
}

// CheckAchievements evaluates every active, still-locked achievement against
// the user's current aggregates and unlocks all newly qualifying ones in one
// pass. Each unlock is recorded at most once per (user, achievement).
func (s *Service) CheckAchievements(ctx context.Context, userID uint) ([]models.Achievement, error) {
	var achievements []models.Achievement
	if err := s.db.WithContext(ctx).
		Where("active = ?", true).
		Where("id NOT IN (?)", s.db.Model(&models.UserAchievement{}).
			Select("achievement_id").
			Where("user_id = ?", userID)).
		Find(&achievements).Error; err != nil {
		return nil, err
	}

	var unlocked []models.Achievement
	for _, a := range achievements {
		progress, err := s.criterionValue(ctx, userID, a.CriterionType)
		if err != nil {
			return unlocked, err
		}
		if progress < a.CriterionTarget {
			continue
		}

		record := models.UserAchievement{
			UserID:        userID,
			AchievementID: a.ID,
			Progress:      a.CriterionTarget,
		}
		res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&record)
		if res.Error != nil {
			return unlocked, res.Error
		}
		if res.RowsAffected == 0 {
			// concurrent unlock won the race
			continue
		}

		unlocked = append(unlocked, a)

		if s.notifier != nil {
			s.notifier.Notify(userID, "achievement",
				"Achievement Unlocked!",
				fmt.Sprintf("Congratulations! You've earned the %q badge!", a.Name),
				map[string]any{"achievement_id": a.ID, "points": a.Points})
		}

		if err := s.AwardPoints(ctx, userID, a.Points); err != nil {
			return unlocked, err
		}
	}

	return unlocked, nil
}

func (s *Service) criterionValue(ctx context.Context, userID uint, criterion string) (int, error) {
	db := s.db.WithContext(ctx)
	switch criterion {
	case models.CriterionWorkoutCount:
		var n int64
		err := db.Model(&models.Workout{}).Where("user_id = ?", userID).Count(&n).Error
		return int(n), err
	case models.CriterionCaloriesBurned:
		var total int64
		err := db.Model(&models.Workout{}).Where("user_id = ?", userID).
			Select("COALESCE(SUM(total_calories), 0)").Scan(&total).Error
		return int(total), err
	case models.CriterionClassAttendance:
		var n int64
		err := db.Model(&models.Booking{}).
			Where("member_id = ? AND status = ?", userID, "completed").Count(&n).Error
		return int(n), err
	case models.CriterionDuration:
		var total int64
		err := db.Model(&models.Workout{}).Where("user_id = ?", userID).
			Select("COALESCE(SUM(duration), 0)").Scan(&total).Error
		return int(total), err
	}
	return 0, nil
}

// RankedEntry is a leaderboard row annotated with its 1-based position.
type RankedEntry struct {
	models.LeaderboardEntry
	Rank int `json:"rank"`
}

// Leaderboard returns the top entries by points plus the caller's own entry
// with a count-based rank (strictly higher scores + 1; ties are not
// deduplicated).
func (s *Service) Leaderboard(ctx context.Context, period string, limit int, callerID uint) ([]RankedEntry, *RankedEntry, error) {
	var entries []models.LeaderboardEntry
	if err := s.db.WithContext(ctx).
		Preload("User").
		Where("period = ?", period).
		Order("total_points DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, nil, err
	}

	ranked := make([]RankedEntry, len(entries))
	for i, e := range entries {
		ranked[i] = RankedEntry{LeaderboardEntry: e, Rank: i + 1}
	}

	var own models.LeaderboardEntry
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ? AND period = ?", callerID, period).
		First(&own).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ranked, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	var higher int64
	if err := s.db.WithContext(ctx).
		Model(&models.LeaderboardEntry{}).
		Where("period = ? AND total_points > ?", period, own.TotalPoints).
		Count(&higher).Error; err != nil {
		return nil, nil, err
	}

	return ranked, &RankedEntry{LeaderboardEntry: own, Rank: int(higher) + 1}, nil
}
