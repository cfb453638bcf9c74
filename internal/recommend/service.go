package recommend

import (
	"context"
	"math/rand"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/fitlifehq/gym-api/internal/models"
)

// Scoring weights. The jitter keeps repeat calls from returning the exact
// same list when many exercises tie.
const (
	goalWeight       = 30
	difficultyWeight = 20
	varietyWeight    = 20
	jitterMax        = 10
	topN             = 5
	recentWindowDays = 30
)

type Recommendation struct {
	Exercise models.Exercise `json:"exercise"`
	Score    int             `json:"score"`
	Reasons  []string        `json:"reasons"`
}

type Service struct {
	db   *gorm.DB
	rand *rand.Rand
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, rand: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// ForUser scores the approved exercise catalog against the member's goals,
// fitness level and recent workout history, and returns the top picks.
func (s *Service) ForUser(ctx context.Context, user *models.User, now time.Time) ([]Recommendation, error) {
	var exercises []models.Exercise
	if err := s.db.WithContext(ctx).
		Where("approved = ?", true).
		Find(&exercises).Error; err != nil {
		return nil, err
	}

	var recentTypes []string
	if err := s.db.WithContext(ctx).
		Model(&models.Workout{}).
		Distinct("type").
		Where("user_id = ? AND date >= ?", user.ID, now.AddDate(0, 0, -recentWindowDays)).
		Pluck("type", &recentTypes).Error; err != nil {
		return nil, err
	}
	recent := make(map[string]bool, len(recentTypes))
	for _, t := range recentTypes {
		recent[t] = true
	}

	recs := make([]Recommendation, 0, len(exercises))
	for _, ex := range exercises {
		rec := Recommendation{Exercise: ex}

		if matchesGoals(ex, user.FitnessGoals) {
			rec.Score += goalWeight
			rec.Reasons = append(rec.Reasons, "matches your fitness goals")
		}
		if strings.EqualFold(ex.Difficulty, user.FitnessLevel) {
			rec.Score += difficultyWeight
			rec.Reasons = append(rec.Reasons, "fits your fitness level")
		}
		if !recent[ex.Category] {
			rec.Score += varietyWeight
			rec.Reasons = append(rec.Reasons, "adds variety to your recent training")
		}
		rec.Score += s.rand.Intn(jitterMax)

		recs = append(recs, rec)
	}

	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Score > recs[j].Score })
	if len(recs) > topN {
		recs = recs[:topN]
	}
	return recs, nil
}

// matchesGoals checks whether the exercise speaks to any stated goal, by
// category or muscle group.
func matchesGoals(ex models.Exercise, goals []string) bool {
	for _, goal := range goals {
		g := strings.ToLower(goal)
		if strings.Contains(g, strings.ToLower(ex.Category)) {
			return true
		}
		for _, mg := range ex.MuscleGroups {
			if strings.Contains(g, strings.ToLower(mg)) {
				return true
			}
		}
	}
	return false
}
