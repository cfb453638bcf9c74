package challenge

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/fitlifehq/gym-api/internal/httperr"
	"github.com/fitlifehq/gym-api/internal/models"
)

type Notifier interface {
	Notify(userID uint, typ, title, message string, data map[string]any)
}

type PointAwarder interface {
	AwardPoints(ctx context.Context, userID uint, delta int) error
}

type Service struct {
	db       *gorm.DB
	notifier Notifier
	points   PointAwarder
}

func NewService(db *gorm.DB, notifier Notifier, points PointAwarder) *Service {
	return &Service{db: db, notifier: notifier, points: points}
}

// UpdateProgress sets one participant's progress, re-ranks every participant
// and handles the goal crossing. Repeated calls after the goal is met never
// re-award: the claim is a conditional flip of reward_claimed.
func (s *Service) UpdateProgress(ctx context.Context, challengeID, userID uint, progress int) error {
	var ch models.Challenge
	if err := s.db.WithContext(ctx).First(&ch, challengeID).Error; err != nil {
		return httperr.ErrBusiness("challenge_not_found")
	}

	res := s.db.WithContext(ctx).
		Model(&models.ChallengeParticipant{}).
		Where("challenge_id = ? AND user_id = ?", challengeID, userID).
		Update("progress", progress)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness("not_a_participant")
	}

	if err := s.rerank(ctx, challengeID); err != nil {
		return err
	}

	if progress >= ch.GoalTarget {
		claimed := s.db.WithContext(ctx).
			Model(&models.ChallengeParticipant{}).
			Where("challenge_id = ? AND user_id = ? AND reward_claimed = ?", challengeID, userID, false).
			Update("reward_claimed", true)
		if claimed.Error != nil {
			return claimed.Error
		}
		if claimed.RowsAffected == 1 {
			if s.notifier != nil {
				s.notifier.Notify(userID, "achievement",
					"Challenge Complete!",
					fmt.Sprintf("Congratulations! You've completed %q!", ch.Name),
					map[string]any{"challenge_id": ch.ID})
			}
			if ch.RewardPoints > 0 && s.points != nil {
				if err := s.points.AwardPoints(ctx, userID, ch.RewardPoints); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// rerank assigns 1-based ranks by descending progress. Ties are broken by
// join order so the result is deterministic.
func (s *Service) rerank(ctx context.Context, challengeID uint) error {
	var participants []models.ChallengeParticipant
	if err := s.db.WithContext(ctx).
		Where("challenge_id = ?", challengeID).
		Find(&participants).Error; err != nil {
		return err
	}

	sort.SliceStable(participants, func(i, j int) bool {
		if participants[i].Progress != participants[j].Progress {
			return participants[i].Progress > participants[j].Progress
		}
		return participants[i].ID < participants[j].ID
	})

	for i := range participants {
		rank := i + 1
		if participants[i].Rank == rank {
			continue
		}
		if err := s.db.WithContext(ctx).
			Model(&models.ChallengeParticipant{}).
			Where("id = ?", participants[i].ID).
			Update("rank", rank).Error; err != nil {
			return err
		}
	}
	return nil
}

// RecomputeForUser refreshes the caller's progress in every challenge whose
// active window covers now, using the category-specific aggregation over the
// challenge window.
func (s *Service) RecomputeForUser(ctx context.Context, userID uint, now time.Time) error {
	var challenges []models.Challenge
	if err := s.db.WithContext(ctx).
		Joins("JOIN challenge_participants cp ON cp.challenge_id = challenges.id AND cp.user_id = ?", userID).
		Where("challenges.active = ? AND challenges.start_date <= ? AND challenges.end_date >= ?", true, now, now).
		Find(&challenges).Error; err != nil {
		return err
	}

	for _, ch := range challenges {
		progress, err := s.aggregate(ctx, userID, ch.Category, ch.StartDate, now)
		if err != nil {
			return err
		}
		if err := s.UpdateProgress(ctx, ch.ID, userID, progress); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) aggregate(ctx context.Context, userID uint, category string, from, to time.Time) (int, error) {
	q := s.db.WithContext(ctx).
		Model(&models.Workout{}).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to)

	switch category {
	case models.ChallengeCategoryWorkouts:
		var n int64
		err := q.Count(&n).Error
		return int(n), err
	case models.ChallengeCategoryCalories:
		var total int64
		err := q.Select("COALESCE(SUM(total_calories), 0)").Scan(&total).Error
		return int(total), err
	case models.ChallengeCategoryDuration:
		var total int64
		err := q.Select("COALESCE(SUM(duration), 0)").Scan(&total).Error
		return int(total), err
	}
	return 0, nil
}

// Join appends a participant with zero progress, guarding the participant
// cap and double joins.
func (s *Service) Join(ctx context.Context, challengeID, userID uint) (*models.Challenge, error) {
	var ch models.Challenge
	if err := s.db.WithContext(ctx).First(&ch, challengeID).Error; err != nil {
		return nil, httperr.ErrBusiness("challenge_not_found")
	}

	var joined int64
	if err := s.db.WithContext(ctx).
		Model(&models.ChallengeParticipant{}).
		Where("challenge_id = ? AND user_id = ?", challengeID, userID).
		Count(&joined).Error; err != nil {
		return nil, err
	}
	if joined > 0 {
		return nil, httperr.ErrBusiness("already_joined")
	}

	if ch.MaxParticipants > 0 {
		var count int64
		if err := s.db.WithContext(ctx).
			Model(&models.ChallengeParticipant{}).
			Where("challenge_id = ?", challengeID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if int(count) >= ch.MaxParticipants {
			return nil, httperr.ErrBusiness("challenge_full")
		}
	}

	participant := models.ChallengeParticipant{
		ChallengeID: challengeID,
		UserID:      userID,
	}
	if err := s.db.WithContext(ctx).Create(&participant).Error; err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Notify(userID, "announcement",
			"Challenge Joined!",
			fmt.Sprintf("You've joined %q. Good luck!", ch.Name), nil)
	}

	if err := s.db.WithContext(ctx).Preload("Participants").First(&ch, challengeID).Error; err != nil {
		return nil, err
	}
	return &ch, nil
}
