package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fitlifehq/gym-api/internal/challenge"
	"github.com/fitlifehq/gym-api/internal/httperr"
	"github.com/fitlifehq/gym-api/internal/httpresp"
	"github.com/fitlifehq/gym-api/internal/middleware"
	"github.com/fitlifehq/gym-api/internal/models"
	"github.com/fitlifehq/gym-api/internal/timezone"
)

type ChallengeHandler struct {
	db      *gorm.DB
	service *challenge.Service
	tz      string
}

func NewChallengeHandler(db *gorm.DB, service *challenge.Service, tz string) *ChallengeHandler {
	return &ChallengeHandler{db: db, service: service, tz: tz}
}

type ChallengeRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Category    string `json:"category" binding:"required"`

	GoalTarget int    `json:"goal_target" binding:"required,min=1"`
	GoalUnit   string `json:"goal_unit"`

	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`

	RewardPoints    int `json:"reward_points"`
	MaxParticipants int `json:"max_participants"`
}

// List filters by lifecycle status relative to now: active, upcoming or
// completed.
func (h *ChallengeHandler) List(c *gin.Context) {
	page, limit := pageParams(c)
	now := timezone.NowIn(h.tz)

	q := h.db.Model(&models.Challenge{}).Where("active = ?", true)
	switch c.DefaultQuery("status", "active") {
	case "active":
		q = q.Where("start_date <= ? AND end_date >= ?", now, now)
	case "upcoming":
		q = q.Where("start_date > ?", now)
	case "completed":
		q = q.Where("end_date < ?", now)
	case "all":
	default:
		httperr.BadRequest(c, "invalid_status", "Unknown challenge status.")
		return
	}

	var total int64
	q.Count(&total)

	var challenges []models.Challenge
	if err := q.Preload("CreatedBy").
		Order("start_date ASC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&challenges).Error; err != nil {
		httperr.Internal(c, "internal_error", "Could not list challenges.")
		return
	}

	httpresp.OK(c, gin.H{
		"challenges": challenges,
		"pagination": httpresp.Paginate(total, page, limit),
	})
}

func (h *ChallengeHandler) Get(c *gin.Context) {
	var ch models.Challenge
	if err := h.db.Preload("CreatedBy").
		Preload("Participants", func(db *gorm.DB) *gorm.DB {
			return db.Order("rank ASC").Preload("User")
		}).
		First(&ch, c.Param("id")).Error; err != nil {
		httperr.NotFound(c, "challenge_not_found", "Challenge not found.")
		return
	}
	httpresp.OK(c, ch)
}

func (h *ChallengeHandler) Create(c *gin.Context) {
	var req ChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	switch req.Category {
	case models.ChallengeCategoryCalories, models.ChallengeCategoryWorkouts, models.ChallengeCategoryDuration:
	default:
		httperr.BadRequest(c, "invalid_category", "Unknown challenge category.")
		return
	}
	if !req.EndDate.After(req.StartDate) {
		httperr.BadRequest(c, "invalid_window", "End date must be after the start date.")
		return
	}

	user := middleware.CurrentUser(c)
	ch := models.Challenge{
		Name:            req.Name,
		Description:     req.Description,
		Type:            defaultString(req.Type, "individual"),
		Category:        req.Category,
		GoalTarget:      req.GoalTarget,
		GoalUnit:        req.GoalUnit,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		RewardPoints:    req.RewardPoints,
		MaxParticipants: req.MaxParticipants,
		Active:          true,
		CreatedByID:     user.ID,
	}
	if err := h.db.Create(&ch).Error; err != nil {
		httperr.Internal(c, "failed_to_create_challenge", "Could not create the challenge.")
		return
	}
	httpresp.Created(c, "Challenge created.", ch)
}

func (h *ChallengeHandler) Join(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid challenge id.")
		return
	}

	user := middleware.CurrentUser(c)
	ch, err := h.service.Join(c.Request.Context(), id, user.ID)
	if writeBusiness(c, err) {
		return
	}
	httpresp.OKMessage(c, "Challenge joined.", ch)
}

func (h *ChallengeHandler) MyChallenges(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var participations []models.ChallengeParticipant
	if err := h.db.Where("user_id = ?", user.ID).
		Order("joined_at DESC").
		Find(&participations).Error; err != nil {
		httperr.Internal(c, "internal_error", "Could not list your challenges.")
		return
	}

	ids := make([]uint, 0, len(participations))
	byChallenge := make(map[uint]models.ChallengeParticipant, len(participations))
	for _, p := range participations {
		ids = append(ids, p.ChallengeID)
		byChallenge[p.ChallengeID] = p
	}

	var challenges []models.Challenge
	if len(ids) > 0 {
		if err := h.db.Where("id IN ?", ids).Find(&challenges).Error; err != nil {
			httperr.Internal(c, "internal_error", "Could not list your challenges.")
			return
		}
	}

	type entry struct {
		Challenge     models.Challenge            `json:"challenge"`
		Participation models.ChallengeParticipant `json:"participation"`
	}
	out := make([]entry, 0, len(challenges))
	for _, ch := range challenges {
		out = append(out, entry{Challenge: ch, Participation: byChallenge[ch.ID]})
	}

	httpresp.OK(c, out)
}

// Leaderboard lists a challenge's participants in rank order.
func (h *ChallengeHandler) Leaderboard(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid challenge id.")
		return
	}

	var ch models.Challenge
	if err := h.db.First(&ch, id).Error; err != nil {
		httperr.NotFound(c, "challenge_not_found", "Challenge not found.")
		return
	}

	var participants []models.ChallengeParticipant
	if err := h.db.Preload("User").
		Where("challenge_id = ?", id).
		Order("rank ASC").
		Find(&participants).Error; err != nil {
		httperr.Internal(c, "internal_error", "Could not load the leaderboard.")
		return
	}

	httpresp.OK(c, gin.H{
		"challenge":    ch,
		"participants": participants,
	})
}
