package handlers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fitlifehq/gym-api/internal/cache"
	"github.com/fitlifehq/gym-api/internal/gamification"
	"github.com/fitlifehq/gym-api/internal/httperr"
	"github.com/fitlifehq/gym-api/internal/httpresp"
	"github.com/fitlifehq/gym-api/internal/middleware"
	"github.com/fitlifehq/gym-api/internal/models"
)

const leaderboardCacheTTL = 30 * time.Second

type GamificationHandler struct {
	db      *gorm.DB
	service *gamification.Service
	cache   *cache.Cache
}

func NewGamificationHandler(db *gorm.DB, service *gamification.Service, c *cache.Cache) *GamificationHandler {
	return &GamificationHandler{db: db, service: service, cache: c}
}

func (h *GamificationHandler) ListAchievements(c *gin.Context) {
	var achievements []models.Achievement
	if err := h.db.Where("active = ?", true).Order("criterion_target ASC").
		Find(&achievements).Error; err != nil {
		httperr.Internal(c, "internal_error", "Could not list achievements.")
		return
	}
	httpresp.OK(c, achievements)
}

func (h *GamificationHandler) MyAchievements(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var unlocked []models.UserAchievement
	if err := h.db.Preload("Achievement").
		Where("user_id = ?", user.ID).
		Order("unlocked_at DESC").
		Find(&unlocked).Error; err != nil {
		httperr.Internal(c, "internal_error", "Could not list achievements.")
		return
	}

	totalPoints := 0
	for _, ua := range unlocked {
		totalPoints += ua.Achievement.Points
	}

	httpresp.OK(c, gin.H{
		"achievements": unlocked,
		"total_points": totalPoints,
	})
}

// MyStats returns the caller's all-time aggregate row.
func (h *GamificationHandler) MyStats(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var entry models.LeaderboardEntry
	err := h.db.Where("user_id = ? AND period = ?", user.ID, models.PeriodAllTime).
		First(&entry).Error
	if err == gorm.ErrRecordNotFound {
		httpresp.OK(c, models.LeaderboardEntry{UserID: user.ID, Period: models.PeriodAllTime, Level: 1})
		return
	}
	if err != nil {
		httperr.Internal(c, "internal_error", "Could not load stats.")
		return
	}
	httpresp.OK(c, entry)
}

func (h *GamificationHandler) Leaderboard(c *gin.Context) {
	period := c.DefaultQuery("period", models.PeriodAllTime)
	switch period {
	case models.PeriodAllTime, models.PeriodMonthly, models.PeriodWeekly:
	default:
		httperr.BadRequest(c, "invalid_period", "Unknown leaderboard period.")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 || limit > 100 {
		limit = 10
	}

	user := middleware.CurrentUser(c)
	ctx := c.Request.Context()

	// Top rows are shared by everyone; the caller's own rank is cheap and
	// stays fresh.
	type cached struct {
		Entries []gamification.RankedEntry `json:"entries"`
	}
	key := fmt.Sprintf("leaderboard:%s:%d", period, limit)

	var top cached
	if !h.cache.GetJSON(ctx, key, &top) {
		entries, _, err := h.service.Leaderboard(ctx, period, limit, 0)
		if err != nil {
			httperr.Internal(c, "internal_error", "Could not load the leaderboard.")
			return
		}
		top = cached{Entries: entries}
		h.cache.SetJSON(ctx, key, top, leaderboardCacheTTL)
	}

	_, me, err := h.service.Leaderboard(ctx, period, 0, user.ID)
	if err != nil {
		httperr.Internal(c, "internal_error", "Could not load the leaderboard.")
		return
	}

	httpresp.OK(c, gin.H{
		"period":  period,
		"entries": top.Entries,
		"me":      me,
	})
}

// SeedAchievements installs the default achievement catalog. Existing names
// are left untouched, so the endpoint is safe to call repeatedly.
func (h *GamificationHandler) SeedAchievements(c *gin.Context) {
	catalog := []models.Achievement{
		{Name: "First Steps", Description: "Log your first workout", Icon: "🏃", Category: "workout", Points: 10, Tier: "bronze", CriterionType: models.CriterionWorkoutCount, CriterionTarget: 1, Active: true},
		{Name: "Regular", Description: "Log 10 workouts", Icon: "💪", Category: "workout", Points: 25, Tier: "bronze", CriterionType: models.CriterionWorkoutCount, CriterionTarget: 10, Active: true},
		{Name: "Dedicated", Description: "Log 50 workouts", Icon: "🔥", Category: "workout", Points: 50, Tier: "silver", CriterionType: models.CriterionWorkoutCount, CriterionTarget: 50, Active: true},
		{Name: "Centurion", Description: "Log 100 workouts", Icon: "🏆", Category: "workout", Points: 100, Tier: "gold", CriterionType: models.CriterionWorkoutCount, CriterionTarget: 100, Active: true},
		{Name: "Calorie Crusher", Description: "Burn 10,000 total calories", Icon: "⚡", Category: "calories", Points: 50, Tier: "silver", CriterionType: models.CriterionCaloriesBurned, CriterionTarget: 10000, Active: true},
		{Name: "Class Act", Description: "Attend 20 classes", Icon: "🎯", Category: "attendance", Points: 50, Tier: "silver", CriterionType: models.CriterionClassAttendance, CriterionTarget: 20, Active: true},
	}

	if err := h.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&catalog).Error; err != nil {
		httperr.Internal(c, "failed_to_seed", "Could not seed achievements.")
		return
	}
	httpresp.OKMessage(c, "Achievement catalog seeded.", gin.H{"count": len(catalog)})
}
