package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fitlifehq/gym-api/internal/httperr"
	"github.com/fitlifehq/gym-api/internal/httpresp"
	"github.com/fitlifehq/gym-api/internal/middleware"
	"github.com/fitlifehq/gym-api/internal/models"
	"github.com/fitlifehq/gym-api/internal/recommend"
	"github.com/fitlifehq/gym-api/internal/timezone"
)

type ExerciseHandler struct {
	db        *gorm.DB
	recommend *recommend.Service
	tz        string
}

func NewExerciseHandler(db *gorm.DB, rec *recommend.Service, tz string) *ExerciseHandler {
	return &ExerciseHandler{db: db, recommend: rec, tz: tz}
}

type ExerciseRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`

	Category     string   `json:"category" binding:"required"`
	MuscleGroups []string `json:"muscle_groups"`
	Equipment    []string `json:"equipment"`
	Difficulty   string   `json:"difficulty" binding:"required"`

	Instructions []string `json:"instructions"`
	Tips         []string `json:"tips"`

	Calories int `json:"calories"`
}

func (h *ExerciseHandler) List(c *gin.Context) {
	page, limit := pageParams(c)

	q := h.db.Model(&models.Exercise{}).Where("approved = ?", true)
	if cat := c.Query("category"); cat != "" {
		q = q.Where("category = ?", cat)
	}
	if diff := c.Query("difficulty"); diff != "" {
		q = q.Where("difficulty = ?", diff)
	}
	if mg := c.Query("muscle_group"); mg != "" {
		q = q.Where("muscle_groups LIKE ?", "%"+mg+"%")
	}

	var total int64
	q.Count(&total)

	var exercises []models.Exercise
	if err := q.Order("name ASC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&exercises).Error; err != nil {
		httperr.Internal(c, "internal_error", "Could not list exercises.")
		return
	}

	httpresp.OK(c, gin.H{
		"exercises":  exercises,
		"pagination": httpresp.Paginate(total, page, limit),
	})
}

func (h *ExerciseHandler) Get(c *gin.Context) {
	var ex models.Exercise
	if err := h.db.First(&ex, c.Param("id")).Error; err != nil {
		httperr.NotFound(c, "exercise_not_found", "Exercise not found.")
		return
	}
	httpresp.OK(c, ex)
}

// Create adds a catalog entry. Member submissions wait for approval; trainer
// and admin entries are approved immediately.
func (h *ExerciseHandler) Create(c *gin.Context) {
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	user := middleware.CurrentUser(c)
	ex := models.Exercise{
		Name:         req.Name,
		Description:  req.Description,
		Category:     req.Category,
		MuscleGroups: req.MuscleGroups,
		Equipment:    req.Equipment,
		Difficulty:   req.Difficulty,
		Instructions: req.Instructions,
		Tips:         req.Tips,
		Calories:     req.Calories,
		Approved:     user.Role == models.RoleTrainer || user.Role == models.RoleAdmin,
	}
	if err := h.db.Create(&ex).Error; err != nil {
		httperr.Internal(c, "failed_to_create_exercise", "Could not create the exercise.")
		return
	}
	httpresp.Created(c, "Exercise created.", ex)
}

func (h *ExerciseHandler) Recommendations(c *gin.Context) {
	user := middleware.CurrentUser(c)
	recs, err := h.recommend.ForUser(c.Request.Context(), user, timezone.NowIn(h.tz))
	if err != nil {
		httperr.Internal(c, "internal_error", "Could not compute recommendations.")
		return
	}
	httpresp.OK(c, recs)
}

// Seed installs a small starter catalog; existing names are left untouched.
// Any member may seed an empty catalog, re-seeding is admin only.
func (h *ExerciseHandler) Seed(c *gin.Context) {
	var existing int64
	h.db.Model(&models.Exercise{}).Count(&existing)
	if existing > 0 && middleware.CurrentUser(c).Role != models.RoleAdmin {
		httperr.Forbidden(c, "forbidden", "The exercise catalog is already seeded.")
		return
	}

	catalog := []models.Exercise{
		{Name: "Push-up", Category: "strength", MuscleGroups: []string{"chest", "triceps", "core"}, Equipment: []string{"bodyweight"}, Difficulty: "beginner", Calories: 7, Approved: true},
		{Name: "Squat", Category: "strength", MuscleGroups: []string{"quads", "glutes"}, Equipment: []string{"bodyweight"}, Difficulty: "beginner", Calories: 8, Approved: true},
		{Name: "Deadlift", Category: "strength", MuscleGroups: []string{"back", "hamstrings", "glutes"}, Equipment: []string{"barbell"}, Difficulty: "intermediate", Calories: 10, Approved: true},
		{Name: "Running", Category: "cardio", MuscleGroups: []string{"legs"}, Equipment: []string{"none"}, Difficulty: "beginner", Calories: 12, Approved: true},
		{Name: "Rowing", Category: "cardio", MuscleGroups: []string{"back", "legs"}, Equipment: []string{"rowing machine"}, Difficulty: "intermediate", Calories: 11, Approved: true},
		{Name: "Sun Salutation", Category: "flexibility", MuscleGroups: []string{"full body"}, Equipment: []string{"mat"}, Difficulty: "beginner", Calories: 4, Approved: true},
	}

	if err := h.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&catalog).Error; err != nil {
		httperr.Internal(c, "failed_to_seed", "Could not seed exercises.")
		return
	}
	httpresp.OKMessage(c, "Exercise catalog seeded.", gin.H{"count": len(catalog)})
}
