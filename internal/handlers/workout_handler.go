package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fitlifehq/gym-api/internal/httperr"
	"github.com/fitlifehq/gym-api/internal/httpresp"
	"github.com/fitlifehq/gym-api/internal/middleware"
	"github.com/fitlifehq/gym-api/internal/models"
	"github.com/fitlifehq/gym-api/internal/usecase/workout"
)

type WorkoutHandler struct {
	db     *gorm.DB
	create *workout.CreateWorkout
}

func NewWorkoutHandler(db *gorm.DB, create *workout.CreateWorkout) *WorkoutHandler {
	return &WorkoutHandler{db: db, create: create}
}

type WorkoutRequest struct {
	Title    string    `json:"title" binding:"required"`
	Date     time.Time `json:"date"`
	Type     string    `json:"type" binding:"required"`
	Duration int       `json:"duration" binding:"required,min=1"`

	Exercises     []models.WorkoutExercise `json:"exercises"`
	TotalCalories int                      `json:"total_calories"`
	Feeling       string                   `json:"feeling"`
	Notes         string                   `json:"notes"`

	Share bool `json:"share"`
}

func (h *WorkoutHandler) List(c *gin.Context) {
	page, limit := pageParams(c)
	user := middleware.CurrentUser(c)

	q := h.db.Model(&models.Workout{}).Where("user_id = ?", user.ID)
	if typ := c.Query("type"); typ != "" {
		q = q.Where("type = ?", typ)
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			q = q.Where("date >= ?", t)
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			q = q.Where("date < ?", t.AddDate(0, 0, 1))
		}
	}

	var total int64
	q.Count(&total)

	var workouts []models.Workout
	if err := q.Order("date DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&workouts).Error; err != nil {
		httperr.Internal(c, "internal_error", "Could not list workouts.")
		return
	}

	httpresp.OK(c, gin.H{
		"workouts":   workouts,
		"pagination": httpresp.Paginate(total, page, limit),
	})
}

// Get answers 404 before 403 so other members' workout ids are not probeable.
func (h *WorkoutHandler) Get(c *gin.Context) {
	w, ok := h.ownWorkout(c)
	if !ok {
		return
	}
	httpresp.OK(c, w)
}

func (h *WorkoutHandler) Create(c *gin.Context) {
	var req WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	user := middleware.CurrentUser(c)
	w, err := h.create.Execute(c.Request.Context(), workout.CreateWorkoutInput{
		UserID:        user.ID,
		Title:         req.Title,
		Date:          req.Date,
		Type:          req.Type,
		Duration:      req.Duration,
		Exercises:     req.Exercises,
		TotalCalories: req.TotalCalories,
		Feeling:       req.Feeling,
		Notes:         req.Notes,
		Share:         req.Share,
	})
	if writeBusiness(c, err) {
		return
	}

	httpresp.Created(c, "Workout logged.", w)
}

func (h *WorkoutHandler) Update(c *gin.Context) {
	w, ok := h.ownWorkout(c)
	if !ok {
		return
	}

	var req WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}
	if !models.IsValidWorkoutType(req.Type) {
		httperr.BadRequest(c, "invalid_workout_type", "Unknown workout type.")
		return
	}

	w.Title = req.Title
	if !req.Date.IsZero() {
		w.Date = req.Date
	}
	w.Type = req.Type
	w.Duration = req.Duration
	w.Exercises = req.Exercises
	w.TotalCalories = req.TotalCalories
	w.Feeling = req.Feeling
	w.Notes = req.Notes

	if err := h.db.Save(w).Error; err != nil {
		httperr.Internal(c, "failed_to_update_workout", "Could not update the workout.")
		return
	}
	httpresp.OKMessage(c, "Workout updated.", w)
}

func (h *WorkoutHandler) Delete(c *gin.Context) {
	w, ok := h.ownWorkout(c)
	if !ok {
		return
	}
	if err := h.db.Delete(w).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_workout", "Could not delete the workout.")
		return
	}
	httpresp.OKMessage(c, "Workout deleted.", nil)
}

// Stats aggregates the caller's workouts per type plus overall totals and
// averages, optionally limited to a date range.
func (h *WorkoutHandler) Stats(c *gin.Context) {
	user := middleware.CurrentUser(c)

	scoped := func() *gorm.DB {
		q := h.db.Model(&models.Workout{}).Where("user_id = ?", user.ID)
		if from := c.Query("from"); from != "" {
			if t, err := time.Parse("2006-01-02", from); err == nil {
				q = q.Where("date >= ?", t)
			}
		}
		if to := c.Query("to"); to != "" {
			if t, err := time.Parse("2006-01-02", to); err == nil {
				q = q.Where("date < ?", t.AddDate(0, 0, 1))
			}
		}
		return q
	}

	type typeRow struct {
		Type          string `json:"type"`
		Count         int64  `json:"count"`
		TotalDuration int64  `json:"total_duration"`
		TotalCalories int64  `json:"total_calories"`
	}
	var byType []typeRow
	if err := scoped().
		Select("type, COUNT(*) as count, COALESCE(SUM(duration),0) as total_duration, COALESCE(SUM(total_calories),0) as total_calories").
		Group("type").
		Scan(&byType).Error; err != nil {
		httperr.Internal(c, "internal_error", "Could not compute workout stats.")
		return
	}

	var totals typeRow
	if err := scoped().
		Select("COUNT(*) as count, COALESCE(SUM(duration),0) as total_duration, COALESCE(SUM(total_calories),0) as total_calories").
		Scan(&totals).Error; err != nil {
		httperr.Internal(c, "internal_error", "Could not compute workout stats.")
		return
	}

	var avgDuration, avgCalories float64
	if totals.Count > 0 {
		avgDuration = float64(totals.TotalDuration) / float64(totals.Count)
		avgCalories = float64(totals.TotalCalories) / float64(totals.Count)
	}

	httpresp.OK(c, gin.H{
		"total_workouts": totals.Count,
		"total_duration": totals.TotalDuration,
		"total_calories": totals.TotalCalories,
		"avg_duration":   avgDuration,
		"avg_calories":   avgCalories,
		"by_type":        byType,
	})
}

func (h *WorkoutHandler) ownWorkout(c *gin.Context) (*models.Workout, bool) {
	var w models.Workout
	if err := h.db.First(&w, c.Param("id")).Error; err != nil {
		httperr.NotFound(c, "workout_not_found", "Workout not found.")
		return nil, false
	}
	user := middleware.CurrentUser(c)
	if w.UserID != user.ID {
		httperr.Forbidden(c, "not_owner", "This workout belongs to another member.")
		return nil, false
	}
	return &w, true
}
