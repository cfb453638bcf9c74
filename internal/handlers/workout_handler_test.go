package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fitlifehq/gym-api/internal/handlers"
	"github.com/fitlifehq/gym-api/internal/models"
)

func newWorkoutRouter(db *gorm.DB, user *models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handlers.NewWorkoutHandler(db, nil)
	api := r.Group("/api", authAs(user))
	api.GET("/workouts/stats", h.Stats)
	return r
}

func seedWorkout(t *testing.T, db *gorm.DB, user *models.User, typ string, date time.Time, duration, calories int) {
	t.Helper()
	w := models.Workout{UserID: user.ID, Title: typ + " session", Type: typ, Date: date, Duration: duration, TotalCalories: calories}
	require.NoError(t, db.Create(&w).Error)
}

func TestWorkoutStatsHonorsDateRange(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "lifter")

	seedWorkout(t, db, user, "strength", time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC), 60, 400)
	seedWorkout(t, db, user, "cardio", time.Date(2026, 8, 10, 10, 0, 0, 0, time.UTC), 30, 200)
	seedWorkout(t, db, user, "cardio", time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC), 90, 900)

	r := newWorkoutRouter(db, user)

	// unbounded: everything counts
	all := doJSON(t, r, http.MethodGet, "/api/workouts/stats", "", nil)
	require.Equal(t, http.StatusOK, all.Code)
	assert.Contains(t, all.Body.String(), `"total_workouts":3`)
	assert.Contains(t, all.Body.String(), `"total_duration":180`)
	assert.Contains(t, all.Body.String(), `"avg_duration":60`)
	assert.Contains(t, all.Body.String(), `"avg_calories":500`)

	// the July workout falls outside the range
	august := doJSON(t, r, http.MethodGet, "/api/workouts/stats?from=2026-08-01&to=2026-08-31", "", nil)
	require.Equal(t, http.StatusOK, august.Code)
	assert.Contains(t, august.Body.String(), `"total_workouts":2`)
	assert.Contains(t, august.Body.String(), `"total_duration":90`)
	assert.Contains(t, august.Body.String(), `"total_calories":600`)
	assert.Contains(t, august.Body.String(), `"avg_duration":45`)
	assert.Contains(t, august.Body.String(), `"avg_calories":300`)
}
