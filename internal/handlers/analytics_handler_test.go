package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fitlifehq/gym-api/internal/handlers"
	"github.com/fitlifehq/gym-api/internal/models"
	"github.com/fitlifehq/gym-api/internal/timezone"
)

func newAnalyticsRouter(db *gorm.DB, user *models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handlers.NewAnalyticsHandler(db, "UTC")
	api := r.Group("/api", authAs(user))
	api.GET("/analytics/progress", h.Progress)
	return r
}

func TestProgressCountsDailyVariety(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "tracker")

	today := timezone.DayStart(timezone.NowIn("UTC")).Add(10 * time.Hour)
	yesterday := today.AddDate(0, 0, -1)

	seedWorkout(t, db, user, "strength", today, 60, 400)
	seedWorkout(t, db, user, "cardio", today, 30, 200)
	seedWorkout(t, db, user, "cardio", today, 20, 150)
	seedWorkout(t, db, user, "flexibility", yesterday, 40, 100)

	r := newAnalyticsRouter(db, user)
	w := doJSON(t, r, http.MethodGet, "/api/analytics/progress?days=7", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			Days []struct {
				Date     string `json:"date"`
				Workouts int    `json:"workouts"`
				Variety  int    `json:"variety"`
			} `json:"days"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data.Days, 7)

	last := body.Data.Days[6]
	assert.Equal(t, 3, last.Workouts)
	assert.Equal(t, 2, last.Variety) // strength + cardio, duplicates collapse

	prev := body.Data.Days[5]
	assert.Equal(t, 1, prev.Workouts)
	assert.Equal(t, 1, prev.Variety)

	empty := body.Data.Days[0]
	assert.Equal(t, 0, empty.Workouts)
	assert.Equal(t, 0, empty.Variety)
}
