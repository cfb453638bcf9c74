package handlers_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fitlifehq/gym-api/internal/audit"
	domain "github.com/fitlifehq/gym-api/internal/domain/booking"
	"github.com/fitlifehq/gym-api/internal/handlers"
	"github.com/fitlifehq/gym-api/internal/models"
)

type fakeAchievementChecker struct {
	calls []uint
}

func (f *fakeAchievementChecker) CheckAchievements(_ context.Context, userID uint) ([]models.Achievement, error) {
	f.calls = append(f.calls, userID)
	return nil, nil
}

func newBookingRouter(db *gorm.DB, user *models.User, checker *fakeAchievementChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handlers.NewBookingHandler(db, audit.NewDispatcher(audit.New(db)), checker, "UTC")
	api := r.Group("/api", authAs(user))
	api.GET("/bookings/stats", h.Stats)
	api.PATCH("/bookings/:id/complete", h.Complete)
	return r
}

func seedConfirmedBooking(t *testing.T, db *gorm.DB, member *models.User) *models.Booking {
	t.Helper()
	trainer := models.User{Name: "class-trainer", Email: "class-trainer@test.local", PasswordHash: "x", Role: models.RoleTrainer, Active: true}
	require.NoError(t, db.Where(models.User{Email: trainer.Email}).FirstOrCreate(&trainer).Error)
	class := models.Class{Name: "Spin", Category: "cardio", TrainerID: trainer.ID, Duration: 45, MaxCapacity: 10, Active: true}
	require.NoError(t, db.Create(&class).Error)
	b := models.Booking{
		MemberID:    member.ID,
		ClassID:     class.ID,
		BookingDate: time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		Status:      string(domain.StatusConfirmed),
	}
	require.NoError(t, db.Create(&b).Error)
	return &b
}

func TestCompleteBookingEndpoint(t *testing.T) {
	db := setupTestDB(t)
	member := seedUser(t, db, "attendee")
	staff := seedUser(t, db, "coach")
	staff.Role = models.RoleTrainer
	require.NoError(t, db.Save(staff).Error)

	b := seedConfirmedBooking(t, db, member)

	checker := &fakeAchievementChecker{}
	r := newBookingRouter(db, staff, checker)

	w := doJSON(t, r, http.MethodPatch, "/api/bookings/1/complete", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var saved models.Booking
	require.NoError(t, db.First(&saved, b.ID).Error)
	assert.Equal(t, string(domain.StatusCompleted), saved.Status)
	assert.NotNil(t, saved.AttendedAt)

	// the member's unlock criteria are re-evaluated
	require.Len(t, checker.calls, 1)
	assert.Equal(t, member.ID, checker.calls[0])

	// the stats bucket picks the completion up
	memberRouter := newBookingRouter(db, member, checker)
	stats := doJSON(t, memberRouter, http.MethodGet, "/api/bookings/stats", "", nil)
	require.Equal(t, http.StatusOK, stats.Code)
	assert.Contains(t, stats.Body.String(), `"completed":1`)

	// repeat completion is a conflict, not a second transition
	again := doJSON(t, r, http.MethodPatch, "/api/bookings/1/complete", "", nil)
	assert.Equal(t, http.StatusConflict, again.Code)
	assert.Contains(t, again.Body.String(), "invalid_state")
}

func TestCompleteBookingNoShowSkipsAchievements(t *testing.T) {
	db := setupTestDB(t)
	member := seedUser(t, db, "absent")
	staff := seedUser(t, db, "coach2")
	staff.Role = models.RoleTrainer
	require.NoError(t, db.Save(staff).Error)

	b := seedConfirmedBooking(t, db, member)

	checker := &fakeAchievementChecker{}
	r := newBookingRouter(db, staff, checker)

	w := doJSON(t, r, http.MethodPatch, "/api/bookings/1/complete", "", gin.H{"no_show": true})
	require.Equal(t, http.StatusOK, w.Code)

	var saved models.Booking
	require.NoError(t, db.First(&saved, b.ID).Error)
	assert.Equal(t, string(domain.StatusNoShow), saved.Status)
	assert.Nil(t, saved.AttendedAt)
	assert.Empty(t, checker.calls)
}
