package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fitlifehq/gym-api/internal/handlers"
	"github.com/fitlifehq/gym-api/internal/models"
)

func newNotificationRouter(db *gorm.DB, user *models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handlers.NewNotificationHandler(db)
	api := r.Group("/api", authAs(user))
	api.GET("/notifications", h.List)
	api.PATCH("/notifications/read-all", h.MarkAllRead)
	api.PATCH("/notifications/:id/read", h.MarkRead)
	api.DELETE("/notifications/:id", h.Delete)
	return r
}

func seedNotification(t *testing.T, db *gorm.DB, userID uint, title string) *models.Notification {
	t.Helper()
	n := models.Notification{UserID: userID, Type: "announcement", Title: title, Message: "m"}
	require.NoError(t, db.Create(&n).Error)
	return &n
}

func TestListCountsUnread(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "ana")
	seedNotification(t, db, user.ID, "one")
	n2 := seedNotification(t, db, user.ID, "two")
	require.NoError(t, db.Model(n2).Update("read", true).Error)

	r := newNotificationRouter(db, user)
	w := doJSON(t, r, http.MethodGet, "/api/notifications", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"unread_count":1`)

	unreadOnly := doJSON(t, r, http.MethodGet, "/api/notifications?unread=true", "", nil)
	require.Equal(t, http.StatusOK, unreadOnly.Code)
	assert.Contains(t, unreadOnly.Body.String(), "one")
	assert.NotContains(t, unreadOnly.Body.String(), "two")
}

// Notifications are scoped per user: acting on someone else's answers 404.
func TestMarkReadScopedToOwner(t *testing.T) {
	db := setupTestDB(t)
	owner := seedUser(t, db, "owner")
	intruder := seedUser(t, db, "intruder")
	n := seedNotification(t, db, owner.ID, "private")

	intruderRouter := newNotificationRouter(db, intruder)
	denied := doJSON(t, intruderRouter, http.MethodPatch, "/api/notifications/1/read", "", nil)
	assert.Equal(t, http.StatusNotFound, denied.Code)

	ownerRouter := newNotificationRouter(db, owner)
	ok := doJSON(t, ownerRouter, http.MethodPatch, "/api/notifications/1/read", "", nil)
	assert.Equal(t, http.StatusOK, ok.Code)

	var fresh models.Notification
	require.NoError(t, db.First(&fresh, n.ID).Error)
	assert.True(t, fresh.Read)
}

func TestMarkAllReadAndDelete(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "ana")
	seedNotification(t, db, user.ID, "one")
	seedNotification(t, db, user.ID, "two")

	r := newNotificationRouter(db, user)
	require.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPatch, "/api/notifications/read-all", "", nil).Code)

	var unread int64
	db.Model(&models.Notification{}).Where("user_id = ? AND read = ?", user.ID, false).Count(&unread)
	assert.EqualValues(t, 0, unread)

	require.Equal(t, http.StatusOK, doJSON(t, r, http.MethodDelete, "/api/notifications/1", "", nil).Code)
	var total int64
	db.Model(&models.Notification{}).Where("user_id = ?", user.ID).Count(&total)
	assert.EqualValues(t, 1, total)

	missing := doJSON(t, r, http.MethodDelete, "/api/notifications/999", "", nil)
	assert.Equal(t, http.StatusNotFound, missing.Code)
}
