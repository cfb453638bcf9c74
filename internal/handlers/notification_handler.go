package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fitlifehq/gym-api/internal/httperr"
	"github.com/fitlifehq/gym-api/internal/httpresp"
	"github.com/fitlifehq/gym-api/internal/middleware"
	"github.com/fitlifehq/gym-api/internal/models"
)

type NotificationHandler struct {
	db *gorm.DB
}

func NewNotificationHandler(db *gorm.DB) *NotificationHandler {
	return &NotificationHandler{db: db}
}

func (h *NotificationHandler) List(c *gin.Context) {
	page, limit := pageParams(c)
	user := middleware.CurrentUser(c)

	q := h.db.Model(&models.Notification{}).Where("user_id = ?", user.ID)
	if c.Query("unread") == "true" {
		q = q.Where("read = ?", false)
	}

	var total int64
	q.Count(&total)

	var unread int64
	h.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", user.ID, false).
		Count(&unread)

	var items []models.Notification
	if err := q.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&items).Error; err != nil {
		httperr.Internal(c, "internal_error", "Could not list notifications.")
		return
	}

	httpresp.OK(c, gin.H{
		"notifications": items,
		"unread_count":  unread,
		"pagination":    httpresp.Paginate(total, page, limit),
	})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	user := middleware.CurrentUser(c)

	res := h.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", c.Param("id"), user.ID).
		Update("read", true)
	if res.Error != nil {
		httperr.Internal(c, "internal_error", "Could not update the notification.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "notification_not_found", "Notification not found.")
		return
	}
	httpresp.OKMessage(c, "Notification marked as read.", nil)
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	user := middleware.CurrentUser(c)

	if err := h.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", user.ID, false).
		Update("read", true).Error; err != nil {
		httperr.Internal(c, "internal_error", "Could not update notifications.")
		return
	}
	httpresp.OKMessage(c, "All notifications marked as read.", nil)
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)

	res := h.db.Where("id = ? AND user_id = ?", c.Param("id"), user.ID).
		Delete(&models.Notification{})
	if res.Error != nil {
		httperr.Internal(c, "internal_error", "Could not delete the notification.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "notification_not_found", "Notification not found.")
		return
	}
	httpresp.OKMessage(c, "Notification deleted.", nil)
}
