package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fitlifehq/gym-api/internal/httperr"
	"github.com/fitlifehq/gym-api/internal/httpresp"
	"github.com/fitlifehq/gym-api/internal/models"
)

type AuditLogsHandler struct {
	db *gorm.DB
}

func NewAuditLogsHandler(db *gorm.DB) *AuditLogsHandler {
	return &AuditLogsHandler{db: db}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	page, limit := pageParams(c)

	q := h.db.Model(&models.AuditLog{})
	if action := c.Query("action"); action != "" {
		q = q.Where("action = ?", action)
	}
	if entity := c.Query("entity"); entity != "" {
		q = q.Where("entity = ?", entity)
	}
	if userID := c.Query("user_id"); userID != "" {
		q = q.Where("user_id = ?", userID)
	}

	var total int64
	q.Count(&total)

	var logs []models.AuditLog
	if err := q.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&logs).Error; err != nil {
		httperr.Internal(c, "internal_error", "Could not list audit logs.")
		return
	}

	httpresp.OK(c, gin.H{
		"logs":       logs,
		"pagination": httpresp.Paginate(total, page, limit),
	})
}
