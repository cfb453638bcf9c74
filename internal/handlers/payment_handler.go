package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fitlifehq/gym-api/internal/audit"
	"github.com/fitlifehq/gym-api/internal/httperr"
	"github.com/fitlifehq/gym-api/internal/httpresp"
	"github.com/fitlifehq/gym-api/internal/middleware"
	"github.com/fitlifehq/gym-api/internal/models"
	"github.com/fitlifehq/gym-api/internal/payments"
)

type PaymentHandler struct {
	db      *gorm.DB
	service *payments.Service
	audit   *audit.Dispatcher
}

func NewPaymentHandler(db *gorm.DB, service *payments.Service, auditor *audit.Dispatcher) *PaymentHandler {
	return &PaymentHandler{db: db, service: service, audit: auditor}
}

type CreateIntentRequest struct {
	PlanID uint `json:"plan_id" binding:"required"`
}

type ConfirmPaymentRequest struct {
	IntentID      string `json:"intent_id" binding:"required"`
	TransactionID string `json:"transaction_id"`
	Signature     string `json:"signature"`
}

func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	var req CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	user := middleware.CurrentUser(c)
	intent, p, err := h.service.CreateIntent(c.Request.Context(), user, req.PlanID)
	if writeBusiness(c, err) {
		return
	}

	h.audit.Dispatch(audit.Event{UserID: &user.ID, Action: "payment.create_intent", Entity: "payment", EntityID: &p.ID})

	httpresp.Created(c, "Payment intent created.", gin.H{
		"intent":  intent,
		"payment": p,
	})
}

func (h *PaymentHandler) Confirm(c *gin.Context) {
	var req ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	user := middleware.CurrentUser(c)
	p, err := h.service.Confirm(c.Request.Context(), user.ID, payments.ConfirmInput{
		IntentID:      req.IntentID,
		TransactionID: req.TransactionID,
		Signature:     req.Signature,
	})
	if writeBusiness(c, err) {
		return
	}

	h.audit.Dispatch(audit.Event{UserID: &user.ID, Action: "payment.confirm", Entity: "payment", EntityID: &p.ID})

	httpresp.OKMessage(c, "Payment confirmed.", p)
}

func (h *PaymentHandler) History(c *gin.Context) {
	page, limit := pageParams(c)
	user := middleware.CurrentUser(c)

	q := h.db.Model(&models.Payment{}).Where("user_id = ?", user.ID)

	var total int64
	q.Count(&total)

	var history []models.Payment
	if err := q.Preload("Plan").Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&history).Error; err != nil {
		httperr.Internal(c, "internal_error", "Could not list payments.")
		return
	}

	httpresp.OK(c, gin.H{
		"payments":   history,
		"pagination": httpresp.Paginate(total, page, limit),
	})
}

// Webhook receives provider notifications. It is mounted outside the auth
// chain and reads the raw body because signature schemes cover the exact
// bytes on the wire.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "Could not read the request body.")
		return
	}

	if err := h.service.HandleWebhook(c.Request, body); writeBusiness(c, err) {
		return
	}
	httpresp.OK(c, gin.H{"received": true})
}

// CreateSubscription is reserved for recurring billing, which is not offered
// yet. Answering 501 keeps the route shape stable for clients.
func (h *PaymentHandler) CreateSubscription(c *gin.Context) {
	httperr.Write(c, http.StatusNotImplemented, "not_implemented", "Recurring subscriptions are not available yet.")
}
