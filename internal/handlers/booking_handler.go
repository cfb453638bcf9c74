package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fitlifehq/gym-api/internal/audit"
	domain "github.com/fitlifehq/gym-api/internal/domain/booking"
	"github.com/fitlifehq/gym-api/internal/httperr"
	"github.com/fitlifehq/gym-api/internal/httpresp"
	"github.com/fitlifehq/gym-api/internal/middleware"
	"github.com/fitlifehq/gym-api/internal/models"
	"github.com/fitlifehq/gym-api/internal/timezone"
	"github.com/fitlifehq/gym-api/internal/usecase/booking"
)

// achievementChecker re-evaluates unlock criteria after attendance changes.
type achievementChecker interface {
	CheckAchievements(ctx context.Context, userID uint) ([]models.Achievement, error)
}

type BookingHandler struct {
	db           *gorm.DB
	create       *booking.CreateBooking
	cancel       *booking.CancelBooking
	complete     *booking.CompleteBooking
	achievements achievementChecker
	audit        *audit.Dispatcher
	tz           string
}

func NewBookingHandler(db *gorm.DB, auditor *audit.Dispatcher, achievements achievementChecker, tz string) *BookingHandler {
	return &BookingHandler{
		db:           db,
		create:       booking.NewCreateBooking(db),
		cancel:       booking.NewCancelBooking(db),
		complete:     booking.NewCompleteBooking(db),
		achievements: achievements,
		audit:        auditor,
		tz:           tz,
	}
}

type CreateBookingRequest struct {
	ClassID     uint      `json:"class_id" binding:"required"`
	BookingDate time.Time `json:"booking_date" binding:"required"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	Notes       string    `json:"notes"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

type CompleteBookingRequest struct {
	NoShow bool `json:"no_show"`
}

func (h *BookingHandler) List(c *gin.Context) {
	page, limit := pageParams(c)
	user := middleware.CurrentUser(c)

	q := h.db.Model(&models.Booking{}).Where("member_id = ?", user.ID)
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if upcoming := c.Query("upcoming"); upcoming == "true" {
		q = q.Where("booking_date >= ? AND status = ?",
			timezone.DayStart(timezone.NowIn(h.tz)), string(domain.StatusConfirmed))
	}

	var total int64
	q.Count(&total)

	var bookings []models.Booking
	if err := q.Preload("Class").Preload("Class.Trainer").
		Order("booking_date DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&bookings).Error; err != nil {
		httperr.Internal(c, "internal_error", "Could not list bookings.")
		return
	}

	httpresp.OK(c, gin.H{
		"bookings":   bookings,
		"pagination": httpresp.Paginate(total, page, limit),
	})
}

func (h *BookingHandler) Get(c *gin.Context) {
	var b models.Booking
	if err := h.db.Preload("Class").Preload("Class.Trainer").
		First(&b, c.Param("id")).Error; err != nil {
		httperr.NotFound(c, "booking_not_found", "Booking not found.")
		return
	}

	user := middleware.CurrentUser(c)
	if b.MemberID != user.ID && user.Role == models.RoleMember {
		httperr.Forbidden(c, "not_owner", "This booking belongs to another member.")
		return
	}
	httpresp.OK(c, b)
}

// Stats summarizes the caller's booking history by status.
func (h *BookingHandler) Stats(c *gin.Context) {
	user := middleware.CurrentUser(c)

	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	if err := h.db.Model(&models.Booking{}).
		Select("status, COUNT(*) as count").
		Where("member_id = ?", user.ID).
		Group("status").
		Scan(&rows).Error; err != nil {
		httperr.Internal(c, "internal_error", "Could not compute booking stats.")
		return
	}

	stats := gin.H{
		"total":     int64(0),
		"confirmed": int64(0),
		"completed": int64(0),
		"cancelled": int64(0),
		"no_show":   int64(0),
	}
	var total int64
	for _, r := range rows {
		total += r.Count
		switch domain.Status(r.Status) {
		case domain.StatusConfirmed:
			stats["confirmed"] = r.Count
		case domain.StatusCompleted:
			stats["completed"] = r.Count
		case domain.StatusCancelled:
			stats["cancelled"] = r.Count
		case domain.StatusNoShow:
			stats["no_show"] = r.Count
		}
	}
	stats["total"] = total

	httpresp.OK(c, stats)
}

func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	user := middleware.CurrentUser(c)
	b, err := h.create.Execute(c.Request.Context(), booking.CreateBookingInput{
		MemberID:    user.ID,
		ClassID:     req.ClassID,
		BookingDate: timezone.DayStart(req.BookingDate.In(timezone.Location(h.tz))),
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Notes:       req.Notes,
	})
	if writeBusiness(c, err) {
		return
	}

	h.audit.Dispatch(audit.Event{UserID: &user.ID, Action: "booking.create", Entity: "booking", EntityID: &b.ID})

	httpresp.Created(c, "Class booked.", b)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid booking id.")
		return
	}

	var req CancelBookingRequest
	_ = c.ShouldBindJSON(&req)

	user := middleware.CurrentUser(c)
	b, err := h.cancel.Execute(c.Request.Context(), id, user.ID, req.Reason, timezone.NowIn(h.tz))
	if writeBusiness(c, err) {
		return
	}

	h.audit.Dispatch(audit.Event{UserID: &user.ID, Action: "booking.cancel", Entity: "booking", EntityID: &b.ID})

	httpresp.OKMessage(c, "Booking cancelled.", b)
}

// Complete records attendance after a class. Staff only; pass no_show when
// the member never turned up.
func (h *BookingHandler) Complete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid booking id.")
		return
	}

	var req CompleteBookingRequest
	_ = c.ShouldBindJSON(&req)

	b, err := h.complete.Execute(c.Request.Context(), id, req.NoShow, timezone.NowIn(h.tz))
	if writeBusiness(c, err) {
		return
	}

	user := middleware.CurrentUser(c)
	h.audit.Dispatch(audit.Event{UserID: &user.ID, Action: "booking.complete", Entity: "booking", EntityID: &b.ID})

	// attendance counts toward unlock criteria; best effort
	if !req.NoShow && h.achievements != nil {
		_, _ = h.achievements.CheckAchievements(c.Request.Context(), b.MemberID)
	}

	httpresp.OKMessage(c, "Attendance recorded.", b)
}
