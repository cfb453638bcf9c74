package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fitlifehq/gym-api/internal/audit"
	"github.com/fitlifehq/gym-api/internal/httperr"
	"github.com/fitlifehq/gym-api/internal/httpresp"
	"github.com/fitlifehq/gym-api/internal/middleware"
	"github.com/fitlifehq/gym-api/internal/models"
)

type MembershipHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewMembershipHandler(db *gorm.DB, auditor *audit.Dispatcher) *MembershipHandler {
	return &MembershipHandler{db: db, audit: auditor}
}

type MembershipPlanRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Type        string `json:"type" binding:"required"`

	DurationMonths int     `json:"duration_months" binding:"required,min=1"`
	Price          float64 `json:"price"`

	Features []string `json:"features"`

	ClassesPerWeek           int    `json:"classes_per_week"`
	PersonalTrainingSessions int    `json:"personal_training_sessions"`
	GuestPasses              int    `json:"guest_passes"`
	AccessHours              string `json:"access_hours"`

	Popular bool `json:"popular"`
}

func (h *MembershipHandler) ListPlans(c *gin.Context) {
	var plans []models.MembershipPlan
	if err := h.db.Where("active = ?", true).Order("price ASC").Find(&plans).Error; err != nil {
		httperr.Internal(c, "internal_error", "Could not list membership plans.")
		return
	}
	httpresp.OK(c, plans)
}

func (h *MembershipHandler) GetPlan(c *gin.Context) {
	var plan models.MembershipPlan
	if err := h.db.First(&plan, c.Param("id")).Error; err != nil {
		httperr.NotFound(c, "plan_not_found", "Membership plan not found.")
		return
	}
	httpresp.OK(c, plan)
}

func (h *MembershipHandler) CreatePlan(c *gin.Context) {
	var req MembershipPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	plan := models.MembershipPlan{
		Name:                     req.Name,
		Description:              req.Description,
		Type:                     req.Type,
		DurationMonths:           req.DurationMonths,
		Price:                    req.Price,
		Features:                 req.Features,
		ClassesPerWeek:           req.ClassesPerWeek,
		PersonalTrainingSessions: req.PersonalTrainingSessions,
		GuestPasses:              req.GuestPasses,
		AccessHours:              defaultString(req.AccessHours, "24/7"),
		Active:                   true,
		Popular:                  req.Popular,
	}
	if err := h.db.Create(&plan).Error; err != nil {
		httperr.Internal(c, "failed_to_create_plan", "Could not create the plan.")
		return
	}

	caller := middleware.CurrentUser(c)
	h.audit.Dispatch(audit.Event{UserID: &caller.ID, Action: "plan.create", Entity: "membership_plan", EntityID: &plan.ID})

	httpresp.Created(c, "Plan created.", plan)
}

func (h *MembershipHandler) UpdatePlan(c *gin.Context) {
	var plan models.MembershipPlan
	if err := h.db.First(&plan, c.Param("id")).Error; err != nil {
		httperr.NotFound(c, "plan_not_found", "Membership plan not found.")
		return
	}

	var req MembershipPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	plan.Name = req.Name
	plan.Description = req.Description
	plan.Type = req.Type
	plan.DurationMonths = req.DurationMonths
	plan.Price = req.Price
	plan.Features = req.Features
	plan.ClassesPerWeek = req.ClassesPerWeek
	plan.PersonalTrainingSessions = req.PersonalTrainingSessions
	plan.GuestPasses = req.GuestPasses
	plan.AccessHours = defaultString(req.AccessHours, plan.AccessHours)
	plan.Popular = req.Popular

	if err := h.db.Save(&plan).Error; err != nil {
		httperr.Internal(c, "failed_to_update_plan", "Could not update the plan.")
		return
	}

	caller := middleware.CurrentUser(c)
	h.audit.Dispatch(audit.Event{UserID: &caller.ID, Action: "plan.update", Entity: "membership_plan", EntityID: &plan.ID})

	httpresp.OKMessage(c, "Plan updated.", plan)
}

// DeletePlan deactivates the plan; payments keep their reference.
func (h *MembershipHandler) DeletePlan(c *gin.Context) {
	var plan models.MembershipPlan
	if err := h.db.First(&plan, c.Param("id")).Error; err != nil {
		httperr.NotFound(c, "plan_not_found", "Membership plan not found.")
		return
	}
	if err := h.db.Model(&plan).Update("active", false).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_plan", "Could not delete the plan.")
		return
	}

	caller := middleware.CurrentUser(c)
	h.audit.Dispatch(audit.Event{UserID: &caller.ID, Action: "plan.delete", Entity: "membership_plan", EntityID: &plan.ID})

	httpresp.OKMessage(c, "Plan deleted.", nil)
}

// MyMembership reports the caller's current membership window.
func (h *MembershipHandler) MyMembership(c *gin.Context) {
	user := middleware.CurrentUser(c)
	httpresp.OK(c, gin.H{
		"membership_type":       user.MembershipType,
		"membership_status":     user.MembershipStatus,
		"membership_start_date": user.MembershipStartDate,
		"membership_end_date":   user.MembershipEndDate,
	})
}
