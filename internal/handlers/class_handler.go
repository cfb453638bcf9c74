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

type ClassHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewClassHandler(db *gorm.DB, auditor *audit.Dispatcher) *ClassHandler {
	return &ClassHandler{db: db, audit: auditor}
}

type ClassRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`

	TrainerID uint `json:"trainer_id"`

	Category   string `json:"category" binding:"required"`
	Difficulty string `json:"difficulty"`
	Duration   int    `json:"duration" binding:"required,min=1"`

	MaxCapacity int                   `json:"max_capacity"`
	Schedule    []models.ScheduleSlot `json:"schedule"`

	Price float64 `json:"price"`
	Image string  `json:"image"`
}

func (h *ClassHandler) List(c *gin.Context) {
	page, limit := pageParams(c)

	q := h.db.Model(&models.Class{}).Where("active = ?", true)
	if cat := c.Query("category"); cat != "" {
		q = q.Where("category = ?", cat)
	}
	if diff := c.Query("difficulty"); diff != "" {
		q = q.Where("difficulty = ?", diff)
	}
	if trainer := c.Query("trainer_id"); trainer != "" {
		q = q.Where("trainer_id = ?", trainer)
	}

	var total int64
	q.Count(&total)

	var classes []models.Class
	if err := q.Preload("Trainer").Order("name ASC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&classes).Error; err != nil {
		httperr.Internal(c, "internal_error", "Could not list classes.")
		return
	}

	httpresp.OK(c, gin.H{
		"classes":    classes,
		"pagination": httpresp.Paginate(total, page, limit),
	})
}

func (h *ClassHandler) Get(c *gin.Context) {
	var class models.Class
	if err := h.db.Preload("Trainer").First(&class, c.Param("id")).Error; err != nil {
		httperr.NotFound(c, "class_not_found", "Class not found.")
		return
	}
	httpresp.OK(c, class)
}

func (h *ClassHandler) Create(c *gin.Context) {
	var req ClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	caller := middleware.CurrentUser(c)

	// Trainers may only create classes they teach themselves.
	trainerID := req.TrainerID
	if caller.Role == models.RoleTrainer {
		trainerID = caller.ID
	} else if trainerID == 0 {
		trainerID = caller.ID
	}

	class := models.Class{
		Name:        req.Name,
		Description: req.Description,
		TrainerID:   trainerID,
		Category:    req.Category,
		Difficulty:  defaultString(req.Difficulty, "beginner"),
		Duration:    req.Duration,
		MaxCapacity: req.MaxCapacity,
		Schedule:    req.Schedule,
		Price:       req.Price,
		Image:       req.Image,
		Active:      true,
	}
	if class.MaxCapacity <= 0 {
		class.MaxCapacity = 20
	}

	if err := h.db.Create(&class).Error; err != nil {
		httperr.Internal(c, "failed_to_create_class", "Could not create the class.")
		return
	}

	h.audit.Dispatch(audit.Event{UserID: &caller.ID, Action: "class.create", Entity: "class", EntityID: &class.ID})

	h.db.Preload("Trainer").First(&class, class.ID)
	httpresp.Created(c, "Class created.", class)
}

func (h *ClassHandler) Update(c *gin.Context) {
	var class models.Class
	if err := h.db.First(&class, c.Param("id")).Error; err != nil {
		httperr.NotFound(c, "class_not_found", "Class not found.")
		return
	}

	caller := middleware.CurrentUser(c)
	if caller.Role == models.RoleTrainer && class.TrainerID != caller.ID {
		httperr.Forbidden(c, "not_class_trainer", "You can only edit your own classes.")
		return
	}

	var req ClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	class.Name = req.Name
	class.Description = req.Description
	class.Category = req.Category
	class.Difficulty = defaultString(req.Difficulty, class.Difficulty)
	class.Duration = req.Duration
	if req.MaxCapacity > 0 {
		class.MaxCapacity = req.MaxCapacity
	}
	if req.Schedule != nil {
		class.Schedule = req.Schedule
	}
	class.Price = req.Price
	if req.Image != "" {
		class.Image = req.Image
	}
	if caller.Role == models.RoleAdmin && req.TrainerID != 0 {
		class.TrainerID = req.TrainerID
	}

	if err := h.db.Save(&class).Error; err != nil {
		httperr.Internal(c, "failed_to_update_class", "Could not update the class.")
		return
	}

	h.audit.Dispatch(audit.Event{UserID: &caller.ID, Action: "class.update", Entity: "class", EntityID: &class.ID})

	h.db.Preload("Trainer").First(&class, class.ID)
	httpresp.OKMessage(c, "Class updated.", class)
}

// Delete deactivates the class so historical bookings keep their reference.
func (h *ClassHandler) Delete(c *gin.Context) {
	var class models.Class
	if err := h.db.First(&class, c.Param("id")).Error; err != nil {
		httperr.NotFound(c, "class_not_found", "Class not found.")
		return
	}

	if err := h.db.Model(&class).Update("active", false).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_class", "Could not delete the class.")
		return
	}

	caller := middleware.CurrentUser(c)
	h.audit.Dispatch(audit.Event{UserID: &caller.ID, Action: "class.delete", Entity: "class", EntityID: &class.ID})

	httpresp.OKMessage(c, "Class deleted.", nil)
}
