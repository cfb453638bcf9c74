package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/fitlifehq/gym-api/internal/audit"
	"github.com/fitlifehq/gym-api/internal/httperr"
	"github.com/fitlifehq/gym-api/internal/httpresp"
	"github.com/fitlifehq/gym-api/internal/middleware"
	"github.com/fitlifehq/gym-api/internal/models"
	"github.com/fitlifehq/gym-api/internal/validators"
)

// UserHandler is the admin-facing user management surface.
type UserHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewUserHandler(db *gorm.DB, auditor *audit.Dispatcher) *UserHandler {
	return &UserHandler{db: db, audit: auditor}
}

type AdminCreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role"`
}

type AdminUpdateUserRequest struct {
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Role   *string `json:"role"`
	Active *bool   `json:"active"`
}

func (h *UserHandler) List(c *gin.Context) {
	page, limit := pageParams(c)

	q := h.db.Model(&models.User{})
	if role := c.Query("role"); role != "" {
		q = q.Where("role = ?", role)
	}
	if search := c.Query("search"); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	var total int64
	q.Count(&total)

	var users []models.User
	if err := q.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&users).Error; err != nil {
		httperr.Internal(c, "internal_error", "Could not list users.")
		return
	}

	httpresp.OK(c, gin.H{
		"users":      users,
		"pagination": httpresp.Paginate(total, page, limit),
	})
}

func (h *UserHandler) Get(c *gin.Context) {
	var user models.User
	if err := h.db.First(&user, c.Param("id")).Error; err != nil {
		httperr.NotFound(c, "user_not_found", "User not found.")
		return
	}
	httpresp.OK(c, user)
}

func (h *UserHandler) Create(c *gin.Context) {
	var req AdminCreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validators.IsEmailValid(email) {
		httperr.BadRequest(c, "invalid_email", "The email address does not look valid.")
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleMember
	}
	if role != models.RoleMember && role != models.RoleTrainer && role != models.RoleAdmin {
		httperr.BadRequest(c, "invalid_role", "Unknown role.")
		return
	}

	var count int64
	h.db.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		httperr.Conflict(c, "email_already_registered", "An account with this email already exists.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Could not process the password.")
		return
	}

	user := models.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         role,
	}
	if err := h.db.Create(&user).Error; err != nil {
		httperr.Internal(c, "failed_to_create_user", "Could not create the user.")
		return
	}

	caller := middleware.CurrentUser(c)
	h.audit.Dispatch(audit.Event{UserID: &caller.ID, Action: "admin.create_user", Entity: "user", EntityID: &user.ID})

	httpresp.Created(c, "User created.", user)
}

func (h *UserHandler) Update(c *gin.Context) {
	var user models.User
	if err := h.db.First(&user, c.Param("id")).Error; err != nil {
		httperr.NotFound(c, "user_not_found", "User not found.")
		return
	}

	var req AdminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if !validators.IsEmailValid(email) {
			httperr.BadRequest(c, "invalid_email", "The email address does not look valid.")
			return
		}
		var count int64
		h.db.Model(&models.User{}).Where("email = ? AND id <> ?", email, user.ID).Count(&count)
		if count > 0 {
			httperr.Conflict(c, "email_already_registered", "An account with this email already exists.")
			return
		}
		updates["email"] = email
	}
	if req.Role != nil {
		if *req.Role != models.RoleMember && *req.Role != models.RoleTrainer && *req.Role != models.RoleAdmin {
			httperr.BadRequest(c, "invalid_role", "Unknown role.")
			return
		}
		updates["role"] = *req.Role
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}

	if len(updates) > 0 {
		if err := h.db.Model(&user).Updates(updates).Error; err != nil {
			httperr.Internal(c, "failed_to_update_user", "Could not update the user.")
			return
		}
	}

	caller := middleware.CurrentUser(c)
	h.audit.Dispatch(audit.Event{UserID: &caller.ID, Action: "admin.update_user", Entity: "user", EntityID: &user.ID})

	h.db.First(&user, user.ID)
	httpresp.OKMessage(c, "User updated.", user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid user id.")
		return
	}

	caller := middleware.CurrentUser(c)
	if caller.ID == uint(id) {
		httperr.BadRequest(c, "cannot_delete_self", "You cannot delete your own account.")
		return
	}

	var user models.User
	if err := h.db.First(&user, uint(id)).Error; err != nil {
		httperr.NotFound(c, "user_not_found", "User not found.")
		return
	}

	if err := h.db.Delete(&user).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_user", "Could not delete the user.")
		return
	}

	h.audit.Dispatch(audit.Event{UserID: &caller.ID, Action: "admin.delete_user", Entity: "user", EntityID: &user.ID})

	httpresp.OKMessage(c, "User deleted.", nil)
}
