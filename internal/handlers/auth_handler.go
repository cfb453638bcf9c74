package handlers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/fitlifehq/gym-api/internal/audit"
	"github.com/fitlifehq/gym-api/internal/config"
	"github.com/fitlifehq/gym-api/internal/httperr"
	"github.com/fitlifehq/gym-api/internal/httpresp"
	"github.com/fitlifehq/gym-api/internal/middleware"
	"github.com/fitlifehq/gym-api/internal/models"
	"github.com/fitlifehq/gym-api/internal/validators"
)

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config
	audit  *audit.Dispatcher
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config, auditor *audit.Dispatcher) *AuthHandler {
	return &AuthHandler{db: db, config: cfg, audit: auditor}
}

// --------- Requests ---------

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`

	FitnessLevel string   `json:"fitness_level"`
	FitnessGoals []string `json:"fitness_goals"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Name         *string    `json:"name"`
	Avatar       *string    `json:"avatar"`
	DateOfBirth  *time.Time `json:"date_of_birth"`
	Gender       *string    `json:"gender"`
	HeightCm     *float64   `json:"height_cm"`
	WeightKg     *float64   `json:"weight_kg"`
	FitnessLevel *string    `json:"fitness_level"`
	FitnessGoals []string   `json:"fitness_goals"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validators.IsEmailValid(email) {
		httperr.BadRequest(c, "invalid_email", "The email address does not look valid.")
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
		Role:         models.RoleMember,
		FitnessLevel: defaultString(req.FitnessLevel, "beginner"),
		FitnessGoals: req.FitnessGoals,
	}
	if err := h.db.Create(&user).Error; err != nil {
		httperr.Internal(c, "failed_to_create_user", "Could not create the account.")
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Could not issue a session token.")
		return
	}

	h.audit.Dispatch(audit.Event{UserID: &user.ID, Action: "user.register", Entity: "user", EntityID: &user.ID})

	httpresp.Created(c, "Account created.", gin.H{
		"user":  user,
		"token": token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	// Unknown email and wrong password answer identically.
	var user models.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.Unauthorized(c, "invalid_credentials", "Invalid email or password.")
			return
		}
		httperr.Internal(c, "internal_error", "Could not sign in.")
		return
	}
	if !user.Active {
		httperr.Unauthorized(c, "account_disabled", "This account has been deactivated.")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Invalid email or password.")
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Could not issue a session token.")
		return
	}

	h.audit.Dispatch(audit.Event{UserID: &user.ID, Action: "user.login", Entity: "user", EntityID: &user.ID})

	httpresp.OK(c, gin.H{
		"user":  user,
		"token": token,
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	httpresp.OK(c, middleware.CurrentUser(c))
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	user := middleware.CurrentUser(c)

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Avatar != nil {
		updates["avatar"] = *req.Avatar
	}
	if req.DateOfBirth != nil {
		updates["date_of_birth"] = *req.DateOfBirth
	}
	if req.Gender != nil {
		updates["gender"] = *req.Gender
	}
	if req.HeightCm != nil {
		updates["height_cm"] = *req.HeightCm
	}
	if req.WeightKg != nil {
		updates["weight_kg"] = *req.WeightKg
	}
	if req.FitnessLevel != nil {
		updates["fitness_level"] = *req.FitnessLevel
	}
	if req.FitnessGoals != nil {
		user.FitnessGoals = req.FitnessGoals
		if err := h.db.Model(user).Update("fitness_goals", user.FitnessGoals).Error; err != nil {
			httperr.Internal(c, "failed_to_update_profile", "Could not update the profile.")
			return
		}
	}
	if len(updates) > 0 {
		if err := h.db.Model(user).Updates(updates).Error; err != nil {
			httperr.Internal(c, "failed_to_update_profile", "Could not update the profile.")
			return
		}
	}

	var fresh models.User
	if err := h.db.First(&fresh, user.ID).Error; err != nil {
		httperr.Internal(c, "internal_error", "Could not reload the profile.")
		return
	}
	httpresp.OKMessage(c, "Profile updated.", fresh)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	user := middleware.CurrentUser(c)
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Current password is incorrect.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Could not process the password.")
		return
	}
	if err := h.db.Model(user).Update("password_hash", string(hashed)).Error; err != nil {
		httperr.Internal(c, "failed_to_update_password", "Could not update the password.")
		return
	}

	h.audit.Dispatch(audit.Event{UserID: &user.ID, Action: "user.change_password", Entity: "user", EntityID: &user.ID})

	httpresp.OKMessage(c, "Password updated.", nil)
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"exp":  now.Add(time.Duration(h.config.JWTTTLHours) * time.Hour).Unix(),
		"iat":  now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
