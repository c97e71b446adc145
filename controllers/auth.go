package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"agendapro-backend/config"
	"agendapro-backend/models"
	"agendapro-backend/services"
	"agendapro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type AuthController struct {
	db       *gorm.DB
	cfg      *config.Config
	identity *services.IdentityService
	logger   zerolog.Logger
}

func NewAuthController(db *gorm.DB, cfg *config.Config, identity *services.IdentityService, logger zerolog.Logger) *AuthController {
	return &AuthController{db: db, cfg: cfg, identity: identity, logger: logger}
}

type RegisterInput struct {
	Email      string `json:"email" binding:"required,email"`
	Phone      string `json:"phone" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Password   string `json:"password" binding:"required,min=8"`
	TenantName string `json:"tenantName" binding:"required"`
}

type LoginInput struct {
	Identifier string `json:"identifier" binding:"required"` // Can be email or phone
	Password   string `json:"password" binding:"required"`
}

// Register creates a tenant with its owner user. Credential verification is
// delegated to the identity provider when one is configured; the local
// bcrypt hash is kept either way so the account survives provider outages.
func (ctl *AuthController) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	// Check if email or phone already exists
	var existingUser models.User
	result := ctl.db.Where("email = ? OR phone = ?", input.Email, input.Phone).First(&existingUser)
	if result.Error == nil {
		utils.RespondWithError(c, http.StatusConflict, "Email or phone already registered")
		return
	} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	if ctl.identity.Enabled() {
		if err := ctl.identity.SignUp(c.Request.Context(), input.Email, input.Password); err != nil {
			respondDomainError(c, err)
			return
		}
	}

	tenant := models.Tenant{Name: input.TenantName}
	newUser := models.User{
		Email:    input.Email,
		Phone:    utils.NormalizePhone(input.Phone),
		Name:     input.Name,
		Password: input.Password, // Hashed in BeforeCreate hook
		Role:     "owner",
	}

	err := ctl.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&tenant).Error; err != nil {
			return err
		}
		newUser.TenantID = tenant.ID
		if err := tx.Create(&newUser).Error; err != nil {
			return err
		}
		return createDefaultReminderTemplate(tx, &tenant)
	})
	if err != nil {
		ctl.logger.Error().Err(err).Msg("registration failed")
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create account")
		return
	}

	token, err := utils.GenerateToken(ctl.cfg, newUser.ID, tenant.ID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	ctl.setTokenCookie(c, token)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful",
		"token":   token,
		"user": gin.H{
			"id":         newUser.ID,
			"email":      newUser.Email,
			"phone":      newUser.Phone,
			"tenantId":   tenant.ID,
			"tenantName": tenant.Name,
		},
	})
}

func (ctl *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	identifier := strings.TrimSpace(input.Identifier)

	var user models.User
	result := ctl.db.Where("email = ? OR phone = ?", identifier, identifier).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if !user.IsActive {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if ctl.identity.Enabled() {
		if err := ctl.identity.VerifyPassword(c.Request.Context(), user.Email, input.Password); err != nil {
			if errors.Is(err, models.ErrUnauthorized) {
				utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Identity provider unavailable")
			}
			return
		}
	} else if !utils.CheckPasswordHash(input.Password, user.Password) {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := utils.GenerateToken(ctl.cfg, user.ID, user.TenantID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	// Update last login, best effort
	now := time.Now()
	if err := ctl.db.Model(&user).Update("last_login", &now).Error; err != nil {
		ctl.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to update last login")
	}

	ctl.setTokenCookie(c, token)

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":       user.ID,
			"email":    user.Email,
			"phone":    user.Phone,
			"name":     user.Name,
			"tenantId": user.TenantID,
		},
	})
}

func (ctl *AuthController) Me(c *gin.Context) {
	userID, ok := utils.UserFromContext(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	var user models.User
	if err := ctl.db.Preload("Tenant").First(&user, "id = ?", userID).Error; err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":         user.ID,
			"email":      user.Email,
			"name":       user.Name,
			"tenantId":   user.TenantID,
			"tenantName": user.Tenant.Name,
		},
	})
}

func (ctl *AuthController) setTokenCookie(c *gin.Context, token string) {
	maxAge := ctl.cfg.JWTExpiryHours * 3600
	c.SetCookie("token", token, maxAge, "/", "", true, true)
}

func createDefaultReminderTemplate(tx *gorm.DB, tenant *models.Tenant) error {
	template := models.ReminderTemplate{
		TenantID: tenant.ID,
		Type:     "upcoming_appointment",
		Message:  "Hi [CustomerName], this is a reminder for your appointment \"[Title]\" at [Time]. See you soon!",
		IsActive: true,
	}
	return tx.Create(&template).Error
}
