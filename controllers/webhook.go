package controllers

import (
	"errors"
	"net/http"
	"time"

	"agendapro-backend/database"
	"agendapro-backend/metrics"
	"agendapro-backend/models"
	"agendapro-backend/services"
	"agendapro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// WebhookController serves the public endpoints used by the external
// messaging bridge. Requests are anonymous at the transport layer and gated
// entirely by the X-API-Key header.
type WebhookController struct {
	db     *gorm.DB
	keys   *services.ApiKeyService
	leads  *services.LeadService
	logger zerolog.Logger
}

func NewWebhookController(db *gorm.DB, keys *services.ApiKeyService, leads *services.LeadService, logger zerolog.Logger) *WebhookController {
	return &WebhookController{db: db, keys: keys, leads: leads, logger: logger}
}

// Inbound message envelope (Evolution API / Cloud API shape)
type WhatsAppWebhookInput struct {
	Event    string `json:"event"`
	Instance string `json:"instance"`
	Data     struct {
		Key struct {
			RemoteJid string `json:"remoteJid"`
			FromMe    bool   `json:"fromMe"`
		} `json:"key"`
		Message struct {
			Conversation        string `json:"conversation"`
			ExtendedTextMessage string `json:"extendedTextMessage"`
		} `json:"message"`
		PushName         string `json:"pushName"`
		MessageTimestamp int64  `json:"messageTimestamp"`
	} `json:"data"`
}

type WebhookCreateCustomerInput struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email"`
}

type WebhookCreateAppointmentInput struct {
	CustomerPhone string    `json:"customerPhone" binding:"required"`
	ResourceID    uuid.UUID `json:"resourceId" binding:"required"`
	StartTime     time.Time `json:"startTime" binding:"required"`
	EndTime       time.Time `json:"endTime" binding:"required"`
	Title         string    `json:"title"`
	Notes         string    `json:"notes"`
}

// authorize validates the X-API-Key header and applies the key's rate limit.
// Every failure mode reports the same "Invalid API key" so callers cannot
// probe which keys exist or have expired. Usage is recorded for every
// authorized call before the business operation runs, so the counter moves
// whether or not the operation succeeds downstream.
func (ctl *WebhookController) authorize(c *gin.Context) (*models.ApiKey, bool) {
	secret := c.GetHeader("X-API-Key")
	if secret == "" {
		metrics.WebhookAuthFailure()
		utils.RespondWithError(c, http.StatusUnauthorized, "API key is required")
		return nil, false
	}

	key, err := ctl.keys.Validate(c.Request.Context(), secret)
	if err != nil {
		metrics.WebhookAuthFailure()
		if errors.Is(err, models.ErrUnauthorized) {
			utils.RespondWithError(c, http.StatusUnauthorized, "Invalid API key")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Internal server error")
		}
		return nil, false
	}

	if !ctl.keys.Allow(key) {
		utils.RespondWithError(c, http.StatusTooManyRequests, "Rate limit exceeded")
		return nil, false
	}

	if err := ctl.keys.RecordUsage(c.Request.Context(), secret); err != nil {
		ctl.logger.Error().Err(err).Str("key_id", key.ID.String()).Msg("failed to record api key usage")
	}

	return key, true
}

// ReceiveWhatsAppMessage captures a lead from an inbound message. Messages
// from phone numbers already known as leads are acknowledged without change.
func (ctl *WebhookController) ReceiveWhatsAppMessage(c *gin.Context) {
	key, ok := ctl.authorize(c)
	if !ok {
		return
	}

	var input WhatsAppWebhookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	phone := utils.PhoneFromRemoteJid(input.Data.Key.RemoteJid)
	if phone == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Message did not carry a valid phone number")
		return
	}

	ctl.logger.Info().
		Str("tenant_id", key.TenantID.String()).
		Str("instance", input.Instance).
		Str("phone", phone).
		Msg("whatsapp webhook received")

	_, created, err := ctl.leads.RegisterIfNew(c.Request.Context(), key.TenantID, phone, input.Data.PushName)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	if created {
		metrics.LeadCaptured()
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"phoneNumber": phone,
		"message":     "Webhook received successfully",
	})
}

// CreateCustomerFromWebhook creates a customer under the key's tenant and
// converts any lead captured from the same phone number.
func (ctl *WebhookController) CreateCustomerFromWebhook(c *gin.Context) {
	key, ok := ctl.authorize(c)
	if !ok {
		return
	}

	var input WebhookCreateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidatePhone(input.PhoneNumber) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}
	phone := utils.NormalizePhone(input.PhoneNumber)

	email := input.Email
	if email == "" {
		email = phone + "@whatsapp.temp"
	}

	customer := models.Customer{
		TenantID:     key.TenantID,
		Name:         input.Name,
		Email:        email,
		Phone:        phone,
		CustomerType: models.CustomerTypeIndividual,
		IsActive:     true,
	}

	err := database.WithTenant(c.Request.Context(), ctl.db, key.TenantID, func(tx *gorm.DB) error {
		var existing models.Customer
		if err := tx.Where("tenant_id = ? AND phone = ?", key.TenantID, phone).First(&existing).Error; err == nil {
			return models.NewValidationError("phoneNumber", "customer with this phone number already exists")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(&customer).Error
	})
	if err != nil {
		var validationErr *models.ValidationError
		if errors.As(err, &validationErr) {
			utils.RespondWithError(c, http.StatusConflict, validationErr.Message)
			return
		}
		respondDomainError(c, err)
		return
	}

	if err := ctl.leads.ConvertByPhone(c.Request.Context(), key.TenantID, phone, customer.ID); err != nil {
		ctl.logger.Error().Err(err).Str("phone", phone).Msg("lead conversion failed")
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"customerId": customer.ID,
		"message":    "Customer created successfully",
	})
}

// CreateAppointmentFromWebhook books an appointment for the customer
// matching the given phone number.
func (ctl *WebhookController) CreateAppointmentFromWebhook(c *gin.Context) {
	key, ok := ctl.authorize(c)
	if !ok {
		return
	}

	var input WebhookCreateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !input.EndTime.After(input.StartTime) {
		utils.RespondWithError(c, http.StatusBadRequest, "endTime must be after startTime")
		return
	}
	durationMinutes := int(input.EndTime.Sub(input.StartTime).Minutes())

	phone := utils.NormalizePhone(input.CustomerPhone)
	title := input.Title
	if title == "" {
		title = "WhatsApp booking"
	}

	var appointment *models.Appointment
	err := database.WithTenant(c.Request.Context(), ctl.db, key.TenantID, func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.Where("tenant_id = ? AND phone = ?", key.TenantID, phone).First(&customer).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return err
		}

		var resource models.Resource
		if err := tx.Where("tenant_id = ? AND id = ?", key.TenantID, input.ResourceID).First(&resource).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return err
		}

		created, err := models.NewAppointment(
			key.TenantID, customer.ID, resource.ID,
			title, input.StartTime, durationMinutes, "whatsapp",
		)
		if err != nil {
			return err
		}
		if input.Notes != "" {
			created.SetNotes(input.Notes)
		}

		appointment = created
		return tx.Create(appointment).Error
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	metrics.AppointmentCreated()
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"appointmentId": appointment.ID,
		"startTime":     appointment.ScheduledAt,
		"endTime":       appointment.EndsAt,
		"message":       "Appointment created successfully",
	})
}

// CheckCustomerExists reports whether a phone number maps to a customer of
// the key's tenant.
func (ctl *WebhookController) CheckCustomerExists(c *gin.Context) {
	key, ok := ctl.authorize(c)
	if !ok {
		return
	}

	phone := utils.NormalizePhone(c.Query("phone"))
	if phone == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "phone query parameter is required")
		return
	}

	var customer models.Customer
	found := true
	err := database.WithTenant(c.Request.Context(), ctl.db, key.TenantID, func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ? AND phone = ?", key.TenantID, phone).First(&customer).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				found = false
				return nil
			}
			return err
		}
		return nil
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	if !found {
		c.JSON(http.StatusOK, gin.H{"exists": false, "customer": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"exists": true,
		"customer": gin.H{
			"id":    customer.ID,
			"name":  customer.Name,
			"email": customer.Email,
			"phone": customer.Phone,
		},
	})
}
