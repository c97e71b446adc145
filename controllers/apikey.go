package controllers

import (
	"net/http"
	"time"

	"agendapro-backend/models"
	"agendapro-backend/services"
	"agendapro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ApiKeyController struct {
	keys *services.ApiKeyService
}

func NewApiKeyController(keys *services.ApiKeyService) *ApiKeyController {
	return &ApiKeyController{keys: keys}
}

type CreateApiKeyInput struct {
	Name          string `json:"name" binding:"required"`
	Description   string `json:"description"`
	ExpiresInDays *int   `json:"expiresInDays"`
	RateLimit     *int   `json:"rateLimit"`
}

type UpdateApiKeyInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

type apiKeyResponse struct {
	ID          uuid.UUID  `json:"id"`
	Key         string     `json:"key"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	IsActive    bool       `json:"isActive"`
	ExpiresAt   time.Time  `json:"expiresAt"`
	RateLimit   *int       `json:"rateLimit"`
	UsageCount  int64      `json:"usageCount"`
	LastUsedAt  *time.Time `json:"lastUsedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func maskedResponse(key models.ApiKey) apiKeyResponse {
	return apiKeyResponse{
		ID:          key.ID,
		Key:         key.MaskedKey(),
		Name:        key.Name,
		Description: key.Description,
		IsActive:    key.IsActive,
		ExpiresAt:   key.ExpiresAt,
		RateLimit:   key.RateLimit,
		UsageCount:  key.UsageCount,
		LastUsedAt:  key.LastUsedAt,
		CreatedAt:   key.CreatedAt,
	}
}

// GetApiKeys lists the tenant's keys with masked secrets
func (ctl *ApiKeyController) GetApiKeys(c *gin.Context) {
	tenantID, ok := utils.TenantFromContext(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Tenant not resolved")
		return
	}

	keys, err := ctl.keys.List(c.Request.Context(), tenantID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	response := make([]apiKeyResponse, 0, len(keys))
	for _, key := range keys {
		response = append(response, maskedResponse(key))
	}
	c.JSON(http.StatusOK, response)
}

// CreateApiKey issues a new key. The full secret appears in this response
// and never again.
func (ctl *ApiKeyController) CreateApiKey(c *gin.Context) {
	tenantID, ok := utils.TenantFromContext(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Tenant not resolved")
		return
	}

	var input CreateApiKeyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	key, secret, err := ctl.keys.Issue(c.Request.Context(), tenantID, input.Name, input.Description, input.ExpiresInDays, input.RateLimit)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":          key.ID,
		"key":         secret,
		"name":        key.Name,
		"description": key.Description,
		"expiresAt":   key.ExpiresAt,
		"message":     "Copy this key now. It will not be shown again.",
	})
}

// UpdateApiKey changes name, description, or the active flag
func (ctl *ApiKeyController) UpdateApiKey(c *gin.Context) {
	tenantID, ok := utils.TenantFromContext(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Tenant not resolved")
		return
	}

	keyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid API key ID format")
		return
	}

	var input UpdateApiKeyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if err := ctl.keys.Update(c.Request.Context(), tenantID, keyID, input.Name, input.Description, input.IsActive); err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "API key updated successfully"})
}

// DeleteApiKey revokes a key owned by the tenant
func (ctl *ApiKeyController) DeleteApiKey(c *gin.Context) {
	tenantID, ok := utils.TenantFromContext(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Tenant not resolved")
		return
	}

	keyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid API key ID format")
		return
	}

	if err := ctl.keys.Revoke(c.Request.Context(), tenantID, keyID); err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "API key deleted successfully"})
}

// GetWebhookURL returns the endpoints an external messaging bridge should call
func (ctl *ApiKeyController) GetWebhookURL(c *gin.Context) {
	scheme := "https"
	if c.Request.TLS == nil {
		scheme = "http"
	}
	baseURL := scheme + "://" + c.Request.Host

	c.JSON(http.StatusOK, gin.H{
		"webhookUrl":           baseURL + "/webhook/whatsapp",
		"createCustomerUrl":    baseURL + "/webhook/customers",
		"createAppointmentUrl": baseURL + "/webhook/appointments",
		"checkCustomerUrl":     baseURL + "/webhook/customers/check",
		"instructions":         "Send the X-API-Key header with your key on every request",
	})
}
