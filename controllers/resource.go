package controllers

import (
	"errors"
	"net/http"

	"agendapro-backend/database"
	"agendapro-backend/models"
	"agendapro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ResourceController struct {
	db *gorm.DB
}

func NewResourceController(db *gorm.DB) *ResourceController {
	return &ResourceController{db: db}
}

type CreateResourceInput struct {
	Name        string              `json:"name" binding:"required"`
	Type        models.ResourceType `json:"type" binding:"required"`
	Description string              `json:"description"`
	Email       string              `json:"email"`
	Phone       string              `json:"phone"`
	Color       string              `json:"color"`
}

type UpdateResourceInput struct {
	Name        *string              `json:"name"`
	Type        *models.ResourceType `json:"type"`
	Description *string              `json:"description"`
	Email       *string              `json:"email"`
	Phone       *string              `json:"phone"`
	Color       *string              `json:"color"`
	IsActive    *bool                `json:"isActive"`
}

// CreateResource creates a schedulable resource (professional, room, equipment)
func (ctl *ResourceController) CreateResource(c *gin.Context) {
	tenantID, ok := utils.TenantFromContext(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Tenant not resolved")
		return
	}

	var input CreateResourceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !input.Type.Valid() {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid resource type")
		return
	}
	if input.Color != "" && !utils.ValidateHexColor(input.Color) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid color format")
		return
	}

	resource := models.Resource{
		TenantID:    tenantID,
		Name:        input.Name,
		Type:        input.Type,
		Description: input.Description,
		Email:       input.Email,
		Phone:       input.Phone,
		IsActive:    true,
	}
	if input.Color != "" {
		resource.Color = input.Color
	} else {
		resource.Color = "#3B82F6"
	}

	err := database.WithTenant(c.Request.Context(), ctl.db, tenantID, func(tx *gorm.DB) error {
		return tx.Create(&resource).Error
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resource)
}

// GetResources retrieves all resources for the tenant
func (ctl *ResourceController) GetResources(c *gin.Context) {
	tenantID, ok := utils.TenantFromContext(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Tenant not resolved")
		return
	}

	var resources []models.Resource
	err := database.WithTenant(c.Request.Context(), ctl.db, tenantID, func(tx *gorm.DB) error {
		return tx.Where("tenant_id = ?", tenantID).Find(&resources).Error
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, resources)
}

// GetResource retrieves a specific resource by ID
func (ctl *ResourceController) GetResource(c *gin.Context) {
	tenantID, ok := utils.TenantFromContext(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Tenant not resolved")
		return
	}

	resourceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid resource ID format")
		return
	}

	var resource models.Resource
	err = database.WithTenant(c.Request.Context(), ctl.db, tenantID, func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ? AND id = ?", tenantID, resourceID).First(&resource).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, resource)
}

// UpdateResource updates an existing resource
func (ctl *ResourceController) UpdateResource(c *gin.Context) {
	tenantID, ok := utils.TenantFromContext(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Tenant not resolved")
		return
	}

	resourceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid resource ID format")
		return
	}

	var input UpdateResourceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Type != nil && !input.Type.Valid() {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid resource type")
		return
	}
	if input.Color != nil && !utils.ValidateHexColor(*input.Color) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid color format")
		return
	}

	var resource models.Resource
	err = database.WithTenant(c.Request.Context(), ctl.db, tenantID, func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ? AND id = ?", tenantID, resourceID).First(&resource).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return err
		}

		if input.Name != nil {
			resource.Name = *input.Name
		}
		if input.Type != nil {
			resource.Type = *input.Type
		}
		if input.Description != nil {
			resource.Description = *input.Description
		}
		if input.Email != nil {
			resource.Email = *input.Email
		}
		if input.Phone != nil {
			resource.Phone = *input.Phone
		}
		if input.Color != nil {
			resource.Color = *input.Color
		}
		if input.IsActive != nil {
			resource.IsActive = *input.IsActive
		}

		return tx.Save(&resource).Error
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, resource)
}

// DeleteResource soft deletes a resource
func (ctl *ResourceController) DeleteResource(c *gin.Context) {
	tenantID, ok := utils.TenantFromContext(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Tenant not resolved")
		return
	}

	resourceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid resource ID format")
		return
	}

	err = database.WithTenant(c.Request.Context(), ctl.db, tenantID, func(tx *gorm.DB) error {
		result := tx.Where("tenant_id = ? AND id = ?", tenantID, resourceID).Delete(&models.Resource{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return models.ErrNotFound
		}
		return nil
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Resource deleted successfully"})
}
