package controllers

import (
	"errors"
	"net/http"

	"agendapro-backend/database"
	"agendapro-backend/models"
	"agendapro-backend/services"
	"agendapro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomerController struct {
	db    *gorm.DB
	leads *services.LeadService
}

func NewCustomerController(db *gorm.DB, leads *services.LeadService) *CustomerController {
	return &CustomerController{db: db, leads: leads}
}

// CreateCustomerInput defines the expected JSON structure for creating a customer
type CreateCustomerInput struct {
	Name         string  `json:"name" binding:"required"`
	Phone        string  `json:"phone" binding:"required"`
	Email        *string `json:"email"` // Pointer to allow null
	CustomerType string  `json:"customerType"`
	Notes        string  `json:"notes"`
}

// UpdateCustomerInput defines the expected JSON structure for updating a customer
type UpdateCustomerInput struct {
	Name         *string `json:"name"`
	Phone        *string `json:"phone"`
	Email        *string `json:"email"`
	CustomerType *string `json:"customerType"`
	Notes        *string `json:"notes"`
	IsActive     *bool   `json:"isActive"`
}

// CreateCustomer creates a new customer for the tenant. A lead captured from
// the same phone number is converted and linked.
func (ctl *CustomerController) CreateCustomer(c *gin.Context) {
	tenantID, ok := utils.TenantFromContext(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Tenant not resolved")
		return
	}

	var input CreateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}
	phone := utils.NormalizePhone(input.Phone)

	customerType := input.CustomerType
	if customerType == "" {
		customerType = models.CustomerTypeIndividual
	}
	if customerType != models.CustomerTypeIndividual && customerType != models.CustomerTypeCompany {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer type")
		return
	}

	customer := models.Customer{
		TenantID:     tenantID,
		Name:         input.Name,
		Phone:        phone,
		CustomerType: customerType,
		Notes:        input.Notes,
		IsActive:     true,
	}
	if input.Email != nil {
		customer.Email = *input.Email
	}

	err := database.WithTenant(c.Request.Context(), ctl.db, tenantID, func(tx *gorm.DB) error {
		// Check if phone already exists for this tenant
		var existing models.Customer
		if err := tx.Where("tenant_id = ? AND phone = ?", tenantID, phone).First(&existing).Error; err == nil {
			return models.NewValidationError("phone", "customer with this phone number already exists")
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

	if err := ctl.leads.ConvertByPhone(c.Request.Context(), tenantID, phone, customer.ID); err != nil {
		// Lead conversion is best-effort; the customer row already exists.
		_ = err
	}

	c.JSON(http.StatusCreated, customer)
}

// GetCustomers retrieves all customers for the tenant
func (ctl *CustomerController) GetCustomers(c *gin.Context) {
	tenantID, ok := utils.TenantFromContext(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Tenant not resolved")
		return
	}

	var customers []models.Customer
	err := database.WithTenant(c.Request.Context(), ctl.db, tenantID, func(tx *gorm.DB) error {
		return tx.Where("tenant_id = ?", tenantID).Find(&customers).Error
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, customers)
}

// GetCustomer retrieves a specific customer by ID
func (ctl *CustomerController) GetCustomer(c *gin.Context) {
	tenantID, ok := utils.TenantFromContext(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Tenant not resolved")
		return
	}

	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
		return
	}

	var customer models.Customer
	err = database.WithTenant(c.Request.Context(), ctl.db, tenantID, func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ? AND id = ?", tenantID, customerID).First(&customer).Error; err != nil {
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

	c.JSON(http.StatusOK, customer)
}

// UpdateCustomer updates an existing customer
func (ctl *CustomerController) UpdateCustomer(c *gin.Context) {
	tenantID, ok := utils.TenantFromContext(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Tenant not resolved")
		return
	}

	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
		return
	}

	var input UpdateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Phone != nil && !utils.ValidatePhone(*input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}
	if input.CustomerType != nil &&
		*input.CustomerType != models.CustomerTypeIndividual && *input.CustomerType != models.CustomerTypeCompany {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer type")
		return
	}

	var customer models.Customer
	err = database.WithTenant(c.Request.Context(), ctl.db, tenantID, func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ? AND id = ?", tenantID, customerID).First(&customer).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return err
		}

		if input.Name != nil {
			customer.Name = *input.Name
		}
		if input.Phone != nil {
			phone := utils.NormalizePhone(*input.Phone)
			if customer.Phone != phone {
				var existing models.Customer
				if err := tx.Where("tenant_id = ? AND phone = ?", tenantID, phone).First(&existing).Error; err == nil {
					return models.NewValidationError("phone", "another customer with this phone number already exists")
				} else if !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
			}
			customer.Phone = phone
		}
		if input.Email != nil {
			customer.Email = *input.Email
		}
		if input.CustomerType != nil {
			customer.CustomerType = *input.CustomerType
		}
		if input.Notes != nil {
			customer.Notes = *input.Notes
		}
		if input.IsActive != nil {
			customer.IsActive = *input.IsActive
		}

		return tx.Save(&customer).Error
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

	c.JSON(http.StatusOK, customer)
}

// DeleteCustomer soft deletes a customer
func (ctl *CustomerController) DeleteCustomer(c *gin.Context) {
	tenantID, ok := utils.TenantFromContext(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Tenant not resolved")
		return
	}

	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
		return
	}

	err = database.WithTenant(c.Request.Context(), ctl.db, tenantID, func(tx *gorm.DB) error {
		result := tx.Where("tenant_id = ? AND id = ?", tenantID, customerID).Delete(&models.Customer{})
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

	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully"})
}
