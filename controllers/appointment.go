package controllers

import (
	"errors"
	"net/http"
	"time"

	"agendapro-backend/database"
	"agendapro-backend/metrics"
	"agendapro-backend/models"
	"agendapro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentController struct {
	db *gorm.DB
}

func NewAppointmentController(db *gorm.DB) *AppointmentController {
	return &AppointmentController{db: db}
}

type CreateAppointmentInput struct {
	CustomerID      uuid.UUID `json:"customerId" binding:"required"`
	ResourceID      uuid.UUID `json:"resourceId" binding:"required"`
	Title           string    `json:"title" binding:"required"`
	Description     string    `json:"description"`
	Notes           string    `json:"notes"`
	ScheduledAt     time.Time `json:"scheduledAt" binding:"required"`
	DurationMinutes int       `json:"durationMinutes" binding:"required"`
	AppointmentType string    `json:"appointmentType"`
}

type UpdateAppointmentInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Notes       *string `json:"notes"`
}

type RescheduleInput struct {
	ScheduledAt     time.Time `json:"scheduledAt" binding:"required"`
	DurationMinutes *int      `json:"durationMinutes"`
}

type CancelInput struct {
	Reason string `json:"reason"`
}

// CreateAppointment validates referenced entities under the tenant scope and
// creates the appointment in the Scheduled state.
func (ctl *AppointmentController) CreateAppointment(c *gin.Context) {
	tenantID, ok := utils.TenantFromContext(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Tenant not resolved")
		return
	}

	var input CreateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	appointment, err := models.NewAppointment(
		tenantID, input.CustomerID, input.ResourceID,
		input.Title, input.ScheduledAt, input.DurationMinutes, input.AppointmentType,
	)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	if input.Description != "" {
		appointment.SetDescription(input.Description)
	}
	if input.Notes != "" {
		appointment.SetNotes(input.Notes)
	}

	err = database.WithTenant(c.Request.Context(), ctl.db, tenantID, func(tx *gorm.DB) error {
		// Referenced entities must exist for this tenant; a foreign id is
		// indistinguishable from a missing one.
		var customer models.Customer
		if err := tx.Where("tenant_id = ? AND id = ?", tenantID, input.CustomerID).First(&customer).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return err
		}
		var resource models.Resource
		if err := tx.Where("tenant_id = ? AND id = ?", tenantID, input.ResourceID).First(&resource).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return err
		}
		return tx.Create(appointment).Error
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	metrics.AppointmentCreated()
	c.JSON(http.StatusCreated, appointment)
}

// GetAppointments lists the tenant's appointments with optional filters
// (date range, customer, resource, status).
func (ctl *AppointmentController) GetAppointments(c *gin.Context) {
	tenantID, ok := utils.TenantFromContext(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Tenant not resolved")
		return
	}

	var appointments []models.Appointment
	err := database.WithTenant(c.Request.Context(), ctl.db, tenantID, func(tx *gorm.DB) error {
		query := tx.Where("tenant_id = ?", tenantID)

		if v := c.Query("startDate"); v != "" {
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				query = query.Where("scheduled_at >= ?", t)
			}
		}
		if v := c.Query("endDate"); v != "" {
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				query = query.Where("scheduled_at <= ?", t)
			}
		}
		if v := c.Query("customerId"); v != "" {
			if id, err := uuid.Parse(v); err == nil {
				query = query.Where("customer_id = ?", id)
			}
		}
		if v := c.Query("resourceId"); v != "" {
			if id, err := uuid.Parse(v); err == nil {
				query = query.Where("resource_id = ?", id)
			}
		}
		if v := c.Query("status"); v != "" {
			query = query.Where("status = ?", v)
		}

		return query.Order("scheduled_at DESC").Find(&appointments).Error
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, appointments)
}

// GetAppointment retrieves a specific appointment by ID
func (ctl *AppointmentController) GetAppointment(c *gin.Context) {
	tenantID, ok := utils.TenantFromContext(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Tenant not resolved")
		return
	}

	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid appointment ID format")
		return
	}

	var appointment models.Appointment
	err = database.WithTenant(c.Request.Context(), ctl.db, tenantID, func(tx *gorm.DB) error {
		return ctl.load(tx, tenantID, appointmentID, &appointment)
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, appointment)
}

// UpdateAppointment changes title, description or notes. Details may change
// in any state, terminal ones included; the status is untouched.
func (ctl *AppointmentController) UpdateAppointment(c *gin.Context) {
	var input UpdateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	ctl.mutate(c, func(appointment *models.Appointment) error {
		title := appointment.Title
		if input.Title != nil {
			title = *input.Title
		}
		description := appointment.Description
		if input.Description != nil {
			description = *input.Description
		}
		if err := appointment.UpdateDetails(title, description); err != nil {
			return err
		}
		if input.Notes != nil {
			appointment.SetNotes(*input.Notes)
		}
		return nil
	})
}

// ConfirmAppointment moves a scheduled appointment to Confirmed
func (ctl *AppointmentController) ConfirmAppointment(c *gin.Context) {
	ctl.mutate(c, func(appointment *models.Appointment) error {
		return appointment.Confirm()
	})
}

// StartAppointment moves a scheduled or confirmed appointment to InProgress
func (ctl *AppointmentController) StartAppointment(c *gin.Context) {
	ctl.mutate(c, func(appointment *models.Appointment) error {
		return appointment.Start()
	})
}

// CompleteAppointment finishes a non-terminal appointment
func (ctl *AppointmentController) CompleteAppointment(c *gin.Context) {
	ctl.mutate(c, func(appointment *models.Appointment) error {
		return appointment.Complete()
	})
}

// CancelAppointment aborts a non-terminal appointment with a reason
func (ctl *AppointmentController) CancelAppointment(c *gin.Context) {
	var input CancelInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	ctl.mutate(c, func(appointment *models.Appointment) error {
		return appointment.Cancel(input.Reason)
	})
}

// NoShowAppointment marks a scheduled or confirmed appointment as no-show
func (ctl *AppointmentController) NoShowAppointment(c *gin.Context) {
	ctl.mutate(c, func(appointment *models.Appointment) error {
		return appointment.MarkNoShow()
	})
}

// RescheduleAppointment moves a non-terminal appointment to a new time
func (ctl *AppointmentController) RescheduleAppointment(c *gin.Context) {
	var input RescheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	ctl.mutate(c, func(appointment *models.Appointment) error {
		return appointment.Reschedule(input.ScheduledAt, input.DurationMinutes)
	})
}

// DeleteAppointment soft deletes an appointment
func (ctl *AppointmentController) DeleteAppointment(c *gin.Context) {
	tenantID, ok := utils.TenantFromContext(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Tenant not resolved")
		return
	}

	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid appointment ID format")
		return
	}

	err = database.WithTenant(c.Request.Context(), ctl.db, tenantID, func(tx *gorm.DB) error {
		result := tx.Where("tenant_id = ? AND id = ?", tenantID, appointmentID).Delete(&models.Appointment{})
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

	c.JSON(http.StatusOK, gin.H{"message": "Appointment deleted successfully"})
}

// mutate loads the appointment under the tenant scope, applies the domain
// operation, and persists the result in the same unit of work.
func (ctl *AppointmentController) mutate(c *gin.Context, op func(*models.Appointment) error) {
	tenantID, ok := utils.TenantFromContext(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Tenant not resolved")
		return
	}

	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid appointment ID format")
		return
	}

	var appointment models.Appointment
	err = database.WithTenant(c.Request.Context(), ctl.db, tenantID, func(tx *gorm.DB) error {
		if err := ctl.load(tx, tenantID, appointmentID, &appointment); err != nil {
			return err
		}
		if err := op(&appointment); err != nil {
			return err
		}
		return tx.Save(&appointment).Error
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, appointment)
}

func (ctl *AppointmentController) load(tx *gorm.DB, tenantID, appointmentID uuid.UUID, dst *models.Appointment) error {
	if err := tx.Where("tenant_id = ? AND id = ?", tenantID, appointmentID).First(dst).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ErrNotFound
		}
		return err
	}
	return nil
}
