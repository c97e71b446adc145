package controllers

import (
	"net/http"
	"time"

	"agendapro-backend/database"
	"agendapro-backend/models"
	"agendapro-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type DashboardController struct {
	db *gorm.DB
}

func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{db: db}
}

type upcomingAppointment struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	CustomerName string    `json:"customerName"`
	ScheduledAt  time.Time `json:"scheduledAt"`
	Status       string    `json:"status"`
}

// GetDashboardOverview aggregates today's schedule, status breakdowns and
// lead funnel counts for the tenant.
func (ctl *DashboardController) GetDashboardOverview(c *gin.Context) {
	tenantID, ok := utils.TenantFromContext(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Tenant not resolved")
		return
	}

	now := time.Now()
	startOfDay := utils.BeginningOfDay(now)
	endOfDay := startOfDay.Add(24 * time.Hour)
	endOfWeek := startOfDay.Add(7 * 24 * time.Hour)

	var (
		totalCustomers      int64
		appointmentsToday   int64
		appointmentsByState []struct {
			Status string `json:"status"`
			Count  int64  `json:"count"`
		}
		leadsByStatus []struct {
			Status string `json:"status"`
			Count  int64  `json:"count"`
		}
		upcoming []upcomingAppointment
	)

	err := database.WithTenant(c.Request.Context(), ctl.db, tenantID, func(tx *gorm.DB) error {
		if err := tx.Model(&models.Customer{}).
			Where("tenant_id = ? AND is_active = ?", tenantID, true).
			Count(&totalCustomers).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Appointment{}).
			Where("tenant_id = ? AND scheduled_at >= ? AND scheduled_at < ?", tenantID, startOfDay, endOfDay).
			Count(&appointmentsToday).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Appointment{}).
			Select("status, COUNT(*) as count").
			Where("tenant_id = ?", tenantID).
			Group("status").
			Scan(&appointmentsByState).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Lead{}).
			Select("status, COUNT(*) as count").
			Where("tenant_id = ?", tenantID).
			Group("status").
			Scan(&leadsByStatus).Error; err != nil {
			return err
		}

		return tx.Raw(`
            SELECT a.id, a.title, c.name AS customer_name, a.scheduled_at, a.status
            FROM appointments a
            JOIN customers c ON c.id = a.customer_id
            WHERE a.tenant_id = ? AND a.deleted_at IS NULL
            AND a.scheduled_at >= ? AND a.scheduled_at < ?
            AND a.status IN (?, ?)
            ORDER BY a.scheduled_at ASC
            LIMIT 10
        `, tenantID, now, endOfWeek,
			models.StatusScheduled, models.StatusConfirmed).
			Scan(&upcoming).Error
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalCustomers":       totalCustomers,
		"appointmentsToday":    appointmentsToday,
		"appointmentsByStatus": appointmentsByState,
		"leadsByStatus":        leadsByStatus,
		"upcomingAppointments": upcoming,
	})
}
