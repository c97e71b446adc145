package controllers

import (
	"net/http"

	"agendapro-backend/services"
	"agendapro-backend/utils"

	"github.com/gin-gonic/gin"
)

type LeadController struct {
	leads *services.LeadService
}

func NewLeadController(leads *services.LeadService) *LeadController {
	return &LeadController{leads: leads}
}

// GetLeads retrieves all leads for the tenant, newest first
func (ctl *LeadController) GetLeads(c *gin.Context) {
	tenantID, ok := utils.TenantFromContext(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Tenant not resolved")
		return
	}

	leads, err := ctl.leads.ListLeads(c.Request.Context(), tenantID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, leads)
}
