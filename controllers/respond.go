package controllers

import (
	"errors"
	"net/http"

	"agendapro-backend/database"
	"agendapro-backend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// respondDomainError maps a domain error to its HTTP status. Mapping happens
// on error kind, never on message text. Unrecognized errors are
// infrastructure failures: the unit of work was already rolled back, so the
// caller gets a generic 500.
func respondDomainError(c *gin.Context, err error) {
	var validationErr *models.ValidationError
	var transitionErr *models.IllegalTransitionError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message, "field": validationErr.Field})
	case errors.As(err, &transitionErr):
		c.JSON(http.StatusConflict, gin.H{"error": transitionErr.Error()})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, gorm.ErrDuplicatedKey):
		c.JSON(http.StatusConflict, gin.H{"error": "Already exists"})
	case errors.Is(err, models.ErrUnauthorized), errors.Is(err, database.ErrNoTenant):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
