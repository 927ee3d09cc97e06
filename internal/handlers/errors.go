package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/torqride/rentals-api/internal/services"
	"gorm.io/gorm"
)

// respondError maps service-layer failures onto HTTP status codes. The
// dashboard keys its corrective flows off status plus the optional "code"
// field, so this is the one place the mapping lives.
func respondError(c *gin.Context, err error) {
	var validation *services.ValidationError
	var precondition *services.PreconditionError
	var conflict *services.ConflictError
	var transient *services.TransientError
	var auth *services.AuthError

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Reason})
	case errors.As(err, &precondition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": precondition.Reason, "code": precondition.Code})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"error": conflict.Reason})
	case errors.As(err, &transient):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": transient.Error()})
	case errors.As(err, &auth):
		c.JSON(http.StatusUnauthorized, gin.H{"error": auth.Reason})
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
	case errors.Is(err, services.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": "record already exists"})
	case errors.Is(err, services.ErrInvalidPassword):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid password"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
