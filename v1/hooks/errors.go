package hooks

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/godocompany/roomboard/services"
)

// respondError writes the JSON error response matching a service error
func respondError(c *gin.Context, err error) {
	var verr *services.ValidationError
	var ferr *services.ForbiddenError
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.As(err, &ferr):
		c.JSON(http.StatusForbidden, gin.H{"error": ferr.Reason})
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "problems": verr.Problems})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
