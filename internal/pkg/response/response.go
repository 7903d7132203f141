package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"venuebook/internal/domain"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// DomainError maps the engine's error taxonomy onto HTTP statuses. Unknown
// errors fall through to a 500 without leaking internals.
func DomainError(c *gin.Context, err error) {
	var (
		validationErr *domain.ValidationError
		stateErr      *domain.StateError
		conflictErr   *domain.ConflictError
	)
	switch {
	case errors.As(err, &validationErr):
		Error(c, http.StatusBadRequest, "VALIDATION_ERROR", validationErr.Error())
	case errors.As(err, &conflictErr):
		Error(c, http.StatusConflict, "BOOKING_CONFLICT", conflictErr.Error())
	case errors.As(err, &stateErr):
		Error(c, http.StatusConflict, "INVALID_STATE", stateErr.Error())
	default:
		Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "request failed")
	}
}
