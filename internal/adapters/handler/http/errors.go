package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/onedo/internal/core/domain"
	"github.com/comitanigiacomo/onedo/internal/logger"
)

var badRequestErrors = []error{
	domain.ErrHabitNameEmpty,
	domain.ErrInvalidColor,
	domain.ErrInvalidTarget,
	domain.ErrInvalidGoalType,
	domain.ErrInvalidReminder,
	domain.ErrReminderNoTime,
	domain.ErrInvalidRecurrence,
	domain.ErrInvalidWeekdays,
	domain.ErrInvalidDay,
	domain.ErrInvalidMove,
	domain.ErrInvalidDateRange,
	domain.ErrPassphraseTooShort,
}

// respondError maps domain errors to a status code. Anything unknown is
// logged and hidden behind a 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrHabitNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
	case errors.Is(err, domain.ErrHabitConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "version conflict",
			"message": "Data has been modified elsewhere. Reload and retry.",
		})
	case errors.Is(err, domain.ErrHabitAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, domain.ErrAuthDisabled):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case isBadRequest(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		logger.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func isBadRequest(err error) bool {
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
