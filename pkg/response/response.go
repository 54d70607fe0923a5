package response

import (
	"log"
	"net/http"
	"time"

	"github.com/ajstars1/0unveiled-leaderboard/pkg/apperror"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetUserID retrieves the authenticated user ID from the context
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	userIDStr, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	userID, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	return userID, nil
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	// Log internal errors
	if code == http.StatusInternalServerError {
		log.Printf("[Internal Error]: %v", err)
	}

	c.JSON(code, gin.H{"error": err.Error()})
}

// JobSuccess is the envelope returned to the scheduler when a run completes.
func JobSuccess(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// JobError is the envelope returned to the scheduler when a run fails.
func JobError(c *gin.Context, err error) {
	log.Printf("[Job Error]: %v", err)
	c.JSON(apperror.MapErrorToStatus(err), gin.H{
		"success":   false,
		"error":     err.Error(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
