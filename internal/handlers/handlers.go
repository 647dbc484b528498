package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"adstudio-backend/internal/middleware"
	"adstudio-backend/internal/models"
)

// userIDFromContext reads the authenticated user id set by the auth
// middleware. Responds 401 and returns false if it is missing or malformed.
func userIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user not authenticated"})
		return uuid.Nil, false
	}

	userIDStr, ok := raw.(string)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "invalid user id in context"})
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "invalid user id format"})
		return uuid.Nil, false
	}

	return userID, true
}
