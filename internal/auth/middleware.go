package auth

import (
	"net/http"
	"strings"

	"Tasker/internal/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const contextKeyUserID = "user_id"

// UserIDFromContext returns the current user ID set by RequireToken. uuid.Nil if not set.
func UserIDFromContext(c *gin.Context) uuid.UUID {
	v, ok := c.Get(contextKeyUserID)
	if !ok {
		return uuid.Nil
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}

// RequireToken returns a middleware that checks the Bearer token
// and sets the current user ID in context. If missing or invalid, responds with 401.
func RequireToken(issuer *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			abortUnauthorized(c)
			return
		}
		userID, err := issuer.Verify(strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")))
		if err != nil {
			abortUnauthorized(c)
			return
		}
		c.Set(contextKeyUserID, userID)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.Failure(http.StatusUnauthorized, "authorization required", c.Request.URL.Path))
}
