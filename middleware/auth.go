package middleware

import (
	"log"
	"net/http"
	"strings"

	"buzzboard/services"

	"github.com/gin-gonic/gin"
)

const (
	SessionCookie = "session"

	ContextUserID = "user_id"
)

// SessionToken reads the session from the cookie, falling back to a bearer
// Authorization header.
func SessionToken(c *gin.Context) string {
	if token, err := c.Cookie(SessionCookie); err == nil && token != "" {
		return token
	}
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func AuthMiddleware(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := auth.Authenticate(c.Request.Context(), SessionToken(c))
		if err != nil {
			if services.KindOf(err) == "" {
				log.Printf("[auth] session check failed: %v", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error", "code": "internal"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "code": services.KindUnauthorized})
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Next()
	}
}
