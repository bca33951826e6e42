package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/smartcoder-7/Webinar-backend-snippet/internal/infrastructure/auth"
	"github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/presentation/controller"
)

// RequireStaff authenticates dashboard requests with the platform access
// token and stashes the verified identity for the controllers.
func RequireStaff(verifier *auth.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		ident, err := verifier.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(controller.StaffIdentityKey, ident)
		c.Next()
	}
}
