package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"bloodline/pkg/utils"
)

const (
	ContextAccountID = "account_id"
	ContextEmail     = "email"
	ContextRole      = "role"
)

func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(c, http.StatusUnauthorized, "Authorization header missing or invalid")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ValidateToken(tokenString)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextAccountID, claims.AccountID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// RequireRoles gates a route on the token's role. Comparison is
// case-insensitive; status strings drifted across deployments.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextRole)

		for _, allowed := range roles {
			if strings.EqualFold(role, allowed) {
				c.Next()
				return
			}
		}

		utils.RespondError(c, http.StatusForbidden, "Forbidden: insufficient permissions")
		c.Abort()
	}
}

// RequireDefaultAdmin allows only the single distinguished admin account
// (fixed email) through. This is a capability check on top of the role check.
func RequireDefaultAdmin(defaultAdminEmail string) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetString(ContextEmail)
		if !strings.EqualFold(email, defaultAdminEmail) {
			utils.RespondError(c, http.StatusForbidden, "Forbidden: default admin only")
			c.Abort()
			return
		}
		c.Next()
	}
}
