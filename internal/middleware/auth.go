package middleware

import (
	"net/http"
	"strings"

	"outsite-backend/internal/auth"
	"outsite-backend/internal/models"

	"github.com/gin-gonic/gin"
)

// RolePrefixes is the page-level allowlist: a role may only reach paths
// under its prefixes. Admin is unrestricted. This map is the binding
// authority; any client-side hiding of menus is advisory only.
var RolePrefixes = map[string][]string{
	models.RoleWarehouse: {
		"/api/me",
		"/api/products",
		"/api/purchases",
		"/api/sales-invoices",
		"/api/suppliers",
		"/api/buyers",
		"/api/repairman",
		"/api/bol-repairman",
		"/api/dashboard",
	},
	models.RoleMaintenance: {
		"/api/me",
		"/api/vehicles",
		"/api/sales-invoices",
		"/api/repairman",
		"/api/bol-repairman",
		"/api/upload",
	},
}

// AuthRequired checks the session cookie and stores the claims in the
// context for downstream handlers.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(auth.CookieName)
		if err != nil || tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		claims, err := auth.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("userID", claims.ID)
		c.Set("username", claims.Username)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// Authorize consults the role allowlist against the request path.
// Runs after AuthRequired.
func Authorize() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == models.RoleAdmin {
			c.Next()
			return
		}

		for _, prefix := range RolePrefixes[role] {
			if strings.HasPrefix(c.Request.URL.Path, prefix) {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
		c.Abort()
	}
}

// RequireRole guards individual routes that are narrower than the path
// allowlist, e.g. approval is admin-only inside /api/sales-invoices.
func RequireRole(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		for _, allowed := range allowedRoles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
		c.Abort()
	}
}
