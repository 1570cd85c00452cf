package middleware

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
)

// requireRole builds a guard that checks the authenticated user's role
// against the database on every request, so a role change takes effect
// immediately without waiting for token expiry.
func requireRole(db *sql.DB, role string, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDRaw, exists := c.Get("userID")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}
		userID := userIDRaw.(int64)

		var userRole, status string
		err := db.QueryRow("SELECT role, status FROM users WHERE id = ?", userID).Scan(&userRole, &status)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify user role"})
			c.Abort()
			return
		}

		if status != "active" {
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is not active"})
			c.Abort()
			return
		}
		if userRole != role {
			c.JSON(http.StatusForbidden, gin.H{"error": message})
			c.Abort()
			return
		}

		c.Set("userRole", userRole)
		c.Next()
	}
}

// CustomerMiddleware restricts a route group to customers.
func CustomerMiddleware(db *sql.DB) gin.HandlerFunc {
	return requireRole(db, "customer", "This route is for customers only")
}

// PartnerMiddleware restricts a route group to gifting partners.
func PartnerMiddleware(db *sql.DB) gin.HandlerFunc {
	return requireRole(db, "partner", "This route is for partners only")
}

// AdminMiddleware restricts a route group to administrators.
func AdminMiddleware(db *sql.DB) gin.HandlerFunc {
	return requireRole(db, "administrator", "This route is for administrators only")
}
