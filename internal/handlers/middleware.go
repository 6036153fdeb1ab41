package handlers

import (
	"net/http"
	"storefront/internal/services"
	"strings"

	"github.com/gin-gonic/gin"
)

const adminClaimsKey = "admin"

// AdminAuth rejects requests without a valid admin bearer token.
func AdminAuth(auth services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No auth token, access denied"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}

		claims, err := auth.ParseToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token verification failed, access denied"})
			return
		}

		c.Set(adminClaimsKey, claims)
		c.Next()
	}
}
