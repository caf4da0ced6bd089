package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const driverIdKey = "driverId"

func (h *Handler) driverIdMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing Authorization header",
		})
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid Authorization header format",
		})
		return
	}

	driverId, err := h.services.ParseToken(parts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	// store in Gin context
	c.Set(driverIdKey, driverId)
	c.Next()
}

// driverID reads the authenticated driver from the Gin context.
func driverID(c *gin.Context) int {
	return c.GetInt(driverIdKey)
}
