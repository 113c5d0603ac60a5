package middleware

import (
	"github.com/gin-gonic/gin"
)

// SecurityHeaders sets response headers for an API that serves personal
// data: no sniffing, no framing, and no caching by intermediaries.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "no-referrer")
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}
