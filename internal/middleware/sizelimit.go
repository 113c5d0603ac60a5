package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/insurance-crm/pkg/httputil"
)

// SizeLimitConfig caps request bodies. Multipart uploads get the larger
// MaxUploadSize.
type SizeLimitConfig struct {
	MaxBodySize   int64
	MaxUploadSize int64
}

func SizeLimit(config SizeLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := config.MaxBodySize
		if strings.HasPrefix(c.ContentType(), "multipart/") {
			limit = config.MaxUploadSize
		}
		if limit <= 0 || c.Request.Body == nil {
			c.Next()
			return
		}

		if c.Request.ContentLength > limit {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, httputil.Response{
				Status:  httputil.StatusError,
				Message: fmt.Sprintf("request body exceeds %d bytes", limit),
			})
			return
		}

		// Multipart parsing reserves some bytes for boundaries and headers.
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+4096)
		c.Next()
	}
}
