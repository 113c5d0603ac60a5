package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/insurance-crm/pkg/httputil"
)

const DefaultTimeout = 30 * time.Second

// Timeout puts a deadline on the request context. Store calls observe it;
// when it expired and nothing was written yet the client gets a 504.
func Timeout(d time.Duration) gin.HandlerFunc {
	if d <= 0 {
		d = DefaultTimeout
	}
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded && !c.Writer.Written() {
			c.AbortWithStatusJSON(http.StatusGatewayTimeout, httputil.Response{
				Status:  httputil.StatusError,
				Message: "request timeout",
			})
		}
	}
}
