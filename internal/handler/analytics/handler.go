package analytics

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/insurance-crm/internal/service/analytics"
	"github.com/jwalitptl/insurance-crm/pkg/errors"
	"github.com/jwalitptl/insurance-crm/pkg/httputil"
)

type Dashboarder interface {
	Dashboard(ctx context.Context, rangeParam string, refresh bool) (*analytics.Dashboard, error)
}

type Handler struct {
	service Dashboarder
}

func NewHandler(service Dashboarder) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/analytics", h.Dashboard)
}

// Dashboard serves GET /analytics?range=90days&refresh=true.
func (h *Handler) Dashboard(c *gin.Context) {
	refresh := false
	if raw := c.Query("refresh"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			httputil.RespondWithError(c, errors.NewValidation("refresh must be true or false"))
			return
		}
		refresh = b
	}

	d, err := h.service.Dashboard(c.Request.Context(), c.Query("range"), refresh)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, d)
}
