package call

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/insurance-crm/internal/handler"
	"github.com/jwalitptl/insurance-crm/internal/model"
	"github.com/jwalitptl/insurance-crm/internal/service/call"
	"github.com/jwalitptl/insurance-crm/pkg/errors"
	"github.com/jwalitptl/insurance-crm/pkg/httputil"
)

type Handler struct {
	service     call.CallService
	maxPageSize int
}

func NewHandler(service call.CallService, maxPageSize int) *Handler {
	return &Handler{service: service, maxPageSize: maxPageSize}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	calls := r.Group("/calls")
	{
		calls.GET("", h.List)
		calls.POST("", h.Create)
		calls.DELETE("", h.DeleteAll)
		calls.GET("/:id", h.Get)
		calls.PATCH("/:id", h.Update)
		calls.DELETE("/:id", h.Delete)
		calls.POST("/:id/called", h.MarkCalled)
	}
}

func (h *Handler) List(c *gin.Context) {
	q, err := handler.BindListQuery(c, h.maxPageSize)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	page, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	handler.RespondWithPage(c, q, page)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := handler.ParseID(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	rec, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, rec)
}

func (h *Handler) Create(c *gin.Context) {
	var in model.CreateCallInput
	if err := handler.BindJSON(c, &in); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	rec, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, rec)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := handler.ParseID(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var patch model.UpdateCallInput
	if err := handler.BindJSON(c, &patch); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	rec, err := h.service.Update(c.Request.Context(), id, patch)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, rec)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := handler.ParseID(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, http.StatusOK, "call deleted", nil)
}

func (h *Handler) DeleteAll(c *gin.Context) {
	if !handler.Confirmed(c) {
		httputil.RespondWithError(c, errors.NewValidation("deleting all calls requires confirm=true"))
		return
	}

	n, err := h.service.DeleteAll(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, http.StatusOK, fmt.Sprintf("deleted %d calls", n), gin.H{"deleted": n})
}

// MarkCalled flags the call task as called.
func (h *Handler) MarkCalled(c *gin.Context) {
	id, err := handler.ParseID(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	task, err := h.service.MarkCalled(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, task)
}
