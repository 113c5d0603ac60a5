package inbound

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/insurance-crm/internal/handler"
	"github.com/jwalitptl/insurance-crm/internal/model"
	"github.com/jwalitptl/insurance-crm/internal/service/inbound"
	"github.com/jwalitptl/insurance-crm/pkg/errors"
	"github.com/jwalitptl/insurance-crm/pkg/httputil"
)

type Handler struct {
	service     inbound.InboundService
	maxPageSize int
}

func NewHandler(service inbound.InboundService, maxPageSize int) *Handler {
	return &Handler{service: service, maxPageSize: maxPageSize}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	records := r.Group("/inbound")
	{
		records.GET("", h.List)
		records.POST("", h.Create)
		records.DELETE("", h.DeleteAll)
		records.GET("/:id", h.Get)
		records.PATCH("/:id", h.Update)
		records.DELETE("/:id", h.Delete)
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
	var in model.CreateInboundInput
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

	var patch model.UpdateInboundInput
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
	httputil.RespondWithMessage(c, http.StatusOK, "inbound record deleted", nil)
}

func (h *Handler) DeleteAll(c *gin.Context) {
	if !handler.Confirmed(c) {
		httputil.RespondWithError(c, errors.NewValidation("deleting all records requires confirm=true"))
		return
	}

	n, err := h.service.DeleteAll(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, http.StatusOK, fmt.Sprintf("deleted %d records", n), gin.H{"deleted": n})
}
