package insurance

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/insurance-crm/internal/handler"
	"github.com/jwalitptl/insurance-crm/internal/model"
	"github.com/jwalitptl/insurance-crm/internal/service/importer"
	"github.com/jwalitptl/insurance-crm/internal/service/insurance"
	"github.com/jwalitptl/insurance-crm/pkg/errors"
	"github.com/jwalitptl/insurance-crm/pkg/httputil"
)

const uploadField = "file"

type Importer interface {
	Import(ctx context.Context, r io.Reader) (*importer.Result, error)
}

type Handler struct {
	service     insurance.InsuranceService
	importer    Importer
	maxPageSize int
}

func NewHandler(service insurance.InsuranceService, imp Importer, maxPageSize int) *Handler {
	return &Handler{
		service:     service,
		importer:    imp,
		maxPageSize: maxPageSize,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	records := r.Group("/insurance")
	{
		records.GET("", h.List)
		records.POST("", h.Create)
		records.DELETE("", h.DeleteAll)
		records.POST("/import", h.Import)
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
	var in model.CreateInsuranceInput
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

	var patch model.UpdateInsuranceInput
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
	httputil.RespondWithMessage(c, http.StatusOK, "insurance record deleted", nil)
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

// Import accepts a CSV upload in the multipart field "file".
func (h *Handler) Import(c *gin.Context) {
	file, err := c.FormFile(uploadField)
	if err != nil {
		httputil.RespondWithError(c, errors.NewParse("a CSV file is required in the \"file\" field", err))
		return
	}
	f, err := file.Open()
	if err != nil {
		httputil.RespondWithError(c, errors.NewParse("failed to open upload", err))
		return
	}
	defer f.Close()

	res, err := h.importer.Import(c.Request.Context(), f)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, http.StatusOK, res.Message, res)
}
