// Package handler holds request parsing shared by the resource handlers.
package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/insurance-crm/internal/model"
	"github.com/jwalitptl/insurance-crm/pkg/errors"
	"github.com/jwalitptl/insurance-crm/pkg/httputil"
	"github.com/jwalitptl/insurance-crm/pkg/validator"
)

var v = validator.New()

// ListParams are the query parameters of every listing endpoint.
type ListParams struct {
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"page_size" validate:"omitempty,min=1"`
	Search   string `form:"search" validate:"max=200"`
}

// BindListQuery reads page, page_size and search. Absent values fall back to
// the listing defaults and page_size is capped at maxPageSize.
func BindListQuery(c *gin.Context, maxPageSize int) (model.ListQuery, error) {
	var p ListParams
	if err := c.ShouldBindQuery(&p); err != nil {
		return model.ListQuery{}, errors.NewValidation("page and page_size must be integers")
	}
	if err := v.Validate(p); err != nil {
		return model.ListQuery{}, err
	}
	q := model.ListQuery{Page: p.Page, PageSize: p.PageSize, SearchTerm: p.Search}
	return q.Normalize(maxPageSize), nil
}

// ParseID reads the :id path parameter.
func ParseID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, errors.NewValidation("invalid id")
	}
	return id, nil
}

// BindJSON decodes the request body.
func BindJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return errors.NewValidation("invalid request body: " + err.Error())
	}
	return nil
}

// Confirmed reports whether ?confirm=true was sent.
func Confirmed(c *gin.Context) bool {
	ok, _ := strconv.ParseBool(c.Query("confirm"))
	return ok
}

// RespondWithPage writes a listing with its pagination block.
func RespondWithPage[T any](c *gin.Context, q model.ListQuery, page model.Page[T]) {
	rows := page.Rows
	if rows == nil {
		rows = []T{}
	}
	httputil.RespondWithPagination(c, rows, httputil.NewPagination(q.Page, q.PageSize, page.Total))
}
