package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/insurance-crm/pkg/errors"
)

type listParams struct {
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"page_size" validate:"omitempty,min=1,max=100"`
	Range    string `form:"range" validate:"omitempty,oneof=30days 90days"`
	Status   string `json:"status" validate:"omitempty,status"`
}

func TestValidator_Validate(t *testing.T) {
	v := New()
	require.NoError(t, v.RegisterEnum("status", func(s string) bool { return s == "open" }))

	assert.NoError(t, v.Validate(listParams{Page: 1, PageSize: 10, Range: "30days", Status: "open"}))
	assert.NoError(t, v.Validate(listParams{}))

	err := v.Validate(listParams{Page: -1, PageSize: 500})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))
	assert.Contains(t, err.Error(), "page must be at least 1")
	assert.Contains(t, err.Error(), "page_size must be at most 100")

	err = v.Validate(listParams{Range: "2weeks", Status: "closed"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "range must be one of [30days 90days]")
	assert.Contains(t, err.Error(), "status is invalid")
}
