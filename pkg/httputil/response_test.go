package httputil

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/insurance-crm/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 10, 21)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 0, NewPagination(1, 10, 0).TotalPages)
}

func TestRespondWithError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"validation", errors.NewValidation("name is required"), http.StatusBadRequest, "name is required"},
		{"not found", errors.NewNotFound("insurance record", nil), http.StatusNotFound, "insurance record not found"},
		{"empty import", errors.NewEmptyResult("no valid records to import"), http.StatusUnprocessableEntity, "no valid records to import"},
		{"backend", errors.NewBackend(stderrors.New("pq: connection refused")), http.StatusBadGateway, "pq: connection refused"},
		{"plain error", stderrors.New("secret detail"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			RespondWithError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, StatusError, resp.Status)
			assert.Equal(t, tt.wantMsg, resp.Message)
			assert.True(t, c.IsAborted())
		})
	}
}

func TestRespondWithPagination(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondWithPagination(c, []string{"a"}, NewPagination(1, 10, 1))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, []interface{}{"a"}, body["data"])
	pagination := body["pagination"].(map[string]interface{})
	assert.Equal(t, float64(1), pagination["total_pages"])
}
