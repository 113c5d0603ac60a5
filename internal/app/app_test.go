package app

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/insurance-crm/internal/config"
	"github.com/jwalitptl/insurance-crm/internal/handler/health"
	"github.com/jwalitptl/insurance-crm/internal/repository/memory"
	"github.com/jwalitptl/insurance-crm/pkg/cache"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Status     string          `json:"status"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Pagination *struct {
		Page       int   `json:"page"`
		PageSize   int   `json:"page_size"`
		Total      int64 `json:"total"`
		TotalPages int   `json:"total_pages"`
	} `json:"pagination"`
}

type failingPinger struct{}

func (failingPinger) PingContext(context.Context) error { return stderrors.New("connection refused") }

func newTestApp(t *testing.T, checks map[string]health.Pinger) *App {
	t.Helper()
	cfg := config.Default()
	cfg.RateLimit.Enabled = false
	return New(cfg, Deps{
		Stores: Stores{
			Insurance: memory.NewInsuranceRepository(),
			Inbound:   memory.NewInboundRepository(),
			Calls:     memory.NewCallRepository(),
			Checks:    checks,
		},
		Cache: cache.NewMemory(cfg.Cache.TTL, nil),
	})
}

func do(t *testing.T, a *App, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func insuranceBody(name string) map[string]interface{} {
	return map[string]interface{}{
		"name":              name,
		"phone_number":      "555-0100",
		"member_id":         "M-" + name,
		"insurance_company": "Delta Dental",
		"deductible":        "$50.00",
	}
}

func TestInsuranceLifecycle(t *testing.T) {
	a := newTestApp(t, nil)

	w, env := do(t, a, http.MethodPost, "/api/v1/insurance", insuranceBody("Jane"))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "1.0", w.Header().Get("X-API-Version"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	var created struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		CalledStatus string `json:"called_status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "Jane", created.Name)
	assert.Equal(t, "not called", created.CalledStatus)

	w, _ = do(t, a, http.MethodGet, "/api/v1/insurance/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = do(t, a, http.MethodPatch, "/api/v1/insurance/"+created.ID, map[string]interface{}{"called_status": "call succeeded"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "call succeeded", created.CalledStatus)

	w, _ = do(t, a, http.MethodDelete, "/api/v1/insurance/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = do(t, a, http.MethodGet, "/api/v1/insurance/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "error", env.Status)
}

func TestInsuranceErrors(t *testing.T) {
	a := newTestApp(t, nil)

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		want   int
	}{
		{"missing mandatory", http.MethodPost, "/api/v1/insurance", map[string]interface{}{"name": "x"}, http.StatusBadRequest},
		{"bad id", http.MethodGet, "/api/v1/insurance/not-a-uuid", nil, http.StatusBadRequest},
		{"bad page", http.MethodGet, "/api/v1/insurance?page=abc", nil, http.StatusBadRequest},
		{"delete all unconfirmed", http.MethodDelete, "/api/v1/insurance", nil, http.StatusBadRequest},
		{"unknown route", http.MethodGet, "/api/v1/nope", nil, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := do(t, a, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestInsuranceListPaginationAndSearch(t *testing.T) {
	a := newTestApp(t, nil)
	for _, n := range []string{"Alice", "Bob", "Carol", "Alicia", "Dan"} {
		w, _ := do(t, a, http.MethodPost, "/api/v1/insurance", insuranceBody(n))
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w, env := do(t, a, http.MethodGet, "/api/v1/insurance?page=2&page_size=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, int64(5), env.Pagination.Total)
	assert.Equal(t, 3, env.Pagination.TotalPages)
	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	assert.Len(t, rows, 2)

	_, env = do(t, a, http.MethodGet, "/api/v1/insurance?search=%20ali%20", nil)
	assert.Equal(t, int64(2), env.Pagination.Total)

	_, env = do(t, a, http.MethodGet, "/api/v1/insurance?search=zzz", nil)
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	assert.Empty(t, rows)
	assert.Equal(t, "[]", string(env.Data))

	w, env = do(t, a, http.MethodDelete, "/api/v1/insurance?confirm=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "deleted 5 records", env.Message)
}

func upload(t *testing.T, a *App, csv string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "records.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(csv))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/insurance/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestImportThenAnalytics(t *testing.T) {
	a := newTestApp(t, nil)

	_, env := do(t, a, http.MethodGet, "/api/v1/analytics", nil)
	var before struct {
		Range        string `json:"range"`
		SnapshotSize int    `json:"snapshot_size"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &before))
	assert.Equal(t, "90days", before.Range)
	assert.Zero(t, before.SnapshotSize)

	csv := "Name,Phone Number,Member ID,Insurance Company,Deductible\n" +
		"Jane,555-0100,M1,Delta,$50\n" +
		"John,555-0101,,Delta,$75\n" +
		"Jim,555-0102,M3,Aetna,100\n"
	w, env := upload(t, a, csv)
	require.Equal(t, http.StatusOK, w.Code)
	var res struct {
		Imported int `json:"imported"`
		Skipped  int `json:"skipped"`
		Total    int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 3, res.Total)

	// the import invalidated the cached snapshot
	_, env = do(t, a, http.MethodGet, "/api/v1/analytics?range=30days", nil)
	var after struct {
		SnapshotSize int `json:"snapshot_size"`
		Summary      struct {
			TotalRecords int `json:"total_records"`
		} `json:"summary"`
		Companies []struct {
			Name  string `json:"name"`
			Value int    `json:"value"`
		} `json:"companies"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &after))
	assert.Equal(t, 2, after.SnapshotSize)
	assert.Equal(t, 2, after.Summary.TotalRecords)
	require.Len(t, after.Companies, 2)

	w, _ = do(t, a, http.MethodGet, "/api/v1/analytics?range=forever", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = do(t, a, http.MethodGet, "/api/v1/analytics?refresh=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImportEmptyResult(t *testing.T) {
	a := newTestApp(t, nil)

	w, env := upload(t, a, "name,phone_number,member_id\n,,\nx,,\n")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "error", env.Status)

	w, _ = upload(t, a, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInboundAndCalls(t *testing.T) {
	a := newTestApp(t, nil)

	w, env := do(t, a, http.MethodPost, "/api/v1/inbound", map[string]interface{}{
		"appointment_number": "A-1",
		"appointment_date":   "2024-05-01",
		"type":               "New",
		"dob":                "1990-01-01",
		"phone":              "555-0100",
		"address":            "1 Main St",
		"insurance_policy":   false,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var in struct {
		CallStatus         string `json:"call_status"`
		CallTransferStatus string `json:"call_transfer_status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &in))
	assert.Equal(t, "not_called", in.CallStatus)
	assert.Equal(t, "not_transferred", in.CallTransferStatus)

	w, _ = do(t, a, http.MethodPost, "/api/v1/inbound", map[string]interface{}{"type": "Walk-in"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = do(t, a, http.MethodPost, "/api/v1/calls", map[string]interface{}{
		"pharmacy":    "Main Street Pharmacy",
		"drug":        "Amoxicillin",
		"phonenumber": "555-0199",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var call struct {
		ID         string `json:"id"`
		CallStatus string `json:"call_status"`
		Status     string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &call))
	assert.Equal(t, "Not Called", call.CallStatus)
	assert.Equal(t, "Failed", call.Status)

	w, env = do(t, a, http.MethodPost, "/api/v1/calls/"+call.ID+"/called", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &call))
	assert.Equal(t, "Called", call.CallStatus)
}

func TestHealth(t *testing.T) {
	a := newTestApp(t, nil)
	w, _ := do(t, a, http.MethodGet, "/api/v1/health/live", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = do(t, a, http.MethodGet, "/api/v1/health/ready", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	down := newTestApp(t, map[string]health.Pinger{"database": failingPinger{}})
	w, _ = do(t, down, http.MethodGet, "/api/v1/health/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}

func TestMetricsEndpoint(t *testing.T) {
	a := newTestApp(t, nil)
	do(t, a, http.MethodGet, "/api/v1/insurance", nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health/metrics", nil)
	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "insurance_crm_http_requests_total")
	assert.Contains(t, w.Body.String(), "insurance_crm_store_operations_total")
}
