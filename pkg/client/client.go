// Package client is a typed HTTP client for the /api/v1 endpoints. Collection
// List methods satisfy listsync.Fetcher.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/insurance-crm/internal/model"
	"github.com/jwalitptl/insurance-crm/internal/service/analytics"
	"github.com/jwalitptl/insurance-crm/internal/service/importer"
	"github.com/jwalitptl/insurance-crm/pkg/errors"
	"github.com/jwalitptl/insurance-crm/pkg/httputil"
)

const apiPrefix = "/api/v1"

type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope mirrors httputil.Response with the payload left undecoded.
type envelope struct {
	Status     string               `json:"status"`
	Message    string               `json:"message"`
	Data       json.RawMessage      `json:"data"`
	Pagination *httputil.Pagination `json:"pagination"`
}

// Collection is one record resource: T is the row, C the create payload and
// U the patch.
type Collection[T, C, U any] struct {
	c    *Client
	path string
}

func (c *Client) Insurance() *Collection[model.InsuranceRecord, model.CreateInsuranceInput, model.UpdateInsuranceInput] {
	return &Collection[model.InsuranceRecord, model.CreateInsuranceInput, model.UpdateInsuranceInput]{c: c, path: "/insurance"}
}

func (c *Client) Inbound() *Collection[model.InboundRecord, model.CreateInboundInput, model.UpdateInboundInput] {
	return &Collection[model.InboundRecord, model.CreateInboundInput, model.UpdateInboundInput]{c: c, path: "/inbound"}
}

func (c *Client) Calls() *Collection[model.Call, model.CreateCallInput, model.UpdateCallInput] {
	return &Collection[model.Call, model.CreateCallInput, model.UpdateCallInput]{c: c, path: "/calls"}
}

func (col *Collection[T, C, U]) List(ctx context.Context, q model.ListQuery) (model.Page[T], error) {
	params := url.Values{}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		params.Set("page_size", strconv.Itoa(q.PageSize))
	}
	if q.SearchTerm != "" {
		params.Set("search", q.SearchTerm)
	}

	var rows []T
	env, err := col.c.do(ctx, http.MethodGet, col.path, params, nil, &rows)
	if err != nil {
		return model.Page[T]{}, err
	}
	page := model.Page[T]{Rows: rows}
	if page.Rows == nil {
		page.Rows = []T{}
	}
	if env.Pagination != nil {
		page.Total = env.Pagination.Total
	}
	return page, nil
}

func (col *Collection[T, C, U]) Get(ctx context.Context, id uuid.UUID) (*T, error) {
	var out T
	if _, err := col.c.do(ctx, http.MethodGet, col.path+"/"+id.String(), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (col *Collection[T, C, U]) Create(ctx context.Context, in C) (*T, error) {
	var out T
	if _, err := col.c.do(ctx, http.MethodPost, col.path, nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (col *Collection[T, C, U]) Update(ctx context.Context, id uuid.UUID, patch U) (*T, error) {
	var out T
	if _, err := col.c.do(ctx, http.MethodPatch, col.path+"/"+id.String(), nil, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (col *Collection[T, C, U]) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := col.c.do(ctx, http.MethodDelete, col.path+"/"+id.String(), nil, nil, nil)
	return err
}

// DeleteAll removes every row of the collection and returns the count.
func (col *Collection[T, C, U]) DeleteAll(ctx context.Context) (int64, error) {
	var out struct {
		Deleted int64 `json:"deleted"`
	}
	params := url.Values{"confirm": {"true"}}
	if _, err := col.c.do(ctx, http.MethodDelete, col.path, params, nil, &out); err != nil {
		return 0, err
	}
	return out.Deleted, nil
}

// MarkCalled flags a pharmacy call task as called.
func (c *Client) MarkCalled(ctx context.Context, id uuid.UUID) (*model.Call, error) {
	var out model.Call
	if _, err := c.do(ctx, http.MethodPost, "/calls/"+id.String()+"/called", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Analytics fetches the dashboard for rangeParam (e.g. "90days").
func (c *Client) Analytics(ctx context.Context, rangeParam string, refresh bool) (*analytics.Dashboard, error) {
	params := url.Values{}
	if rangeParam != "" {
		params.Set("range", rangeParam)
	}
	if refresh {
		params.Set("refresh", "true")
	}
	var out analytics.Dashboard
	if _, err := c.do(ctx, http.MethodGet, "/analytics", params, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ImportInsurance uploads a CSV file as the multipart field "file".
func (c *Client) ImportInsurance(ctx context.Context, filename string, r io.Reader) (*importer.Result, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("failed to copy upload: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+apiPrefix+"/insurance/import", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var out importer.Result
	if _, err := c.send(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, out interface{}) (*envelope, error) {
	u := c.baseURL + apiPrefix + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out interface{}) (*envelope, error) {
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return nil, fromStatus(resp.StatusCode, "")
		}
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest || env.Status == httputil.StatusError {
		return nil, fromStatus(resp.StatusCode, env.Message)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("failed to decode data: %w", err)
		}
	}
	return &env, nil
}

// fromStatus rebuilds the server's error class so callers can use
// errors.Is and errors.DisplayMessage on client errors too.
func fromStatus(status int, message string) error {
	if message == "" {
		message = errors.GenericMessage
	}
	code := errors.ErrInternal
	switch status {
	case http.StatusBadRequest:
		code = errors.ErrValidation
	case http.StatusNotFound:
		code = errors.ErrNotFound
	case http.StatusConflict:
		code = errors.ErrConflict
	case http.StatusUnprocessableEntity:
		code = errors.ErrEmptyResult
	case http.StatusBadGateway:
		code = errors.ErrBackend
	}
	return &errors.AppError{Code: code, Message: message}
}
