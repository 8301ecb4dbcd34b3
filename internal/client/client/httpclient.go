package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/ysemenov/coinkeeper/internal/client/models"
)

// HTTPClient implements Client over the server's JSON API.
type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu    sync.Mutex
	token string
}

// NewHTTPClient builds a client for the given base URL, e.g.
// "http://127.0.0.1:8080".
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// do sends a JSON request and decodes the JSON response into out (if out is
// non-nil). HTTP-level failures map to the package sentinel errors.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("request encoding error: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("request creation error: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServerUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusConflict:
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("%w: %s", ErrBadRequest, apiErr.Error)
		}
		return ErrBadRequest
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", ErrServerUnavailable, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("response decoding error: %w", err)
		}
	}
	return nil
}

func (c *HTTPClient) Register(ctx context.Context, username, password string) error {
	body := map[string]string{"username": username, "password": password}
	return c.do(ctx, http.MethodPost, "/api/register", body, nil)
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	body := map[string]string{"username": username, "password": password}
	var pair TokenPair
	if err := c.do(ctx, http.MethodPost, "/api/login", body, &pair); err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}
	return &pair, nil
}

func (c *HTTPClient) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	body := map[string]string{"refreshToken": refreshToken}
	var pair TokenPair
	if err := c.do(ctx, http.MethodPost, "/api/refresh", body, &pair); err != nil {
		return nil, fmt.Errorf("refresh error: %w", err)
	}
	return &pair, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/ping", nil, nil)
}

func (c *HTTPClient) ListRecords(ctx context.Context, kind models.Kind) ([]models.Record, error) {
	path := "/api/records"
	if kind != "" {
		path += "?kind=" + url.QueryEscape(string(kind))
	}
	var recs []models.Record
	if err := c.do(ctx, http.MethodGet, path, nil, &recs); err != nil {
		return nil, fmt.Errorf("list records error: %w", err)
	}
	return recs, nil
}

func (c *HTTPClient) CreateRecord(ctx context.Context, rec *models.Record) (*models.Record, error) {
	var created models.Record
	if err := c.do(ctx, http.MethodPost, "/api/records", rec, &created); err != nil {
		return nil, fmt.Errorf("create record error: %w", err)
	}
	return &created, nil
}

func (c *HTTPClient) UpdateRecord(ctx context.Context, rec *models.Record) error {
	if err := c.do(ctx, http.MethodPut, "/api/records/"+url.PathEscape(rec.ID), rec, nil); err != nil {
		return fmt.Errorf("update record error: %w", err)
	}
	return nil
}

func (c *HTTPClient) DeleteRecord(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/records/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("delete record error: %w", err)
	}
	return nil
}
