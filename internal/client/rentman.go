// Package client wraps the read endpoints of the rental-management REST API
// behind a uniform request+decode contract with bearer-token auth and a
// fixed-interval self-throttle shared across all request kinds.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/catourne/equipment-exporter/config"
	"github.com/catourne/equipment-exporter/internal/errors"
	"github.com/catourne/equipment-exporter/internal/model"
)

// TempStorageMarker flags non-retrievable, system-generated assets; file URLs
// containing it are excluded from downloads.
const TempStorageMarker = "rentman-tempstorage"

// userAgent identifies the exporter and its version on every request.
var userAgent = model.AppServiceName + "/" + model.CurrentVersion

// IsTempStorage reports whether the URL points at transient server storage.
func IsTempStorage(url string) bool {
	return strings.Contains(url, TempStorageMarker)
}

// Client is the HTTP client for the inventory API. All requests carry the
// bearer token and pass through a single shared limiter: the API imposes a
// hard requests-per-second ceiling, and the limiter enforces a minimum
// wall-clock interval between consecutive outbound requests regardless of
// endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	pageSize   int
	limiter    *rate.Limiter
	log        *slog.Logger
}

func New(cfg *config.APIConfig, token string, log *slog.Logger) *Client {
	var limiter *rate.Limiter
	if cfg.RequestInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.RequestInterval), 1)
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      token,
		pageSize:   cfg.PageSize,
		limiter:    limiter,
		log:        log.With(slog.String("component", "api_client")),
	}
}

// listResponse is the envelope of every collection endpoint.
type listResponse[T any] struct {
	Data []T `json:"data"`
}

// itemResponse is the envelope of every single-item endpoint.
type itemResponse[T any] struct {
	Data T `json:"data"`
}

// errorResponse is the body the API returns on non-success statuses.
type errorResponse struct {
	ErrorMessage string `json:"errorMessage"`
}

// do issues one throttled, authorized request. Every outbound request of the
// run funnels through here so the rate ceiling holds across endpoints.
func (c *Client) do(ctx context.Context, url string) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("throttle wait: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", url, err)
	}
	return resp, nil
}

// getJSON requests an API path and decodes the JSON body into out. Non-success
// statuses become an ApiError carrying the server-provided message.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.do(ctx, c.baseURL+path)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr errorResponse
		_ = json.Unmarshal(body, &apiErr)
		return errors.NewApiError(resp.StatusCode, apiErr.ErrorMessage)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// ListEquipment fetches the full equipment collection by requesting fixed-size
// pages at increasing offsets until a page returns fewer records than the page
// size. Any failed page aborts the listing; pages already fetched are
// discarded so the caller never sees a partial collection.
func (c *Client) ListEquipment(ctx context.Context) ([]model.EquipmentRecord, error) {
	var records []model.EquipmentRecord
	offset := 0

	for {
		c.log.DebugContext(ctx, "equipment_exporter.client.list_equipment_page",
			slog.Int("page", offset/c.pageSize+1),
			slog.Int("offset", offset),
		)

		var page listResponse[model.EquipmentRecord]
		path := fmt.Sprintf("/equipment?limit=%d&offset=%d", c.pageSize, offset)
		if err := c.getJSON(ctx, path, &page); err != nil {
			return nil, err
		}

		records = append(records, page.Data...)
		if len(page.Data) < c.pageSize {
			break
		}
		offset += c.pageSize
	}

	return records, nil
}

// GetEquipment fetches one record with the extended fields the listing call
// does not deliver.
func (c *Client) GetEquipment(ctx context.Context, id int64) (*model.EquipmentRecord, error) {
	var item itemResponse[model.EquipmentRecord]
	if err := c.getJSON(ctx, fmt.Sprintf("/equipment/%d", id), &item); err != nil {
		return nil, err
	}
	return &item.Data, nil
}

// GetEquipmentFiles fetches the ordered attachment list of one record.
func (c *Client) GetEquipmentFiles(ctx context.Context, id int64) ([]model.FileAsset, error) {
	var files listResponse[model.FileAsset]
	if err := c.getJSON(ctx, fmt.Sprintf("/equipment/%d/files", id), &files); err != nil {
		return nil, err
	}
	return files.Data, nil
}

// ListFolders fetches the category tree once per run, keyed by category id.
func (c *Client) ListFolders(ctx context.Context) (map[int64]model.Category, error) {
	var folders listResponse[model.Category]
	if err := c.getJSON(ctx, "/folders", &folders); err != nil {
		return nil, err
	}

	categories := make(map[int64]model.Category, len(folders.Data))
	for _, folder := range folders.Data {
		categories[folder.ID] = folder
	}
	return categories, nil
}

// Download fetches the byte content of an attachment URL. The caller owns the
// returned body. A non-success status is a per-file failure: the asset is
// logged and omitted, it never aborts the record.
func (c *Client) Download(ctx context.Context, url string) (io.ReadCloser, error) {
	resp, err := c.do(ctx, url)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, errors.NewApiError(resp.StatusCode, "download failed")
	}
	return resp.Body, nil
}

// CheckAuth probes the API with one cheap authenticated request and reports
// whether the configured token is accepted.
func (c *Client) CheckAuth(ctx context.Context) error {
	var probe listResponse[json.RawMessage]
	start := time.Now()
	if err := c.getJSON(ctx, "/contacts?limit=1", &probe); err != nil {
		return err
	}
	c.log.DebugContext(ctx, "equipment_exporter.client.auth_probe_ok",
		slog.Duration("took", time.Since(start)),
	)
	return nil
}
