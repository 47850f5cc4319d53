package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/duabook/duabook/internal/client/models"
	"github.com/duabook/duabook/internal/common"
)

// RESTClient implements Client over the backend's JSON/HTTP API. User-state
// endpoints are scoped under the device id, which is set once after
// identity provisioning.
type RESTClient struct {
	baseURL string
	http    *http.Client

	mu       sync.RWMutex
	deviceID string
}

// NewRESTClient returns a RESTClient for the given base URL. timeout
// bounds every request; a timed-out call surfaces as
// common.ErrUnavailable.
func NewRESTClient(baseURL string, timeout time.Duration) *RESTClient {
	return &RESTClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// SetDeviceID binds the client to the provisioned device identity. Must be
// called before any user-scoped operation.
func (c *RESTClient) SetDeviceID(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deviceID = id
}

func (c *RESTClient) device() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.deviceID
}

func (c *RESTClient) Close() error { return nil }

// do sends one JSON request and decodes the response into out (if out is
// non-nil). Transport failures map to common.ErrUnavailable, HTTP status
// classes map via mapStatus.
func (c *RESTClient) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		blob, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(blob)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if err := mapStatus(resp.StatusCode); err != nil {
		return err
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// mapStatus converts an HTTP status into the sentinel error taxonomy:
// 5xx behaves like a transport failure, 4xx is a server rejection.
func mapStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return common.ErrorNotFound
	case code >= 500:
		return common.ErrUnavailable
	default:
		return fmt.Errorf("%w: status %d", common.ErrRejected, code)
	}
}

func (c *RESTClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return c.do(ctx, http.MethodGet, "/ping", nil, nil)
}

func (c *RESTClient) RegisterDevice(ctx context.Context, deviceID string) error {
	body := map[string]string{"device_id": deviceID}
	return c.do(ctx, http.MethodPost, "/users", body, nil)
}

func (c *RESTClient) FetchDuas(ctx context.Context) ([]models.Dua, error) {
	var duas []models.Dua
	if err := c.do(ctx, http.MethodGet, "/users/"+c.device()+"/duas", nil, &duas); err != nil {
		return nil, err
	}
	return duas, nil
}

func (c *RESTClient) FetchDua(ctx context.Context, id string) (*models.Dua, error) {
	var dua models.Dua
	if err := c.do(ctx, http.MethodGet, "/duas/"+url.PathEscape(id), nil, &dua); err != nil {
		return nil, err
	}
	return &dua, nil
}

func (c *RESTClient) GenerateDua(ctx context.Context, description string) (*models.Dua, error) {
	var dua models.Dua
	body := map[string]string{"description": description}
	if err := c.do(ctx, http.MethodPost, "/duas", body, &dua); err != nil {
		return nil, err
	}
	if dua.ID == "" {
		return nil, fmt.Errorf("%w: response missing dua id", common.ErrRejected)
	}
	return &dua, nil
}

func (c *RESTClient) AddDua(ctx context.Context, duaID string) error {
	return c.do(ctx, http.MethodPost, "/users/"+c.device()+"/duas/"+url.PathEscape(duaID), nil, nil)
}

func (c *RESTClient) RemoveDua(ctx context.Context, duaID string) error {
	return c.do(ctx, http.MethodDelete, "/users/"+c.device()+"/duas/"+url.PathEscape(duaID), nil, nil)
}

type readCountResponse struct {
	DuaID string `json:"dua_id"`
	Count int    `json:"count"`
}

func (c *RESTClient) MarkRead(ctx context.Context, duaID string) (int, error) {
	var resp readCountResponse
	body := map[string]string{"dua_id": duaID}
	if err := c.do(ctx, http.MethodPut, "/users/"+c.device()+"/read_count", body, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

type readCountsPayload struct {
	Counts models.ReadCounts `json:"counts"`
}

func (c *RESTClient) FetchReadCounts(ctx context.Context) (models.ReadCounts, error) {
	var resp readCountsPayload
	if err := c.do(ctx, http.MethodGet, "/users/"+c.device()+"/read_counts", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Counts == nil {
		resp.Counts = models.ReadCounts{}
	}
	return resp.Counts, nil
}

func (c *RESTClient) UpdateReadCounts(ctx context.Context, deltas models.ReadCounts) (models.ReadCounts, error) {
	var resp readCountsPayload
	if err := c.do(ctx, http.MethodPut, "/users/"+c.device()+"/read_counts/batch", readCountsPayload{Counts: deltas}, &resp); err != nil {
		return nil, err
	}
	return resp.Counts, nil
}

func (c *RESTClient) Archive(ctx context.Context, duaID string) error {
	return c.do(ctx, http.MethodPost, "/users/"+c.device()+"/duas/"+url.PathEscape(duaID)+"/archive", nil, nil)
}

func (c *RESTClient) Unarchive(ctx context.Context, duaID string) error {
	return c.do(ctx, http.MethodPost, "/users/"+c.device()+"/duas/"+url.PathEscape(duaID)+"/unarchive", nil, nil)
}

type archiveBatchPayload struct {
	Actions []models.ArchiveAction `json:"actions"`
}

func (c *RESTClient) BatchArchive(ctx context.Context, actions []models.ArchiveAction) error {
	return c.do(ctx, http.MethodPost, "/users/"+c.device()+"/archive/batch", archiveBatchPayload{Actions: actions}, nil)
}

func (c *RESTClient) FetchArchived(ctx context.Context) ([]models.Dua, error) {
	var duas []models.Dua
	if err := c.do(ctx, http.MethodGet, "/users/"+c.device()+"/archived", nil, &duas); err != nil {
		return nil, err
	}
	return duas, nil
}

type deletionBatchPayload struct {
	Actions []models.DeletionAction `json:"actions"`
}

func (c *RESTClient) BatchDeletions(ctx context.Context, actions []models.DeletionAction) error {
	return c.do(ctx, http.MethodPost, "/users/"+c.device()+"/deletions/batch", deletionBatchPayload{Actions: actions}, nil)
}

func (c *RESTClient) FetchCollections(ctx context.Context) ([]models.Collection, error) {
	var cols []models.Collection
	if err := c.do(ctx, http.MethodGet, "/users/"+c.device()+"/collections", nil, &cols); err != nil {
		return nil, err
	}
	return cols, nil
}

func (c *RESTClient) CreateCollection(ctx context.Context, col *models.Collection) (*models.Collection, error) {
	var created models.Collection
	if err := c.do(ctx, http.MethodPost, "/users/"+c.device()+"/collections", col, &created); err != nil {
		return nil, err
	}
	if created.ID == "" {
		return nil, fmt.Errorf("%w: response missing collection id", common.ErrRejected)
	}
	return &created, nil
}

func (c *RESTClient) UpdateCollection(ctx context.Context, col *models.Collection) (*models.Collection, error) {
	var updated models.Collection
	if err := c.do(ctx, http.MethodPut, "/users/"+c.device()+"/collections/"+url.PathEscape(col.ID), col, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *RESTClient) DeleteCollection(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/users/"+c.device()+"/collections/"+url.PathEscape(id), nil, nil)
}

type collectionBatchPayload struct {
	Actions []models.CollectionAction `json:"actions"`
}

func (c *RESTClient) BatchCollections(ctx context.Context, actions []models.CollectionAction) error {
	return c.do(ctx, http.MethodPost, "/users/"+c.device()+"/collections/batch", collectionBatchPayload{Actions: actions}, nil)
}
