// Package zep provides a document store driver for a Zep-style REST API.
package zep

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/stackpile/graphzep/pkg/store"
)

// Driver implements store.Driver against the Zep collections REST API.
type Driver struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// Config holds configuration for the Zep driver.
type Config struct {
	// URL is the Zep server base URL (e.g. "https://api.getzep.com").
	URL string

	// APIKey is sent as an Api-Key authorization header when non-empty.
	APIKey string

	// Timeout bounds every request. Defaults to 60s.
	Timeout time.Duration
}

// NewDriver creates a new Zep document store driver.
func NewDriver(c Config, logger *slog.Logger) (*Driver, error) {
	if c.URL == "" {
		return nil, fmt.Errorf("zep URL is required")
	}

	timeout := c.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	d := &Driver{
		baseURL: c.URL,
		apiKey:  c.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}

	logger.Info("configured zep store", "url", c.URL)

	return d, nil
}

// GetCollection fetches collection metadata by name.
func (d *Driver) GetCollection(ctx context.Context, name string) (*store.Collection, error) {
	url := fmt.Sprintf("%s/api/v2/collections/%s", d.baseURL, name)

	resp, err := d.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("collection %q: %w", name, store.ErrCollectionNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError("get collection", resp)
	}

	var col collectionResponse
	if err := json.NewDecoder(resp.Body).Decode(&col); err != nil {
		return nil, fmt.Errorf("decoding collection response: %w", err)
	}

	return &store.Collection{Name: col.Name, Metadata: col.Metadata}, nil
}

// CreateCollection creates a named collection.
func (d *Driver) CreateCollection(ctx context.Context, name string) error {
	url := fmt.Sprintf("%s/api/v2/collections", d.baseURL)

	body, err := json.Marshal(createCollectionRequest{Name: name})
	if err != nil {
		return fmt.Errorf("marshaling create request: %w", err)
	}

	resp, err := d.do(ctx, http.MethodPost, url, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return statusError("create collection", resp)
	}

	d.logger.Debug("created collection", "name", name)

	return nil
}

// DeleteCollection removes a named collection and its documents.
func (d *Driver) DeleteCollection(ctx context.Context, name string) error {
	url := fmt.Sprintf("%s/api/v2/collections/%s", d.baseURL, name)

	resp, err := d.do(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return statusError("delete collection", resp)
	}

	return nil
}

// AddDocuments stores documents in a collection.
func (d *Driver) AddDocuments(ctx context.Context, collection string, docs []store.Document) error {
	if len(docs) == 0 {
		return nil
	}

	url := fmt.Sprintf("%s/api/v2/collections/%s/documents", d.baseURL, collection)

	body, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("marshaling documents: %w", err)
	}

	resp, err := d.do(ctx, http.MethodPost, url, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return statusError("add documents", resp)
	}

	d.logger.Debug("added documents", "collection", collection, "count", len(docs))

	return nil
}

// GetDocument retrieves one document by id.
func (d *Driver) GetDocument(ctx context.Context, collection, id string) (*store.Document, error) {
	url := fmt.Sprintf("%s/api/v2/collections/%s/documents/%s", d.baseURL, collection, id)

	resp, err := d.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("document %q: %w", id, store.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError("get document", resp)
	}

	var doc store.Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding document response: %w", err)
	}

	return &doc, nil
}

// DeleteDocuments removes documents by id. The Zep API shape is a batch
// delete endpoint, one request for all ids.
func (d *Driver) DeleteDocuments(ctx context.Context, collection string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	url := fmt.Sprintf("%s/api/v2/collections/%s/documents/delete", d.baseURL, collection)

	body, err := json.Marshal(deleteDocumentsRequest{IDs: ids})
	if err != nil {
		return fmt.Errorf("marshaling delete request: %w", err)
	}

	resp, err := d.do(ctx, http.MethodPost, url, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return statusError("delete documents", resp)
	}

	d.logger.Debug("deleted documents", "collection", collection, "count", len(ids))

	return nil
}

// Semantic runs a semantic search over a collection. The response body is
// decoded into an untyped value; the caller's normalizer deals with shape
// drift between backend versions.
func (d *Driver) Semantic(ctx context.Context, collection string, payload store.SearchPayload) (any, error) {
	url := fmt.Sprintf("%s/api/v2/collections/%s/search", d.baseURL, collection)

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling search payload: %w", err)
	}

	resp, err := d.do(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("search", resp)
	}

	var result any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	return result, nil
}

// Close releases resources held by the driver.
func (d *Driver) Close() error {
	// HTTP client doesn't require explicit cleanup
	return nil
}

// do builds and sends one request with auth and content-type headers set.
func (d *Driver) do(ctx context.Context, method, url string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("creating %s request: %w", method, err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if d.apiKey != "" {
		req.Header.Set("Authorization", "Api-Key "+d.apiKey)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending %s request: %w: %w", method, store.ErrConnection, err)
	}

	return resp, nil
}

func statusError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	return fmt.Errorf("failed to %s: status %d: %s", op, resp.StatusCode, string(body))
}
