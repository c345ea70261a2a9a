package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// newNotionImpl creates a new Notion implementation
func newNotionImpl(cfg Config) *notionImpl {
	return &notionImpl{
		apiKey:     cfg.APIKey,
		apiURL:     cfg.APIURL,
		version:    cfg.Version,
		httpClient: cfg.HTTPClient,
	}
}

// RetrieveDatabase fetches a database via GET /databases/{id}.
func (n *notionImpl) RetrieveDatabase(ctx context.Context, databaseID string) (*Database, error) {
	var db Database
	if err := n.do(ctx, http.MethodGet, "/databases/"+url.PathEscape(databaseID), nil, &db); err != nil {
		return nil, fmt.Errorf("notion: retrieve database: %w", err)
	}
	return &db, nil
}

// UpdateDatabase patches a database via PATCH /databases/{id}.
func (n *notionImpl) UpdateDatabase(ctx context.Context, databaseID string, req UpdateDatabaseRequest) (*Database, error) {
	var db Database
	if err := n.do(ctx, http.MethodPatch, "/databases/"+url.PathEscape(databaseID), req, &db); err != nil {
		return nil, fmt.Errorf("notion: update database: %w", err)
	}
	return &db, nil
}

// CreatePage creates a page via POST /pages.
func (n *notionImpl) CreatePage(ctx context.Context, req CreatePageRequest) (*Page, error) {
	var page Page
	if err := n.do(ctx, http.MethodPost, "/pages", req, &page); err != nil {
		return nil, fmt.Errorf("notion: create page: %w", err)
	}
	return &page, nil
}

// do sends one API call and decodes a 2xx body into out.
func (n *notionImpl) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, n.apiURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+n.apiKey)
	httpReq.Header.Set("Notion-Version", n.version)
	if in != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := n.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to call API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{}
		if json.Unmarshal(raw, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = string(raw)
		}
		apiErr.StatusCode = resp.StatusCode
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
