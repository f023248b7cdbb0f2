// Package registry is the client for the external customer registry service.
// The registry is the source of truth for customer records: imports push
// deduplicated customer data to its bulk-upsert endpoint and read back the
// canonical record ids used as instance owner references.
package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/muhammad-arief-rahman/proyek-akhir-unit-service/config"
)

// Customer is the payload sent to the registry's bulk-upsert endpoint.
type Customer struct {
	OrganizationID string `json:"organizationId"`
	Name           string `json:"name"`
	Industry       string `json:"industry"`
	SubGroup       string `json:"subGroup"`
}

// CustomerRecord is a canonical customer as stored by the registry. ID is the
// registry-issued record id referenced by unit instances.
type CustomerRecord struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organizationId"`
	Name           string `json:"name"`
	Industry       string `json:"industry"`
	SubGroup       string `json:"subGroup"`
}

type listResponse struct {
	Data []CustomerRecord `json:"data"`
}

// UpstreamError reports a failed call to the customer registry, either a
// non-2xx response (StatusCode set) or a transport failure (Err set). The
// import orchestrator treats it as fatal to the whole batch.
type UpstreamError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("customer registry %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("customer registry %s returned status %d", e.Op, e.StatusCode)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Client talks to the customer registry over HTTP. It is request-scoped from
// the caller's point of view: the bearer token of the originating request is
// forwarded on every call, alongside the service-to-service shared secret.
type Client struct {
	baseURL       string
	serviceSecret string
	client        *http.Client
}

// NewClient creates a customer registry client from configuration.
func NewClient(cfg *config.RegistryConfig) *Client {
	return &Client{
		baseURL:       cfg.BaseURL,
		serviceSecret: cfg.ServiceSecret,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// StoreCustomers pushes a deduplicated customer batch to the registry's
// bulk-upsert endpoint. Delivery is at-least-once; the registry upsert is
// idempotent on organization id.
func (c *Client) StoreCustomers(ctx context.Context, token string, customers []Customer) error {
	jsonBody, err := json.Marshal(customers)
	if err != nil {
		return fmt.Errorf("failed to marshal customer payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/data/store", bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Service-Secret", c.serviceSecret)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return &UpstreamError{Op: "store", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &UpstreamError{Op: "store", StatusCode: resp.StatusCode}
	}
	return nil
}

// ListCustomers fetches the registry's current canonical customer list.
func (c *Client) ListCustomers(ctx context.Context, token string) ([]CustomerRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/data", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &UpstreamError{Op: "list", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{Op: "list", StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var listResp listResponse
	if err := json.Unmarshal(body, &listResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal customer list: %w", err)
	}
	return listResp.Data, nil
}
