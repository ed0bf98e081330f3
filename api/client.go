// Package api is the typed client for the FarmaPlex REST API. Every call
// goes through the HTTP client built by the root package, so credential
// attachment and expiry detection happen here for free; services never look
// at status codes themselves. A non-2xx response that is not an
// authentication failure surfaces as an [*APIError]; a rejected credential
// surfaces as the transport's session-expired error.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// Client talks to one FarmaPlex backend. Construct it with New; the
// service fields are ready to use afterward.
type Client struct {
	baseURL string
	hc      *http.Client
	log     *slog.Logger

	Auth          *AuthService
	Products      *ProductService
	Sales         *SaleService
	Users         *UserService
	Subscriptions *SubscriptionService
	Movements     *MovementService
	Roles         *RoleService
	Suppliers     *SupplierService
}

// New returns a Client for baseURL using hc for every exchange. hc should
// wrap the session transport; a nil hc falls back to http.DefaultClient
// (no credential handling). A nil logger falls back to slog.Default.
func New(baseURL string, hc *http.Client, log *slog.Logger) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	if log == nil {
		log = slog.Default()
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      hc,
		log:     log,
	}
	c.Auth = &AuthService{c: c}
	c.Products = &ProductService{c: c}
	c.Sales = &SaleService{c: c}
	c.Users = &UserService{c: c}
	c.Subscriptions = &SubscriptionService{c: c}
	c.Movements = &MovementService{c: c}
	c.Roles = &RoleService{c: c}
	c.Suppliers = &SupplierService{c: c}
	return c
}

// APIError is a non-2xx, non-auth response from the backend, passed through
// to the caller unchanged apart from decoding.
type APIError struct {
	Status  int
	Reason  string `json:"error"`
	Message string `json:"mensaje"`
	Path    string `json:"path"`
}

// Error formats the failure with whatever detail the backend provided.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d %s: %s", e.Status, e.Reason, e.Message)
	}
	return fmt.Sprintf("api: status %d", e.Status)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		rdr = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		// Session expiry and transport failures arrive here; both are
		// already distinguishable with errors.Is, so pass them on.
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := &APIError{Status: resp.StatusCode}
		if decodeErr := json.NewDecoder(resp.Body).Decode(apiErr); decodeErr != nil {
			c.log.Debug("undecodable error body", "status", resp.StatusCode, "err", decodeErr)
		}
		apiErr.Status = resp.StatusCode
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) patch(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodPatch, path, nil, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}
