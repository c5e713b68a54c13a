package httpstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aretw0/introspection"

	"github.com/aretw0/graft/pkg/core"
)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.hc = hc
	}
}

// Client is a core.Store talking to a remote graft-kv server.
type Client struct {
	base string
	hc   *http.Client
}

var _ core.Store = (*Client)(nil)

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		base: strings.TrimRight(baseURL, "/"),
		hc:   &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Put writes a value under key.
func (c *Client) Put(ctx context.Context, key string, value any) error {
	payload, err := EncodeValue(value)
	if err != nil {
		return err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	resp, err := c.do(ctx, http.MethodPut, c.keyURL(key), bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("put %q: unexpected status %s", key, resp.Status)
	}
	return nil
}

// Get retrieves the value under key. A 404 from the server is absence, not
// an error.
func (c *Client) Get(ctx context.Context, key string) (any, bool, error) {
	resp, err := c.do(ctx, http.MethodGet, c.keyURL(key), nil)
	if err != nil {
		return nil, false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("get %q: unexpected status %s", key, resp.Status)
	}
	var payload Payload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, false, fmt.Errorf("decode payload: %w", err)
	}
	v, err := payload.Decode()
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// Delete removes a key.
func (c *Client) Delete(ctx context.Context, key string) error {
	resp, err := c.do(ctx, http.MethodDelete, c.keyURL(key), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("delete %q: unexpected status %s", key, resp.Status)
	}
	return nil
}

// List returns all keys present on the server.
func (c *Client) List(ctx context.Context) ([]string, error) {
	resp, err := c.do(ctx, http.MethodGet, c.base+"/kv", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list: unexpected status %s", resp.Status)
	}
	var out keysResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode keys: %w", err)
	}
	return out.Keys, nil
}

// Clear removes every key on the server.
func (c *Client) Clear(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodPost, c.base+"/clear", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("clear: unexpected status %s", resp.Status)
	}
	return nil
}

func (c *Client) keyURL(key string) string {
	return c.base + "/kv/" + url.PathEscape(key)
}

func (c *Client) do(ctx context.Context, method, target string, body *bytes.Reader) (*http.Response, error) {
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, target, body)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, target, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, target, err)
	}
	return resp, nil
}

// ClientState exposes internal state for observability.
type ClientState struct {
	BaseURL string `json:"base_url"`
}

// State implements introspection.Introspectable.
func (c *Client) State() any {
	return ClientState{BaseURL: c.base}
}

// ComponentType implements introspection.Component.
func (c *Client) ComponentType() string {
	return "httpstore"
}

var _ introspection.Introspectable = (*Client)(nil)
var _ introspection.Component = (*Client)(nil)
