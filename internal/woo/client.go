// Package woo talks to the WooCommerce REST API: taxonomy term
// resolution, image reachability checks and product creation.
package woo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

const userAgent = "txt2woo/1.0"

// Config holds the store connection settings.
type Config struct {
	BaseURL     string `json:"base_url"` // https://shop.example.com
	ConsumerKey string `json:"consumer_key"`
	ConsumerSec string `json:"consumer_secret"`
	Version     string `json:"api_version"` // default wc/v3
}

// Client is a WooCommerce REST client. The HTTP client is injectable so
// tests can point it at a stub server.
type Client struct {
	cfg  Config
	http *http.Client
	log  zerolog.Logger
}

func New(log zerolog.Logger, cfg Config, hc *http.Client) *Client {
	if cfg.Version == "" {
		cfg.Version = "wc/v3"
	}
	if hc == nil {
		hc = &http.Client{Timeout: 20 * time.Second}
	}
	return &Client{cfg: cfg, http: hc, log: log}
}

func (c *Client) endpoint(path string, query url.Values) (string, error) {
	base, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return "", fmt.Errorf("base url %q: %w", c.cfg.BaseURL, err)
	}
	base.Path = "/wp-json/" + c.cfg.Version + "/" + path
	if query != nil {
		base.RawQuery = query.Encode()
	}
	return base.String(), nil
}

// doJSON issues a request with Basic auth and decodes the JSON response
// into out. Non-2xx responses come back as *APIError carrying the decoded
// error body when there is one.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u, err := c.endpoint(path, query)
	if err != nil {
		return err
	}

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s %s: %w", method, path, err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.SetBasicAuth(c.cfg.ConsumerKey, c.cfg.ConsumerSec)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr.Body)
		return apiErr
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	return nil
}

// APIError is a non-2xx WooCommerce response with its decoded error body.
type APIError struct {
	Status int
	Body   ErrorBody
}

// ErrorBody is the WP REST error envelope. ResourceID is populated on
// term_exists conflicts and points at the already-existing term.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Status     int `json:"status"`
		ResourceID int `json:"resource_id"`
	} `json:"data"`
}

func (e *APIError) Error() string {
	if e.Body.Message != "" {
		return fmt.Sprintf("woo: http %d: %s (%s)", e.Status, e.Body.Message, e.Body.Code)
	}
	return fmt.Sprintf("woo: http %d", e.Status)
}
