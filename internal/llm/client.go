// Package llm extracts structured product records from free-text
// descriptions through an OpenAI-compatible chat completions endpoint.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alvarogf/txt2woo/internal/product"
	"github.com/rs/zerolog"
)

// Extraction failures come in two flavours so callers can tell "the service
// answered but produced no usable product" from "the service never answered".
var (
	// ErrNoResult: the endpoint replied but returned no content, invalid
	// JSON, or a payload that fails record validation.
	ErrNoResult = errors.New("llm: no usable extraction result")
	// ErrUnavailable: transport failure or non-2xx response.
	ErrUnavailable = errors.New("llm: extraction service unavailable")
)

const systemPrompt = `You are an expert e-commerce assistant. Extract product details from the user's description into a structured JSON object that matches the following schema:

{
  "name": "string",
  "short_description": "string",
  "description": "string",
  "regular_price": "string",
  "sale_price": "string",
  "stock_quantity": number,
  "categories": ["string"],
  "tags": ["string"],
  "images": ["string"],
  "attributes": [{"name": "string", "value": "string", "visible": boolean, "variation": boolean}]
}

Infer missing details where reasonable. Ensure the response is valid JSON.`

// Client calls an OpenAI-compatible chat completion endpoint.
type Client struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int

	HTTPClient *http.Client
	Log        zerolog.Logger
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// ExtractRecord asks the model for a single JSON object describing the
// product and validates it against the record schema. Every failure mode is
// logged here; the caller only ever sees ErrNoResult or ErrUnavailable, and
// never a partial record.
func (c *Client) ExtractRecord(ctx context.Context, text string) (*product.Record, error) {
	if c.BaseURL == "" || c.Model == "" {
		return nil, fmt.Errorf("llm: base URL and model required")
	}

	payload, err := c.send(ctx, []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: text},
	})
	if err != nil {
		c.Log.Error().Err(err).Msg("extraction request failed")
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if len(payload.Choices) == 0 || payload.Choices[0].Message.Content == "" {
		c.Log.Warn().Msg("extraction returned no content")
		return nil, fmt.Errorf("%w: empty completion", ErrNoResult)
	}

	content := payload.Choices[0].Message.Content
	rec, err := product.FromJSON([]byte(content))
	if err != nil {
		c.Log.Warn().Err(err).Str("content", content).Msg("extraction output rejected")
		return nil, fmt.Errorf("%w: %v", ErrNoResult, err)
	}
	return rec, nil
}

func (c *Client) send(ctx context.Context, messages []chatMessage) (*chatResponse, error) {
	reqBody, err := json.Marshal(chatRequest{
		Model:          c.Model,
		Messages:       messages,
		Temperature:    c.Temperature,
		MaxTokens:      c.MaxTokens,
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("http %d", resp.StatusCode)
	}
	var payload chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if payload.Error != nil {
		return nil, fmt.Errorf("api error: %s", payload.Error.Message)
	}
	return &payload, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 60 * time.Second}
}
