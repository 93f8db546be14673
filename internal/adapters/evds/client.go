package evds

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"evdsrates/internal/domain"
	"evdsrates/internal/query"
)

// apiKeyHeader carries the EVDS key; it is never placed in the query string.
const apiKeyHeader = "key"

// maxErrorBody bounds how much of a failed response is embedded in the error.
const maxErrorBody = 512

type Client struct {
	http         *http.Client
	baseEndpoint string
	apiKey       string
}

// URL is the request URL for spec, without credentials.
func (c *Client) URL(spec query.Spec) string {
	return c.baseEndpoint + "?" + spec.Params().Encode()
}

// Fetch requests the series of spec and returns the decoded JSON body,
// either a map[string]any or a []any.
func (c *Client) Fetch(ctx context.Context, spec query.Spec) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(spec), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", domain.ErrAPI, err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", domain.ErrAPI, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", domain.ErrAPI, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", domain.ErrAPI, resp.StatusCode, truncate(body))
	}

	payload, err := decode(body)
	if err != nil {
		return nil, err
	}

	if obj, ok := payload.(map[string]any); ok {
		if apiErr, found := obj["error"]; found {
			return nil, fmt.Errorf("%w: api returned error: %v", domain.ErrAPI, apiErr)
		}
	}

	return payload, nil
}

// decode accepts a JSON object or array; anything else is an API failure.
func decode(body []byte) (any, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || (trimmed[0] != '{' && trimmed[0] != '[') {
		return nil, fmt.Errorf("%w: response is not a JSON object or array: %s", domain.ErrAPI, truncate(body))
	}

	var payload any
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrAPI, err)
	}
	return payload, nil
}

func truncate(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBody {
		return s[:maxErrorBody] + "..."
	}
	return s
}

// NewClient fails with domain.ErrConfiguration when the key or endpoint is missing.
func NewClient(httpClient *http.Client, baseEndpoint, apiKey string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%w: EVDS API key is not set", domain.ErrConfiguration)
	}
	baseEndpoint = strings.TrimRight(strings.TrimSpace(baseEndpoint), "/")
	if baseEndpoint == "" {
		return nil, fmt.Errorf("%w: EVDS base endpoint is not set", domain.ErrConfiguration)
	}
	if _, err := url.ParseRequestURI(baseEndpoint); err != nil {
		return nil, fmt.Errorf("%w: invalid EVDS base endpoint %q: %v", domain.ErrConfiguration, baseEndpoint, err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{http: httpClient, baseEndpoint: baseEndpoint, apiKey: apiKey}, nil
}
