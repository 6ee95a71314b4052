package gemkit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// DefaultBaseURL is the default API endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com"

// DefaultModel is used when a builder does not name a model.
const DefaultModel = "gemini-2.5-flash"

// DefaultEmbeddingModel is used by embedding builders that do not name a
// model.
const DefaultEmbeddingModel = "text-embedding-004"

const apiPath = "/v1beta"

// Config holds client configuration.
type Config struct {
	// APIKey authenticates every request (required).
	APIKey Secret

	// BaseURL is the API base URL. Defaults to DefaultBaseURL.
	BaseURL string

	// Model is the default model for generation builders.
	Model string

	// HTTPClient performs the actual transport. Defaults to
	// http.DefaultClient; connection pooling, TLS, proxies, and timeouts
	// are its concern, not the client's.
	HTTPClient *http.Client

	// Headers contains optional extra headers to include in requests.
	Headers http.Header

	// Telemetry observes request lifecycle events. Defaults to
	// NoopTelemetryHook.
	Telemetry TelemetryHook
}

// Option configures the client.
type Option func(*Config)

// WithBaseURL sets the API base URL.
func WithBaseURL(u string) Option {
	return func(c *Config) {
		c.BaseURL = strings.TrimSuffix(u, "/")
	}
}

// WithModel sets the default generation model.
func WithModel(model string) Option {
	return func(c *Config) {
		c.Model = model
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Config) {
		c.HTTPClient = client
	}
}

// WithHeader adds an extra header to include in every request.
func WithHeader(key, value string) Option {
	return func(c *Config) {
		if c.Headers == nil {
			c.Headers = make(http.Header)
		}
		c.Headers.Set(key, value)
	}
}

// Client issues requests to the Gemini API. Client is safe for concurrent
// use; independent requests share no mutable state.
type Client struct {
	config    Config
	telemetry TelemetryHook
}

// New creates a client with the given API key and options.
func New(apiKey string, opts ...Option) *Client {
	cfg := Config{
		APIKey:     NewSecret(apiKey),
		BaseURL:    DefaultBaseURL,
		Model:      DefaultModel,
		HTTPClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Telemetry == nil {
		cfg.Telemetry = NoopTelemetryHook{}
	}
	return &Client{config: cfg, telemetry: cfg.Telemetry}
}

// WithTelemetry installs an observation hook.
func WithTelemetry(h TelemetryHook) Option {
	return func(c *Config) {
		c.Telemetry = h
	}
}

// buildHeaders constructs the headers for an API request.
func (c *Client) buildHeaders() http.Header {
	headers := make(http.Header)
	headers.Set("x-goog-api-key", c.config.APIKey.Expose())
	headers.Set("Content-Type", "application/json")
	for key, values := range c.config.Headers {
		for _, v := range values {
			headers.Add(key, v)
		}
	}
	return headers
}

// qualifyModel prepends the "models/" collection prefix when the caller
// passed a bare model ID.
func qualifyModel(model string) string {
	if strings.Contains(model, "/") {
		return model
	}
	return "models/" + model
}

// modelURL builds "{base}/v1beta/models/{model}:{verb}".
func (c *Client) modelURL(model, verb string) string {
	return fmt.Sprintf("%s%s/%s:%s", c.config.BaseURL, apiPath, qualifyModel(model), verb)
}

// resourceURL builds "{base}/v1beta/{path}" for named resources such as
// "files/abc" or "batches/xyz".
func (c *Client) resourceURL(path string) string {
	return c.config.BaseURL + apiPath + "/" + strings.TrimPrefix(path, "/")
}

// listQuery appends pageSize/pageToken query parameters.
func listQuery(u string, pageSize int, pageToken string) string {
	params := url.Values{}
	if pageSize > 0 {
		params.Set("pageSize", strconv.Itoa(pageSize))
	}
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}
	if len(params) == 0 {
		return u
	}
	return u + "?" + params.Encode()
}

// roundTrip performs one JSON exchange: marshal in (when non-nil), check
// the status, decode into out (when non-nil). All error taxonomy mapping
// happens here.
func (c *Client) roundTrip(ctx context.Context, method, u string, in, out any) error {
	var body io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return newDecodeError(err, nil)
		}
		body = bytes.NewReader(encoded)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return newTransportError(err)
	}
	for key, values := range c.buildHeaders() {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}

	resp, err := c.config.HTTPClient.Do(httpReq)
	if err != nil {
		return newTransportError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return newTransportError(err)
	}

	if resp.StatusCode >= 400 {
		return normalizeAPIError(resp.StatusCode, respBody)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return newDecodeError(err, respBody)
		}
	}
	return nil
}

// postJSON posts a JSON body and decodes the JSON response.
func (c *Client) postJSON(ctx context.Context, u string, in, out any) error {
	return c.roundTrip(ctx, http.MethodPost, u, in, out)
}

// getJSON fetches a resource and decodes the JSON response.
func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	return c.roundTrip(ctx, http.MethodGet, u, nil, out)
}

// patchJSON patches a resource and decodes the JSON response.
func (c *Client) patchJSON(ctx context.Context, u string, in, out any) error {
	return c.roundTrip(ctx, http.MethodPatch, u, in, out)
}

// deleteResource deletes a resource, ignoring any response body.
func (c *Client) deleteResource(ctx context.Context, u string) error {
	return c.roundTrip(ctx, http.MethodDelete, u, nil, nil)
}

// postStream posts a JSON body and hands back the live response body for
// incremental decoding. The caller owns closing the returned body.
func (c *Client) postStream(ctx context.Context, u string, in any) (io.ReadCloser, error) {
	encoded, err := json.Marshal(in)
	if err != nil {
		return nil, newDecodeError(err, nil)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(encoded))
	if err != nil {
		return nil, newTransportError(err)
	}
	for key, values := range c.buildHeaders() {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}

	resp, err := c.config.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, newTransportError(err)
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		respBody, _ := io.ReadAll(resp.Body)
		return nil, normalizeAPIError(resp.StatusCode, respBody)
	}

	return resp.Body, nil
}
