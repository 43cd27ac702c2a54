// Package api provides the client for the remote chat endpoint.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/relaychat/internal/errors"
	"github.com/diogo/relaychat/internal/logging"
	"github.com/diogo/relaychat/internal/models"
)

// Response field paths
const (
	PathReply = "response"
	PathError = "error"
)

const (
	// DefaultTimeout is the transport timeout. No separate exchange timeout exists.
	DefaultTimeout = 300 * time.Second

	maxResponseBytes  = 10 << 20
	maxErrorBodyBytes = 4096
)

// HTTPDoer is the part of the tls-client HttpClient the chat client needs
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ChatClientInterface defines the chat client surface used by commands and the TUI
type ChatClientInterface interface {
	Chat(ctx context.Context, message string) (string, error)
	Respond(ctx context.Context, req models.ExchangeRequest) models.ExchangeResult
	Endpoint() string
	Close()
	IsClosed() bool
}

// Client talks to the remote chat endpoint
type Client struct {
	httpClient HTTPDoer
	baseURL    string
	endpoint   string
	timeout    time.Duration
	proxy      string
	logger     logging.Logger
	mu         sync.RWMutex
	closed     bool
}

// Ensure Client implements ChatClientInterface
var _ ChatClientInterface = (*Client)(nil)

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithTimeout sets the transport timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithProxy routes requests through the given proxy URL
func WithProxy(proxy string) ClientOption {
	return func(c *Client) {
		c.proxy = proxy
	}
}

// WithHTTPDoer replaces the transport (used by tests)
func WithHTTPDoer(doer HTTPDoer) ClientOption {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// WithLogger sets the diagnostic logger
func WithLogger(logger logging.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a Client for baseURL
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	base, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}

	client := &Client{
		baseURL:  base,
		endpoint: base + models.ChatPath,
		timeout:  DefaultTimeout,
		logger:   logging.Nop(),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(int(client.timeout / time.Second)),
			tls_client.WithClientProfile(profiles.Chrome_120),
		}
		if client.proxy != "" {
			options = append(options, tls_client.WithProxyUrl(client.proxy))
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// normalizeBaseURL validates baseURL and strips trailing slashes
func normalizeBaseURL(baseURL string) (string, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	u, err := url.Parse(trimmed)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %q", apierrors.ErrInvalidBaseURL, baseURL)
	}
	return trimmed, nil
}

// BaseURL returns the normalized base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Endpoint returns the full chat endpoint URL
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Close marks the client closed and drops idle connections
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true

	if closer, ok := c.httpClient.(interface{ CloseIdleConnections() }); ok {
		closer.CloseIdleConnections()
	}
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// Respond performs one exchange and classifies its outcome
func (c *Client) Respond(ctx context.Context, req models.ExchangeRequest) models.ExchangeResult {
	reply, err := c.Chat(ctx, req.Message)
	if err != nil {
		return models.ResultFromError(err)
	}
	return models.Success(reply)
}

// Chat sends message to the chat endpoint and returns the reply text.
// Errors are *errors.NetworkError, *errors.ServerError or *errors.ParseError.
func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", apierrors.ErrEmptyInput
	}
	if c.IsClosed() {
		return "", apierrors.ErrClientClosed
	}

	payload, err := json.Marshal(models.ExchangeRequest{Message: message})
	if err != nil {
		return "", fmt.Errorf("failed to build payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apierrors.NewNetworkErrorWithEndpoint("chat", c.endpoint, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", apierrors.NewNetworkErrorWithEndpoint("read chat response", c.endpoint, err)
	}

	c.logger.Debug("chat response received",
		logging.StringField("endpoint", c.endpoint),
		logging.IntField("status", resp.StatusCode),
		logging.IntField("bytes", len(body)),
		logging.DurationField("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", parseErrorResponse(resp.StatusCode, c.endpoint, body)
	}

	return parseReply(c.endpoint, body)
}

// parseErrorResponse builds the ServerError for a non-2xx response
func parseErrorResponse(status int, endpoint string, body []byte) error {
	message := fmt.Sprintf("Server error: %d", status)
	if gjson.ValidBytes(body) {
		if e := gjson.GetBytes(body, PathError); e.Type == gjson.String && e.Str != "" {
			message = e.Str
		}
	}

	diag := body
	if len(diag) > maxErrorBodyBytes {
		diag = diag[:maxErrorBodyBytes]
	}
	return apierrors.NewServerErrorWithBody(status, endpoint, message, string(diag))
}

// parseReply extracts the reply text from a 2xx response body
func parseReply(endpoint string, body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", apierrors.NewParseError("response is not valid JSON", "")
	}

	reply := gjson.GetBytes(body, PathReply)
	if reply.Type != gjson.String || reply.Str == "" {
		return "", apierrors.NewEmptyReplyError(endpoint)
	}
	return reply.Str, nil
}
