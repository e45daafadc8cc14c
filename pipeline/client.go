// Package pipeline is the single path every API call takes. It attaches the
// session's bearer token, sends the request, and classifies whatever comes
// back into an Outcome. Authentication failures are reported to an
// Invalidator, which owns the recovery flow.
package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gongxings/ai-creator/internal/config"
	"github.com/gongxings/ai-creator/metrics"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

const maxResponseBytes = 10 << 20

// CredentialSource supplies the current access token, empty when logged out.
type CredentialSource interface {
	AccessToken() string
}

// Invalidator is told about every authentication failure on a non public
// request, with the token that request carried.
type Invalidator interface {
	Invalidate(failedToken, origin string)
}

// Executor is anything that can run a Descriptor.
type Executor interface {
	Execute(ctx context.Context, d Descriptor) Outcome
}

var _ Executor = (*Client)(nil)

type Client struct {
	baseURL     string
	successCode int
	httpClient  *http.Client
	credentials CredentialSource
	invalidator Invalidator
	logger      zerolog.Logger
	metrics     *metrics.Metrics
}

type Option func(*Client)

// WithHTTPClient replaces the default client. Its Timeout is overwritten with
// the configured request timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithInvalidator(inv Invalidator) Option {
	return func(c *Client) {
		c.invalidator = inv
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

func New(cfg config.HTTPConfig, credentials CredentialSource, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(cfg.GetBaseURL(), "/"),
		successCode: cfg.GetSuccessCode(),
		httpClient:  &http.Client{},
		credentials: credentials,
		logger:      log.Logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	hc := *c.httpClient
	hc.Timeout = cfg.GetRequestTimeout()
	c.httpClient = &hc
	return c
}

// Execute sends d and classifies the result. It never returns nil.
func (c *Client) Execute(ctx context.Context, d Descriptor) Outcome {
	start := time.Now()
	requestID := uuid.NewString()
	if d.Method == "" {
		d.Method = http.MethodGet
	}

	req, carried, err := c.newRequest(ctx, d)
	if err != nil {
		return c.finish(d, requestID, start, NetworkError{Cause: err})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.finish(d, requestID, start, NetworkError{Cause: err})
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return c.finish(d, requestID, start, NetworkError{Cause: fmt.Errorf("reading response body: %w", err)})
	}

	outcome := c.finish(d, requestID, start, classify(resp.StatusCode, resp.Header, body, c.successCode))
	if _, ok := outcome.(AuthFailure); ok && !d.Public && c.invalidator != nil {
		c.invalidator.Invalidate(carried, d.Origin)
	}
	return outcome
}

// newRequest builds the HTTP request for d and reports the bearer token it carries.
func (c *Client) newRequest(ctx context.Context, d Descriptor) (*http.Request, string, error) {
	requestURL := c.baseURL + "/" + strings.TrimLeft(d.Path, "/")
	if len(d.Query) > 0 {
		sep := "?"
		if strings.Contains(requestURL, "?") {
			sep = "&"
		}
		requestURL += sep + d.Query.Encode()
	}

	var bodyReader io.Reader
	if d.Body != nil {
		encoded, err := encodeBody(d.Body)
		if err != nil {
			return nil, "", fmt.Errorf("encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, d.Method, requestURL, bodyReader)
	if err != nil {
		return nil, "", fmt.Errorf("creating request: %w", err)
	}

	if d.Headers != nil {
		req.Header = d.Headers.Clone()
	}
	if d.Body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	if auth := req.Header.Get("Authorization"); auth != "" {
		return req, bearerToken(auth), nil
	}
	token := c.credentials.AccessToken()
	if token != "" {
		(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(req)
	}
	return req, token, nil
}

func (c *Client) finish(d Descriptor, requestID string, start time.Time, outcome Outcome) Outcome {
	elapsed := time.Since(start)
	c.metrics.ObserveRequest(d.Method, string(outcome.Kind()), elapsed)

	event := c.logger.Debug()
	switch outcome.(type) {
	case NetworkError, ServerError:
		event = c.logger.Warn().Err(outcome.Err())
	}
	event.Str("request_id", requestID).
		Str("method", d.Method).
		Str("path", d.Path).
		Str("outcome", string(outcome.Kind())).
		Dur("elapsed", elapsed).
		Msg("api request")
	return outcome
}

func encodeBody(body any) ([]byte, error) {
	switch b := body.(type) {
	case json.RawMessage:
		return b, nil
	case []byte:
		return b, nil
	default:
		return json.Marshal(body)
	}
}

func bearerToken(authorization string) string {
	const prefix = "bearer "
	if len(authorization) > len(prefix) && strings.EqualFold(authorization[:len(prefix)], prefix) {
		return strings.TrimSpace(authorization[len(prefix):])
	}
	return ""
}

// Call runs d and decodes a successful payload into T. Failure outcomes are
// returned as the error; match them with errors.As.
func Call[T any](ctx context.Context, e Executor, d Descriptor) (T, error) {
	var result T
	outcome := e.Execute(ctx, d)
	success, ok := outcome.(Success)
	if !ok {
		return result, outcome.Err()
	}
	if err := success.Decode(&result); err != nil {
		return result, ServerError{Status: http.StatusOK, Message: "decoding response data: " + err.Error()}
	}
	return result, nil
}

// IsAuthFailure reports whether err is, or wraps, an AuthFailure.
func IsAuthFailure(err error) bool {
	var af AuthFailure
	return errors.As(err, &af)
}
