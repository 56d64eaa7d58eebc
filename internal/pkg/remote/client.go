// Package remote posts submitted applications to the external admissions API.
package remote

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

	"github.com/rs/zerolog"

	"github.com/yigit/edupath/internal/pkg/apperrors"
	"github.com/yigit/edupath/internal/pkg/retry"
)

// ErrNotConfigured means no endpoint is set; callers treat it like a network failure.
var ErrNotConfigured = errors.New("remote: endpoint not configured")

// NetworkError is a transport failure or a retryable server answer (5xx, 429).
type NetworkError struct {
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("remote: server answered %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("remote: network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// RejectedError is a non-retryable 4xx answer. Message comes from the response body.
type RejectedError struct {
	StatusCode int
	Message    string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("remote: rejected with %d: %s", e.StatusCode, e.Message)
}

func (e *RejectedError) Unwrap() error { return apperrors.ErrRemoteRejected }

// IsNetwork reports whether err should degrade to a local-only save.
func IsNetwork(err error) bool {
	if err == nil {
		return false
	}
	var netErr *NetworkError
	return errors.Is(err, ErrNotConfigured) ||
		errors.As(err, &netErr) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled)
}

// Result is the optional body returned by the remote service.
type Result struct {
	ReferenceID string
	Message     string
	Attempts    int
}

type responseBody struct {
	Application *struct {
		ID string `json:"id"`
	} `json:"application"`
	Message string `json:"message"`
}

// Config configures the client.
type Config struct {
	Endpoint string
	// Timeout bounds a single attempt.
	Timeout time.Duration
	// TotalTimeout bounds Submit as a whole, retries and waits included.
	TotalTimeout time.Duration
	Policy       retry.Policy
}

// Client sends JSON submissions with retry.
type Client struct {
	endpoint     string
	timeout      time.Duration
	totalTimeout time.Duration
	policy       retry.Policy
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a client. A nil httpClient uses http.DefaultClient.
func NewClient(cfg Config, httpClient *http.Client, logger zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		endpoint:     strings.TrimSpace(cfg.Endpoint),
		timeout:      cfg.Timeout,
		totalTimeout: cfg.TotalTimeout,
		policy:       cfg.Policy,
		httpClient:   httpClient,
		logger:       logger,
	}
}

// Configured reports whether an endpoint is set.
func (c *Client) Configured() bool {
	return c.endpoint != ""
}

// Submit POSTs payload as JSON. Encoding failures and RejectedError are hard
// failures; everything IsNetwork accepts is a degraded outcome.
func (c *Client) Submit(ctx context.Context, payload interface{}) (*Result, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode submission: %w", err)
	}

	if c.totalTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.totalTimeout)
		defer cancel()
	}

	result := &Result{}
	err = retry.Do(ctx, c.policy, func(ctx context.Context) error {
		result.Attempts++
		return c.post(ctx, body, result)
	}, func(attempt int, err error, wait time.Duration) {
		c.logger.Warn().Err(err).
			Int("attempt", attempt).
			Dur("retryIn", wait).
			Msg("Submission attempt failed, retrying")
	})
	if err != nil {
		return result, err
	}
	return result, nil
}

func (c *Client) post(ctx context.Context, body []byte, result *Result) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return retry.Permanent(fmt.Errorf("create submission request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &NetworkError{StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	var parsed responseBody
	_ = json.Unmarshal(payload, &parsed)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if parsed.Application != nil {
			result.ReferenceID = parsed.Application.ID
		}
		result.Message = parsed.Message
		return nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return &NetworkError{StatusCode: resp.StatusCode, Err: errors.New(statusMessage(parsed, payload, resp.StatusCode))}
	default:
		return retry.Permanent(&RejectedError{
			StatusCode: resp.StatusCode,
			Message:    statusMessage(parsed, payload, resp.StatusCode),
		})
	}
}

func statusMessage(parsed responseBody, raw []byte, status int) string {
	if parsed.Message != "" {
		return parsed.Message
	}
	if text := strings.TrimSpace(string(raw)); text != "" && len(text) <= 200 && !strings.HasPrefix(text, "{") {
		return text
	}
	return http.StatusText(status)
}
