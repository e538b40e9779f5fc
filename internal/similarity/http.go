// Package similarity provides implementations of service.SimilarityLookup:
// a hosted backend client, a local lookup over stored follow sets and a
// fixed set for demos and tests.
package similarity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/fanplan/internal/common"
	"github.com/Veraticus/fanplan/internal/metrics"
	"github.com/Veraticus/fanplan/internal/service"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	gobreaker "github.com/sony/gobreaker/v2"
)

const breakerName = "similarity-api"

var _ service.SimilarityLookup = (*HTTPClient)(nil)

type similarResponse struct {
	Entities []string `json:"entities"`
}

// HTTPClient fetches similar-user entities from a hosted backend. Requests
// are retried with backoff and guarded by a circuit breaker so a failing
// backend is skipped quickly.
type HTTPClient struct {
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker[map[string]struct{}]
	baseURL    string
	apiKey     string
	retry      service.RetryOptions
}

// HTTPOption configures an HTTPClient.
type HTTPOption func(*HTTPClient)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(h *HTTPClient) { h.httpClient = c }
}

// WithRetry overrides the retry policy.
func WithRetry(opts service.RetryOptions) HTTPOption {
	return func(h *HTTPClient) { h.retry = opts }
}

// NewHTTPClient creates a client for the backend at endpoint.
func NewHTTPClient(endpoint, apiKey string, opts ...HTTPOption) (*HTTPClient, error) {
	u, err := url.Parse(endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid similarity endpoint %q", common.ErrInvalidConfig, endpoint)
	}

	h := &HTTPClient{
		baseURL: strings.TrimRight(endpoint, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		retry: service.RetryOptions{
			MaxAttempts:  2,
			InitialDelay: 100 * time.Millisecond,
			MaxDelay:     time.Second,
			Multiplier:   2,
		},
	}
	for _, opt := range opts {
		opt(h)
	}

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	h.cb = gobreaker.NewCircuitBreaker[map[string]struct{}](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// Client errors and caller cancellation are not backend failures.
		IsSuccessful: func(err error) bool {
			return err == nil || !common.IsRetryable(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Info("Circuit breaker state transition",
				"name", name,
				"from", from.String(),
				"to", to.String())
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})

	return h, nil
}

// FetchSimilarUserEntities implements service.SimilarityLookup.
func (h *HTTPClient) FetchSimilarUserEntities(ctx context.Context, userID uuid.UUID) (map[string]struct{}, error) {
	set, err := h.cb.Execute(func() (map[string]struct{}, error) {
		var out map[string]struct{}
		err := common.WithRetry(ctx, func() error {
			var fetchErr error
			out, fetchErr = h.fetch(ctx, userID)
			return fetchErr
		}, h.retry)
		return out, err
	})

	switch {
	case err == nil:
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "success").Inc()
		return set, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "rejected").Inc()
		return nil, fmt.Errorf("%w: %v", common.ErrLookupUnavailable, err)
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "failure").Inc()
		return nil, err
	}
}

func (h *HTTPClient) fetch(ctx context.Context, userID uuid.UUID) (map[string]struct{}, error) {
	endpoint := fmt.Sprintf("%s/v1/users/%s/similar-entities", h.baseURL, userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &common.RetryableError{Err: fmt.Errorf("failed to create request: %w", err), Retryable: false}
	}
	req.Header.Set("Accept", "application/json")
	if h.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.apiKey)
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &common.RetryableError{Err: ctx.Err(), Retryable: false}
		}
		return nil, fmt.Errorf("%w: request failed: %v", common.ErrLookupUnavailable, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.Debug("Failed to close response body", "error", closeErr)
		}
	}()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &common.RetryableError{
			Err:        fmt.Errorf("similarity backend: %w", common.ErrRateLimit),
			Retryable:  true,
			RetryAfter: retryAfter(resp.Header.Get("Retry-After")),
		}
	case resp.StatusCode >= 500:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", common.ErrLookupUnavailable, resp.StatusCode, strings.TrimSpace(string(body)))
	case resp.StatusCode != http.StatusOK:
		return nil, &common.RetryableError{
			Err:       fmt.Errorf("similarity backend returned status %d", resp.StatusCode),
			Retryable: false,
		}
	}

	var payload similarResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &common.RetryableError{Err: fmt.Errorf("failed to decode similarity response: %w", err), Retryable: false}
	}

	set := make(map[string]struct{}, len(payload.Entities))
	for _, name := range payload.Entities {
		if name = strings.TrimSpace(name); name != "" {
			set[name] = struct{}{}
		}
	}
	return set, nil
}

// retryAfter parses a Retry-After header given in seconds. HTTP dates and
// malformed values yield zero.
func retryAfter(header string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
