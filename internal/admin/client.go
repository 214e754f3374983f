// Package admin is the operator side of homepage placement: an HTTP client for
// the site API and the placement editor workflow built on it.
package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"centro-site/api/internal/models"
)

const (
	requestTimeout = 30 * time.Second
	pageSize       = 100

	// Retry configuration for idempotent reads
	maxRetries     = 3
	initialBackoff = 500 * time.Millisecond
	maxBackoff     = 5 * time.Second
	backoffFactor  = 2.0
)

// APIError is a non-2xx answer from the site API. Message is the server's
// error text, unmodified.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client talks to the site API.
type Client struct {
	baseURL *url.URL
	apiKey  string
	http    *http.Client

	// Backoff before the first retry. Tests shorten it.
	backoff time.Duration
}

// NewClient creates a client for the API rooted at baseURL. apiKey is sent
// on writes when non-empty.
func NewClient(baseURL, apiKey string) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base API URL: %w", err)
	}
	return &Client{
		baseURL: u,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: requestTimeout},
		backoff: initialBackoff,
	}, nil
}

// GetFeatured fetches the current three-slot object.
func (c *Client) GetFeatured(ctx context.Context) (models.Slots[models.FeaturedItem], error) {
	var slots models.Slots[models.FeaturedItem]
	err := c.retryWithBackoff(func() error {
		return c.do(ctx, http.MethodGet, "/api/featured", nil, nil, &slots)
	})
	return slots, err
}

// PutFeatured replaces the assignment. Writes are never retried.
func (c *Client) PutFeatured(ctx context.Context, a models.Assignment) error {
	return c.do(ctx, http.MethodPut, "/api/featured", nil, a, nil)
}

// ListArticles returns every news item or project, following pagination.
func (c *Client) ListArticles(ctx context.Context, kind models.ContentType) ([]models.Article, error) {
	path := "/api/news"
	if kind == models.ContentProject {
		path = "/api/projects"
	}

	var all []models.Article
	var cursor string
	for {
		query := url.Values{}
		query.Set("limit", strconv.Itoa(pageSize))
		if cursor != "" {
			query.Set("cursor", cursor)
		}

		var page struct {
			Items      []models.Article `json:"items"`
			NextCursor *string          `json:"next_cursor"`
		}
		err := c.retryWithBackoff(func() error {
			return c.do(ctx, http.MethodGet, path, query, nil, &page)
		})
		if err != nil {
			return nil, err
		}

		all = append(all, page.Items...)
		if page.NextCursor == nil || *page.NextCursor == "" {
			return all, nil
		}
		cursor = *page.NextCursor
	}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	endpoint, err := c.baseURL.Parse(path)
	if err != nil {
		return fmt.Errorf("invalid endpoint path: %w", err)
	}
	if query != nil {
		endpoint.RawQuery = query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" && method != http.MethodGet {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(bodyBytes, &payload) == nil && payload.Error != "" {
			apiErr.Message = payload.Error
		} else {
			apiErr.Message = string(bytes.TrimSpace(bodyBytes))
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("failed to decode JSON response: %w", err)
	}
	return nil
}

// retryWithBackoff executes fn with exponential backoff on transient failure.
func (c *Client) retryWithBackoff(fn func() error) error {
	var err error
	backoff := c.backoff

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}

		if attempt == maxRetries {
			break
		}

		if !isRetriableError(err) {
			return err
		}

		retryDelay := time.Duration(float64(backoff) * (1.0 + 0.2*rand.Float64())) // Add jitter
		log.Warn().Err(err).
			Dur("retry_in", retryDelay.Round(time.Millisecond)).
			Int("attempt", attempt+1).
			Msg("Transient API error")
		time.Sleep(retryDelay)

		backoff = time.Duration(float64(backoff) * backoffFactor)
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}

	return err
}

// isRetriableError determines if an error should be retried
func isRetriableError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500 || apiErr.Status == http.StatusTooManyRequests
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.EPIPE)
}
