package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dinebook/backend/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const maxAttempts = 3

// errPermanent marks responses that retrying will not fix
var errPermanent = errors.New("permanent catalog API error")

// ClientConfig holds settings for the hosted catalog API
type ClientConfig struct {
	BaseURL           string
	APIKey            string
	Table             string
	RequestsPerSecond float64
	Burst             int
	Timeout           time.Duration
}

// Client reads venues from the hosted backend's REST interface
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	table       string
	rateLimiter *rate.Limiter
	logger      *zap.Logger
}

// NewClient creates a new catalog API client
func NewClient(config ClientConfig, logger *zap.Logger) *Client {
	rps := config.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	burst := config.Burst
	if burst <= 0 {
		burst = 10
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	table := config.Table
	if table == "" {
		table = "restaurants"
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:     strings.TrimSuffix(config.BaseURL, "/"),
		apiKey:      config.APIKey,
		table:       table,
		rateLimiter: rate.NewLimiter(rate.Limit(rps), burst),
		logger:      logger,
	}
}

// exponentialBackoff returns the wait before retrying after the given attempt
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// ListVenues fetches and normalizes the full venue table
func (c *Client) ListVenues(ctx context.Context) ([]domain.Venue, error) {
	params := url.Values{}
	params.Add("select", "*")
	reqURL := fmt.Sprintf("%s/rest/v1/%s?%s", c.baseURL, c.table, params.Encode())

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		rows, err := c.fetch(ctx, reqURL)
		if err == nil {
			c.logger.Debug("fetched venue catalog", zap.Int("rows", len(rows)), zap.Int("attempt", attempt))
			return NormalizeAll(rows), nil
		}

		lastErr = err
		if errors.Is(err, errPermanent) || ctx.Err() != nil {
			break
		}

		c.logger.Warn("catalog request failed",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		if attempt < maxAttempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(exponentialBackoff(attempt)):
			}
		}
	}

	return nil, lastErr
}

func (c *Client) fetch(ctx context.Context, reqURL string) ([]RawVenue, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", errPermanent, err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "DineBook/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(body), 200))
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return nil, fmt.Errorf("%w: %v", errPermanent, err)
		}
		return nil, err
	}

	var rows []RawVenue
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", errPermanent, err)
	}
	return rows, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
