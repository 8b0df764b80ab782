package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"
)

// ErrProductNotFound indicates the catalog has no product with the requested id.
var ErrProductNotFound = errors.New("product not found")

// TooManyRequestsError represents rate limiting signal from the catalog.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// HTTPClient resolves product names via the catalog HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// response mirrors the catalog envelope.
type response struct {
	Success bool `json:"success"`
	Data    struct {
		ID    string  `json:"_id"`
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	} `json:"data"`
}

// NewHTTPClient creates catalog client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse catalog url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("catalog url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 3 * time.Second,
		},
	}, nil
}

// ProductName returns the catalog name of productID.
func (c *HTTPClient) ProductName(ctx context.Context, productID string) (string, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/product/", url.PathEscape(productID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", err
		}
		var data response
		if err := json.Unmarshal(body, &data); err != nil {
			return "", err
		}
		name := strings.TrimSpace(data.Data.Name)
		if !data.Success || name == "" {
			return "", ErrProductNotFound
		}
		return name, nil
	case http.StatusNotFound:
		return "", ErrProductNotFound
	case http.StatusTooManyRequests:
		return "", TooManyRequestsError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	default:
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("catalog request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return "", fmt.Errorf("catalog error: %s", resp.Status)
	}
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 5 * time.Second
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}

// Disabled is used when no catalog address is configured.
type Disabled struct{}

// ProductName always reports the product as unknown.
func (Disabled) ProductName(context.Context, string) (string, error) {
	return "", ErrProductNotFound
}
