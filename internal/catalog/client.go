// Package catalog implements the remote wallpaper catalog source
// (a wallhaven-style JSON API).
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"wallgrab/internal/config"
	"wallgrab/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "wallgrab/1.0"
)

// Client implements domain.CatalogSource against the HTTP API
type Client struct {
	baseURL    string
	apiKey     string
	query      string
	categories string
	purity     string
	sorting    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new catalog API client. query is the free-text
// search term; the remaining query parameters come from config.
func NewClient(cfg *config.Config, query string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    cfg.Source.BaseURL,
		apiKey:     cfg.Source.APIKey,
		query:      query,
		categories: encodeCategories(cfg.Query.Categories),
		purity:     encodePurity(cfg.Query.Purity),
		sorting:    cfg.Query.Sorting,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// FetchPage returns one page of catalog records
func (c *Client) FetchPage(ctx context.Context, page int) (*domain.Page, error) {
	query := url.Values{}
	if c.query != "" {
		query.Set("q", c.query)
	}
	query.Set("categories", c.categories)
	query.Set("purity", c.purity)
	if c.sorting != "" {
		query.Set("sorting", c.sorting)
	}
	query.Set("page", strconv.Itoa(page))
	if c.apiKey != "" {
		query.Set("apikey", c.apiKey)
	}

	body, err := c.doRequest(ctx, "/search", query)
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Error("catalog parse error", "error", err, "bodyLen", len(body))
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	p := mapPage(&resp)
	// The API omits the requested page from meta on some error paths
	if p.Number != page {
		p.Number = page
	}
	return p, nil
}

// doRequest performs an HTTP GET against the API
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	reqURL := fmt.Sprintf("%s%s", c.baseURL, path)
	if query != nil {
		reqURL = fmt.Sprintf("%s?%s", reqURL, query.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("catalog request", "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("catalog request failed", "error", err)
		return nil, domain.ErrSourceUnavailable
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var remote errorResponse
		if json.Unmarshal(body, &remote) == nil && remote.Error != "" {
			c.logger.Error("catalog remote error", "status", resp.StatusCode, "error", remote.Error)
		} else {
			c.logger.Error("catalog request error", "status", resp.StatusCode)
		}
		return nil, domain.ErrSourceUnavailable
	}

	return body, nil
}
