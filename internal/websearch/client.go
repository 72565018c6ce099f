// Package websearch wraps the hosted web-search service. An empty result
// list means "unavailable or no matches"; callers render the same
// no-results message either way.
package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"devbot/internal/common"
	"devbot/internal/config"
)

const defaultEndpoint = "https://api.search.brave.com/res/v1/web/search"

// Result is one search hit, in the relevance order returned by the API.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

type Client struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

func NewClient(cfg config.Config) *Client {
	endpoint := cfg.SearchEndpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &Client{
		apiKey:     cfg.SearchKey,
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Search returns at most count results. Without a credential, or on any
// call failure, it returns an empty list.
func (c *Client) Search(ctx context.Context, query string, count int) []Result {
	logger := common.Logger()
	if c == nil || c.apiKey == "" {
		logger.Debug("websearch: no credential configured, returning empty results")
		return nil
	}
	if count <= 0 {
		count = 5
	}
	results, err := c.search(ctx, query, count)
	if err != nil {
		logger.Warn("websearch: query failed", "query", query, "error", err)
		return nil
	}
	return results
}

func (c *Client) search(ctx context.Context, query string, count int) ([]Result, error) {
	endpoint, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	params := endpoint.Query()
	params.Set("q", query)
	params.Set("count", strconv.Itoa(count))
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API returned %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var decoded searchResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	results := make([]Result, 0, len(decoded.Web.Results))
	for _, r := range decoded.Web.Results {
		results = append(results, Result{Title: r.Title, URL: r.URL, Snippet: r.Description})
		if len(results) >= count {
			break
		}
	}
	return results, nil
}

type searchResponse struct {
	Web struct {
		Results []searchHit `json:"results"`
	} `json:"web"`
}

type searchHit struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
