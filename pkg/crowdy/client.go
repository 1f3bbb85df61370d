package crowdy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

var baseURL = "https://crowdy-2020.herokuapp.com"

// SetBaseURL points the client at a different backend deployment, e.g. a
// local development server or a value from CROWDY_API_URL.
func SetBaseURL(u string) {
	if u != "" {
		baseURL = u
	}
}

// Client talks to the Crowdy location-search backend.
type Client struct {
	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// getWithRetries attempts an HTTP GET request up to 3 times for 502/503/504
// and transport errors. The backend dyno sleeps when idle, so the first
// request regularly times out or returns a gateway error.
func (c *Client) getWithRetries(ctx context.Context, reqURL string) (*http.Response, error) {
	var lastErr error
	var resp *http.Response

	for attempt := 0; attempt < 3; attempt++ {
		req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
		if err != nil {
			return nil, err
		}
		// Public APIs often block default Go user agents
		req.Header.Set("User-Agent", "crowdy-cli/1.0 (https://github.com/ainize-bot/crowdy)")

		resp, lastErr = c.httpClient.Do(req)

		if lastErr == nil && (resp.StatusCode == 502 || resp.StatusCode == 503 || resp.StatusCode == 504) {
			resp.Body.Close()
			lastErr = fmt.Errorf("transient status code: %d", resp.StatusCode)
		} else if lastErr == nil {
			return resp, nil
		}

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		time.Sleep(time.Duration(attempt+1) * time.Second)
	}

	return nil, fmt.Errorf("failed after 3 attempts: %v", lastErr)
}

// FetchLocations queries the backend for places matching a category (or a
// free-text search term) around the given coordinate. The category string is
// passed through verbatim; the backend treats unknown categories as search
// queries.
func (c *Client) FetchLocations(ctx context.Context, category string, latitude, longitude float64) ([]LocationInfo, error) {
	reqURL := fmt.Sprintf("%s/api/locations?category=%s&latitude=%f&longitude=%f",
		baseURL, url.QueryEscape(category), latitude, longitude)

	resp, err := c.getWithRetries(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch locations: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read location response body: %w", err)
	}

	var locResp LocationsResponse
	if err := json.Unmarshal(body, &locResp); err != nil {
		return nil, fmt.Errorf("failed to decode locations JSON: %w", err)
	}

	rows := locResp.Rows()
	if rows == nil {
		return nil, fmt.Errorf("response carried no location list")
	}

	return rows, nil
}
