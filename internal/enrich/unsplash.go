package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/patrickmn/go-cache"
)

const unsplashBaseURL = "https://api.unsplash.com"

// UnsplashClient implements ImageSearcher against the Unsplash search API.
// Results are cached in-process for an hour: the same place is looked up
// for every itinerary that mentions it, and Unsplash's free tier allows
// only 50 requests per hour.
type UnsplashClient struct {
	accessKey  string
	baseURL    string
	httpClient *http.Client
	cache      *cache.Cache
}

// NewUnsplashClient builds a client for the given access key.
func NewUnsplashClient(accessKey string) *UnsplashClient {
	return &UnsplashClient{
		accessKey:  accessKey,
		baseURL:    unsplashBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      cache.New(time.Hour, 10*time.Minute),
	}
}

// unsplashSearchResponse is the subset of the search payload we read.
type unsplashSearchResponse struct {
	Results []struct {
		URLs struct {
			Regular string `json:"regular"`
		} `json:"urls"`
	} `json:"results"`
}

// SearchImage returns the display-resolution URL of the first landscape
// result for query, or "" when nothing suitable was found. Non-2xx
// responses and non-JSON bodies are "no image found", not errors: a missing
// photo never blocks an itinerary.
func (c *UnsplashClient) SearchImage(ctx context.Context, query string) (string, error) {
	if hit, ok := c.cache.Get(query); ok {
		return hit.(string), nil
	}

	q := url.Values{}
	q.Set("query", query)
	q.Set("per_page", "1")
	q.Set("orientation", "landscape")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/search/photos?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("enrich.UnsplashClient.SearchImage: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+c.accessKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("enrich.UnsplashClient.SearchImage: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", nil
	}

	var payload unsplashSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", nil
	}

	result := ""
	if len(payload.Results) > 0 {
		result = payload.Results[0].URLs.Regular
	}
	c.cache.SetDefault(query, result)
	return result, nil
}
