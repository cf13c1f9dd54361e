package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tripweaver/backend/internal/domain"
)

const openWeatherBaseURL = "https://api.openweathermap.org"

// notAvailable fills weather fields the provider did not supply.
// The client renders the block as-is, so fields are never omitted.
const notAvailable = "N/A"

// OpenWeatherClient implements WeatherProvider against the OpenWeather
// current-conditions API.
type OpenWeatherClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewOpenWeatherClient builds a client for the given API key.
func NewOpenWeatherClient(apiKey string) *OpenWeatherClient {
	return &OpenWeatherClient{
		apiKey:     apiKey,
		baseURL:    openWeatherBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// openWeatherResponse is the subset of the current-weather payload we read.
// Pointers distinguish "absent" from zero values.
type openWeatherResponse struct {
	Main *struct {
		Temp     *float64 `json:"temp"`
		Humidity *int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
}

// Current looks up current conditions for a place name. Temperature is
// rounded to the nearest whole degree Celsius; any missing field degrades
// to "N/A" rather than being omitted.
func (c *OpenWeatherClient) Current(ctx context.Context, place string) (domain.Weather, error) {
	q := url.Values{}
	q.Set("q", place)
	q.Set("units", "metric")
	q.Set("appid", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/data/2.5/weather?"+q.Encode(), nil)
	if err != nil {
		return domain.Weather{}, fmt.Errorf("enrich.OpenWeatherClient.Current: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Weather{}, fmt.Errorf("enrich.OpenWeatherClient.Current: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.Weather{}, fmt.Errorf("enrich.OpenWeatherClient.Current: status %s", resp.Status)
	}

	var payload openWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.Weather{}, fmt.Errorf("enrich.OpenWeatherClient.Current: %w", err)
	}

	w := domain.Weather{
		Temperature: notAvailable,
		Condition:   notAvailable,
		Humidity:    notAvailable,
		Description: notAvailable,
	}
	if payload.Main != nil {
		if payload.Main.Temp != nil {
			w.Temperature = strconv.Itoa(int(math.Round(*payload.Main.Temp))) + "°C"
		}
		if payload.Main.Humidity != nil {
			w.Humidity = strconv.Itoa(*payload.Main.Humidity) + "%"
		}
	}
	if len(payload.Weather) > 0 {
		if payload.Weather[0].Main != "" {
			w.Condition = payload.Weather[0].Main
		}
		if payload.Weather[0].Description != "" {
			w.Description = payload.Weather[0].Description
		}
	}
	return w, nil
}
