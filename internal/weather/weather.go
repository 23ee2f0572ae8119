package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"heavyhaul-assistant/internal/config"
	"heavyhaul-assistant/internal/logging"
)

// Report is the current weather for a single location.
type Report struct {
	City        string  `json:"city"`
	Description string  `json:"description"`
	TempC       float64 `json:"temp_c"`
	FeelsLikeC  float64 `json:"feels_like_c"`
	WindSpeed   float64 `json:"wind_speed"`
	Humidity    int     `json:"humidity"`
}

// Formatted renders the report as a spoken-friendly sentence.
func (r *Report) Formatted() string {
	return fmt.Sprintf("%s in %s, %.0f degrees, wind %.0f meters per second, humidity %d percent",
		r.Description, r.City, r.TempC, r.WindSpeed, r.Humidity)
}

// Client queries OpenWeatherMap for current conditions by city name.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	units      string
	logger     *logging.Logger
}

func New(cfg config.Config, logger *logging.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    cfg.Weather.BaseURL,
		apiKey:     cfg.Weather.APIKey,
		units:      cfg.Weather.Units,
		logger:     logger,
	}
}

// Enabled reports whether an API key is configured. Weather checks are
// skipped entirely when it is not.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

type owmResponse struct {
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Name string `json:"name"`
	Cod  int    `json:"cod"`
}

// Fetch returns current conditions for a city.
func (c *Client) Fetch(ctx context.Context, city string) (*Report, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("weather api key not configured")
	}

	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", c.apiKey)
	q.Set("units", c.units)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build weather request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request for %s failed: %w", city, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read weather response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather lookup for %s returned status %d", city, resp.StatusCode)
	}

	var parsed owmResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode weather response: %w", err)
	}
	if len(parsed.Weather) == 0 {
		return nil, fmt.Errorf("no weather data for %s", city)
	}

	name := parsed.Name
	if name == "" {
		name = city
	}
	return &Report{
		City:        name,
		Description: parsed.Weather[0].Description,
		TempC:       parsed.Main.Temp,
		FeelsLikeC:  parsed.Main.FeelsLike,
		WindSpeed:   parsed.Wind.Speed,
		Humidity:    parsed.Main.Humidity,
	}, nil
}

// severeKeywords flag conditions dangerous for an oversize load.
var severeKeywords = []string{
	"storm", "thunderstorm", "tornado", "hurricane",
	"blizzard", "heavy rain", "heavy snow", "ice",
	"freezing rain", "hail", "flood", "warning",
	"extreme", "severe", "dangerous", "advisory",
	"high wind", "gale", "fog",
}

// IsSevere reports whether the description names a condition that should
// trigger a route weather alert.
func IsSevere(description string) bool {
	desc := strings.ToLower(description)
	for _, kw := range severeKeywords {
		if strings.Contains(desc, kw) {
			return true
		}
	}
	return false
}
