package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const ipinfoURL = "https://ipinfo.io/json"

// Location resolves the machine's approximate location from its public IP.
func (c *Client) Location(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ipinfoURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build location request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("location lookup failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read location response: %w", err)
	}

	var info struct {
		City    string `json:"city"`
		Region  string `json:"region"`
		Country string `json:"country"`
	}
	if err := json.Unmarshal(data, &info); err != nil {
		return "", fmt.Errorf("failed to decode location response: %w", err)
	}
	if info.City == "" {
		return "", fmt.Errorf("location unavailable")
	}
	return fmt.Sprintf("You are currently in %s, %s, %s", info.City, info.Region, info.Country), nil
}

// LocalCity returns just the city name for weather lookups.
func (c *Client) LocalCity(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ipinfoURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var info struct {
		City string `json:"city"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", err
	}
	if info.City == "" {
		return "", fmt.Errorf("city unavailable")
	}
	return info.City, nil
}
