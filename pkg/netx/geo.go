package netx

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const geoEndpoint = "https://ipinfo.io/json"

// Location suggests a human-readable location string ("City, Region, CC")
// derived from this host's egress IP. Best-effort: any failure yields an
// error and the caller decides whether an empty location is acceptable.
func Location() (string, error) {
	client := http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(geoEndpoint)
	if err != nil {
		return "", fmt.Errorf("geolocation lookup: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("geolocation lookup: status %s", resp.Status)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("geolocation lookup: %w", err)
	}
	loc := parseLocation(b)
	if loc == "" {
		return "", fmt.Errorf("geolocation lookup: empty answer")
	}
	return loc, nil
}

func parseLocation(body []byte) string {
	var info struct {
		City    string `json:"city"`
		Region  string `json:"region"`
		Country string `json:"country"`
	}
	if err := json.Unmarshal(body, &info); err != nil {
		return ""
	}
	parts := []string{}
	for _, p := range []string{info.City, info.Region, info.Country} {
		if s := strings.TrimSpace(p); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}
