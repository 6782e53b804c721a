// Package nominatim implements the geocoding ports against the OSM
// Nominatim HTTP API.
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"shopdir/internal/verification/ports"
	"shopdir/pkg/geo"
)

const userAgent = "shopdir/1.0"

// Client talks to a Nominatim instance. The public openstreetmap.org
// instance rate-limits to roughly one request per second; production
// deployments point NOMINATIM_BASE_URL at a self-hosted instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New constructs a Nominatim client for the given base URL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

type reverseResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

// ForwardGeocode resolves free-form address text into coordinates using the
// /search endpoint.
func (c *Client) ForwardGeocode(ctx context.Context, query string) (geo.Point, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("accept-language", "en")

	var results []searchResult
	if err := c.get(ctx, "/search", params, &results); err != nil {
		return geo.Point{}, err
	}
	if len(results) == 0 {
		return geo.Point{}, fmt.Errorf("no geocoding results for %q", query)
	}
	return parsePoint(results[0].Lat, results[0].Lon)
}

// ReverseGeocode resolves coordinates into a display address using the
// /reverse endpoint.
func (c *Client) ReverseGeocode(ctx context.Context, point geo.Point) (ports.Address, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(point.Lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(point.Lon, 'f', -1, 64))
	params.Set("format", "json")
	params.Set("accept-language", "en")

	var result reverseResult
	if err := c.get(ctx, "/reverse", params, &result); err != nil {
		return ports.Address{}, err
	}
	if result.Error != "" {
		return ports.Address{}, fmt.Errorf("reverse geocode failed: %s", result.Error)
	}

	addr := ports.Address{Formatted: result.DisplayName}
	if resolved, err := parsePoint(result.Lat, result.Lon); err == nil {
		addr.Location = &resolved
	}
	return addr, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("nominatim returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func parsePoint(lat, lon string) (geo.Point, error) {
	latF, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("invalid latitude %q", lat)
	}
	lonF, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("invalid longitude %q", lon)
	}
	return geo.Point{Lat: latF, Lon: lonF}, nil
}
