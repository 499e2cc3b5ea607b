// Package geo wraps the external Places/Geocoding Service (a Nominatim
// compatible endpoint). The contract is deliberately thin: "name -> (lat,
// lon)" and "category near point -> candidate venues". Every call carries a
// bounded timeout; failures degrade to an error (geocode) or an empty list
// (search) so the caller can fall back locally.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/planmyoutings/outings/internal/models"
)

// ErrNotResolved is returned when the service cannot geocode a name.
var ErrNotResolved = errors.New("location could not be resolved")

// Geocoder resolves a free-text place name to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, name string) (lat, lon float64, err error)
}

// PlacesSearcher finds candidate venues of a category near a point,
// bounded to a square region sized in kilometers.
type PlacesSearcher interface {
	Search(ctx context.Context, category string, lat, lon, boxKm float64, limit int) ([]models.Place, error)
}

// Client talks to a Nominatim-compatible HTTP API.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

var (
	_ Geocoder       = (*Client)(nil)
	_ PlacesSearcher = (*Client)(nil)
)

// NewClient creates a client for the given base URL. Nominatim's usage
// policy requires an identifying User-Agent.
func NewClient(baseURL, userAgent string, timeout time.Duration) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		http:      &http.Client{Timeout: timeout},
	}
}

// result is the subset of a Nominatim search hit we consume. Coordinates
// arrive as strings.
type result struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// Geocode resolves a place name to coordinates, returning ErrNotResolved
// when the service has no match.
func (c *Client) Geocode(ctx context.Context, name string) (float64, float64, error) {
	params := url.Values{
		"q":      {name},
		"format": {"json"},
		"limit":  {"1"},
	}

	hits, err := c.search(ctx, params)
	if err != nil {
		return 0, 0, err
	}
	if len(hits) == 0 {
		return 0, 0, ErrNotResolved
	}

	lat, latErr := strconv.ParseFloat(hits[0].Lat, 64)
	lon, lonErr := strconv.ParseFloat(hits[0].Lon, 64)
	if latErr != nil || lonErr != nil {
		return 0, 0, ErrNotResolved
	}
	return lat, lon, nil
}

// Search finds up to limit venues matching category inside a square viewbox
// of boxKm kilometers centered on (lat, lon).
func (c *Client) Search(ctx context.Context, category string, lat, lon, boxKm float64, limit int) ([]models.Place, error) {
	// One degree of latitude is ~111 km. Close enough at city scale; this
	// is explicitly not polar-safe.
	deg := boxKm / 111.0
	viewbox := fmt.Sprintf("%f,%f,%f,%f", lon-deg, lat+deg, lon+deg, lat-deg)

	params := url.Values{
		"q":       {category},
		"format":  {"json"},
		"limit":   {strconv.Itoa(limit)},
		"viewbox": {viewbox},
		"bounded": {"1"},
	}

	hits, err := c.search(ctx, params)
	if err != nil {
		return nil, err
	}

	places := make([]models.Place, 0, len(hits))
	for _, h := range hits {
		lat, latErr := strconv.ParseFloat(h.Lat, 64)
		lon, lonErr := strconv.ParseFloat(h.Lon, 64)
		if latErr != nil || lonErr != nil {
			continue
		}
		name := h.DisplayName
		if i := strings.Index(name, ","); i > 0 {
			name = name[:i]
		}
		places = append(places, models.Place{
			Name:    name,
			Address: h.DisplayName,
			Lat:     lat,
			Lon:     lon,
		})
	}
	return places, nil
}

func (c *Client) search(ctx context.Context, params url.Values) ([]result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("places service unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places service returned status %d", resp.StatusCode)
	}

	var hits []result
	if err := json.NewDecoder(resp.Body).Decode(&hits); err != nil {
		return nil, fmt.Errorf("failed to decode places response: %w", err)
	}
	return hits, nil
}
