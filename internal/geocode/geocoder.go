package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/skarki/go-nepal-alerts/internal/models"
)

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocoder resolves free-text location names to coordinates through a
// Nominatim-style lookup service, consulting and populating the persistent
// cache. Lookups are rate limited upstream, so a cache hit never touches
// the network.
type Geocoder struct {
	Endpoint  string
	UserAgent string
	Client    *http.Client

	cache *Cache
}

func NewGeocoder(endpoint, userAgent string, cache *Cache) *Geocoder {
	return &Geocoder{
		Endpoint:  endpoint,
		UserAgent: userAgent,
		Client:    &http.Client{Timeout: 15 * time.Second},
		cache:     cache,
	}
}

// Resolve returns coordinates for a location, or nil when resolution fails
// for any reason (network error, empty result, rate-limit HTML page).
// Callers treat nil as "leave this alert off the map", never as fatal.
func (g *Geocoder) Resolve(ctx context.Context, location string) *models.Coordinates {
	if coords, ok := g.cache.Get(location); ok {
		return &coords
	}

	coords, err := g.lookup(ctx, location)
	if err != nil {
		slog.Debug("geocode lookup failed", "location", location, "error", err)
		return nil
	}

	g.cache.Put(ctx, location, *coords)
	return coords
}

func (g *Geocoder) lookup(ctx context.Context, location string) (*models.Coordinates, error) {
	u := fmt.Sprintf("%s?q=%s&format=json&limit=1", g.Endpoint, url.QueryEscape(location))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	// Nominatim usage policy requires an identifying User-Agent.
	req.Header.Set("User-Agent", g.UserAgent)

	resp, err := g.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error doing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d - status: %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("error reading resp.Body: %w", err)
	}

	// Rate-limited responses come back as an HTML error page.
	if strings.HasPrefix(strings.TrimSpace(string(body)), "<") {
		return nil, fmt.Errorf("got HTML response instead of JSON")
	}

	var results []nominatimResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no results for %q", location)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("error parsing lat %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("error parsing lon %q: %w", results[0].Lon, err)
	}

	return &models.Coordinates{Latitude: lat, Longitude: lon}, nil
}

// Enrich fills in coordinates on alerts that lack them, one lookup at a
// time. Sequential calls keep the cache writer single-threaded and stay
// friendly to the lookup service's rate limits. Alerts that fail to resolve
// are left without coordinates.
func (g *Geocoder) Enrich(ctx context.Context, alerts []models.Alert) []models.Alert {
	for i := range alerts {
		if alerts[i].HasCoordinates() {
			continue
		}
		coords := g.Resolve(ctx, ExtractLocation(alerts[i].Title))
		if coords != nil {
			alerts[i].SetCoordinates(*coords)
		}
	}
	return alerts
}
