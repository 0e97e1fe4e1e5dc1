package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/skarki/go-nepal-alerts/internal/models"
)

type dhmStation struct {
	Name         string    `json:"name"`
	Basin        string    `json:"basin"`
	WaterLevel   *float64  `json:"waterLevel"`
	WarningLevel *float64  `json:"warningLevel"`
	DangerLevel  *float64  `json:"dangerLevel"`
	WaterLevelOn string    `json:"waterLevelOn"`
	Point        *dhmPoint `json:"point"`
}
type dhmPoint struct {
	Coordinates []float64 `json:"coordinates"` // [lon, lat]
}

// DHM fetches hydrological station readings from the Department of Hydrology
// and Meteorology and synthesizes alerts for stations at or above their
// warning level. Stations always carry native coordinates, so these alerts
// never need geocoding.
type DHM struct {
	URL    string
	Client *http.Client
}

func (d *DHM) Name() string { return string(models.SourceDHM) }

func (d *DHM) Fetch(ctx context.Context) ([]models.Alert, error) {
	body, err := getBody(ctx, d.Client, d.URL)
	if err != nil {
		return nil, fmt.Errorf("dhm: %w", err)
	}

	if looksLikeHTML(body) {
		return nil, nil
	}

	var stations []dhmStation
	if err := json.Unmarshal(body, &stations); err != nil {
		return nil, fmt.Errorf("dhm: error decoding response: %w", err)
	}

	var alerts []models.Alert
	for _, s := range stations {
		if s.WaterLevel == nil || s.WarningLevel == nil || *s.WaterLevel < *s.WarningLevel {
			continue
		}

		severity := "warning"
		if s.DangerLevel != nil && *s.WaterLevel >= *s.DangerLevel {
			severity = "danger"
		}

		a := models.Alert{
			Source: models.SourceDHM,
			Title:  fmt.Sprintf("Water %s level at %s", severity, s.Name),
			Description: fmt.Sprintf("Basin: %s | Water level: %.2f m | Warning level: %.2f m",
				s.Basin, *s.WaterLevel, *s.WarningLevel),
			PubDate: s.WaterLevelOn,
		}
		if s.Point != nil && len(s.Point.Coordinates) >= 2 {
			a.SetCoordinates(models.Coordinates{
				Latitude:  s.Point.Coordinates[1],
				Longitude: s.Point.Coordinates[0],
			})
		}
		alerts = append(alerts, a)
	}

	return alerts, nil
}
