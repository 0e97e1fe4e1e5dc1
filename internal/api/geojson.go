package api

import (
	"github.com/skarki/go-nepal-alerts/internal/models"
)

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// toGeoJSON renders the alerts that have coordinates. Alerts whose location
// never resolved stay in the list view but are left off the map.
func toGeoJSON(alerts []models.Alert) FeatureCollection {
	features := make([]Feature, 0, len(alerts))

	for _, a := range alerts {
		if !a.HasCoordinates() {
			continue
		}
		f := Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "Point",
				Coordinates: []float64{*a.Longitude, *a.Latitude},
			},
			Properties: map[string]any{
				"id":          a.ID(),
				"title":       a.Title,
				"description": a.Description,
				"link":        a.Link,
				"source":      a.Source,
				"pubDate":     a.PubDate,
			},
		}
		features = append(features, f)
	}

	return FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}
