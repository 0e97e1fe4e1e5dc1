package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/skarki/go-nepal-alerts/internal/models"
)

// nepalTime is UTC+05:45. The BIPAD portal rejects date filters that are not
// expressed in Nepal local time with the explicit offset.
var nepalTime = time.FixedZone("NPT", 5*3600+45*60)

type bipadResponse struct {
	Results []bipadIncident `json:"results"`
}
type bipadIncident struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	IncidentOn  string      `json:"incidentOn"`
	DetailURL   string      `json:"detailUrl"`
	Point       *bipadPoint `json:"point"`
}
type bipadPoint struct {
	Coordinates []float64 `json:"coordinates"` // [lon, lat]
}

// BIPAD fetches incidents from Nepal's Disaster Information Management System.
type BIPAD struct {
	URL    string
	Window time.Duration // how far back to query, default 7 days
	Client *http.Client
}

func (b *BIPAD) Name() string { return string(models.SourceBIPAD) }

func (b *BIPAD) Fetch(ctx context.Context) ([]models.Alert, error) {
	window := b.Window
	if window <= 0 {
		window = 7 * 24 * time.Hour
	}

	end := time.Now().In(nepalTime)
	start := end.Add(-window)

	q := url.Values{}
	q.Set("incident_on__gt", start.Format("2006-01-02T15:04:05-07:00"))
	q.Set("incident_on__lt", end.Format("2006-01-02T15:04:05-07:00"))
	q.Set("ordering", "-incident_on")
	q.Set("limit", "100")

	body, err := getBody(ctx, b.Client, b.URL+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("bipad: %w", err)
	}

	if looksLikeHTML(body) {
		return nil, nil
	}

	var data bipadResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("bipad: error decoding response: %w", err)
	}

	alerts := make([]models.Alert, 0, len(data.Results))
	for _, inc := range data.Results {
		a := models.Alert{
			Source:      models.SourceBIPAD,
			Title:       inc.Title,
			Description: inc.Description,
			Link:        inc.DetailURL,
			PubDate:     inc.IncidentOn,
		}
		if inc.Point != nil && len(inc.Point.Coordinates) >= 2 {
			a.SetCoordinates(models.Coordinates{
				Latitude:  inc.Point.Coordinates[1],
				Longitude: inc.Point.Coordinates[0],
			})
		}
		alerts = append(alerts, a)
	}

	return alerts, nil
}
