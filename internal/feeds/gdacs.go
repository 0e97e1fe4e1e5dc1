package feeds

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"net/http"

	"github.com/skarki/go-nepal-alerts/internal/models"
)

type gdacsRSS struct {
	Channel gdacsChannel `xml:"channel"`
}
type gdacsChannel struct {
	Items []gdacsItem `xml:"item"`
}
type gdacsItem struct {
	Title       string   `xml:"title"`
	Description string   `xml:"description"`
	Link        string   `xml:"link"`
	PubDate     string   `xml:"pubDate"`
	Lat         *float64 `xml:"http://www.georss.org/georss point>lat"`
	Lon         *float64 `xml:"http://www.georss.org/georss point>lon"`
}

// GDACS fetches the Global Disaster Alert and Coordination System RSS feed.
type GDACS struct {
	URL    string
	Client *http.Client
}

func (g *GDACS) Name() string { return string(models.SourceGDACS) }

func (g *GDACS) Fetch(ctx context.Context) ([]models.Alert, error) {
	body, err := getBody(ctx, g.Client, g.URL)
	if err != nil {
		return nil, fmt.Errorf("gdacs: %w", err)
	}

	var data gdacsRSS
	if err := xml.NewDecoder(bytes.NewReader(body)).Decode(&data); err != nil {
		return nil, fmt.Errorf("gdacs: error decoding feed: %w", err)
	}

	alerts := make([]models.Alert, 0, len(data.Channel.Items))
	for _, item := range data.Channel.Items {
		a := models.Alert{
			Source:      models.SourceGDACS,
			Title:       item.Title,
			Description: item.Description,
			Link:        item.Link,
			PubDate:     item.PubDate,
		}
		if item.Lat != nil && item.Lon != nil {
			a.Latitude = item.Lat
			a.Longitude = item.Lon
		}
		alerts = append(alerts, a)
	}

	return alerts, nil
}
