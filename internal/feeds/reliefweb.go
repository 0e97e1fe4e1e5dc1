package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/skarki/go-nepal-alerts/internal/models"
)

type reliefwebResponse struct {
	Data []reliefwebEntry `json:"data"`
}
type reliefwebEntry struct {
	Fields reliefwebFields `json:"fields"`
}
type reliefwebFields struct {
	Title string        `json:"title"`
	URL   string        `json:"url"`
	Body  string        `json:"body-html"`
	Date  reliefwebDate `json:"date"`
}
type reliefwebDate struct {
	Created string `json:"created"`
}

// ReliefWeb fetches recent Nepal reports from the ReliefWeb v1 API.
type ReliefWeb struct {
	URL     string // base endpoint, query params are appended
	AppName string
	Limit   int
	Client  *http.Client
}

func (r *ReliefWeb) Name() string { return string(models.SourceReliefWeb) }

func (r *ReliefWeb) Fetch(ctx context.Context) ([]models.Alert, error) {
	limit := r.Limit
	if limit <= 0 {
		limit = 20
	}

	q := url.Values{}
	q.Set("appname", r.AppName)
	q.Set("query[value]", "Nepal")
	q.Set("query[fields][]", "primary_country.name")
	q.Set("limit", fmt.Sprint(limit))
	q.Set("sort[]", "date.created:desc")
	q.Set("fields[include][]", "title")
	q.Add("fields[include][]", "url")
	q.Add("fields[include][]", "date.created")

	body, err := getBody(ctx, r.Client, r.URL+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("reliefweb: %w", err)
	}

	// Rate-limited responses come back as an HTML error page.
	if looksLikeHTML(body) {
		return nil, nil
	}

	var data reliefwebResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("reliefweb: error decoding response: %w", err)
	}

	alerts := make([]models.Alert, 0, len(data.Data))
	for _, e := range data.Data {
		alerts = append(alerts, models.Alert{
			Source:      models.SourceReliefWeb,
			Title:       e.Fields.Title,
			Description: e.Fields.Body,
			Link:        e.Fields.URL,
			PubDate:     e.Fields.Date.Created,
		})
	}

	return alerts, nil
}
