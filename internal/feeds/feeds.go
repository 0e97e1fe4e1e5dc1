package feeds

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/skarki/go-nepal-alerts/internal/models"
)

// Fetcher fetches one external feed and maps it into normalized alerts.
// A fetcher returns an error on network or parse failure so the aggregator
// can tell "zero results" apart from "source unavailable".
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context) ([]models.Alert, error)
}

var defaultClient = &http.Client{
	Timeout: 15 * time.Second,
}

func getBody(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	if client == nil {
		client = defaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error doing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d - status: %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("error reading resp.Body: %w", err)
	}

	return body, nil
}

// looksLikeHTML reports whether a body that should have been JSON is an HTML
// error page instead. Upstream rate limiting shows up this way.
func looksLikeHTML(body []byte) bool {
	return strings.HasPrefix(strings.TrimSpace(string(body)), "<")
}
