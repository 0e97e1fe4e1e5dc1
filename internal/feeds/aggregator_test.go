package feeds

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/skarki/go-nepal-alerts/internal/models"
)

// stubFetcher implements Fetcher for aggregator tests
type stubFetcher struct {
	name   string
	alerts []models.Alert
	err    error
	delay  time.Duration
}

func (s *stubFetcher) Name() string { return s.name }

func (s *stubFetcher) Fetch(ctx context.Context) ([]models.Alert, error) {
	if s.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.delay):
		}
	}
	return s.alerts, s.err
}

func alert(source models.Source, title string) models.Alert {
	return models.Alert{Source: source, Title: title, PubDate: "2024-01-01T00:00:00Z"}
}

func TestAggregate_PartialFailure(t *testing.T) {
	a := &stubFetcher{name: "a", alerts: []models.Alert{alert(models.SourceGDACS, "alert1")}}
	b := &stubFetcher{name: "b", err: errors.New("connection refused")}

	alerts, err := Aggregate(context.Background(), []Fetcher{a, b})
	if err != nil {
		t.Fatalf("expected partial failure to be absorbed, got error: %v", err)
	}
	if len(alerts) != 1 || alerts[0].Title != "alert1" {
		t.Errorf("expected [alert1], got %v", alerts)
	}
}

func TestAggregate_TotalFailure(t *testing.T) {
	a := &stubFetcher{name: "a", err: errors.New("timeout")}
	b := &stubFetcher{name: "b", err: errors.New("dns failure")}

	if _, err := Aggregate(context.Background(), []Fetcher{a, b}); err == nil {
		t.Fatal("expected error when every source fails")
	}
}

func TestAggregate_FixedSourceOrder(t *testing.T) {
	// The slower source finishes last but its alerts still come first.
	a := &stubFetcher{name: "a", delay: 30 * time.Millisecond, alerts: []models.Alert{
		alert(models.SourceGDACS, "g1"),
		alert(models.SourceGDACS, "g2"),
	}}
	b := &stubFetcher{name: "b", alerts: []models.Alert{
		alert(models.SourceBIPAD, "b1"),
	}}

	alerts, err := Aggregate(context.Background(), []Fetcher{a, b})
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	want := []string{"g1", "g2", "b1"}
	if len(alerts) != len(want) {
		t.Fatalf("expected %d alerts, got %d", len(want), len(alerts))
	}
	for i, title := range want {
		if alerts[i].Title != title {
			t.Errorf("position %d: expected %q, got %q", i, title, alerts[i].Title)
		}
	}
}

func TestAggregate_ZeroResultsIsNotFailure(t *testing.T) {
	a := &stubFetcher{name: "a"} // nil alerts, nil error
	b := &stubFetcher{name: "b", err: errors.New("down")}

	alerts, err := Aggregate(context.Background(), []Fetcher{a, b})
	if err != nil {
		t.Fatalf("a succeeded with zero results, aggregation must not fail: %v", err)
	}
	if len(alerts) != 0 {
		t.Errorf("expected 0 alerts, got %d", len(alerts))
	}
}

func TestAggregate_NoDedupAcrossSources(t *testing.T) {
	a := &stubFetcher{name: "a", alerts: []models.Alert{alert(models.SourceGDACS, "Flood at Biratnagar")}}
	b := &stubFetcher{name: "b", alerts: []models.Alert{alert(models.SourceBIPAD, "Flood at Biratnagar")}}

	alerts, err := Aggregate(context.Background(), []Fetcher{a, b})
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if len(alerts) != 2 {
		t.Errorf("two sources reporting the same event must not merge, got %d alerts", len(alerts))
	}
}

func TestAggregate_NoFetchers(t *testing.T) {
	alerts, err := Aggregate(context.Background(), nil)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if len(alerts) != 0 {
		t.Errorf("expected 0 alerts, got %d", len(alerts))
	}
}
