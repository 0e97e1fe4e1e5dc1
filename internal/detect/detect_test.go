package detect

import (
	"testing"

	"github.com/skarki/go-nepal-alerts/internal/models"
)

func alert(title, pubDate string) models.Alert {
	return models.Alert{Source: models.SourceGDACS, Title: title, PubDate: pubDate}
}

func TestDiff_IdenticalSetsYieldNothingNew(t *testing.T) {
	a := []models.Alert{
		alert("Flood at Biratnagar", "2024-01-01T00:00:00Z"),
		alert("Landslide at Sindhupalchok", "2024-01-02T00:00:00Z"),
	}
	// Same identity pairs, different order.
	b := []models.Alert{a[1], a[0]}

	newAlerts, ids := Diff(a, IDs(b))
	if len(newAlerts) != 0 {
		t.Errorf("identical id sets must yield no new alerts, got %d", len(newAlerts))
	}
	if len(ids) != 2 {
		t.Errorf("expected baseline of 2 ids, got %d", len(ids))
	}
}

func TestDiff_SupersetYieldsExactlyTheDifference(t *testing.T) {
	old := []models.Alert{
		alert("Flood at Biratnagar", "2024-01-01T00:00:00Z"),
	}
	current := []models.Alert{
		alert("Flood at Biratnagar", "2024-01-01T00:00:00Z"),
		alert("Fire at Nepalgunj", "2024-01-03T00:00:00Z"),
		alert("Storm at Janakpur", "2024-01-04T00:00:00Z"),
	}

	newAlerts, _ := Diff(current, IDs(old))
	if len(newAlerts) != 2 {
		t.Fatalf("expected exactly the set difference (2 alerts), got %d", len(newAlerts))
	}
	if newAlerts[0].Title != "Fire at Nepalgunj" || newAlerts[1].Title != "Storm at Janakpur" {
		t.Errorf("unexpected new alerts: %v", newAlerts)
	}
}

func TestDiff_EmptyBaselineReportsEverything(t *testing.T) {
	current := []models.Alert{
		alert("Flood at Biratnagar", "2024-01-01T00:00:00Z"),
	}

	// The detector itself reports all alerts as new on an empty baseline;
	// suppressing the first-poll notification flood is the scheduler's job.
	newAlerts, _ := Diff(current, nil)
	if len(newAlerts) != 1 {
		t.Errorf("expected 1 new alert against empty baseline, got %d", len(newAlerts))
	}
}

func TestDiff_BaselineIsReplacedNotMerged(t *testing.T) {
	old := []models.Alert{
		alert("Flood at Biratnagar", "2024-01-01T00:00:00Z"),
		alert("Fire at Nepalgunj", "2024-01-03T00:00:00Z"),
	}
	current := []models.Alert{
		alert("Fire at Nepalgunj", "2024-01-03T00:00:00Z"),
	}

	_, ids := Diff(current, IDs(old))
	if len(ids) != 1 {
		t.Fatalf("baseline must be replaced, not merged: got %d ids", len(ids))
	}
	if _, ok := ids[current[0].ID()]; !ok {
		t.Error("expected current alert id in new baseline")
	}

	// An alert that dropped out and comes back is "new" again.
	comeback := []models.Alert{
		alert("Flood at Biratnagar", "2024-01-01T00:00:00Z"),
	}
	newAlerts, _ := Diff(comeback, ids)
	if len(newAlerts) != 1 {
		t.Errorf("re-appearing alert must be detected as new, got %d", len(newAlerts))
	}
}

func TestDiff_IdenticalTitleAndDateCollide(t *testing.T) {
	// Two distinct real-world events with the same headline and timestamp
	// share an identity key. This is a documented limitation of the
	// title+pubDate heuristic, not a bug to fix silently.
	current := []models.Alert{
		alert("Flood", "2024-01-01T00:00:00Z"),
		alert("Flood", "2024-01-01T00:00:00Z"),
	}

	newAlerts, ids := Diff(current, nil)
	if len(newAlerts) != 1 {
		t.Errorf("colliding identities collapse to one new alert, got %d", len(newAlerts))
	}
	if len(ids) != 1 {
		t.Errorf("colliding identities occupy one baseline slot, got %d", len(ids))
	}
}

func TestIDs(t *testing.T) {
	a := alert("Flood at Biratnagar", "2024-01-01T00:00:00Z")
	set := IDs([]models.Alert{a})
	if _, ok := set["Flood at Biratnagar2024-01-01T00:00:00Z"]; !ok {
		t.Error("identity key must be the byte concatenation of title and pubDate")
	}
}
