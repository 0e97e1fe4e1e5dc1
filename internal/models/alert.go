package models

// Source identifies the feed an alert came from.
type Source string

const (
	SourceGDACS     Source = "gdacs"
	SourceReliefWeb Source = "reliefweb"
	SourceBIPAD     Source = "bipad"
	SourceDHM       Source = "dhm"
)

// Alert is a normalized disaster notice from one of the external feeds.
// PubDate is kept as the source supplied it (RFC1123 for RSS, ISO-8601 for
// the JSON APIs); consumers parse it themselves.
type Alert struct {
	Source      Source   `json:"source"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Link        string   `json:"link,omitempty"`
	PubDate     string   `json:"pubDate"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ID is the identity key used to compare alerts across polls. Title+PubDate
// is a heuristic: two distinct events with the same headline and timestamp
// collide. None of the upstream feeds supply a stable unique identifier, so
// this is the best available key.
func (a Alert) ID() string {
	return a.Title + a.PubDate
}

func (a Alert) HasCoordinates() bool {
	return a.Latitude != nil && a.Longitude != nil
}

func (a Alert) Coordinates() *Coordinates {
	if !a.HasCoordinates() {
		return nil
	}
	return &Coordinates{Latitude: *a.Latitude, Longitude: *a.Longitude}
}

// SetCoordinates fills in a resolved location.
func (a *Alert) SetCoordinates(c Coordinates) {
	a.Latitude = &c.Latitude
	a.Longitude = &c.Longitude
}
