// Package detect decides which freshly fetched alerts are new relative to
// the previous poll.
package detect

import "github.com/skarki/go-nepal-alerts/internal/models"

// IDSet is the identity baseline carried between polls.
type IDSet map[string]struct{}

// IDs builds the identity set for a batch of alerts.
func IDs(alerts []models.Alert) IDSet {
	set := make(IDSet, len(alerts))
	for _, a := range alerts {
		set[a.ID()] = struct{}{}
	}
	return set
}

// Diff returns the alerts whose identity key is absent from previous, plus
// the identity set of current to use as the next baseline. The new set
// fully replaces the old one; alerts that dropped out of the feeds simply
// stop being tracked.
//
// Diff is pure. Suppressing notifications on the very first poll of a
// session is the scheduler's policy, not handled here.
func Diff(current []models.Alert, previous IDSet) (newAlerts []models.Alert, ids IDSet) {
	ids = make(IDSet, len(current))
	for _, a := range current {
		id := a.ID()
		if _, seen := ids[id]; seen {
			// Identical title+pubDate within one batch collapses to one
			// alert for detection purposes.
			continue
		}
		ids[id] = struct{}{}
		if _, ok := previous[id]; !ok {
			newAlerts = append(newAlerts, a)
		}
	}
	return newAlerts, ids
}
