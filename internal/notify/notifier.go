package notify

import (
	"log/slog"

	"github.com/skarki/go-nepal-alerts/internal/models"
)

// Notifier schedules a user-facing notification for a newly detected alert.
// Implementations are fire-and-forget; a scheduling failure is the caller's
// problem to log, never to propagate.
type Notifier interface {
	Schedule(title, body string, data map[string]string) error
}

// LogNotifier writes notifications to the structured log. It stands in for
// a real push/local-notification sender.
type LogNotifier struct{}

func (LogNotifier) Schedule(title, body string, data map[string]string) error {
	slog.Info("notification", "title", title, "body", body, "source", data["source"])
	return nil
}

// Payload builds the reference payload attached to an alert notification.
func Payload(a models.Alert) map[string]string {
	return map[string]string{
		"id":     a.ID(),
		"source": string(a.Source),
		"link":   a.Link,
	}
}
