package api

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skarki/go-nepal-alerts/internal/models"
	"github.com/skarki/go-nepal-alerts/internal/notify"
)

// AlertProvider exposes the scheduler's latest enriched snapshot.
type AlertProvider interface {
	Snapshot() []models.Alert
	LastPoll() time.Time
}

// Refresher triggers an immediate re-poll.
type Refresher interface {
	Wake()
}

type Handler struct {
	provider    AlertProvider
	refresher   Refresher
	broadcaster *notify.Broadcaster
}

func NewHandler(provider AlertProvider, refresher Refresher, broadcaster *notify.Broadcaster) *Handler {
	return &Handler{
		provider:    provider,
		refresher:   refresher,
		broadcaster: broadcaster,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/api/alerts", h.getAlerts)
	r.GET("/api/alerts/geo", h.getAlertsGeoJSON)
	r.GET("/api/alerts/stream", h.streamAlerts)
	r.POST("/api/refresh", h.refresh)
	r.GET("/health", h.health)
}

func (h *Handler) getAlerts(c *gin.Context) {
	alerts := h.provider.Snapshot()

	if src := c.Query("source"); src != "" {
		filtered := make([]models.Alert, 0, len(alerts))
		for _, a := range alerts {
			if string(a.Source) == src {
				filtered = append(filtered, a)
			}
		}
		alerts = filtered
	}

	if l := c.Query("limit"); l != "" {
		if lim, err := strconv.Atoi(l); err == nil && lim > 0 && lim < len(alerts) {
			alerts = alerts[:lim]
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"alerts":    alerts,
		"count":     len(alerts),
		"last_poll": h.provider.LastPoll(),
	})
}

func (h *Handler) getAlertsGeoJSON(c *gin.Context) {
	fc := toGeoJSON(h.provider.Snapshot())
	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, fc)
}

// streamAlerts pushes newly detected alerts to the client as server-sent
// events until the client goes away.
func (h *Handler) streamAlerts(c *gin.Context) {
	id, ch := h.broadcaster.Subscribe()
	defer h.broadcaster.Unsubscribe(id)

	c.Stream(func(w io.Writer) bool {
		select {
		case a, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("alert", a)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func (h *Handler) refresh(c *gin.Context) {
	h.refresher.Wake()
	c.JSON(http.StatusAccepted, gin.H{"status": "refresh scheduled"})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
