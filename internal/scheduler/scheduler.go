// Package scheduler drives the polling loop: periodic fetches, wake-ups
// from the outside, new-alert detection, notification dispatch, and
// coordinate enrichment.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/skarki/go-nepal-alerts/internal/detect"
	"github.com/skarki/go-nepal-alerts/internal/feeds"
	"github.com/skarki/go-nepal-alerts/internal/geocode"
	"github.com/skarki/go-nepal-alerts/internal/models"
	"github.com/skarki/go-nepal-alerts/internal/notify"
	"github.com/skarki/go-nepal-alerts/internal/worker"
)

type Options struct {
	Interval    time.Duration
	Workers     int
	BufferSize  int
	Fetchers    []feeds.Fetcher
	Geocoder    *geocode.Geocoder
	Notifier    notify.Notifier
	Broadcaster *notify.Broadcaster
}

// Scheduler owns the poll cycle and all state that survives between polls:
// the identity baseline for new-alert detection and the latest enriched
// snapshot served by the API.
//
// The first poll after Start only seeds the baseline; it never notifies,
// so a restart does not replay every currently visible alert as "new".
type Scheduler struct {
	opts Options
	pool *worker.Pool

	wake      chan struct{}
	suspended atomic.Bool
	inFlight  atomic.Bool

	mu       sync.Mutex
	baseline detect.IDSet
	seeded   bool
	snapshot []models.Alert
	lastPoll time.Time

	cancel   context.CancelFunc
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func New(opts Options) *Scheduler {
	if opts.Interval <= 0 {
		opts.Interval = 5 * time.Minute
	}
	if opts.Workers <= 0 {
		opts.Workers = 2
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = 50
	}
	return &Scheduler{
		opts:     opts,
		wake:     make(chan struct{}, 1),
		baseline: make(detect.IDSet),
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.pool = worker.NewPool(s.opts.Workers, s.opts.BufferSize, s.dispatch)
	s.pool.Start(ctx)

	s.wg.Add(1)
	go s.run(ctx)
}

func (s *Scheduler) run(ctx context.Context) {
	defer s.wg.Done()
	slog.Info("scheduler started", "interval", s.opts.Interval, "sources", len(s.opts.Fetchers))

	// Baseline poll, no notification side effects.
	s.poll(ctx, false)

	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("scheduler shutting down")
			return
		case <-ticker.C:
			if s.suspended.Load() {
				slog.Debug("poll skipped, suspended")
				continue
			}
			s.poll(ctx, true)
		case <-s.wake:
			s.poll(ctx, true)
		}
	}
}

// poll runs one fetch-detect-notify-enrich cycle. A poll triggered while
// another is still in flight is skipped rather than overlapped; duplicate
// detection against a stale baseline is a worse outcome than a slightly
// late refresh.
func (s *Scheduler) poll(ctx context.Context, notifyNew bool) {
	if !s.inFlight.CompareAndSwap(false, true) {
		slog.Debug("poll skipped, previous poll still in flight")
		return
	}
	defer s.inFlight.Store(false)

	alerts, err := feeds.Aggregate(ctx, s.opts.Fetchers)
	if err != nil {
		slog.Error("poll failed", "error", err)
		return
	}

	s.mu.Lock()
	previous := s.baseline
	seeded := s.seeded
	s.mu.Unlock()

	newAlerts, ids := detect.Diff(alerts, previous)

	s.mu.Lock()
	s.baseline = ids
	s.seeded = true
	s.lastPoll = time.Now()
	s.mu.Unlock()

	if notifyNew && seeded {
		for _, a := range newAlerts {
			s.pool.Submit(a)
		}
	}

	enriched := s.opts.Geocoder.Enrich(ctx, alerts)

	s.mu.Lock()
	s.snapshot = enriched
	s.mu.Unlock()

	slog.Debug("poll complete", "alerts", len(alerts), "new", len(newAlerts), "notified", notifyNew && seeded)
}

// dispatch is the worker pool processor for one newly detected alert.
func (s *Scheduler) dispatch(ctx context.Context, a models.Alert) error {
	if s.opts.Broadcaster != nil {
		s.opts.Broadcaster.Broadcast(a)
	}
	if err := s.opts.Notifier.Schedule(a.Title, a.Description, notify.Payload(a)); err != nil {
		slog.Warn("notification schedule failed", "title", a.Title, "error", err)
	}
	return nil
}

// Wake triggers an immediate poll with notifications enabled, the analog of
// the app returning to the foreground. Wakes arriving while a poll is
// pending coalesce.
func (s *Scheduler) Wake() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Suspend stops periodic polling without tearing the scheduler down.
func (s *Scheduler) Suspend() {
	s.suspended.Store(true)
}

// Resume re-enables periodic polling and triggers an immediate catch-up poll.
func (s *Scheduler) Resume() {
	s.suspended.Store(false)
	s.Wake()
}

// Stop tears the scheduler down. Safe to call more than once; after it
// returns no further notifications fire.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
		s.wg.Wait()
		if s.pool != nil {
			s.pool.Stop()
		}
		slog.Info("scheduler stopped")
	})
}

// Snapshot returns the latest enriched alert list.
func (s *Scheduler) Snapshot() []models.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Alert, len(s.snapshot))
	copy(out, s.snapshot)
	return out
}

// LastPoll reports when the last successful poll finished.
func (s *Scheduler) LastPoll() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastPoll
}
