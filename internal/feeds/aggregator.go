package feeds

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/skarki/go-nepal-alerts/internal/models"
)

// Aggregate fans out to all fetchers concurrently and concatenates their
// results in the given fetcher order. A failing source contributes nothing
// and is logged; Aggregate only returns an error when every source failed.
// No cross-source deduplication happens here.
func Aggregate(ctx context.Context, fetchers []Fetcher) ([]models.Alert, error) {
	if len(fetchers) == 0 {
		return nil, nil
	}

	results := make([][]models.Alert, len(fetchers))
	errs := make([]error, len(fetchers))

	var wg sync.WaitGroup
	for i, f := range fetchers {
		wg.Add(1)
		go func(i int, f Fetcher) {
			defer wg.Done()
			alerts, err := f.Fetch(ctx)
			if err != nil {
				slog.Warn("feed fetch failed", "source", f.Name(), "error", err)
				errs[i] = err
				return
			}
			results[i] = alerts
		}(i, f)
	}
	wg.Wait()

	var all []models.Alert
	failed := 0
	for i := range fetchers {
		if errs[i] != nil {
			failed++
			continue
		}
		all = append(all, results[i]...)
	}

	if failed == len(fetchers) {
		return nil, fmt.Errorf("all %d sources failed: %w", len(fetchers), errors.Join(errs...))
	}

	return all, nil
}
