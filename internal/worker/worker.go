package worker

import (
	"context"
	"sync"

	"github.com/skarki/go-nepal-alerts/internal/models"
)

// ProcessFunc handles one newly detected alert (notification scheduling,
// broadcast fan-out). Errors are the processor's to log; the pool ignores
// them so one bad alert never stalls the queue.
type ProcessFunc func(ctx context.Context, alert models.Alert) error

// Pool dispatches newly detected alerts to a fixed set of workers so that
// slow notification sinks never block a polling cycle.
type Pool struct {
	numWorkers int
	alerts     chan models.Alert
	processor  ProcessFunc
	wg         sync.WaitGroup
}

func NewPool(numWorkers int, bufferSize int, processor ProcessFunc) *Pool {
	return &Pool{
		numWorkers: numWorkers,
		alerts:     make(chan models.Alert, bufferSize),
		processor:  processor,
	}
}

func (p *Pool) Start(ctx context.Context) {
	for i := 1; i <= p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
}

func (p *Pool) worker(ctx context.Context) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case alert, ok := <-p.alerts:
			if !ok {
				return
			}
			p.processor(ctx, alert)
		}
	}
}

func (p *Pool) Submit(alert models.Alert) {
	p.alerts <- alert
}

func (p *Pool) Stop() {
	close(p.alerts)
	p.wg.Wait()
}
