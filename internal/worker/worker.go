package worker

import (
	"context"
	"sync"

	"github.com/mr1hm/go-fire-risk/internal/models"
)

// ProcessFunc handles one fire detection pulled off the queue.
type ProcessFunc func(ctx context.Context, d *models.FireDetection) error

// Pool drains fetched detections into the corpus on a fixed number of
// goroutines with a bounded buffer.
type Pool struct {
	numWorkers int
	jobs       chan *models.FireDetection
	processor  ProcessFunc
	wg         sync.WaitGroup
}

func NewPool(numWorkers int, bufferSize int, processor ProcessFunc) *Pool {
	return &Pool{
		numWorkers: numWorkers,
		jobs:       make(chan *models.FireDetection, bufferSize),
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
		case d, ok := <-p.jobs:
			if !ok {
				return
			}
			p.processor(ctx, d)
		}
	}
}

func (p *Pool) Submit(d *models.FireDetection) {
	p.jobs <- d
}

func (p *Pool) Stop() {
	close(p.jobs)
	p.wg.Wait()
}
