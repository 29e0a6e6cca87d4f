package server

import (
	"context"
	"sync"

	"github.com/mr-spaghetti-code/three-music-rollercoaster/energy"
	"github.com/mr-spaghetti-code/three-music-rollercoaster/logging"
)

// Runner performs the analysis for one job. It runs on a worker
// goroutine; errors are recorded on the job, not returned to a caller.
type Runner func(ctx context.Context, job Job) (*energy.StructureBundle, error)

// Pool runs analysis jobs on a fixed number of workers with a bounded
// queue. When the queue is full, submission fails immediately so the
// HTTP layer can push back instead of buffering uploads without limit.
type Pool struct {
	store   *Store
	runner  Runner
	queue   chan string
	workers int
	wg      sync.WaitGroup
	logger  logging.Logger
}

// NewPool creates a pool draining into the given store
func NewPool(workers, queueSize int, store *Store, runner Runner) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < workers {
		queueSize = workers
	}
	return &Pool{
		store:   store,
		runner:  runner,
		queue:   make(chan string, queueSize),
		workers: workers,
		logger:  logging.GetGlobalLogger(),
	}
}

// Start launches the workers. They exit when ctx is canceled; jobs left
// in the queue stay pending and are reported as such until expiry.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.work(ctx, i)
	}
}

// Submit queues a job for analysis. Returns false when the queue is full.
func (p *Pool) Submit(id string) bool {
	select {
	case p.queue <- id:
		return true
	default:
		return false
	}
}

// Wait blocks until all workers have exited
func (p *Pool) Wait() {
	p.wg.Wait()
}

func (p *Pool) work(ctx context.Context, worker int) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case id := <-p.queue:
			if !p.store.MarkRunning(id) {
				continue
			}
			job, ok := p.store.Get(id)
			if !ok {
				continue
			}

			bundle, err := p.runner(ctx, job)
			if err != nil {
				p.store.Fail(id, err.Error())
				p.logger.Error(err, "job failed", logging.Fields{
					"job":    id,
					"worker": worker,
				})
				continue
			}

			p.store.Complete(id, bundle)
			p.logger.Info("job complete", logging.Fields{
				"job":    id,
				"worker": worker,
			})
		}
	}
}
