// Package worker provides a bounded pool for running blocking calls off the
// caller's path. The cloud messaging SDK append is synchronous with no
// context support, so the append router dispatches it here instead of
// stalling whichever request goroutine invoked it.
package worker

import (
	"context"
	"fmt"
	"math"
	"sync"

	"log/slog"
)

var (
	defaultNumWorkers uint = 3
	defaultQueueSize  uint = 256
)

// Job is a unit of blocking work with a channel carrying its result back to
// the submitter.
type Job struct {
	fn    func() error
	reply chan error
}

// Config is the configuration options for the worker pool.
type Config struct {
	// NumWorkers is the number of background workers in the pool.
	NumWorkers uint

	// QueueSize is the capacity of the buffered job channel (defaults to 256).
	QueueSize uint

	// Logger is the provided slog logger.
	Logger *slog.Logger
}

// Pool runs blocking functions on background workers while the submitter
// waits on the result. A full queue degrades to inline execution rather
// than dropping work.
type Pool struct {
	queue  chan Job
	wg     sync.WaitGroup
	closed chan struct{}
	once   sync.Once
	logger *slog.Logger

	// mu orders enqueues against Close so a submitter that passed the
	// closed check cannot send on the already-closed queue.
	mu sync.RWMutex
}

// NewPool creates a new Pool and starts its worker goroutines.
func NewPool(c *Config) (*Pool, error) {
	if c.NumWorkers == 0 {
		c.NumWorkers = defaultNumWorkers
	}

	if c.QueueSize == 0 {
		c.QueueSize = defaultQueueSize
	}

	if c.NumWorkers > uint(math.MaxInt) {
		return nil, fmt.Errorf("NumWorkers %d exceeds max int", c.NumWorkers)
	}

	p := &Pool{
		queue:  make(chan Job, c.QueueSize),
		closed: make(chan struct{}),
		logger: c.Logger,
	}

	p.wg.Add(int(c.NumWorkers))
	for i := range c.NumWorkers {
		go p.worker(i)
	}

	return p, nil
}

// Execute runs fn on a pool worker and waits for its result. A nil pool, a
// closed pool, or a full queue all fall back to running fn inline on the
// caller's goroutine. Cancelling ctx abandons the wait, not the work.
func (p *Pool) Execute(ctx context.Context, fn func() error) error {
	if p == nil {
		return fn()
	}

	job := Job{
		fn:    fn,
		reply: make(chan error, 1),
	}

	p.mu.RLock()
	select {
	case <-p.closed:
		p.mu.RUnlock()
		return fn()
	default:
	}

	enqueued := false
	select {
	case p.queue <- job:
		enqueued = true
	default:
	}
	p.mu.RUnlock()

	if !enqueued {
		p.logger.Warn("worker queue full, executing inline")
		return fn()
	}

	select {
	case err := <-job.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close signals workers to stop and waits for in-flight jobs to drain.
// Call this during graceful shutdown after the server has stopped.
func (p *Pool) Close() {
	p.once.Do(func() {
		p.mu.Lock()
		close(p.closed)
		close(p.queue)
		p.mu.Unlock()
	})
	p.wg.Wait()
}

// worker is the inner worker goroutine that continuously pulls jobs off the
// queue.
func (p *Pool) worker(id uint) {
	defer p.wg.Done()
	p.logger.Debug("worker started", "worker_id", id)

	for job := range p.queue {
		job.reply <- job.fn()
	}

	p.logger.Debug("worker stopped", "worker_id", id)
}
