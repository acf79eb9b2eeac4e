// Package hofp provides a higher-order function worker pool: a fixed set of goroutines which consume queued
// functions, stopping (and propagating the first encountered error) as soon as one of them fails.
package hofp

import (
	"context"
	"sync"

	"github.com/KhiopsML/khiopsdriver-s3/log"
)

// Func is a unit of work submitted to the pool.
type Func func(ctx context.Context) error

// Pool is a fixed size worker pool of goroutines which execute queued functions.
type Pool struct {
	options Options

	ctx    context.Context
	cancel context.CancelFunc

	queue chan Func
	wg    sync.WaitGroup

	mu       sync.Mutex
	err      error
	stopped  bool
	teardown bool
}

// NewPool creates and starts a new worker pool using the given options.
func NewPool(options Options) *Pool {
	options.defaults()

	ctx, cancel := context.WithCancel(options.Context)

	pool := &Pool{
		options: options,
		ctx:     ctx,
		cancel:  cancel,
		queue:   make(chan Func, options.Size*options.BufferMultiplier),
	}

	pool.wg.Add(options.Size)

	for i := 0; i < options.Size; i++ {
		go pool.worker()
	}

	return pool
}

// Queue submits a function to the pool; blocks if the internal buffer is full. Returns the first error encountered
// by any worker so far, at which point no further functions will be queued/run.
func (p *Pool) Queue(fn Func) error {
	p.mu.Lock()

	if p.err != nil {
		err := p.err
		p.mu.Unlock()

		return err
	}

	if p.teardown {
		p.mu.Unlock()
		return nil
	}

	p.mu.Unlock()

	select {
	case p.queue <- fn:
	case <-p.ctx.Done():
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.err
}

// Stop waits for all in-flight/queued work to complete, and returns the first error encountered (if any).
func (p *Pool) Stop() error {
	p.mu.Lock()
	p.teardown = true
	p.mu.Unlock()

	close(p.queue)
	p.wg.Wait()
	p.cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.err
}

// worker consumes queued functions until the queue is closed or the pool is cancelled due to a prior failure.
func (p *Pool) worker() {
	defer p.wg.Done()

	for fn := range p.queue {
		p.mu.Lock()
		alreadyFailed := p.err != nil
		p.mu.Unlock()

		if alreadyFailed {
			continue
		}

		if err := fn(p.ctx); err != nil {
			p.mu.Lock()

			if p.err == nil {
				p.err = err
				p.cancel()
			} else {
				log.Errorf("%s swallowed error once teardown had already begun: %s", p.options.LogPrefix, err)
			}

			p.mu.Unlock()
		}
	}
}
