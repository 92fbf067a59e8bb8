package dbl

import (
	"context"
	"sync"
)

// DefaultWorkers is the number of requests the default transport runs at once
const DefaultWorkers = 10

// dispatcher runs submitted work on a fixed set of workers. Submit never
// blocks the caller: when the queue is full the hand-off happens on a
// separate goroutine.
type dispatcher struct {
	work     chan func()
	quit     chan struct{}
	done     chan struct{}
	mu       sync.Mutex
	stopped  bool
	stopOnce sync.Once
	workers  sync.WaitGroup
	inflight sync.WaitGroup
}

func newDispatcher(workers int) *dispatcher {
	if workers <= 0 {
		workers = 1
	}

	d := &dispatcher{
		work: make(chan func(), workers*2),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}

	for range workers {
		d.workers.Add(1)
		go d.worker()
	}

	return d
}

func (d *dispatcher) worker() {
	defer d.workers.Done()

	for {
		select {
		case job := <-d.work:
			job()
		case <-d.quit:
			return
		}
	}
}

// Submit queues work. It returns ErrClientClosed after Stop.
func (d *dispatcher) Submit(work func()) error {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return ErrClientClosed
	}
	d.inflight.Add(1)
	d.mu.Unlock()

	job := func() {
		defer d.inflight.Done()
		work()
	}

	select {
	case d.work <- job:
	default:
		go func() { d.work <- job }()
	}

	return nil
}

// Stop rejects new work, lets queued work finish and waits for the workers
// to exit or ctx to end.
func (d *dispatcher) Stop(ctx context.Context) error {
	d.stopOnce.Do(func() {
		d.mu.Lock()
		d.stopped = true
		d.mu.Unlock()

		go func() {
			d.inflight.Wait()
			close(d.quit)
			d.workers.Wait()
			close(d.done)
		}()
	})

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
