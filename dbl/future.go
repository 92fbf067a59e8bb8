package dbl

import (
	"context"
	"fmt"
	"sync"
)

// Future is the pending result of an API call. It resolves exactly once,
// either with a value or with an error.
type Future[T any] struct {
	once      sync.Once
	mu        sync.Mutex
	done      chan struct{}
	value     T
	err       error
	callbacks []func(T, error)
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// failed returns a future already resolved with err.
func failed[T any](err error) *Future[T] {
	f := newFuture[T]()
	var zero T
	f.resolve(zero, err)
	return f
}

// Completed returns a future already resolved with value and err. It is
// meant for API fakes.
func Completed[T any](value T, err error) *Future[T] {
	f := newFuture[T]()
	f.resolve(value, err)
	return f
}

// resolve settles the future. It reports false if the future had already
// been settled, in which case value and err are dropped.
func (f *Future[T]) resolve(value T, err error) bool {
	var (
		settled   bool
		callbacks []func(T, error)
	)

	f.once.Do(func() {
		f.mu.Lock()
		f.value, f.err = value, err
		callbacks = f.callbacks
		f.callbacks = nil
		close(f.done)
		f.mu.Unlock()
		settled = true
	})

	for _, cb := range callbacks {
		cb(value, err)
	}

	return settled
}

// Done is closed once the future has resolved.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the future resolves or ctx ends. Ending ctx only stops
// the wait; the request itself keeps running.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Get blocks until the future resolves.
func (f *Future[T]) Get() (T, error) {
	<-f.done
	return f.value, f.err
}

// Then registers fn to run with the outcome. If the future has already
// resolved fn runs immediately on the calling goroutine, otherwise it runs
// on the goroutine that resolves the future.
func (f *Future[T]) Then(fn func(T, error)) {
	f.mu.Lock()
	select {
	case <-f.done:
		f.mu.Unlock()
		fn(f.value, f.err)
		return
	default:
	}
	f.callbacks = append(f.callbacks, fn)
	f.mu.Unlock()
}

// Map derives a future whose value is fn applied to the value of f. Errors
// from f pass through without calling fn.
func Map[T, U any](f *Future[T], fn func(T) (U, error)) *Future[U] {
	out := newFuture[U]()

	f.Then(func(v T, err error) {
		if err != nil {
			var zero U
			out.resolve(zero, err)
			return
		}
		defer func() {
			if r := recover(); r != nil {
				var zero U
				out.resolve(zero, fmt.Errorf("%w: %v", ErrTransformPanic, r))
			}
		}()
		u, err := fn(v)
		out.resolve(u, err)
	})

	return out
}
