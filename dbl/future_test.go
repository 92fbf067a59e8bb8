package dbl

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuture_ResolvesOnce(t *testing.T) {
	f := newFuture[int]()

	assert.True(t, f.resolve(1, nil))
	assert.False(t, f.resolve(2, nil))
	assert.False(t, f.resolve(0, errors.New("late failure")))

	v, err := f.Get()
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestFuture_ConcurrentResolve(t *testing.T) {
	f := newFuture[int]()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		settled int
	)
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if f.resolve(i, nil) {
				mu.Lock()
				settled++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, settled)
	select {
	case <-f.Done():
	default:
		t.Fatal("future should be resolved")
	}
}

func TestFuture_Then(t *testing.T) {
	t.Run("registered before resolve", func(t *testing.T) {
		f := newFuture[string]()

		var got []string
		f.Then(func(v string, err error) { got = append(got, "first:"+v) })
		f.Then(func(v string, err error) { got = append(got, "second:"+v) })

		f.resolve("ok", nil)
		assert.Equal(t, []string{"first:ok", "second:ok"}, got)
	})

	t.Run("registered after resolve", func(t *testing.T) {
		f := failed[string](ErrInvalidArgument)

		var gotErr error
		f.Then(func(_ string, err error) { gotErr = err })
		assert.ErrorIs(t, gotErr, ErrInvalidArgument)
	})
}

func TestFuture_Await(t *testing.T) {
	t.Run("resolved", func(t *testing.T) {
		f := newFuture[int]()
		go func() {
			time.Sleep(10 * time.Millisecond)
			f.resolve(7, nil)
		}()

		v, err := f.Await(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 7, v)
	})

	t.Run("context ends first", func(t *testing.T) {
		f := newFuture[int]()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		_, err := f.Await(ctx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)

		// The future itself is still pending and can resolve later.
		assert.True(t, f.resolve(1, nil))
	})
}

func TestMap(t *testing.T) {
	t.Run("value", func(t *testing.T) {
		f := newFuture[int]()
		m := Map(f, func(v int) (string, error) { return strconv.Itoa(v * 2), nil })

		f.resolve(21, nil)
		v, err := m.Get()
		require.NoError(t, err)
		assert.Equal(t, "42", v)
	})

	t.Run("error passes through", func(t *testing.T) {
		var called bool
		m := Map(failed[int](ErrMissingField), func(v int) (string, error) {
			called = true
			return "", nil
		})

		_, err := m.Get()
		assert.ErrorIs(t, err, ErrMissingField)
		assert.False(t, called)
	})

	t.Run("panic resolves as failure", func(t *testing.T) {
		f := newFuture[int]()
		m := Map(f, func(v int) (int, error) { panic("boom") })

		f.resolve(1, nil)
		_, err := m.Get()
		assert.ErrorIs(t, err, ErrTransformPanic)
	})
}

func TestCompleted(t *testing.T) {
	v, err := Completed("x", nil).Get()
	require.NoError(t, err)
	assert.Equal(t, "x", v)

	_, err = Completed(0, ErrClientClosed).Await(context.Background())
	assert.ErrorIs(t, err, ErrClientClosed)
}
