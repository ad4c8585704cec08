package rx

import (
	"context"
	"sync"
)

// ForEach subscribes f to src. Errors are not handled here; pass a full
// Observer to Subscribe for that.
func ForEach[T any](src Observable[T], f func(T)) *Subscription {
	return src.Subscribe(ObserverFuncs[T]{Next: f})
}

// Collect subscribes to src and waits for it to terminate, returning every
// value or the error. Cancelling ctx unsubscribes.
func Collect[T any](ctx context.Context, src Observable[T]) ([]T, error) {
	var mu sync.Mutex
	values := make([]T, 0)
	done := make(chan error, 1)

	sub := NewSubscriber[T](ObserverFuncs[T]{
		Next: func(v T) {
			mu.Lock()
			defer mu.Unlock()
			values = append(values, v)
		},
		Error: func(err error) {
			done <- err
		},
		Complete: func() {
			done <- nil
		},
	})
	defer sub.Unsubscribe()
	src.Subscribe(sub)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case err := <-done:
		if err != nil {
			return nil, err
		}
		mu.Lock()
		defer mu.Unlock()
		return values, nil
	}
}

// First waits for the first value of src and unsubscribes.
func First[T any](ctx context.Context, src Observable[T]) (T, error) {
	values, err := Collect(ctx, Pipe(src, Take[T](1)))
	if err != nil {
		var t0 T
		return t0, err
	}
	if len(values) == 0 {
		var t0 T
		return t0, ErrEmpty
	}
	return values[0], nil
}

// Last waits for src to complete and returns its final value.
func Last[T any](ctx context.Context, src Observable[T]) (T, error) {
	values, err := Collect(ctx, src)
	if err != nil {
		var t0 T
		return t0, err
	}
	if len(values) == 0 {
		var t0 T
		return t0, ErrEmpty
	}
	return values[len(values)-1], nil
}
