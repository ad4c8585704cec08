package rx

import (
	"iter"
	"sync"
	"time"
)

type observableFunc[T any] func(*Subscriber[T]) Teardown

func (f observableFunc[T]) Subscribe(o Observer[T]) *Subscription {
	sub := asSubscriber(o)
	sub.run(func() {
		sub.Add(f(sub))
	})
	return sub.Subscription
}

// Create builds a cold Observable. setup runs synchronously on every
// Subscribe and may return a Teardown, which runs exactly once when the
// subscription closes for whatever reason. A panic in setup is delivered as
// OnError.
func Create[T any](setup func(*Subscriber[T]) Teardown) Observable[T] {
	return observableFunc[T](setup)
}

// Of emits values synchronously, then completes.
func Of[T any](values ...T) Observable[T] {
	return Create(func(sub *Subscriber[T]) Teardown {
		for _, v := range values {
			if sub.Stopped() {
				return nil
			}
			sub.OnNext(v)
		}
		sub.OnComplete()
		return nil
	})
}

// From emits each element of slice, then completes.
func From[T any](slice []T) Observable[T] {
	return Of(slice...)
}

// FromIter emits the elements of seq, then completes. An infinite seq never
// completes; iteration stops as soon as the subscription closes.
func FromIter[T any](seq iter.Seq[T]) Observable[T] {
	return Create(func(sub *Subscriber[T]) Teardown {
		for v := range seq {
			if sub.Stopped() {
				return nil
			}
			sub.OnNext(v)
		}
		sub.OnComplete()
		return nil
	})
}

// Empty completes immediately.
func Empty[T any]() Observable[T] {
	return Create(func(sub *Subscriber[T]) Teardown {
		sub.OnComplete()
		return nil
	})
}

// Never emits nothing and never terminates.
func Never[T any]() Observable[T] {
	return Create(func(*Subscriber[T]) Teardown { return nil })
}

// Throw errors immediately.
func Throw[T any](err error) Observable[T] {
	return Create(func(sub *Subscriber[T]) Teardown {
		sub.OnError(err)
		return nil
	})
}

// Defer calls factory on every Subscribe and subscribes to its result.
func Defer[T any](factory func() Observable[T]) Observable[T] {
	return Create(func(sub *Subscriber[T]) Teardown {
		factory().Subscribe(sub)
		return nil
	})
}

// Interval emits 0, 1, 2, ... every period until unsubscribed.
func Interval(period time.Duration, opts ...Option) Observable[int] {
	o := newOptions(opts)
	return Create(func(sub *Subscriber[int]) Teardown {
		t := &ticker{sub: sub, scheduler: o.scheduler, period: period}
		t.schedule()
		return t.stop
	})
}

// Timer emits 0 once after delay, then completes.
func Timer(delay time.Duration, opts ...Option) Observable[int] {
	o := newOptions(opts)
	return Create(func(sub *Subscriber[int]) Teardown {
		return o.scheduler.Schedule(delay, func() {
			sub.OnNext(0)
			sub.OnComplete()
		})
	})
}

type ticker struct {
	mu        sync.Mutex
	sub       *Subscriber[int]
	scheduler Scheduler
	period    time.Duration
	count     int
	cancel    Teardown
}

func (t *ticker) schedule() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sub.Stopped() {
		return
	}
	t.cancel = t.scheduler.Schedule(t.period, t.tick)
}

func (t *ticker) tick() {
	t.mu.Lock()
	n := t.count
	t.count++
	t.mu.Unlock()

	t.sub.OnNext(n)
	t.schedule()
}

func (t *ticker) stop() {
	t.mu.Lock()
	cancel := t.cancel
	t.cancel = nil
	t.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}
