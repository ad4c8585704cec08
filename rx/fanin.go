package rx

import (
	"sync"
)

type merger[R any] struct {
	mu     sync.Mutex
	out    *Subscriber[R]
	active int
}

func (m *merger[R]) add(inner Observable[R]) {
	m.mu.Lock()
	m.active++
	m.mu.Unlock()

	subscribeChild[R](m.out.Subscription, inner, ObserverFuncs[R]{
		Next:     m.out.OnNext,
		Error:    m.out.OnError,
		Complete: m.done,
	})
}

func (m *merger[R]) done() {
	m.mu.Lock()
	m.active--
	finished := m.active == 0
	m.mu.Unlock()
	if finished {
		m.out.OnComplete()
	}
}

// MergeMap subscribes to f(v) for every source value v and forwards the values
// of all inner Observables as they arrive. It completes once the source and
// every inner Observable completed. Any error ends the output and
// unsubscribes everything still running.
func MergeMap[T, R any](f func(T) Observable[R]) OperatorFunc[T, R] {
	return func(src Observable[T]) Observable[R] {
		return Create(func(out *Subscriber[R]) Teardown {
			// the source counts as one active producer
			m := &merger[R]{out: out, active: 1}
			subscribeFlow(out, src, Flow[T, R]{
				OnNext: func(_ *Subscriber[R], v T) {
					m.add(f(v))
				},
				OnComplete: func(*Subscriber[R]) {
					m.done()
				},
			})
			return nil
		})
	}
}

// Merge interleaves the values of sources.
func Merge[T any](sources ...Observable[T]) Observable[T] {
	return MergeMap(identity[Observable[T]])(From(sources))
}

type concatenator[T, R any] struct {
	mu        sync.Mutex
	out       *Subscriber[R]
	project   func(T) Observable[R]
	queue     []T
	active    bool
	draining  bool
	outerDone bool
}

func (c *concatenator[T, R]) push(v T) {
	c.mu.Lock()
	c.queue = append(c.queue, v)
	c.mu.Unlock()
	c.drain()
}

func (c *concatenator[T, R]) complete() {
	c.mu.Lock()
	c.outerDone = true
	c.mu.Unlock()
	c.drain()
}

func (c *concatenator[T, R]) innerDone() {
	c.mu.Lock()
	c.active = false
	c.mu.Unlock()
	c.drain()
}

// drain subscribes queued inner Observables one after the other. Inner
// Observables completing synchronously are picked up by the running loop
// instead of recursing.
func (c *concatenator[T, R]) drain() {
	c.mu.Lock()
	if c.draining {
		c.mu.Unlock()
		return
	}
	c.draining = true
	for !c.active && len(c.queue) > 0 && !c.out.Stopped() {
		v := c.queue[0]
		c.queue = c.queue[1:]
		c.active = true
		c.mu.Unlock()

		inner, err := try(func() Observable[R] { return c.project(v) })
		if err != nil {
			c.mu.Lock()
			c.draining = false
			c.mu.Unlock()
			c.out.OnError(err)
			return
		}
		subscribeChild[R](c.out.Subscription, inner, ObserverFuncs[R]{
			Next:     c.out.OnNext,
			Error:    c.out.OnError,
			Complete: c.innerDone,
		})

		c.mu.Lock()
	}
	finished := !c.active && len(c.queue) == 0 && c.outerDone
	c.draining = false
	c.mu.Unlock()

	if finished {
		c.out.OnComplete()
	}
}

// ConcatMap is MergeMap running one inner Observable at a time, in source
// order. Source values wait in a queue while an inner Observable is active.
func ConcatMap[T, R any](f func(T) Observable[R]) OperatorFunc[T, R] {
	return func(src Observable[T]) Observable[R] {
		return Create(func(out *Subscriber[R]) Teardown {
			c := &concatenator[T, R]{out: out, project: f}
			subscribeFlow(out, src, Flow[T, R]{
				OnNext: func(_ *Subscriber[R], v T) {
					c.push(v)
				},
				OnComplete: func(*Subscriber[R]) {
					c.complete()
				},
			})
			return nil
		})
	}
}

// Concat subscribes to sources one after the other.
func Concat[T any](sources ...Observable[T]) Observable[T] {
	return ConcatMap(identity[Observable[T]])(From(sources))
}

func identity[T any](v T) T {
	return v
}
