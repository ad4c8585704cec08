package rx

import (
	"fmt"
	"time"

	"github.com/7vars/grx"
)

// Flow holds the event handlers of an operator. A nil handler forwards its
// event downstream unchanged. A handler that panics errors the output and
// tears the upstream subscription down.
type Flow[T, R any] struct {
	OnNext     func(*Subscriber[R], T)
	OnError    func(*Subscriber[R], error)
	OnComplete func(*Subscriber[R])
}

func (f Flow[T, R]) HandleNext(out *Subscriber[R], v T) {
	if f.OnNext != nil {
		f.OnNext(out, v)
		return
	}
	if r, ok := any(&v).(*R); ok {
		out.OnNext(*r)
		return
	}
	if r, ok := any(v).(R); ok {
		out.OnNext(r)
		return
	}
	var r0 R
	out.OnError(fmt.Errorf("%w %T needs %T", ErrUnsupportedType, v, r0))
}

func (f Flow[T, R]) HandleError(out *Subscriber[R], err error) {
	if f.OnError != nil {
		f.OnError(out, err)
		return
	}
	out.OnError(err)
}

func (f Flow[T, R]) HandleComplete(out *Subscriber[R]) {
	if f.OnComplete != nil {
		f.OnComplete(out)
		return
	}
	out.OnComplete()
}

type flowObserver[T, R any] struct {
	flow Flow[T, R]
	out  *Subscriber[R]
}

func (o flowObserver[T, R]) OnNext(v T) {
	o.out.run(func() { o.flow.HandleNext(o.out, v) })
}

func (o flowObserver[T, R]) OnError(err error) {
	o.out.run(func() { o.flow.HandleError(o.out, err) })
}

func (o flowObserver[T, R]) OnComplete() {
	o.out.run(func() { o.flow.HandleComplete(o.out) })
}

// subscribeChild subscribes o to src with a subscriber owned by parent. The
// child is registered before src runs, so closing parent stops even a
// synchronous src before its next event.
func subscribeChild[T any](parent *Subscription, src Observable[T], o Observer[T]) *Subscriber[T] {
	child := NewSubscriber(o)
	parent.AddSubscription(child.Subscription)
	child.Add(func() {
		parent.Remove(child.Subscription)
	})
	src.Subscribe(child)
	return child
}

func subscribeFlow[T, R any](out *Subscriber[R], src Observable[T], flow Flow[T, R]) *Subscriber[T] {
	return subscribeChild[T](out.Subscription, src, flowObserver[T, R]{flow: flow, out: out})
}

// NewFlow builds a stateless operator from flow. Operators that keep state per
// subscription wrap Create around their own Flow instead.
func NewFlow[T, R any](flow Flow[T, R]) OperatorFunc[T, R] {
	return func(src Observable[T]) Observable[R] {
		return Create(func(out *Subscriber[R]) Teardown {
			subscribeFlow(out, src, flow)
			return nil
		})
	}
}

func Map[T, R any](f func(T) R) OperatorFunc[T, R] {
	return NewFlow(Flow[T, R]{
		OnNext: func(out *Subscriber[R], v T) {
			out.OnNext(f(v))
		},
	})
}

// TryMap is Map for transforms that fail with an error instead of a panic.
func TryMap[T, R any](f func(T) (R, error)) OperatorFunc[T, R] {
	return NewFlow(Flow[T, R]{
		OnNext: func(out *Subscriber[R], v T) {
			r, err := f(v)
			if err != nil {
				out.OnError(err)
				return
			}
			out.OnNext(r)
		},
	})
}

func Filter[T any](pred func(T) bool) OperatorFunc[T, T] {
	return NewFlow(Flow[T, T]{
		OnNext: func(out *Subscriber[T], v T) {
			if pred(v) {
				out.OnNext(v)
			}
		},
	})
}

// Tap calls fn for every value passing through.
func Tap[T any](fn func(T)) OperatorFunc[T, T] {
	return NewFlow(Flow[T, T]{
		OnNext: func(out *Subscriber[T], v T) {
			fn(v)
			out.OnNext(v)
		},
	})
}

// Log writes every event to logger under msg.
func Log[T any](logger grx.Logger, msg string) OperatorFunc[T, T] {
	return NewFlow(Flow[T, T]{
		OnNext: func(out *Subscriber[T], v T) {
			logger.WithField("value", v).Infof("%s: next", msg)
			out.OnNext(v)
		},
		OnError: func(out *Subscriber[T], err error) {
			logger.WithField("error", err).Errorf("%s: error", msg)
			out.OnError(err)
		},
		OnComplete: func(out *Subscriber[T]) {
			logger.Infof("%s: complete", msg)
			out.OnComplete()
		},
	})
}

// Take forwards the first n values and completes in the same call that
// delivers the n-th one, unsubscribing upstream before it can emit again.
func Take[T any](n int) OperatorFunc[T, T] {
	return func(src Observable[T]) Observable[T] {
		if n <= 0 {
			return Empty[T]()
		}
		return Create(func(out *Subscriber[T]) Teardown {
			var seen int
			subscribeFlow(out, src, Flow[T, T]{
				OnNext: func(out *Subscriber[T], v T) {
					seen++
					out.OnNext(v)
					if seen >= n {
						out.OnComplete()
					}
				},
			})
			return nil
		})
	}
}

// TakeWhile forwards values while pred holds and completes on the first one
// failing it.
func TakeWhile[T any](pred func(T) bool) OperatorFunc[T, T] {
	return NewFlow(Flow[T, T]{
		OnNext: func(out *Subscriber[T], v T) {
			if pred(v) {
				out.OnNext(v)
				return
			}
			out.OnComplete()
		},
	})
}

// TakeUntil mirrors the source until notifier emits or completes, then
// completes and unsubscribes from both.
func TakeUntil[T, N any](notifier Observable[N]) OperatorFunc[T, T] {
	return func(src Observable[T]) Observable[T] {
		return Create(func(out *Subscriber[T]) Teardown {
			subscribeChild[N](out.Subscription, notifier, ObserverFuncs[N]{
				Next:     func(N) { out.OnComplete() },
				Error:    out.OnError,
				Complete: out.OnComplete,
			})
			if out.Stopped() {
				return nil
			}
			subscribeFlow(out, src, Flow[T, T]{})
			return nil
		})
	}
}

// Skip drops the first n values.
func Skip[T any](n int) OperatorFunc[T, T] {
	return func(src Observable[T]) Observable[T] {
		return Create(func(out *Subscriber[T]) Teardown {
			var seen int
			subscribeFlow(out, src, Flow[T, T]{
				OnNext: func(out *Subscriber[T], v T) {
					if seen < n {
						seen++
						return
					}
					out.OnNext(v)
				},
			})
			return nil
		})
	}
}

// SkipWhile drops values until pred fails once.
func SkipWhile[T any](pred func(T) bool) OperatorFunc[T, T] {
	return func(src Observable[T]) Observable[T] {
		return Create(func(out *Subscriber[T]) Teardown {
			skipping := true
			subscribeFlow(out, src, Flow[T, T]{
				OnNext: func(out *Subscriber[T], v T) {
					if skipping && pred(v) {
						return
					}
					skipping = false
					out.OnNext(v)
				},
			})
			return nil
		})
	}
}

// Fold emits the accumulation of all values once the source completes.
func Fold[T, K any](seed K, f func(K, T) K) OperatorFunc[T, K] {
	return func(src Observable[T]) Observable[K] {
		return Create(func(out *Subscriber[K]) Teardown {
			acc := seed
			subscribeFlow(out, src, Flow[T, K]{
				OnNext: func(_ *Subscriber[K], v T) {
					acc = f(acc, v)
				},
				OnComplete: func(out *Subscriber[K]) {
					out.OnNext(acc)
					out.OnComplete()
				},
			})
			return nil
		})
	}
}

// Reduce is Fold seeded with the first value. An empty source completes
// without emitting.
func Reduce[T any](f func(T, T) T) OperatorFunc[T, T] {
	return func(src Observable[T]) Observable[T] {
		return Create(func(out *Subscriber[T]) Teardown {
			var acc T
			var seeded bool
			subscribeFlow(out, src, Flow[T, T]{
				OnNext: func(_ *Subscriber[T], v T) {
					if !seeded {
						acc, seeded = v, true
						return
					}
					acc = f(acc, v)
				},
				OnComplete: func(out *Subscriber[T]) {
					if seeded {
						out.OnNext(acc)
					}
					out.OnComplete()
				},
			})
			return nil
		})
	}
}

// Scan emits every intermediate accumulation.
func Scan[T, K any](seed K, f func(K, T) K) OperatorFunc[T, K] {
	return func(src Observable[T]) Observable[K] {
		return Create(func(out *Subscriber[K]) Teardown {
			acc := seed
			subscribeFlow(out, src, Flow[T, K]{
				OnNext: func(out *Subscriber[K], v T) {
					acc = f(acc, v)
					out.OnNext(acc)
				},
			})
			return nil
		})
	}
}

// Explode emits the elements of every slice value one by one.
func Explode[T any]() OperatorFunc[[]T, T] {
	return NewFlow(Flow[[]T, T]{
		OnNext: func(out *Subscriber[T], values []T) {
			for _, v := range values {
				if out.Stopped() {
					return
				}
				out.OnNext(v)
			}
		},
	})
}

// CatchError replaces an upstream error with the output of the Observable
// handler returns for it.
func CatchError[T any](handler func(error) Observable[T]) OperatorFunc[T, T] {
	return func(src Observable[T]) Observable[T] {
		return Create(func(out *Subscriber[T]) Teardown {
			subscribeFlow(out, src, Flow[T, T]{
				OnError: func(out *Subscriber[T], err error) {
					subscribeChild(out.Subscription, handler(err), Observer[T](out))
				},
			})
			return nil
		})
	}
}

// Delay shifts values and completion by d. Errors pass through at once.
func Delay[T any](d time.Duration, opts ...Option) OperatorFunc[T, T] {
	o := newOptions(opts)
	return func(src Observable[T]) Observable[T] {
		return Create(func(out *Subscriber[T]) Teardown {
			schedule := func(fn func()) {
				task := NewSubscription(nil)
				out.AddSubscription(task)
				task.Add(o.scheduler.Schedule(d, func() {
					out.Remove(task)
					fn()
				}))
			}
			subscribeFlow(out, src, Flow[T, T]{
				OnNext: func(out *Subscriber[T], v T) {
					schedule(func() { out.OnNext(v) })
				},
				OnComplete: func(out *Subscriber[T]) {
					schedule(out.OnComplete)
				},
			})
			return nil
		})
	}
}
