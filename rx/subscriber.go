package rx

import (
	"sync/atomic"

	"github.com/7vars/grx"
)

// Subscriber guards an Observer. Once stopped by a terminal event or closed
// by Unsubscribe, no further event reaches the wrapped Observer. A terminal
// event closes the Subscriber, running its teardowns, before the call
// returns.
type Subscriber[T any] struct {
	*Subscription
	dst     Observer[T]
	stopped atomic.Bool
	// faulted marks a panic that left the wrapped Observer during the
	// outermost run; it must not be mistaken for a failing producer.
	faulted atomic.Bool
	running atomic.Int32
}

func NewSubscriber[T any](dst Observer[T]) *Subscriber[T] {
	return &Subscriber[T]{
		Subscription: NewSubscription(nil),
		dst:          dst,
	}
}

func asSubscriber[T any](o Observer[T]) *Subscriber[T] {
	if s, ok := o.(*Subscriber[T]); ok {
		return s
	}
	return NewSubscriber(o)
}

// Stopped reports whether the Subscriber still accepts events.
func (s *Subscriber[T]) Stopped() bool {
	return s.stopped.Load() || s.Closed()
}

func (s *Subscriber[T]) OnNext(v T) {
	if s.Stopped() {
		return
	}
	s.deliver(func() { s.dst.OnNext(v) })
}

func (s *Subscriber[T]) OnError(err error) {
	if s.Closed() || !s.stopped.CompareAndSwap(false, true) {
		return
	}
	defer s.Unsubscribe()
	s.deliver(func() { s.dst.OnError(err) })
}

func (s *Subscriber[T]) OnComplete() {
	if s.Closed() || !s.stopped.CompareAndSwap(false, true) {
		return
	}
	defer s.Unsubscribe()
	s.deliver(s.dst.OnComplete)
}

func (s *Subscriber[T]) Unsubscribe() {
	s.stopped.Store(true)
	s.Subscription.Unsubscribe()
}

func (s *Subscriber[T]) deliver(f func()) {
	defer func() {
		if p := recover(); p != nil {
			s.faulted.Store(true)
			panic(p)
		}
	}()
	f()
}

// run executes a producer body on behalf of s.
func (s *Subscriber[T]) run(body func()) {
	if s.running.Add(1) == 1 {
		s.faulted.Store(false)
	}
	defer s.running.Add(-1)
	defer s.recoverFault()
	body()
}

// recoverFault routes a panic of producer or operator code to OnError. A
// panic that escaped the wrapped Observer is not the engine's to handle and
// keeps unwinding. It must be deferred directly.
func (s *Subscriber[T]) recoverFault() {
	if p := recover(); p != nil {
		if s.faulted.Load() {
			panic(p)
		}
		s.OnError(grx.RuntimeError(p))
	}
}

// try calls f and converts a panic into an error.
func try[R any](f func() R) (r R, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = grx.RuntimeError(p)
		}
	}()
	return f(), nil
}
