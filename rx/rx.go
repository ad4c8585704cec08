// Package rx is a push based reactive streams engine.
//
// An Observable is a lazy, possibly infinite, sequence of values. Nothing
// happens until it is subscribed; every subscription of a cold Observable
// runs its producer again from scratch. Values travel from the producer
// through a pipeline of operators to an Observer, cancellation travels back
// through the Subscription returned by Subscribe.
package rx

import (
	"errors"
)

var (
	// ErrEmpty is reported by sinks and operators that need at least one value.
	ErrEmpty = errors.New("rx: no elements in sequence")
	// ErrUnsupportedType is reported when a value cannot be forwarded as the
	// downstream element type.
	ErrUnsupportedType = errors.New("rx: unsupported type")
)

// Teardown releases what one subscription acquired. A nil Teardown does nothing.
type Teardown func()

// Observer receives the events of one subscription: OnNext any number of
// times, then at most one of OnError or OnComplete.
type Observer[T any] interface {
	OnNext(T)
	OnError(error)
	OnComplete()
}

// Observable starts a new execution for every Subscribe call, unless it is a
// Subject or a multicast wrapper.
type Observable[T any] interface {
	Subscribe(Observer[T]) *Subscription
}

// OperatorFunc transforms one Observable into another.
type OperatorFunc[A, B any] func(Observable[A]) Observable[B]

// ObserverFuncs adapts plain functions to an Observer. Missing Next and
// Complete handlers ignore the event. A missing Error handler panics with the
// error: an error nobody handles is never dropped.
type ObserverFuncs[T any] struct {
	Next     func(T)
	Error    func(error)
	Complete func()
}

func (o ObserverFuncs[T]) OnNext(v T) {
	if o.Next != nil {
		o.Next(v)
	}
}

func (o ObserverFuncs[T]) OnError(err error) {
	if o.Error != nil {
		o.Error(err)
		return
	}
	panic(err)
}

func (o ObserverFuncs[T]) OnComplete() {
	if o.Complete != nil {
		o.Complete()
	}
}

// NextFunc is an Observer for callers that only care about values.
func NextFunc[T any](f func(T)) Observer[T] {
	return ObserverFuncs[T]{Next: f}
}

// Kind tells the three notification kinds apart.
type Kind int

const (
	NEXT Kind = iota
	ERROR
	COMPLETE
)

func (k Kind) String() string {
	switch k {
	case NEXT:
		return "next"
	case ERROR:
		return "error"
	case COMPLETE:
		return "complete"
	}
	return "unknown"
}

// Notification is an event materialized as a value.
type Notification[T any] struct {
	Kind  Kind
	Value T
	Err   error
}

func (n Notification[T]) IsError() bool {
	return n.Kind == ERROR
}

func (n Notification[T]) IsCompleted() bool {
	return n.Kind == COMPLETE
}

// Accept replays the notification into o.
func (n Notification[T]) Accept(o Observer[T]) {
	switch n.Kind {
	case NEXT:
		o.OnNext(n.Value)
	case ERROR:
		o.OnError(n.Err)
	case COMPLETE:
		o.OnComplete()
	}
}

func Next[T any](v T) Notification[T] {
	return Notification[T]{Kind: NEXT, Value: v}
}

func Error[T any](err error) Notification[T] {
	return Notification[T]{Kind: ERROR, Err: err}
}

func Complete[T any]() Notification[T] {
	return Notification[T]{Kind: COMPLETE}
}
