package rx

import (
	"sync"
)

// Subject is an Observer and an Observable at once. Every event it receives
// is dispatched to the subscribers registered at that moment, in
// registration order. After a terminal event new subscribers get only that
// terminal event; values are never replayed.
type Subject[T any] struct {
	mu        sync.Mutex
	observers []*Subscriber[T]
	stopped   bool
	failed    bool
	err       error
}

func NewSubject[T any]() *Subject[T] {
	return &Subject[T]{}
}

func (s *Subject[T]) Subscribe(o Observer[T]) *Subscription {
	sub := asSubscriber(o)

	s.mu.Lock()
	if s.stopped {
		failed, err := s.failed, s.err
		s.mu.Unlock()
		if failed {
			sub.OnError(err)
		} else {
			sub.OnComplete()
		}
		return sub.Subscription
	}
	s.observers = append(s.observers, sub)
	s.mu.Unlock()

	sub.Add(func() {
		s.remove(sub)
	})
	return sub.Subscription
}

func (s *Subject[T]) remove(sub *Subscriber[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, o := range s.observers {
		if o == sub {
			s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
			return
		}
	}
}

// snapshot returns the current registry. Dispatch iterates the snapshot, so
// subscribers added meanwhile miss the event in flight and subscribers leaving
// meanwhile are skipped by their own guard.
func (s *Subject[T]) snapshot() []*Subscriber[T] {
	return append([]*Subscriber[T](nil), s.observers...)
}

func (s *Subject[T]) OnNext(v T) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	observers := s.snapshot()
	s.mu.Unlock()

	for _, o := range observers {
		o.OnNext(v)
	}
}

func (s *Subject[T]) OnError(err error) {
	for _, o := range s.terminate(true, err) {
		o.OnError(err)
	}
}

func (s *Subject[T]) OnComplete() {
	for _, o := range s.terminate(false, nil) {
		o.OnComplete()
	}
}

func (s *Subject[T]) terminate(failed bool, err error) []*Subscriber[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return nil
	}
	s.stopped = true
	s.failed, s.err = failed, err
	observers := s.snapshot()
	s.observers = nil
	return observers
}

// Stopped reports whether the Subject received a terminal event.
func (s *Subject[T]) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

func (s *Subject[T]) HasObservers() bool {
	return s.ObserverCount() > 0
}

func (s *Subject[T]) ObserverCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.observers)
}

// AsObservable hides the Observer half.
func (s *Subject[T]) AsObservable() Observable[T] {
	return Create(func(sub *Subscriber[T]) Teardown {
		s.Subscribe(sub)
		return nil
	})
}
