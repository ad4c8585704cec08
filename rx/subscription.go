package rx

import (
	"sync"

	"github.com/google/uuid"
)

// Subscription owns the teardowns of one subscription plus child
// subscriptions registered later. Unsubscribe is idempotent: the first call
// unsubscribes every child in registration order, then runs the own
// teardowns; later calls do nothing.
type Subscription struct {
	mu        sync.Mutex
	id        string
	closed    bool
	teardowns []Teardown
	children  []*Subscription
}

// NewSubscription returns an open Subscription running td on close.
func NewSubscription(td Teardown) *Subscription {
	s := &Subscription{id: uuid.NewString()}
	if td != nil {
		s.teardowns = append(s.teardowns, td)
	}
	return s
}

// ID identifies the subscription in logs.
func (s *Subscription) ID() string {
	return s.id
}

func (s *Subscription) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Add registers td. On a closed subscription td runs immediately.
func (s *Subscription) Add(td Teardown) {
	if td == nil {
		return
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		td()
		return
	}
	s.teardowns = append(s.teardowns, td)
	s.mu.Unlock()
}

// AddSubscription binds child to s: closing s closes child. On a closed
// subscription child is unsubscribed immediately.
func (s *Subscription) AddSubscription(child *Subscription) {
	if child == nil || child == s {
		return
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		child.Unsubscribe()
		return
	}
	s.children = append(s.children, child)
	s.mu.Unlock()
}

// Remove forgets child without unsubscribing it.
func (s *Subscription) Remove(child *Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.children {
		if c == child {
			s.children = append(s.children[:i], s.children[i+1:]...)
			return
		}
	}
}

func (s *Subscription) Unsubscribe() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	children, teardowns := s.children, s.teardowns
	s.children, s.teardowns = nil, nil
	s.mu.Unlock()

	for _, child := range children {
		child.Unsubscribe()
	}
	for _, td := range teardowns {
		td()
	}
}
