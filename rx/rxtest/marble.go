package rxtest

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"sync"

	"github.com/7vars/grx/rx"
)

// Infinite marks a subscription that was never unsubscribed.
const Infinite = math.MaxInt

// ErrMarble is the error a '#' stands for.
var ErrMarble = errors.New("rxtest: error")

// Recorded is a notification observed at a frame.
type Recorded[T any] struct {
	Frame int
	rx.Notification[T]
}

// SubscriptionLog holds the frames a subscription started and ended at.
type SubscriptionLog struct {
	Subscribed   int
	Unsubscribed int
}

type token struct {
	frame int
	char  byte
}

// scan walks a marble diagram. '-' advances one frame, "(...)" puts its
// content on the frame the group opened at, "Nms" advances N frames and
// spaces are ignored.
func scan(marbles string) []token {
	var tokens []token
	frame, group := 0, -1
	for i := 0; i < len(marbles); i++ {
		c := marbles[i]
		at := frame
		if group >= 0 {
			at = group
		}
		switch {
		case c == ' ':
			continue
		case c == '-':
		case c == '(':
			group = frame
		case c == ')':
			group = -1
		case c >= '0' && c <= '9':
			j := i
			for j < len(marbles) && marbles[j] >= '0' && marbles[j] <= '9' {
				j++
			}
			if j+1 < len(marbles) && marbles[j:j+2] == "ms" {
				n, _ := strconv.Atoi(marbles[i:j])
				frame += n
				i = j + 1
				continue
			}
			tokens = append(tokens, token{frame: at, char: c})
		default:
			tokens = append(tokens, token{frame: at, char: c})
		}
		frame++
	}
	return tokens
}

func lookup[T any](c byte, values map[string]T) T {
	if v, ok := values[string(c)]; ok {
		return v
	}
	if v, ok := any(string(c)).(T); ok {
		return v
	}
	panic(fmt.Sprintf("rxtest: no value for marble %q", c))
}

// Parse turns a marble diagram into the notifications it describes. Values are
// looked up in values by their character; without an entry the character
// itself is used, which requires T to be string.
func Parse[T any](marbles string, values map[string]T) []Recorded[T] {
	var events []Recorded[T]
	for _, t := range scan(marbles) {
		switch t.char {
		case '|':
			events = append(events, Recorded[T]{Frame: t.frame, Notification: rx.Complete[T]()})
		case '#':
			events = append(events, Recorded[T]{Frame: t.frame, Notification: rx.Error[T](ErrMarble)})
		case '^', '!':
		default:
			events = append(events, Recorded[T]{Frame: t.frame, Notification: rx.Next(lookup(t.char, values))})
		}
	}
	return events
}

// ParseSubscription reads '^' and '!' from a subscription diagram.
func ParseSubscription(marbles string) SubscriptionLog {
	log := SubscriptionLog{Subscribed: Infinite, Unsubscribed: Infinite}
	for _, t := range scan(marbles) {
		switch t.char {
		case '^':
			log.Subscribed = t.frame
		case '!':
			log.Unsubscribed = t.frame
		}
	}
	return log
}

type subscriptionLogger struct {
	mu   sync.Mutex
	logs []SubscriptionLog
}

func (l *subscriptionLogger) subscribed(frame int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logs = append(l.logs, SubscriptionLog{Subscribed: frame, Unsubscribed: Infinite})
	return len(l.logs) - 1
}

func (l *subscriptionLogger) unsubscribed(i, frame int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logs[i].Unsubscribed = frame
}

// Subscriptions lists every subscription seen so far.
func (l *subscriptionLogger) Subscriptions() []SubscriptionLog {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]SubscriptionLog(nil), l.logs...)
}

// ColdObservable replays its diagram, relative to the subscription frame, for
// every subscriber.
type ColdObservable[T any] struct {
	subscriptionLogger
	scheduler *Scheduler
	events    []Recorded[T]
}

func Cold[T any](s *Scheduler, marbles string, values map[string]T) *ColdObservable[T] {
	return &ColdObservable[T]{scheduler: s, events: Parse(marbles, values)}
}

func (c *ColdObservable[T]) Subscribe(o rx.Observer[T]) *rx.Subscription {
	return rx.Create(func(sub *rx.Subscriber[T]) rx.Teardown {
		now := c.scheduler.Now()
		idx := c.subscribed(now)
		cancels := make([]rx.Teardown, 0, len(c.events))
		for _, e := range c.events {
			e := e
			cancels = append(cancels, c.scheduler.At(now+e.Frame, func() {
				e.Accept(sub)
			}))
		}
		return func() {
			for _, cancel := range cancels {
				cancel()
			}
			c.unsubscribed(idx, c.scheduler.Now())
		}
	}).Subscribe(o)
}

// HotObservable plays its diagram once, from the frame it was created at,
// whether anybody listens or not. A '^' marks frame zero; events before it
// are dropped.
type HotObservable[T any] struct {
	subscriptionLogger
	scheduler *Scheduler
	subject   *rx.Subject[T]
}

func Hot[T any](s *Scheduler, marbles string, values map[string]T) *HotObservable[T] {
	h := &HotObservable[T]{scheduler: s, subject: rx.NewSubject[T]()}
	offset := 0
	for _, t := range scan(marbles) {
		if t.char == '^' {
			offset = t.frame
		}
	}
	now := s.Now()
	for _, e := range Parse(marbles, values) {
		if e.Frame < offset {
			continue
		}
		e := e
		s.At(now+e.Frame-offset, func() {
			e.Accept(h.subject)
		})
	}
	return h
}

func (h *HotObservable[T]) Subscribe(o rx.Observer[T]) *rx.Subscription {
	return rx.Create(func(sub *rx.Subscriber[T]) rx.Teardown {
		idx := h.subscribed(h.scheduler.Now())
		h.subject.Subscribe(sub)
		return func() {
			h.unsubscribed(idx, h.scheduler.Now())
		}
	}).Subscribe(o)
}

// Recorder captures the notifications of one subscription with their frames.
type Recorder[T any] struct {
	mu     sync.Mutex
	events []Recorded[T]
	sub    *rx.Subscription
}

// Record subscribes to src at the current frame.
func Record[T any](s *Scheduler, src rx.Observable[T]) *Recorder[T] {
	r := &Recorder[T]{}
	add := func(n rx.Notification[T]) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.events = append(r.events, Recorded[T]{Frame: s.Now(), Notification: n})
	}
	r.sub = src.Subscribe(rx.ObserverFuncs[T]{
		Next:     func(v T) { add(rx.Next(v)) },
		Error:    func(err error) { add(rx.Error[T](err)) },
		Complete: func() { add(rx.Complete[T]()) },
	})
	return r
}

// Events returns what was recorded so far.
func (r *Recorder[T]) Events() []Recorded[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Recorded[T](nil), r.events...)
}

// Values returns the recorded values without frames.
func (r *Recorder[T]) Values() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	var values []T
	for _, e := range r.events {
		if e.Kind == rx.NEXT {
			values = append(values, e.Value)
		}
	}
	return values
}

func (r *Recorder[T]) Unsubscribe() {
	r.sub.Unsubscribe()
}
