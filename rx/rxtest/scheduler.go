// Package rxtest runs Observables in virtual time and describes their
// timelines in marble notation.
package rxtest

import (
	"container/heap"
	"sync"
	"time"

	"github.com/7vars/grx/rx"
)

// FrameDuration is the virtual time one marble frame stands for.
const FrameDuration = time.Millisecond

type action struct {
	frame     int
	seq       int
	fn        func()
	cancelled bool
}

type actionQueue []*action

func (q actionQueue) Len() int { return len(q) }

func (q actionQueue) Less(i, j int) bool {
	if q[i].frame != q[j].frame {
		return q[i].frame < q[j].frame
	}
	return q[i].seq < q[j].seq
}

func (q actionQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *actionQueue) Push(x any) { *q = append(*q, x.(*action)) }

func (q *actionQueue) Pop() any {
	old := *q
	a := old[len(old)-1]
	*q = old[:len(old)-1]
	return a
}

// Scheduler is a virtual clock. Scheduled work runs synchronously, in frame
// order and FIFO within a frame, when Flush is called.
type Scheduler struct {
	mu    sync.Mutex
	now   int
	seq   int
	queue actionQueue
}

var _ rx.Scheduler = (*Scheduler)(nil)

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Now is the current frame.
func (s *Scheduler) Now() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

func (s *Scheduler) Schedule(delay time.Duration, fn func()) rx.Teardown {
	s.mu.Lock()
	frame := s.now + int(delay/FrameDuration)
	s.mu.Unlock()
	return s.At(frame, fn)
}

// At runs fn at the given absolute frame. Frames in the past run on the next
// Flush step.
func (s *Scheduler) At(frame int, fn func()) rx.Teardown {
	s.mu.Lock()
	defer s.mu.Unlock()
	if frame < s.now {
		frame = s.now
	}
	a := &action{frame: frame, seq: s.seq, fn: fn}
	s.seq++
	heap.Push(&s.queue, a)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		a.cancelled = true
	}
}

// Flush runs scheduled work until the queue is empty.
func (s *Scheduler) Flush() {
	for {
		s.mu.Lock()
		if s.queue.Len() == 0 {
			s.mu.Unlock()
			return
		}
		a := heap.Pop(&s.queue).(*action)
		if a.cancelled {
			s.mu.Unlock()
			continue
		}
		s.now = a.frame
		s.mu.Unlock()
		a.fn()
	}
}
