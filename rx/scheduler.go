package rx

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/juju/clock"

	"github.com/7vars/grx"
)

// Scheduler runs fn once after delay. The returned Teardown cancels a pending
// run. Implementations must not call fn from within Schedule.
type Scheduler interface {
	Schedule(delay time.Duration, fn func()) Teardown
}

// Runner is implemented by schedulers that can run fn on the calling
// goroutine, serialised with their own callbacks. Run must not be called
// from within such a callback.
type Runner interface {
	Run(fn func())
}

// dispatch hands fn, produced on a foreign goroutine, to s. Schedulers
// without Run get it as an immediate task.
func dispatch(s Scheduler, fn func()) {
	if r, ok := s.(Runner); ok {
		r.Run(fn)
		return
	}
	s.Schedule(0, fn)
}

// DefaultScheduler drives time based sources when no scheduler is given.
var DefaultScheduler = ClockScheduler(clock.WallClock)

type clockScheduler struct {
	mu    sync.Mutex
	clock clock.Clock
}

// ClockScheduler schedules on c. Callbacks of one scheduler never overlap,
// neither with each other nor with Run, so everything they push runs on one
// logical thread of control.
func ClockScheduler(c clock.Clock) Scheduler {
	return &clockScheduler{clock: c}
}

func (s *clockScheduler) Schedule(delay time.Duration, fn func()) Teardown {
	var cancelled atomic.Bool
	timer := s.clock.AfterFunc(delay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if cancelled.Load() {
			return
		}
		fn()
	})
	return func() {
		cancelled.Store(true)
		timer.Stop()
	}
}

func (s *clockScheduler) Run(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

type options struct {
	scheduler  Scheduler
	logger     grx.Logger
	persistent bool
}

type Option func(*options)

func WithScheduler(s Scheduler) Option {
	return func(o *options) {
		o.scheduler = s
	}
}

func WithLogger(l grx.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// Persistent keeps the Subject of Publish and Share across disconnects: late
// subscribers then see the terminal event instead of a new execution.
func Persistent() Option {
	return func(o *options) {
		o.persistent = true
	}
}

func newOptions(opts []Option) options {
	o := options{
		scheduler: DefaultScheduler,
		logger:    grx.NopLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
