package rx_test

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/7vars/grx/rx"
	"github.com/7vars/grx/rx/rxtest"
)

func TestCreateIsCold(t *testing.T) {
	var runs, teardowns int
	src := rx.Create(func(sub *rx.Subscriber[int]) rx.Teardown {
		runs++
		sub.OnNext(runs)
		return func() { teardowns++ }
	})

	first, second := &recorder[int]{}, &recorder[int]{}
	a := src.Subscribe(first)
	b := src.Subscribe(second)
	assert.Equal(t, 2, runs)
	assert.Equal(t, []int{1}, first.values)
	assert.Equal(t, []int{2}, second.values)

	a.Unsubscribe()
	b.Unsubscribe()
	b.Unsubscribe()
	assert.Equal(t, 2, teardowns)
}

func TestSimpleSources(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3}, collect(t, rx.Of(1, 2, 3)))
	assert.Equal(t, []string{"a", "b"}, collect(t, rx.From([]string{"a", "b"})))
	assert.Equal(t, []int{1, 2}, collect(t, rx.FromIter(slices.Values([]int{1, 2}))))
	assert.Empty(t, collect(t, rx.Empty[int]()))

	errFailed := errors.New("failed")
	_, err := rx.Collect(context.Background(), rx.Throw[int](errFailed))
	assert.ErrorIs(t, err, errFailed)
}

func TestNever(t *testing.T) {
	rec := &recorder[int]{}
	sub := rx.Never[int]().Subscribe(rec)
	assert.False(t, sub.Closed())
	sub.Unsubscribe()
	assert.Empty(t, rec.values)
	assert.Zero(t, rec.completed)
}

func TestDeferCallsFactoryPerSubscribe(t *testing.T) {
	var calls int
	src := rx.Defer(func() rx.Observable[int] {
		calls++
		return rx.Of(calls)
	})
	assert.Equal(t, []int{1}, collect(t, src))
	assert.Equal(t, []int{2}, collect(t, src))
}

func TestInterval(t *testing.T) {
	s := rxtest.NewScheduler()
	rec := rxtest.Record(s, rx.Pipe(rx.Interval(10*time.Millisecond, rx.WithScheduler(s)), rx.Take[int](3)))
	s.Flush()

	assert.Equal(t, []rxtest.Recorded[int]{
		{Frame: 10, Notification: rx.Next(0)},
		{Frame: 20, Notification: rx.Next(1)},
		{Frame: 30, Notification: rx.Next(2)},
		{Frame: 30, Notification: rx.Complete[int]()},
	}, rec.Events())
}

func TestIntervalIsColdPerSubscriber(t *testing.T) {
	s := rxtest.NewScheduler()
	interval := rx.Pipe(rx.Interval(10*time.Millisecond, rx.WithScheduler(s)), rx.Take[int](2))
	first := rxtest.Record(s, interval)
	var late *rxtest.Recorder[int]
	s.At(15, func() { late = rxtest.Record(s, interval) })
	s.Flush()

	assert.Equal(t, []int{0, 1}, first.Values())
	assert.Equal(t, []int{0, 1}, late.Values())
	assert.Equal(t, 35, late.Events()[2].Frame)
}

func TestIntervalOnClock(t *testing.T) {
	clk := testclock.NewClock(time.Time{})
	values := make(chan int, 1)
	sub := rx.Interval(time.Second, rx.WithScheduler(rx.ClockScheduler(clk))).
		Subscribe(rx.NextFunc(func(v int) { values <- v }))
	defer sub.Unsubscribe()

	for i := 0; i < 3; i++ {
		require.NoError(t, clk.WaitAdvance(time.Second, 5*time.Second, 1))
		select {
		case v := <-values:
			assert.Equal(t, i, v)
		case <-time.After(5 * time.Second):
			t.Fatalf("tick %d not delivered", i)
		}
	}
}

func TestTimer(t *testing.T) {
	s := rxtest.NewScheduler()
	rec := rxtest.Record(s, rx.Timer(50*time.Millisecond, rx.WithScheduler(s)))
	s.Flush()

	assert.Equal(t, []rxtest.Recorded[int]{
		{Frame: 50, Notification: rx.Next(0)},
		{Frame: 50, Notification: rx.Complete[int]()},
	}, rec.Events())
}

func TestTimerUnsubscribedBeforeFiring(t *testing.T) {
	s := rxtest.NewScheduler()
	rec := rxtest.Record(s, rx.Timer(50*time.Millisecond, rx.WithScheduler(s)))
	s.At(10, rec.Unsubscribe)
	s.Flush()

	assert.Empty(t, rec.Events())
	assert.Equal(t, 10, s.Now())
}

func TestTimerTakeUntilEvent(t *testing.T) {
	s := rxtest.NewScheduler()
	clicks := rxtest.Hot[string](s, "^--c", nil)
	rec := rxtest.Record(s, rx.Pipe(
		rx.Interval(time.Millisecond, rx.WithScheduler(s)),
		rx.TakeUntil[int, string](clicks),
	))
	s.Flush()

	assert.Equal(t, []int{0, 1}, rec.Values())
	assert.Equal(t, []rxtest.SubscriptionLog{{Subscribed: 0, Unsubscribed: 3}}, clicks.Subscriptions())
}
