package rx_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/7vars/grx/rx"
)

func TestSubjectDispatchesInRegistrationOrder(t *testing.T) {
	subject := rx.NewSubject[int]()
	var order []string
	subject.Subscribe(rx.NextFunc(func(v int) { order = append(order, "first") }))
	subject.Subscribe(rx.NextFunc(func(v int) { order = append(order, "second") }))

	subject.OnNext(1)
	assert.Equal(t, []string{"first", "second"}, order)
	assert.Equal(t, 2, subject.ObserverCount())
}

func TestSubjectSubscriberAddedDuringDispatchMissesEventInFlight(t *testing.T) {
	subject := rx.NewSubject[int]()
	var first, late []int
	subject.Subscribe(rx.NextFunc(func(v int) {
		first = append(first, v)
		if v == 1 {
			subject.Subscribe(rx.NextFunc(func(v int) { late = append(late, v) }))
		}
	}))

	subject.OnNext(1)
	subject.OnNext(2)
	assert.Equal(t, []int{1, 2}, first)
	assert.Equal(t, []int{2}, late)
}

func TestSubjectSubscriberRemovedDuringDispatchIsSkipped(t *testing.T) {
	subject := rx.NewSubject[int]()
	var second *rx.Subscription
	var got []int
	subject.Subscribe(rx.NextFunc(func(v int) {
		if v == 1 {
			second.Unsubscribe()
		}
	}))
	second = subject.Subscribe(rx.NextFunc(func(v int) { got = append(got, v) }))

	subject.OnNext(1)
	subject.OnNext(2)
	assert.Empty(t, got)
	assert.Equal(t, 1, subject.ObserverCount())
}

func TestSubjectReplaysOnlyTerminalEvent(t *testing.T) {
	subject := rx.NewSubject[int]()
	early := &recorder[int]{}
	subject.Subscribe(early)
	subject.OnNext(1)
	subject.OnComplete()
	subject.OnNext(2)
	subject.OnError(errors.New("ignored"))

	late := &recorder[int]{}
	sub := subject.Subscribe(late)

	assert.Equal(t, []int{1}, early.values)
	assert.Equal(t, 1, early.completed)
	assert.Empty(t, late.values)
	assert.Equal(t, 1, late.completed)
	assert.True(t, sub.Closed())
	assert.False(t, subject.HasObservers())
	assert.True(t, subject.Stopped())
}

func TestSubjectReplaysError(t *testing.T) {
	subject := rx.NewSubject[int]()
	err := errors.New("failed")
	subject.OnError(err)

	late := &recorder[int]{}
	subject.Subscribe(late)
	assert.Same(t, err, late.err)
	assert.Zero(t, late.completed)
}

func TestSubjectErrorWithNilValueIsStillAnError(t *testing.T) {
	subject := rx.NewSubject[int]()
	subject.OnError(nil)

	late := &recorder[int]{}
	subject.Subscribe(late)
	assert.Equal(t, 1, late.errored)
	assert.Zero(t, late.completed)
}

func TestSubjectAsObservable(t *testing.T) {
	subject := rx.NewSubject[string]()
	var got []string
	sub := rx.ForEach(subject.AsObservable(), func(v string) { got = append(got, v) })

	subject.OnNext("a")
	sub.Unsubscribe()
	subject.OnNext("b")

	assert.Equal(t, []string{"a"}, got)
	assert.False(t, subject.HasObservers())
}
