package rxtest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/7vars/grx/rx"
)

func TestParse(t *testing.T) {
	assert.Equal(t, []Recorded[string]{
		{Frame: 2, Notification: rx.Next("a")},
		{Frame: 5, Notification: rx.Next("b")},
		{Frame: 8, Notification: rx.Next("c")},
		{Frame: 8, Notification: rx.Complete[string]()},
	}, Parse[string]("--a--b--(c|)", nil))
}

func TestParseValuesAndErrors(t *testing.T) {
	assert.Equal(t, []Recorded[int]{
		{Frame: 0, Notification: rx.Next(1)},
		{Frame: 2, Notification: rx.Error[int](ErrMarble)},
	}, Parse("a-#", map[string]int{"a": 1}))

	assert.Panics(t, func() { Parse("a", map[string]int{}) })
}

func TestParseTimeProgression(t *testing.T) {
	assert.Equal(t, []Recorded[string]{
		{Frame: 6, Notification: rx.Next("a")},
		{Frame: 12, Notification: rx.Complete[string]()},
	}, Parse[string]("5ms -a 5ms |", nil))
}

func TestParseSubscription(t *testing.T) {
	assert.Equal(t, SubscriptionLog{Subscribed: 0, Unsubscribed: 8}, ParseSubscription("^-------!"))
	assert.Equal(t, SubscriptionLog{Subscribed: 2, Unsubscribed: Infinite}, ParseSubscription("--^--"))
}

func TestColdObservableReplaysPerSubscriber(t *testing.T) {
	s := NewScheduler()
	cold := Cold[string](s, "-a|", nil)
	first := Record[string](s, cold)
	var second *Recorder[string]
	s.At(3, func() { second = Record[string](s, cold) })
	s.Flush()

	assert.Equal(t, Parse[string]("-a|", nil), first.Events())
	assert.Equal(t, Parse[string]("----a|", nil), second.Events())
	assert.Equal(t, []SubscriptionLog{{0, 2}, {3, 5}}, cold.Subscriptions())
}

func TestHotObservableDoesNotReplay(t *testing.T) {
	s := NewScheduler()
	hot := Hot[string](s, "-a-^-b-c|", nil)
	var late *Recorder[string]
	s.At(3, func() { late = Record[string](s, hot) })
	s.Flush()

	assert.Equal(t, Parse[string]("----c|", nil), late.Events())
	assert.Equal(t, []string{"c"}, late.Values())
	assert.Equal(t, []SubscriptionLog{{3, 5}}, hot.Subscriptions())
}
