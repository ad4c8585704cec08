package rxtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSchedulerRunsInFrameOrder(t *testing.T) {
	s := NewScheduler()
	var order []string
	s.Schedule(20*time.Millisecond, func() { order = append(order, "late") })
	s.Schedule(10*time.Millisecond, func() { order = append(order, "first") })
	s.Schedule(10*time.Millisecond, func() {
		order = append(order, "second")
		s.Schedule(0, func() { order = append(order, "nested") })
	})
	s.Flush()

	assert.Equal(t, []string{"first", "second", "nested", "late"}, order)
	assert.Equal(t, 20, s.Now())
}

func TestSchedulerCancel(t *testing.T) {
	s := NewScheduler()
	var ran bool
	cancel := s.Schedule(time.Millisecond, func() { ran = true })
	cancel()
	s.Flush()

	assert.False(t, ran)
	assert.Equal(t, 0, s.Now())
}

func TestSchedulerPastFramesRunNow(t *testing.T) {
	s := NewScheduler()
	var at int
	s.At(5, func() {
		s.At(1, func() { at = s.Now() })
	})
	s.Flush()

	assert.Equal(t, 5, at)
}
