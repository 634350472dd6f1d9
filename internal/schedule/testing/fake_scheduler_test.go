package testing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFakeScheduler_PostRunsOnFlush(t *testing.T) {
	s := NewFakeScheduler(start)
	ran := false
	s.Post(func() { ran = true })
	assert.False(t, ran)
	s.Flush()
	assert.True(t, ran)
}

func TestFakeScheduler_TimersFireInOrder(t *testing.T) {
	s := NewFakeScheduler(start)
	var order []string
	s.AfterFunc(3*time.Second, func() { order = append(order, "c") })
	s.AfterFunc(time.Second, func() { order = append(order, "a") })
	s.AfterFunc(2*time.Second, func() {
		order = append(order, "b")
		assert.Equal(t, start.Add(2*time.Second), s.Now())
	})

	s.Advance(5 * time.Second)
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, start.Add(5*time.Second), s.Now())
	assert.Equal(t, 0, s.ActiveTimers())
}

func TestFakeScheduler_StopBeforeFire(t *testing.T) {
	s := NewFakeScheduler(start)
	fired := false
	timer := s.AfterFunc(time.Second, func() { fired = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())
	s.Advance(2 * time.Second)
	assert.False(t, fired)
}

func TestFakeScheduler_Every(t *testing.T) {
	s := NewFakeScheduler(start)
	ticks := 0
	timer := s.Every(time.Second, func() { ticks++ })

	s.Advance(3500 * time.Millisecond)
	assert.Equal(t, 3, ticks)
	assert.Equal(t, 1, s.ActiveTimers())

	timer.Stop()
	s.Advance(time.Minute)
	assert.Equal(t, 3, ticks)
	assert.Equal(t, 0, s.ActiveTimers())
}

func TestFakeScheduler_Jobs(t *testing.T) {
	s := NewFakeScheduler(start)
	var got []string

	s.Go(func(ctx context.Context) func() {
		got = append(got, "work1")
		return func() { got = append(got, "done1") }
	})
	s.Go(func(ctx context.Context) func() {
		got = append(got, "work2")
		return nil
	})

	assert.Equal(t, 2, s.InFlight())
	assert.Equal(t, 2, s.Started)
	assert.Empty(t, got)

	assert.True(t, s.CompleteNext())
	assert.Equal(t, []string{"work1", "done1"}, got)
	assert.Equal(t, 1, s.InFlight())

	s.CompleteAll()
	assert.Equal(t, []string{"work1", "done1", "work2"}, got)
	assert.False(t, s.CompleteNext())
}
