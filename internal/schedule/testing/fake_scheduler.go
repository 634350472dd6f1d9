// Package testing provides a deterministic Scheduler for tests.
package testing

import (
	"context"
	"sort"
	"time"

	"github.com/rileyhilliard/statgrid/internal/schedule"
)

// FakeScheduler is a manual clock plus a run queue. Nothing happens until the
// test calls Flush, Advance or one of the Complete methods. It is not safe for
// concurrent use; everything runs on the test goroutine.
type FakeScheduler struct {
	now    time.Time
	queue  []func()
	timers []*fakeTimer
	jobs   []schedule.Work
	seq    int

	// Tracking for assertions
	Started int // Background jobs submitted via Go
}

// NewFakeScheduler starts the clock at start.
func NewFakeScheduler(start time.Time) *FakeScheduler {
	return &FakeScheduler{now: start}
}

// Now returns the manual clock.
func (s *FakeScheduler) Now() time.Time {
	return s.now
}

// Post queues fn.
func (s *FakeScheduler) Post(fn func()) {
	s.queue = append(s.queue, fn)
}

// Go records work; it runs on CompleteNext or CompleteAll.
func (s *FakeScheduler) Go(work schedule.Work) {
	s.Started++
	s.jobs = append(s.jobs, work)
}

// AfterFunc schedules fn once at Now()+d.
func (s *FakeScheduler) AfterFunc(d time.Duration, fn func()) schedule.Timer {
	return s.addTimer(d, 0, fn)
}

// Every schedules fn at every multiple of d from Now().
func (s *FakeScheduler) Every(d time.Duration, fn func()) schedule.Timer {
	return s.addTimer(d, d, fn)
}

func (s *FakeScheduler) addTimer(d, period time.Duration, fn func()) *fakeTimer {
	s.seq++
	t := &fakeTimer{at: s.now.Add(d), period: period, fn: fn, active: true, seq: s.seq}
	s.timers = append(s.timers, t)
	return t
}

// Flush runs queued callbacks, including ones they post, until the queue is
// empty.
func (s *FakeScheduler) Flush() {
	for len(s.queue) > 0 {
		fn := s.queue[0]
		s.queue = s.queue[1:]
		fn()
	}
}

// Advance moves the clock forward by d, firing due timers in time order and
// flushing the queue after each.
func (s *FakeScheduler) Advance(d time.Duration) {
	target := s.now.Add(d)
	for {
		t := s.nextDue(target)
		if t == nil {
			break
		}
		s.now = t.at
		if t.period > 0 {
			t.at = t.at.Add(t.period)
		} else {
			t.active = false
		}
		s.Post(t.run)
		s.Flush()
	}
	s.now = target
	s.prune()
	s.Flush()
}

func (s *FakeScheduler) nextDue(target time.Time) *fakeTimer {
	var due []*fakeTimer
	for _, t := range s.timers {
		if t.active && !t.at.After(target) {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].at.Equal(due[j].at) {
			return due[i].seq < due[j].seq
		}
		return due[i].at.Before(due[j].at)
	})
	return due[0]
}

func (s *FakeScheduler) prune() {
	kept := s.timers[:0]
	for _, t := range s.timers {
		if t.active {
			kept = append(kept, t)
		}
	}
	s.timers = kept
}

// CompleteNext runs the oldest pending job and its continuation, then
// flushes. It reports whether a job was pending.
func (s *FakeScheduler) CompleteNext() bool {
	if len(s.jobs) == 0 {
		return false
	}
	work := s.jobs[0]
	s.jobs = s.jobs[1:]
	if done := work(context.Background()); done != nil {
		s.Post(done)
	}
	s.Flush()
	return true
}

// CompleteAll runs pending jobs until none remain, including jobs started by
// continuations.
func (s *FakeScheduler) CompleteAll() {
	for s.CompleteNext() {
	}
}

// InFlight returns the number of jobs submitted but not completed.
func (s *FakeScheduler) InFlight() int {
	return len(s.jobs)
}

// ActiveTimers returns the number of armed timers.
func (s *FakeScheduler) ActiveTimers() int {
	n := 0
	for _, t := range s.timers {
		if t.active {
			n++
		}
	}
	return n
}

type fakeTimer struct {
	at       time.Time
	period   time.Duration
	fn       func()
	active   bool
	canceled bool
	seq      int
}

func (t *fakeTimer) run() {
	if t.canceled {
		return
	}
	t.fn()
}

func (t *fakeTimer) Stop() bool {
	wasActive := t.active
	t.active = false
	t.canceled = true
	return wasActive
}
