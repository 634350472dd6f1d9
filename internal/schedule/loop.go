package schedule

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// CallbackMsg carries a posted callback through the Bubble Tea program.
// The model's Update must call Run for every CallbackMsg it receives.
type CallbackMsg struct {
	fn func()
}

// Run executes the callback on the caller's goroutine.
func (m CallbackMsg) Run() {
	if m.fn != nil {
		m.fn()
	}
}

// Loop is the production Scheduler. Callbacks are delivered in post order as
// CallbackMsg through a send function, normally tea.Program.Send.
type Loop struct {
	mu     sync.Mutex
	queue  []func()
	closed bool
	wake   chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	work   sync.WaitGroup
	pump   sync.WaitGroup
}

// NewLoop creates a loop. Callbacks posted before Attach are buffered.
func NewLoop(ctx context.Context) *Loop {
	ctx, cancel := context.WithCancel(ctx)
	return &Loop{
		ctx:    ctx,
		cancel: cancel,
		wake:   make(chan struct{}, 1),
	}
}

// Attach starts delivering queued callbacks through send. Send may block
// until the program reads the message, so delivery happens on a dedicated
// goroutine and never on the loop itself.
func (l *Loop) Attach(send func(tea.Msg)) {
	l.pump.Add(1)
	go func() {
		defer l.pump.Done()
		for {
			select {
			case <-l.ctx.Done():
				return
			case <-l.wake:
			}

			l.mu.Lock()
			batch := l.queue
			l.queue = nil
			l.mu.Unlock()

			for _, fn := range batch {
				send(CallbackMsg{fn: fn})
			}
		}
	}()
	l.signal()
}

// Close cancels background work and drops later posts. It waits for running
// work and the delivery goroutine to return.
func (l *Loop) Close() {
	l.mu.Lock()
	l.closed = true
	l.queue = nil
	l.mu.Unlock()
	l.cancel()
	l.work.Wait()
	l.pump.Wait()
}

// Now returns the wall clock.
func (l *Loop) Now() time.Time {
	return time.Now()
}

// Post queues fn onto the loop.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()
	l.signal()
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Go runs work on its own goroutine.
func (l *Loop) Go(work Work) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.work.Add(1)
	l.mu.Unlock()

	go func() {
		defer l.work.Done()
		if done := work(l.ctx); done != nil {
			l.Post(done)
		}
	}()
}

// AfterFunc posts fn once after d.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	return l.newTimer(d, 0, fn)
}

// Every posts fn every d.
func (l *Loop) Every(d time.Duration, fn func()) Timer {
	return l.newTimer(d, d, fn)
}

func (l *Loop) newTimer(d, period time.Duration, fn func()) *loopTimer {
	t := &loopTimer{loop: l, period: period, fn: fn}
	t.mu.Lock()
	t.t = time.AfterFunc(d, t.fire)
	t.mu.Unlock()
	return t
}

type loopTimer struct {
	loop     *Loop
	period   time.Duration
	fn       func()
	canceled atomic.Bool
	ran      atomic.Bool

	mu sync.Mutex
	t  *time.Timer
}

func (t *loopTimer) fire() {
	if t.canceled.Load() {
		return
	}
	t.loop.Post(t.run)

	if t.period > 0 {
		t.mu.Lock()
		t.t.Reset(t.period)
		t.mu.Unlock()
	}
}

// run executes on the loop. Ticks queued before Stop are skipped here.
func (t *loopTimer) run() {
	if t.canceled.Load() {
		return
	}
	if t.period == 0 {
		t.ran.Store(true)
	}
	t.fn()
}

func (t *loopTimer) Stop() bool {
	wasActive := !t.canceled.Swap(true) && !t.ran.Load()
	t.mu.Lock()
	t.t.Stop()
	t.mu.Unlock()
	return wasActive
}
