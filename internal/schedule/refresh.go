package schedule

import "time"

// DefaultDebounce is the trailing delay used to coalesce refresh triggers.
const DefaultDebounce = 500 * time.Millisecond

// Repeater runs a callback at a fixed interval on a Scheduler.
type Repeater struct {
	sched    Scheduler
	fn       func()
	timer    Timer
	interval time.Duration
}

// NewRepeater creates a stopped repeater.
func NewRepeater(s Scheduler, fn func()) *Repeater {
	return &Repeater{sched: s, fn: fn}
}

// Start arms the repeater unless it is already running. A non-positive
// interval leaves it stopped.
func (r *Repeater) Start(interval time.Duration) {
	if r.timer != nil {
		return
	}
	r.interval = interval
	if interval <= 0 {
		return
	}
	r.timer = r.sched.Every(interval, r.fn)
}

// Restart stops the repeater and starts it again from zero elapsed.
func (r *Repeater) Restart(interval time.Duration) {
	r.Stop()
	r.Start(interval)
}

// Stop cancels the repeater. It is safe to call on a stopped repeater.
func (r *Repeater) Stop() {
	if r.timer == nil {
		return
	}
	r.timer.Stop()
	r.timer = nil
}

// Active reports whether a timer is armed.
func (r *Repeater) Active() bool {
	return r.timer != nil
}

// Interval returns the interval of the last Start.
func (r *Repeater) Interval() time.Duration {
	return r.interval
}

// Debouncer delays a callback until calls stop arriving for a fixed delay.
// Only the trailing call runs.
type Debouncer struct {
	sched Scheduler
	delay time.Duration
	fn    func()
	timer Timer
}

// NewDebouncer wraps fn. A non-positive delay uses DefaultDebounce.
func NewDebouncer(s Scheduler, delay time.Duration, fn func()) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{sched: s, delay: delay, fn: fn}
}

// Call (re)arms the trailing timer.
func (d *Debouncer) Call() {
	d.Cancel()
	d.timer = d.sched.AfterFunc(d.delay, func() {
		d.timer = nil
		d.fn()
	})
}

// Cancel drops a pending call.
func (d *Debouncer) Cancel() {
	if d.timer == nil {
		return
	}
	d.timer.Stop()
	d.timer = nil
}

// Pending reports whether a call is waiting to run.
func (d *Debouncer) Pending() bool {
	return d.timer != nil
}
