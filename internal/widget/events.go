package widget

import "github.com/rileyhilliard/statgrid/internal/timerange"

// EventZoom is emitted when the user pans or zooms a widget.
const EventZoom = "zoom"

// Event is delivered to listeners. Range is nil when the zoom was reset.
type Event struct {
	Name   string
	Source *Controller
	Range  *timerange.Range
}

// Listener receives events.
type Listener func(Event)

// ListenerID identifies a registration for removal.
type ListenerID int

type registration struct {
	id ListenerID
	fn Listener
}

// Listeners is a synchronous pub/sub registry keyed by event name.
type Listeners struct {
	next ListenerID
	regs map[string][]registration
}

// Add registers fn for name.
func (l *Listeners) Add(name string, fn Listener) ListenerID {
	if l.regs == nil {
		l.regs = make(map[string][]registration)
	}
	l.next++
	l.regs[name] = append(l.regs[name], registration{id: l.next, fn: fn})
	return l.next
}

// Remove unregisters id. It reports whether the listener was found.
func (l *Listeners) Remove(name string, id ListenerID) bool {
	regs := l.regs[name]
	for i, r := range regs {
		if r.id == id {
			l.regs[name] = append(regs[:i:i], regs[i+1:]...)
			return true
		}
	}
	return false
}

// Notify calls the listeners of e.Name in registration order. Listeners
// added or removed during Notify take effect on the next call.
func (l *Listeners) Notify(e Event) {
	regs := append([]registration(nil), l.regs[e.Name]...)
	for _, r := range regs {
		r.fn(e)
	}
}

// Len returns the number of listeners for name.
func (l *Listeners) Len(name string) int {
	return len(l.regs[name])
}

// Clear drops every listener.
func (l *Listeners) Clear() {
	l.regs = nil
}
