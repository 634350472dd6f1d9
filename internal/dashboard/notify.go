package dashboard

import (
	"fmt"
	"time"

	"github.com/rileyhilliard/statgrid/internal/schedule"
)

// Level is the severity of a notification.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// How long a notification stays on the status line.
const (
	NotificationTTL      = 5 * time.Second
	ErrorNotificationTTL = 15 * time.Second
)

// Notification is a transient status line message.
type Notification struct {
	Level   Level
	Message string
	At      time.Time
}

// notifier holds the current notification and expires it.
type notifier struct {
	sched   schedule.Scheduler
	current *Notification
	timer   schedule.Timer
}

func (n *notifier) post(level Level, format string, args ...any) *Notification {
	note := &Notification{
		Level:   level,
		Message: fmt.Sprintf(format, args...),
		At:      n.sched.Now(),
	}
	n.current = note

	if n.timer != nil {
		n.timer.Stop()
	}
	ttl := NotificationTTL
	if level == LevelError {
		ttl = ErrorNotificationTTL
	}
	n.timer = n.sched.AfterFunc(ttl, func() {
		if n.current == note {
			n.current = nil
		}
	})
	return note
}

func (n *notifier) dismiss() {
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.current = nil
}
