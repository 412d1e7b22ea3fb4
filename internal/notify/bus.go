// Package notify carries transient user notifications (toasts) from the
// gallery to whatever renders them.
package notify

import (
	"time"

	"github.com/google/uuid"
	"github.com/olebedev/emitter"
	"github.com/sirupsen/logrus"
)

// TopicToast is the emitter topic toasts are published on.
const TopicToast = "toast"

// AutoClose is how long a toast stays visible.
const AutoClose = 1500 * time.Millisecond

const busCapacity = 64

// Level is the severity of a notification.
type Level int

const (
	Info Level = iota
	Success
	Error
)

func (l Level) String() string {
	switch l {
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// Notification is a single toast.
type Notification struct {
	ID        string
	Level     Level
	Message   string
	AutoClose time.Duration
	At        time.Time
}

// Publisher is the sending side of a Bus.
type Publisher interface {
	Publish(level Level, message string)
}

// Bus fans notifications out to subscribers.
type Bus struct {
	em  *emitter.Emitter
	log *logrus.Entry
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		em:  emitter.New(busCapacity),
		log: logrus.WithField("component", "notify"),
	}
}

// Publish delivers a notification to every subscriber. Notifications from a
// single publisher arrive in order.
func (b *Bus) Publish(level Level, message string) {
	n := Notification{
		ID:        uuid.New().String(),
		Level:     level,
		Message:   message,
		AutoClose: AutoClose,
		At:        time.Now(),
	}
	b.log.WithFields(logrus.Fields{"level": level.String(), "id": n.ID}).Debug(message)
	<-b.em.Emit(TopicToast, n)
}

// Subscribe calls fn for every notification published after it returns,
// on a goroutine owned by the subscription. The returned func unsubscribes.
func (b *Bus) Subscribe(fn func(Notification)) (cancel func()) {
	ch := b.em.On(TopicToast)
	go func() {
		for ev := range ch {
			if len(ev.Args) == 0 {
				continue
			}
			if n, ok := ev.Args[0].(Notification); ok {
				fn(n)
			}
		}
	}()
	return func() { b.em.Off(TopicToast, ch) }
}
