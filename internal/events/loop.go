// Package events runs the single goroutine on which all gallery state
// changes happen. Producers post events; the loop executes their handlers
// one at a time in the order they were posted.
package events

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrStopped is returned when posting to a loop that has been stopped.
var ErrStopped = errors.New("event loop stopped")

// Event is a unit of work for the loop.
type Event struct {
	ID      string
	Name    string
	Handler func()
}

// Loop is a FIFO event queue drained by one goroutine.
type Loop struct {
	mu      sync.Mutex
	queue   []Event
	stopped bool

	wake chan struct{}
	done chan struct{}
	log  *logrus.Entry
}

// NewLoop starts a loop.
func NewLoop() *Loop {
	l := &Loop{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
		log:  logrus.WithField("component", "events"),
	}
	go l.run()
	return l
}

// Post enqueues a named handler and returns the event id. It never waits
// for the handler to run.
func (l *Loop) Post(name string, handler func()) (string, error) {
	ev := Event{ID: uuid.New().String(), Name: name, Handler: handler}

	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return "", ErrStopped
	}
	l.queue = append(l.queue, ev)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return ev.ID, nil
}

// Call posts handler and waits until it has run.
func (l *Loop) Call(name string, handler func()) error {
	ran := make(chan struct{})
	if _, err := l.Post(name, func() {
		defer close(ran)
		handler()
	}); err != nil {
		return err
	}
	select {
	case <-ran:
		return nil
	case <-l.done:
		// Stop drains the queue, so the handler has run if it was accepted.
		select {
		case <-ran:
			return nil
		default:
			return ErrStopped
		}
	}
}

// Stop refuses new events, runs what is already queued and waits for the
// loop goroutine to exit. Calling it from a handler deadlocks.
func (l *Loop) Stop() {
	l.mu.Lock()
	if !l.stopped {
		l.stopped = true
		select {
		case l.wake <- struct{}{}:
		default:
		}
	}
	l.mu.Unlock()
	<-l.done
}

// Done is closed once the loop has exited.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) run() {
	defer close(l.done)
	for {
		batch, stopped := l.take()
		for _, ev := range batch {
			l.dispatch(ev)
		}
		if stopped && len(batch) == 0 {
			return
		}
		if len(batch) == 0 {
			<-l.wake
		}
	}
}

func (l *Loop) take() ([]Event, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	batch := l.queue
	l.queue = nil
	return batch, l.stopped
}

func (l *Loop) dispatch(ev Event) {
	log := l.log.WithFields(logrus.Fields{"event": ev.Name, "event_id": ev.ID})
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("Event handler panicked: %v", r)
		}
	}()
	log.Trace("Dispatching event")
	if ev.Handler != nil {
		ev.Handler()
	}
}
