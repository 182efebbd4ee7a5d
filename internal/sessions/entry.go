package sessions

import (
	"sync"
	"time"

	"github.com/2beens/liftlog/internal/workout"
)

type EventType string

const (
	EventSnapshot    EventType = "snapshot"
	EventRestStarted EventType = "rest_started"
	EventRestTick    EventType = "rest_tick"
	EventRestDone    EventType = "rest_done"
	EventRestSkipped EventType = "rest_skipped"
)

// Event is pushed to the live stream of an open workout.
type Event struct {
	Type       EventType         `json:"type"`
	ExerciseID string            `json:"exerciseId,omitempty"`
	Remaining  int               `json:"remaining"`
	Snapshot   *workout.Snapshot `json:"snapshot,omitempty"`
}

// Entry is one open workout: its controller, rest countdown and live subscribers.
type Entry struct {
	Controller *workout.Controller
	timer      *workout.RestTimer

	mu          sync.Mutex
	subscribers map[chan Event]struct{}
	lastUsed    time.Time
	restFor     string
	closed      bool
}

// Subscribe registers a live event stream. The returned func unsubscribes;
// the channel is closed when the entry shuts down.
func (e *Entry) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuf)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		close(ch)
		return ch, func() {}
	}
	e.subscribers[ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			if _, ok := e.subscribers[ch]; ok {
				delete(e.subscribers, ch)
				close(ch)
			}
		})
	}
}

// Notify pushes the current snapshot to subscribers.
func (e *Entry) Notify() {
	e.publish(Event{Type: EventSnapshot, Snapshot: snapshotPtr(e.Controller.Snapshot())})
}

func (e *Entry) RestRemaining() int {
	return e.timer.Remaining()
}

// SkipRest ends the running rest countdown, if any.
func (e *Entry) SkipRest() bool {
	if !e.timer.Running() {
		return false
	}
	e.timer.Skip()

	e.mu.Lock()
	exerciseID := e.restFor
	e.mu.Unlock()
	e.publish(Event{Type: EventRestSkipped, ExerciseID: exerciseID})
	return true
}

func (e *Entry) startRest(sig workout.RestSignal) {
	e.mu.Lock()
	e.restFor = sig.ExerciseID
	e.mu.Unlock()

	e.publish(Event{Type: EventRestStarted, ExerciseID: sig.ExerciseID, Remaining: sig.Seconds})
	e.timer.Start(sig.Seconds)
}

func (e *Entry) onTick(remaining int) {
	e.mu.Lock()
	exerciseID := e.restFor
	e.mu.Unlock()

	evType := EventRestTick
	if remaining <= 0 {
		evType = EventRestDone
	}
	e.publish(Event{Type: evType, ExerciseID: exerciseID, Remaining: remaining})
}

// publish never blocks: a subscriber with a full buffer misses the event.
func (e *Entry) publish(ev Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for ch := range e.subscribers {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (e *Entry) touch(now time.Time) {
	e.mu.Lock()
	e.lastUsed = now
	e.mu.Unlock()
}

func (e *Entry) lastUsedAt() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastUsed
}

func (e *Entry) shutdown() {
	e.timer.Stop()

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	for ch := range e.subscribers {
		delete(e.subscribers, ch)
		close(ch)
	}
}

func snapshotPtr(s workout.Snapshot) *workout.Snapshot {
	return &s
}
