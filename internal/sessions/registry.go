package sessions

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/liftlog/internal/telemetry/metrics"
	"github.com/2beens/liftlog/internal/workout"

	log "github.com/sirupsen/logrus"
)

const (
	defaultRestTick = time.Second
	subscriberBuf   = 16
)

type key struct {
	userID     string
	templateID string
}

// Registry holds one workout controller per (user, template) pair.
type Registry struct {
	templates workout.TemplateStore
	records   workout.RecordStore
	sink      workout.EventSink
	metrics   *metrics.Manager
	now       func() time.Time
	restTick  time.Duration

	mu      sync.Mutex
	entries map[key]*Entry
}

type RegistryOption func(*Registry)

func WithRestTick(d time.Duration) RegistryOption {
	return func(r *Registry) {
		r.restTick = d
	}
}

func WithNow(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		r.now = now
	}
}

func WithEventSink(sink workout.EventSink) RegistryOption {
	return func(r *Registry) {
		r.sink = sink
	}
}

func NewRegistry(
	templates workout.TemplateStore,
	records workout.RecordStore,
	metricsManager *metrics.Manager,
	opts ...RegistryOption,
) *Registry {
	r := &Registry{
		templates: templates,
		records:   records,
		metrics:   metricsManager,
		now:       time.Now,
		restTick:  defaultRestTick,
		entries:   make(map[key]*Entry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Open (re)initializes the workout of the user for the template: a reload
// recovers the in-progress session from the store and drops in-memory
// presentation state.
func (r *Registry) Open(ctx context.Context, userID, templateID string) (*Entry, error) {
	if userID == "" {
		return nil, &workout.Error{Kind: workout.ErrAuthRequired, Op: "open workout"}
	}

	k := key{userID: userID, templateID: templateID}
	r.mu.Lock()
	entry, existed := r.entries[k]
	if !existed {
		entry = r.newEntry()
		r.entries[k] = entry
		r.updateGauge()
	}
	entry.touch(r.now())
	r.mu.Unlock()

	entry.timer.Stop()
	if err := entry.Controller.Initialize(ctx, templateID, userID); err != nil {
		if !existed {
			r.remove(k, entry)
		}
		return nil, err
	}
	entry.publish(Event{Type: EventSnapshot, Snapshot: snapshotPtr(entry.Controller.Snapshot())})
	return entry, nil
}

// Lookup returns the open workout of the user for the template.
func (r *Registry) Lookup(userID, templateID string) (*Entry, error) {
	if userID == "" {
		return nil, &workout.Error{Kind: workout.ErrAuthRequired, Op: "lookup workout"}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[key{userID: userID, templateID: templateID}]
	if !ok {
		return nil, &workout.Error{
			Kind: workout.ErrNotActive,
			Op:   "lookup workout",
			Err:  fmt.Errorf("no open workout for template %s", templateID),
		}
	}
	entry.touch(r.now())
	return entry, nil
}

// Close drops the workout from memory. Persisted state is untouched.
func (r *Registry) Close(userID, templateID string) bool {
	k := key{userID: userID, templateID: templateID}
	r.mu.Lock()
	entry, ok := r.entries[k]
	r.mu.Unlock()
	if !ok {
		return false
	}
	r.remove(k, entry)
	return true
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep drops workouts not used for longer than maxIdle and returns how many were dropped.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)

	r.mu.Lock()
	var stale []*Entry
	for k, entry := range r.entries {
		if entry.lastUsedAt().Before(cutoff) {
			stale = append(stale, entry)
			delete(r.entries, k)
		}
	}
	r.updateGauge()
	r.mu.Unlock()

	for _, entry := range stale {
		entry.shutdown()
	}
	if len(stale) > 0 {
		log.Debugf("sessions registry: swept %d idle workouts", len(stale))
	}
	return len(stale)
}

// RunCleanup sweeps idle workouts every interval until ctx is done.
func (r *Registry) RunCleanup(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(maxIdle)
		}
	}
}

// Shutdown stops every rest timer and closes all event streams.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[key]*Entry)
	r.updateGauge()
	r.mu.Unlock()

	for _, entry := range entries {
		entry.shutdown()
	}
}

func (r *Registry) newEntry() *Entry {
	entry := &Entry{
		subscribers: make(map[chan Event]struct{}),
	}
	entry.timer = workout.NewRestTimer(r.restTick, entry.onTick)

	opts := []workout.Option{
		workout.WithClock(r.now),
		workout.WithRestListener(func(sig workout.RestSignal) {
			if r.metrics != nil {
				r.metrics.CounterRestTimersStarted.Inc()
			}
			entry.startRest(sig)
		}),
	}
	if r.sink != nil || r.metrics != nil {
		opts = append(opts, workout.WithEventSink(&metricsSink{next: r.sink, metrics: r.metrics}))
	}
	entry.Controller = workout.NewController(r.templates, r.records, opts...)
	return entry
}

func (r *Registry) remove(k key, entry *Entry) {
	r.mu.Lock()
	if current, ok := r.entries[k]; ok && current == entry {
		delete(r.entries, k)
	}
	r.updateGauge()
	r.mu.Unlock()
	entry.shutdown()
}

// updateGauge expects r.mu to be held.
func (r *Registry) updateGauge() {
	if r.metrics != nil {
		r.metrics.GaugeActiveSessions.Set(float64(len(r.entries)))
	}
}

// metricsSink counts session lifecycle events before passing them on.
type metricsSink struct {
	next    workout.EventSink
	metrics *metrics.Manager
}

func (s *metricsSink) SessionStarted(ctx context.Context, session workout.Session) {
	if s.metrics != nil {
		s.metrics.CounterSessionsCreated.Inc()
	}
	if s.next != nil {
		s.next.SessionStarted(ctx, session)
	}
}

func (s *metricsSink) SessionFinished(ctx context.Context, session workout.Session) {
	if s.metrics != nil {
		s.metrics.CounterSessionsFinished.Inc()
		if at, ok := session.Completion.At(); ok {
			s.metrics.HistSessionDuration.Observe(at.Sub(session.StartedAt).Seconds())
		}
	}
	if s.next != nil {
		s.next.SessionFinished(ctx, session)
	}
}
