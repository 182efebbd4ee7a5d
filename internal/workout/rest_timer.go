package workout

import (
	"context"
	"sync"
	"time"
)

// RestTimer counts a rest period down once per tick. Starting it again
// replaces the running countdown; nothing about it is persisted.
type RestTimer struct {
	tick   time.Duration
	onTick func(remaining int)

	ctl sync.Mutex // serializes Start and Stop

	mu        sync.Mutex
	remaining int
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewRestTimer builds a timer; a zero tick means one second. onTick, if set,
// is called from the timer goroutine after every tick and must not call back
// into the timer.
func NewRestTimer(tick time.Duration, onTick func(remaining int)) *RestTimer {
	if tick <= 0 {
		tick = time.Second
	}
	return &RestTimer{
		tick:   tick,
		onTick: onTick,
	}
}

func (t *RestTimer) Start(seconds int) {
	t.ctl.Lock()
	defer t.ctl.Unlock()

	t.stop()
	if seconds <= 0 {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	t.mu.Lock()
	t.remaining = seconds
	t.cancel = cancel
	t.done = done
	t.mu.Unlock()

	go t.run(ctx, done)
}

// Skip ends the countdown early.
func (t *RestTimer) Skip() {
	t.Stop()
}

// Stop cancels the countdown and waits for its goroutine to exit.
func (t *RestTimer) Stop() {
	t.ctl.Lock()
	defer t.ctl.Unlock()
	t.stop()
}

func (t *RestTimer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

func (t *RestTimer) Running() bool {
	return t.Remaining() > 0
}

func (t *RestTimer) stop() {
	t.mu.Lock()
	if t.cancel != nil {
		t.cancel()
	}
	done := t.done
	t.cancel, t.done = nil, nil
	t.remaining = 0
	t.mu.Unlock()

	if done != nil {
		<-done
	}
}

func (t *RestTimer) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(t.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.mu.Lock()
			if ctx.Err() != nil {
				t.mu.Unlock()
				return
			}
			t.remaining--
			remaining := t.remaining
			t.mu.Unlock()

			if t.onTick != nil {
				t.onTick(remaining)
			}
			if remaining <= 0 {
				return
			}
		}
	}
}
