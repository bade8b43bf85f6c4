package timer

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// Action receives the property ids that are due.
type Action func(props []int32)

type event struct {
	interval time.Duration
	next     time.Time
}

// Timer schedules recurrent events keyed by property id.
type Timer struct {
	mu     sync.Mutex
	events map[int32]*event
	action Action

	// wake interrupts the sleeping loop after the schedule changed.
	wake chan struct{}

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running atomic.Bool

	now func() time.Time
}

// New creates a timer that calls action for due events. Call Start to
// begin scheduling.
func New(action Action) *Timer {
	return &Timer{
		events: make(map[int32]*event),
		action: action,
		wake:   make(chan struct{}, 1),
		now:    time.Now,
	}
}

// RegisterRecurrentEvent schedules prop every interval, replacing any
// existing registration. Non-positive intervals are ignored.
func (t *Timer) RegisterRecurrentEvent(interval time.Duration, prop int32) {
	if interval <= 0 {
		return
	}

	t.mu.Lock()
	t.events[prop] = &event{
		interval: interval,
		next:     t.now().Add(interval),
	}
	t.mu.Unlock()

	t.poke()
}

// UnregisterRecurrentEvent removes prop from the schedule. It is a no-op if
// prop was never registered.
func (t *Timer) UnregisterRecurrentEvent(prop int32) {
	t.mu.Lock()
	_, exists := t.events[prop]
	delete(t.events, prop)
	t.mu.Unlock()

	if exists {
		t.poke()
	}
}

// Interval returns the registered interval of prop.
func (t *Timer) Interval(prop int32) (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	ev, ok := t.events[prop]
	if !ok {
		return 0, false
	}
	return ev.interval, true
}

// Count returns the number of registered events.
func (t *Timer) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.events)
}

// Start begins background scheduling.
func (t *Timer) Start() {
	if t.running.Swap(true) {
		return
	}

	t.ctx, t.cancel = context.WithCancel(context.Background())
	t.wg.Add(1)
	go t.loop()
}

// Stop ends background scheduling and waits for an in-flight action to
// return. Registrations are kept.
func (t *Timer) Stop() {
	if !t.running.Swap(false) {
		return
	}

	t.cancel()
	t.wg.Wait()
}

func (t *Timer) poke() {
	select {
	case t.wake <- struct{}{}:
	default:
	}
}

func (t *Timer) loop() {
	defer t.wg.Done()

	sleep := time.NewTimer(time.Hour)
	defer sleep.Stop()

	for {
		due, wait := t.collect()
		if len(due) > 0 && t.action != nil {
			t.action(due)
		}

		sleep.Reset(wait)
		select {
		case <-t.ctx.Done():
			return
		case <-t.wake:
		case <-sleep.C:
		}
	}
}

// collect returns the due cookies and the time until the next deadline.
func (t *Timer) collect() ([]int32, time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	var due []int32
	wait := time.Hour

	for prop, ev := range t.events {
		if !ev.next.After(now) {
			due = append(due, prop)
			missed := now.Sub(ev.next) / ev.interval
			ev.next = ev.next.Add((missed + 1) * ev.interval)
		}
		if d := ev.next.Sub(now); d < wait {
			wait = d
		}
	}

	slices.Sort(due)
	return due, wait
}
