package pipeline

import (
	"sync"
	"time"

	"github.com/ainize-bot/crowdy/pkg/geomath"
)

// DefaultDebounce is how long the viewport must stay still after a user move
// before a refetch fires.
const DefaultDebounce = 3 * time.Second

// ViewportState describes what the sync last observed.
type ViewportState int

const (
	// Idle: no move seen yet, or the last debounce already fired.
	Idle ViewportState = iota
	// ProgrammaticMove: the last event came from the system's own fly-to or
	// fit-bounds; it updated the tracked center but scheduled nothing.
	ProgrammaticMove
	// UserMoved: a genuine user pan/zoom settled and the debounce is armed.
	UserMoved
)

// ViewportSync keeps the results pipeline in step with a continuously moving
// map viewport. User-originated move events (re)arm a trailing-edge debounce
// timer; only the last event of a burst triggers the settle callback, with
// the center it carried. Programmatic moves are tracked but never trigger.
type ViewportSync struct {
	mu        sync.Mutex
	delay     time.Duration
	onSettle  func(geomath.Point)
	timer     *time.Timer
	center    geomath.Point
	hasCenter bool
	state     ViewportState
	stopped   bool
}

// NewViewportSync wires a settle callback. The callback runs on the timer
// goroutine; it is expected to update the query context's origin and kick
// off an aggregation cycle.
func NewViewportSync(delay time.Duration, onSettle func(geomath.Point)) *ViewportSync {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &ViewportSync{delay: delay, onSettle: onSettle}
}

// MoveEnd records a completed viewport move. programmatic marks moves the
// system itself requested (fly-to, fit-bounds); those never schedule a
// refetch. A user move replaces any pending timer, discarding — not
// queueing — the superseded invocation.
func (v *ViewportSync) MoveEnd(center geomath.Point, programmatic bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.stopped {
		return
	}

	v.center = center
	v.hasCenter = true

	if programmatic {
		v.state = ProgrammaticMove
		return
	}

	v.state = UserMoved
	if v.timer != nil {
		v.timer.Stop()
	}
	v.timer = time.AfterFunc(v.delay, v.fire)
}

func (v *ViewportSync) fire() {
	v.mu.Lock()
	if v.stopped {
		v.mu.Unlock()
		return
	}
	center := v.center
	v.timer = nil
	v.state = Idle
	cb := v.onSettle
	v.mu.Unlock()

	if cb != nil {
		cb(center)
	}
}

// Center returns the most recently observed viewport center, from either
// kind of move.
func (v *ViewportSync) Center() (geomath.Point, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.center, v.hasCenter
}

// State returns the current machine state.
func (v *ViewportSync) State() ViewportState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Stop cancels any pending debounce and ignores all further events.
func (v *ViewportSync) Stop() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.stopped = true
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}
}
