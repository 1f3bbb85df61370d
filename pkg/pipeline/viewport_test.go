package pipeline

import (
	"sync"
	"testing"
	"time"

	"github.com/ainize-bot/crowdy/pkg/geomath"
)

// settleRecorder collects settle callbacks.
type settleRecorder struct {
	mu      sync.Mutex
	centers []geomath.Point
}

func (r *settleRecorder) record(p geomath.Point) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.centers = append(r.centers, p)
}

func (r *settleRecorder) snapshot() []geomath.Point {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]geomath.Point, len(r.centers))
	copy(out, r.centers)
	return out
}

func TestViewportSync_BurstFiresOnceWithLastCenter(t *testing.T) {
	rec := &settleRecorder{}
	v := NewViewportSync(40*time.Millisecond, rec.record)
	defer v.Stop()

	// A burst of user moves inside the debounce window.
	for i := 0; i < 5; i++ {
		v.MoveEnd(geomath.Point{Lat: 1.3, Lng: 103.8 + float64(i)/100}, false)
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(150 * time.Millisecond)

	got := rec.snapshot()
	if len(got) != 1 {
		t.Fatalf("a burst of 5 moves must produce exactly 1 settle, got %d", len(got))
	}
	if got[0].Lng != 103.84 {
		t.Errorf("settle must carry the center of the last event, got %+v", got[0])
	}
	if v.State() != Idle {
		t.Errorf("state should return to Idle after firing, got %v", v.State())
	}
}

func TestViewportSync_ProgrammaticMovesNeverSchedule(t *testing.T) {
	rec := &settleRecorder{}
	v := NewViewportSync(30*time.Millisecond, rec.record)
	defer v.Stop()

	v.MoveEnd(geomath.Point{Lat: 1.31, Lng: 103.81}, true)
	v.MoveEnd(geomath.Point{Lat: 1.32, Lng: 103.82}, true)

	time.Sleep(100 * time.Millisecond)

	if len(rec.snapshot()) != 0 {
		t.Fatal("programmatic moves must not trigger a refetch")
	}
	if v.State() != ProgrammaticMove {
		t.Errorf("expected ProgrammaticMove state, got %v", v.State())
	}

	// The tracked center still follows programmatic moves.
	center, ok := v.Center()
	if !ok || center.Lng != 103.82 {
		t.Errorf("center must track programmatic moves, got %+v (ok=%v)", center, ok)
	}
}

func TestViewportSync_NewMoveDiscardsPendingInvocation(t *testing.T) {
	rec := &settleRecorder{}
	v := NewViewportSync(50*time.Millisecond, rec.record)
	defer v.Stop()

	v.MoveEnd(geomath.Point{Lat: 1.30, Lng: 103.80}, false)
	time.Sleep(30 * time.Millisecond)
	// Second move before the first timer fires: the pending invocation is
	// discarded entirely, not queued behind the new one.
	v.MoveEnd(geomath.Point{Lat: 1.35, Lng: 103.85}, false)

	time.Sleep(120 * time.Millisecond)

	got := rec.snapshot()
	if len(got) != 1 {
		t.Fatalf("expected a single settle, got %d", len(got))
	}
	if got[0].Lat != 1.35 {
		t.Errorf("expected only the newest center to settle, got %+v", got[0])
	}
}

func TestViewportSync_SeparateBurstsFireSeparately(t *testing.T) {
	rec := &settleRecorder{}
	v := NewViewportSync(20*time.Millisecond, rec.record)
	defer v.Stop()

	v.MoveEnd(geomath.Point{Lat: 1.1, Lng: 103.1}, false)
	time.Sleep(60 * time.Millisecond)
	v.MoveEnd(geomath.Point{Lat: 1.2, Lng: 103.2}, false)
	time.Sleep(60 * time.Millisecond)

	if got := rec.snapshot(); len(got) != 2 {
		t.Errorf("two settled moves outside the window must both fire, got %d", len(got))
	}
}

func TestViewportSync_StopCancelsPending(t *testing.T) {
	rec := &settleRecorder{}
	v := NewViewportSync(30*time.Millisecond, rec.record)

	v.MoveEnd(geomath.Point{Lat: 1.3, Lng: 103.8}, false)
	v.Stop()

	time.Sleep(80 * time.Millisecond)

	if len(rec.snapshot()) != 0 {
		t.Error("Stop must cancel the pending settle")
	}

	// Events after Stop are ignored.
	v.MoveEnd(geomath.Point{Lat: 1.4, Lng: 103.9}, false)
	time.Sleep(60 * time.Millisecond)
	if len(rec.snapshot()) != 0 {
		t.Error("moves after Stop must be ignored")
	}
}
