// Package carousel models a snapping slide track and the two controllers the
// storefront drives over it: the product image gallery and the category picker.
package carousel

import (
	"slices"
	"sync"
)

// Event names a notification emitted by a Handle.
type Event string

const (
	// EventSelect fires after the selected snap changes.
	EventSelect Event = "select"
	// EventScroll fires whenever the track position moves.
	EventScroll Event = "scroll"
	// EventReInit fires after the track is rebuilt with new dimensions.
	EventReInit Event = "reInit"
)

// Listener receives events from the handle that emitted them.
type Listener func(Handle)

// Handle is the surface of a carousel engine consumed by the controllers.
type Handle interface {
	SelectedSnap() int
	SnapCount() int
	CanScrollPrev() bool
	CanScrollNext() bool
	ScrollTo(index int)
	ScrollPrev()
	ScrollNext()
	Subscribe(ev Event, fn Listener) (release func())
}

// Track is an in-memory Handle: a non-looping row of slides aligned to the start,
// showing perView slides at a time and snapping one slide per step.
type Track struct {
	mu        sync.Mutex
	count     int
	perView   int
	pos       int
	nextID    int
	listeners map[Event]map[int]Listener
}

// NewTrack builds a track over count slides with perView visible at once. The
// starting position is clamped into range.
func NewTrack(count, perView, start int) *Track {
	t := &Track{listeners: make(map[Event]map[int]Listener)}
	t.count, t.perView = normalise(count, perView)
	t.pos = clamp(start, 0, t.lastSnap())
	return t
}

func normalise(count, perView int) (int, int) {
	if count < 0 {
		count = 0
	}
	if perView < 1 {
		perView = 1
	}
	return count, perView
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// lastSnap is the highest reachable position. Caller holds mu or owns t exclusively.
func (t *Track) lastSnap() int {
	if t.count <= t.perView {
		return 0
	}
	return t.count - t.perView
}

// SelectedSnap returns the current snap index.
func (t *Track) SelectedSnap() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pos
}

// SnapCount returns the number of reachable snap points; zero for an empty track.
func (t *Track) SnapCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.count == 0 {
		return 0
	}
	return t.lastSnap() + 1
}

// CanScrollPrev reports whether the track can move backwards.
func (t *Track) CanScrollPrev() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pos > 0
}

// CanScrollNext reports whether the track can move forwards.
func (t *Track) CanScrollNext() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pos < t.lastSnap()
}

// Visible returns the half-open slide range [from, to) currently in view.
func (t *Track) Visible() (from, to int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	to = t.pos + t.perView
	if to > t.count {
		to = t.count
	}
	return t.pos, to
}

// ScrollTo moves to index, clamped into range. Listeners see scroll then select
// when the position changes.
func (t *Track) ScrollTo(index int) {
	t.mu.Lock()
	next := clamp(index, 0, t.lastSnap())
	moved := next != t.pos
	t.pos = next
	t.mu.Unlock()
	if moved {
		t.emit(EventScroll)
		t.emit(EventSelect)
	}
}

// ScrollPrev moves one snap backwards.
func (t *Track) ScrollPrev() { t.ScrollTo(t.SelectedSnap() - 1) }

// ScrollNext moves one snap forwards.
func (t *Track) ScrollNext() { t.ScrollTo(t.SelectedSnap() + 1) }

// ReInit resizes the track, keeps the position within the new range and fires reInit.
func (t *Track) ReInit(count, perView int) {
	t.mu.Lock()
	t.count, t.perView = normalise(count, perView)
	t.pos = clamp(t.pos, 0, t.lastSnap())
	t.mu.Unlock()
	t.emit(EventReInit)
}

// Subscribe registers fn for ev. The returned release func is safe to call more than once.
func (t *Track) Subscribe(ev Event, fn Listener) func() {
	if fn == nil {
		return func() {}
	}
	t.mu.Lock()
	id := t.nextID
	t.nextID++
	if t.listeners[ev] == nil {
		t.listeners[ev] = make(map[int]Listener)
	}
	t.listeners[ev][id] = fn
	t.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.listeners[ev], id)
			t.mu.Unlock()
		})
	}
}

// Listeners returns the number of active subscriptions for ev.
func (t *Track) Listeners(ev Event) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.listeners[ev])
}

// emit calls listeners in subscription order without holding mu, so listeners may
// query the track.
func (t *Track) emit(ev Event) {
	t.mu.Lock()
	ids := make([]int, 0, len(t.listeners[ev]))
	for id := range t.listeners[ev] {
		ids = append(ids, id)
	}
	fns := make([]Listener, 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		fns = append(fns, t.listeners[ev][id])
	}
	t.mu.Unlock()
	for _, fn := range fns {
		fn(t)
	}
}
