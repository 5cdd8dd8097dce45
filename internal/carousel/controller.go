package carousel

import "sync"

// Controller tracks the selected slide of a gallery. The index starts at 0 and follows
// the handle's select events; navigation past either end is ignored.
type Controller struct {
	mu      sync.Mutex
	handle  Handle
	index   int
	release func()
}

// NewController attaches to h. A nil handle yields a controller whose navigation is a no-op.
func NewController(h Handle) *Controller {
	c := &Controller{handle: h}
	if h != nil {
		c.release = h.Subscribe(EventSelect, c.onSelect)
		c.sync(h)
	}
	return c
}

func (c *Controller) onSelect(h Handle) { c.sync(h) }

func (c *Controller) sync(h Handle) {
	idx := h.SelectedSnap()
	c.mu.Lock()
	c.index = idx
	c.mu.Unlock()
}

// Index returns the selected slide.
func (c *Controller) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// Count returns the number of slides, or zero when no handle is attached.
func (c *Controller) Count() int {
	if c.handle == nil {
		return 0
	}
	return c.handle.SnapCount()
}

// CanGoPrevious reports whether a previous slide exists.
func (c *Controller) CanGoPrevious() bool {
	return c.handle != nil && c.Index() > 0
}

// CanGoNext reports whether a next slide exists.
func (c *Controller) CanGoNext() bool {
	return c.handle != nil && c.Index() < c.Count()-1
}

// Previous moves one slide back unless already on the first.
func (c *Controller) Previous() {
	if !c.CanGoPrevious() {
		return
	}
	c.handle.ScrollPrev()
}

// Next moves one slide forward unless already on the last.
func (c *Controller) Next() {
	if !c.CanGoNext() {
		return
	}
	c.handle.ScrollNext()
}

// GoTo jumps to slide i. The handle clamps out-of-range targets.
func (c *Controller) GoTo(i int) {
	if c.handle == nil {
		return
	}
	c.handle.ScrollTo(i)
	c.sync(c.handle)
}

// Close detaches from the handle. Later calls are no-ops.
func (c *Controller) Close() {
	c.mu.Lock()
	release := c.release
	c.release = nil
	c.mu.Unlock()
	if release != nil {
		release()
	}
}

// ScrollState mirrors whether a multi-slide strip can scroll in either direction.
type ScrollState struct {
	mu       sync.Mutex
	prev     bool
	next     bool
	releases []func()
}

// NewScrollState attaches to h and reads the initial state. A nil handle leaves both
// directions disabled.
func NewScrollState(h Handle) *ScrollState {
	s := &ScrollState{}
	if h == nil {
		return s
	}
	s.releases = []func(){
		h.Subscribe(EventScroll, s.update),
		h.Subscribe(EventReInit, s.update),
	}
	s.update(h)
	return s
}

func (s *ScrollState) update(h Handle) {
	prev, next := h.CanScrollPrev(), h.CanScrollNext()
	s.mu.Lock()
	s.prev, s.next = prev, next
	s.mu.Unlock()
}

// CanScrollPrev reports the last observed backward availability.
func (s *ScrollState) CanScrollPrev() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prev
}

// CanScrollNext reports the last observed forward availability.
func (s *ScrollState) CanScrollNext() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}

// Close releases both subscriptions. Later calls are no-ops.
func (s *ScrollState) Close() {
	s.mu.Lock()
	releases := s.releases
	s.releases = nil
	s.mu.Unlock()
	for _, release := range releases {
		release()
	}
}
