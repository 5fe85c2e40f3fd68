// Package syncview keeps several viewport instances in step when studies
// are compared side by side. Propagation is single-source: only changes
// originating from the focused viewport fan out, so updates the coordinator
// applies to peers can never re-trigger it.
package syncview

import (
	"radview/internal/viewport"
)

// Mask selects which state properties propagate to peer viewports. It is
// shared configuration, not per-viewport state.
type Mask struct {
	Zoom        bool `json:"zoom"`
	Pan         bool `json:"pan"`
	WindowLevel bool `json:"window_level"`
	Rotation    bool `json:"rotation"`
}

// DefaultMask syncs zoom, pan and window level. Rotation stays off unless
// explicitly opted in: differently-acquired views are rarely rotationally
// comparable.
func DefaultMask() Mask {
	return Mask{Zoom: true, Pan: true, WindowLevel: true}
}

// Coordinator fans the focused viewport's state changes out to its peers.
// It holds ids and the mask; it never owns viewport state and never touches
// a session.
type Coordinator struct {
	instances map[string]*viewport.Instance
	order     []string
	focusedID string
	mask      Mask
}

// NewCoordinator creates a coordinator with the given mask.
func NewCoordinator(mask Mask) *Coordinator {
	return &Coordinator{
		instances: make(map[string]*viewport.Instance),
		mask:      mask,
	}
}

// Register adds an instance and subscribes to its change events. The first
// registered instance becomes focused.
func (c *Coordinator) Register(in *viewport.Instance) {
	id := in.ID()
	if _, exists := c.instances[id]; exists {
		return
	}
	c.instances[id] = in
	c.order = append(c.order, id)
	if c.focusedID == "" {
		c.focusedID = id
	}
	in.OnChange(c.handleChange)
}

// Unregister removes an instance by id. Its change subscription becomes a
// no-op. Focus moves to the first remaining instance when the focused one
// is removed.
func (c *Coordinator) Unregister(id string) {
	if _, exists := c.instances[id]; !exists {
		return
	}
	delete(c.instances, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	if c.focusedID == id {
		c.focusedID = ""
		if len(c.order) > 0 {
			c.focusedID = c.order[0]
		}
	}
}

// SetFocused marks the viewport currently receiving pointer focus. Only its
// changes propagate.
func (c *Coordinator) SetFocused(id string) {
	if _, exists := c.instances[id]; exists {
		c.focusedID = id
	}
}

// Focused returns the focused viewport id.
func (c *Coordinator) Focused() string {
	return c.focusedID
}

// SetMask replaces the sync mask.
func (c *Coordinator) SetMask(mask Mask) {
	c.mask = mask
}

// Mask returns the current sync mask.
func (c *Coordinator) Mask() Mask {
	return c.mask
}

// handleChange receives every registered instance's change events. Events
// from peers (including the ones this coordinator caused by writing to
// them) carry a non-focused source id and are dropped here, which is the
// loop-prevention invariant.
func (c *Coordinator) handleChange(sourceID string, s viewport.State) {
	if sourceID != c.focusedID {
		return
	}

	for _, id := range c.order {
		if id == sourceID {
			continue
		}
		peer := c.instances[id]
		if c.mask.Zoom {
			peer.SetScale(s.Scale)
		}
		if c.mask.Pan {
			peer.SetPan(s.OffsetX, s.OffsetY)
		}
		if c.mask.WindowLevel {
			peer.SetWindowLevel(s.WindowCenter, s.WindowWidth)
		}
		if c.mask.Rotation {
			peer.SetRotation(s.RotationDeg)
		}
	}
}
